package service

import (
	"context"
	"sync"

	"github.com/okian/teambadge/internal/adapters/mq/worker"
	"github.com/okian/teambadge/internal/domain/badge"
)

// batch collects worker results for one Classify call.
type batch struct {
	results   []badge.Assignment
	remaining int
	err       error
	done      chan struct{}
}

// batches tracks in-flight batches and is the worker pool's sink.
type batches struct {
	mu   sync.Mutex
	open map[string]*batch
}

var _ worker.Sink = (*batches)(nil)

func newBatches() *batches {
	return &batches{open: make(map[string]*batch)}
}

func (b *batches) register(id string, n int) *batch {
	bt := &batch{
		results:   make([]badge.Assignment, n),
		remaining: n,
		done:      make(chan struct{}),
	}
	b.mu.Lock()
	b.open[id] = bt
	b.mu.Unlock()
	return bt
}

// abandon drops the batch; completions that arrive later are ignored.
func (b *batches) abandon(id string) {
	b.mu.Lock()
	delete(b.open, id)
	b.mu.Unlock()
}

// Complete stores one job's result at its index and releases the waiter
// once every job of the batch has reported.
func (b *batches) Complete(_ context.Context, job worker.Job, a badge.Assignment, err error) { //nolint:gocritic // hugeParam: Job mirrors the queue payload
	b.mu.Lock()
	defer b.mu.Unlock()

	bt, ok := b.open[job.BatchID]
	if !ok || job.Index < 0 || job.Index >= len(bt.results) {
		return
	}
	bt.results[job.Index] = a
	if err != nil && bt.err == nil {
		bt.err = err
	}
	bt.remaining--
	if bt.remaining == 0 {
		delete(b.open, job.BatchID)
		close(bt.done)
	}
}

// failAll releases every waiter with err.
func (b *batches) failAll(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, bt := range b.open {
		bt.err = err
		close(bt.done)
		delete(b.open, id)
	}
}

func (b *batches) pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.open)
}
