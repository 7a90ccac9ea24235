// Package worker classifies queued jobs and reports each result to a Sink.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/model"
	"github.com/okian/teambadge/pkg/logger"
	"github.com/okian/teambadge/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Job is what workers read off the queue.
type Job = model.Job

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Sink receives the outcome of every job. err is non-nil when the job's
// ruleset could not be resolved.
type Sink interface {
	Complete(ctx context.Context, job Job, a badge.Assignment, err error)
}

// Worker processes jobs until its queue closes or it is shut down.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue  Queue
	sink   Sink
	name   string
	active *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		sink:     sink,
		name:     "worker",
		active:   new(atomic.Int64),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	marker, _ := w.queue.(interface{ MarkDequeued() })
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if marker != nil {
				marker.MarkDequeued()
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process classifies one team and hands the result to the sink.
func (w *InMemoryWorker) process(ctx context.Context, job Job) { //nolint:gocritic // hugeParam: Job is passed by value over the channel
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	table, err := badge.Lookup(job.Ruleset)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "unknown_ruleset")
		w.logger.Error(ctx, "cannot classify team",
			logger.String("batch", job.BatchID),
			logger.String("team", job.Stats.Team),
			logger.Error(err),
		)
		w.sink.Complete(ctx, job, badge.Assignment{}, err)
		return
	}

	a := Classify(table, job.Stats)
	w.sink.Complete(ctx, job, a, nil)
}

// Classify evaluates stats against table and records classification metrics.
func Classify(table *badge.Table, stats model.TeamStatistics) badge.Assignment {
	start := time.Now()
	candidates := table.Evaluate(stats)
	a := badge.Select(candidates, table.Fallback())
	metrics.RecordClassificationLatency(float64(time.Since(start).Microseconds()) / 1000)

	metrics.RecordTeamClassified()
	switch {
	case len(candidates.Primary) > 0:
		metrics.RecordBadgeAssigned(string(a.PrimaryBadge), string(badge.TierPrimary))
	case len(candidates.Secondary) > 0:
		metrics.RecordBadgeAssigned(string(a.PrimaryBadge), string(badge.TierSecondary))
	default:
		metrics.RecordBadgeAssigned(string(a.PrimaryBadge), "default")
	}
	return a
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	active  atomic.Int64

	logger logger.Logger
}

// NewPool creates a new worker pool. workerCount < 1 means one worker per CPU.
func NewPool(workerCount int, queue Queue, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
			withActiveCounter(&pool.active),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Active returns how many workers are processing a job right now.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue, lets workers drain it and waits for them.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}

	return nil
}
