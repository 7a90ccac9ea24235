package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/teambadge/pkg/metrics"
)

// MemoryStore keeps runs in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   []Run
	byID   map[string]int
	latest map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]int),
		latest: make(map[string]Entry),
	}
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	start := time.Now()
	defer observe("save_run", start)

	if run.ID == "" {
		return fmt.Errorf("%w: empty run id", ErrInvalidRun)
	}
	run = stamp(run)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[run.ID]; ok {
		return fmt.Errorf("%w: %s", ErrRunExists, run.ID)
	}
	s.byID[run.ID] = len(s.runs)
	s.runs = append(s.runs, run)
	for _, e := range run.Entries {
		if e.Team == "" {
			continue
		}
		s.latest[e.Team] = e
	}
	metrics.UpdateTeamsStored(len(s.latest))
	return nil
}

func (s *MemoryStore) Team(_ context.Context, team string) (Entry, error) {
	start := time.Now()
	defer observe("team", start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.latest[team]
	if !ok {
		return Entry{}, fmt.Errorf("team %q: %w", team, ErrNotFound)
	}
	return e, nil
}

func (s *MemoryStore) Run(_ context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Run{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	return s.runs[i], nil
}

func (s *MemoryStore) LatestRun(_ context.Context) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return s.runs[len(s.runs)-1], nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.latest)
}

func (s *MemoryStore) Close() error { return nil }

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}
