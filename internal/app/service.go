// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the batch CLI.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/okian/teambadge/internal/adapters/mq/queue"
	workerpool "github.com/okian/teambadge/internal/adapters/mq/worker"
	"github.com/okian/teambadge/internal/adapters/repository"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/dedupe"
	"github.com/okian/teambadge/pkg/logger"
	"github.com/okian/teambadge/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// Service classifies batches of teams and keeps the results of submitted runs.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	queue      *jobqueue.InMemoryQueue
	workerPool *workerpool.Pool
	batches    *batches

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	ruleset      string
	maxBatchSize int

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of teams waiting for a worker.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many run IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets where submitted runs are kept. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRuleset sets the table used when a request names none.
func WithRuleset(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.ruleset = name
		}
	}
}

// WithMaxBatchSize caps the number of teams in one request.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    10_000,
		dedupeSize:   10_000,
		ruleset:      badge.RulesetNCAA,
		maxBatchSize: 5_000,
		batches:      newBatches(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the queue and worker pool and starts the workers. Workers
// outlive ctx; they stop on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if _, err := badge.Lookup(s.ruleset); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting classification service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory run store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.batches)
	s.workerPool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "classification service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("ruleset", s.ruleset),
	)

	return nil
}

// Stop drains the queue, stops the workers and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping classification service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.cancel()
	s.batches.failAll(ErrStopped)

	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "error closing run store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "classification service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"ruleset":      s.ruleset,
		"maxBatchSize": s.maxBatchSize,
		"rulesets":     badge.Names(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		storedTeams := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["activeWorkers"] = s.workerPool.Active()
		stats["pendingBatches"] = s.batches.pending()
		stats["storedTeams"] = storedTeams
		stats["trackedRuns"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTeamsStored(storedTeams)
		metrics.UpdateWorkerCount(s.workerPool.Size())
	}

	return stats
}

// running returns the queue when the service is started.
func (s *Service) running() (*jobqueue.InMemoryQueue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue, s.started
}

// table resolves name, falling back to the configured default.
func (s *Service) table(name string) (*badge.Table, error) {
	if name == "" {
		name = s.ruleset
	}
	return badge.Lookup(name)
}
