package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/teambadge/internal/adapters/recordio"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/model"
	"github.com/okian/teambadge/internal/domain/types"
	"github.com/okian/teambadge/pkg/logger"
	"github.com/okian/teambadge/pkg/metrics"
)

// Classify assigns badges to every team through the worker pool. The result
// has the same order as teams.
func (s *Service) Classify(ctx context.Context, ruleset string, teams []model.TeamStatistics) ([]badge.Assignment, error) {
	q, ok := s.running()
	if !ok {
		return nil, ErrNotStarted
	}
	table, err := s.table(ruleset)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return []badge.Assignment{}, nil
	}
	if len(teams) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d teams, limit %d", ErrBatchTooLarge, len(teams), s.maxBatchSize)
	}

	id := uuid.NewString()
	bt := s.batches.register(id, len(teams))
	start := time.Now()

	for i, stats := range teams {
		job := model.Job{BatchID: id, Index: i, Ruleset: table.Name(), Stats: stats}
		if !q.Enqueue(ctx, job) {
			s.batches.abandon(id)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if q.IsClosed() {
				return nil, ErrStopped
			}
			metrics.RecordErrorByComponent("service", "backpressure")
			s.logger.Warn(ctx, "batch rejected, queue full",
				logger.String("batch", id),
				logger.Int("teams", len(teams)),
				logger.Int("enqueued", i),
			)
			return nil, ErrBackpressure
		}
	}
	metrics.UpdateQueueSize(q.Len(ctx))

	select {
	case <-bt.done:
	case <-ctx.Done():
		s.batches.abandon(id)
		return nil, ctx.Err()
	}
	if bt.err != nil {
		return nil, bt.err
	}

	s.logger.Debug(ctx, "batch classified",
		logger.String("batch", id),
		logger.String("ruleset", table.Name()),
		logger.Int("teams", len(teams)),
		logger.Duration("took", time.Since(start)),
	)
	return bt.results, nil
}

// ClassifyRecords classifies records and writes the badges into each of them.
func (s *Service) ClassifyRecords(ctx context.Context, ruleset string, records []*recordio.Record) ([]badge.Assignment, error) {
	teams := make([]model.TeamStatistics, len(records))
	for i, r := range records {
		teams[i] = r.Statistics()
	}

	assignments, err := s.Classify(ctx, ruleset, teams)
	if err != nil {
		return nil, err
	}
	for i, r := range records {
		if err := r.Annotate(assignments[i]); err != nil {
			return nil, fmt.Errorf("annotate record %d: %w", i, err)
		}
	}
	return assignments, nil
}

// Explain evaluates one team without the pool and returns the candidate
// lists behind its assignment.
func (s *Service) Explain(_ context.Context, ruleset string, stats model.TeamStatistics) (types.ExplainResponse, error) {
	table, err := s.table(ruleset)
	if err != nil {
		return types.ExplainResponse{}, err
	}
	candidates := table.Evaluate(stats)
	if candidates.Primary == nil {
		candidates.Primary = []badge.Candidate{}
	}
	if candidates.Secondary == nil {
		candidates.Secondary = []badge.Candidate{}
	}
	return types.ExplainResponse{
		Team:       stats.Team,
		Ruleset:    table.Name(),
		Candidates: candidates,
		Assignment: badge.Select(candidates, table.Fallback()),
	}, nil
}

// Thresholds returns a ruleset's rows in evaluation order.
func (s *Service) Thresholds(ruleset string) (types.ThresholdsResponse, error) {
	table, err := s.table(ruleset)
	if err != nil {
		return types.ThresholdsResponse{}, err
	}
	return types.ThresholdsResponse{
		Ruleset:  table.Name(),
		Fallback: table.Fallback(),
		Rules:    table.Rules(),
	}, nil
}
