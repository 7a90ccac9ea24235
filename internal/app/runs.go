package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/teambadge/internal/adapters/recordio"
	"github.com/okian/teambadge/internal/adapters/repository"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/types"
	"github.com/okian/teambadge/internal/validation"
	"github.com/okian/teambadge/pkg/logger"
	"github.com/okian/teambadge/pkg/metrics"
)

// SubmitRun validates, classifies and stores a batch. A run ID that was
// already accepted is answered from the store without classifying again.
func (s *Service) SubmitRun(ctx context.Context, req types.RunRequest) (types.RunResponse, error) {
	if _, ok := s.running(); !ok {
		return types.RunResponse{}, ErrNotStarted
	}
	table, err := s.table(req.Ruleset)
	if err != nil {
		return types.RunResponse{}, err
	}
	if err := validation.ValidateDocument(req.Teams); err != nil {
		return types.RunResponse{}, err
	}
	records, err := recordio.Decode(req.Teams)
	if err != nil {
		return types.RunResponse{}, err
	}
	if len(records) > s.maxBatchSize {
		return types.RunResponse{}, fmt.Errorf("%w: %d teams, limit %d", ErrBatchTooLarge, len(records), s.maxBatchSize)
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, runID) {
		metrics.RecordRunDuplicate()
		s.logger.Debug(ctx, "duplicate run", logger.String("run_id", runID))
		return s.storedRun(ctx, runID)
	}

	assignments, err := s.ClassifyRecords(ctx, table.Name(), records)
	if err != nil {
		s.deduper.Unrecord(ctx, runID)
		return types.RunResponse{}, err
	}

	run := repository.Run{
		ID:        runID,
		Ruleset:   table.Name(),
		CreatedAt: time.Now().UTC(),
		Entries:   make([]repository.Entry, len(records)),
	}
	for i, r := range records {
		run.Entries[i] = repository.Entry{
			Team:            r.Team(),
			PrimaryBadge:    assignments[i].PrimaryBadge,
			SecondaryBadges: assignments[i].SecondaryBadges,
		}
	}

	if err := s.store.SaveRun(ctx, run); err != nil {
		if errors.Is(err, repository.ErrRunExists) {
			// accepted before the deduper forgot it
			metrics.RecordRunDuplicate()
			return s.storedRun(ctx, runID)
		}
		s.deduper.Unrecord(ctx, runID)
		metrics.RecordErrorByComponent("service", "save_run")
		s.logger.Error(ctx, "failed to store run", logger.String("run_id", runID), logger.Error(err))
		return types.RunResponse{}, err
	}

	metrics.RecordRunSubmitted()
	s.logger.Info(ctx, "run stored",
		logger.String("run_id", runID),
		logger.String("ruleset", table.Name()),
		logger.Int("teams", len(records)),
	)

	return types.RunResponse{
		RunID:        runID,
		Ruleset:      table.Name(),
		Teams:        len(records),
		Distribution: badge.Summarize(assignments, table.Fallback()),
	}, nil
}

// storedRun answers a duplicate submission. A run still being classified by
// the first submitter is reported with no teams.
func (s *Service) storedRun(ctx context.Context, runID string) (types.RunResponse, error) {
	run, err := s.store.Run(ctx, runID)
	if errors.Is(err, repository.ErrNotFound) {
		return types.RunResponse{
			RunID:        runID,
			Duplicate:    true,
			Distribution: badge.Summarize(nil, badge.Balanced),
		}, nil
	}
	if err != nil {
		return types.RunResponse{}, err
	}
	return types.RunResponse{
		RunID:        run.ID,
		Ruleset:      run.Ruleset,
		Teams:        len(run.Entries),
		Duplicate:    true,
		Distribution: badge.Summarize(run.Assignments(), fallbackFor(run.Ruleset)),
	}, nil
}

// TeamBadges returns the team's badges from the latest run that contained it.
func (s *Service) TeamBadges(ctx context.Context, team string) (types.TeamBadges, error) {
	if _, ok := s.running(); !ok {
		return types.TeamBadges{}, ErrNotStarted
	}
	e, err := s.store.Team(ctx, team)
	if err != nil {
		return types.TeamBadges{}, err
	}
	a := e.Assignment()
	return types.TeamBadges{
		Team:            e.Team,
		RunID:           e.RunID,
		Ruleset:         e.Ruleset,
		PrimaryBadge:    a.PrimaryBadge,
		SecondaryBadges: a.SecondaryBadges,
		ClassifiedAt:    e.ClassifiedAt,
	}, nil
}

// Distribution summarizes the most recent run.
func (s *Service) Distribution(ctx context.Context) (types.DistributionResponse, error) {
	if _, ok := s.running(); !ok {
		return types.DistributionResponse{}, ErrNotStarted
	}
	run, err := s.store.LatestRun(ctx)
	if err != nil {
		return types.DistributionResponse{}, err
	}
	return types.DistributionResponse{
		RunID:        run.ID,
		Ruleset:      run.Ruleset,
		Distribution: badge.Summarize(run.Assignments(), fallbackFor(run.Ruleset)),
	}, nil
}

func fallbackFor(ruleset string) badge.Badge {
	t, err := badge.Lookup(ruleset)
	if err != nil {
		return badge.Balanced
	}
	return t.Fallback()
}
