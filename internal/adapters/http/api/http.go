// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/teambadge/internal/adapters/recordio"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/model"
	"github.com/okian/teambadge/internal/domain/types"
)

const defaultMaxBodyBytes = 8 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ClassifyDependencies
	ExplainDependencies
	RunsDependencies
	TeamsDependencies
	DistributionDependencies
	ThresholdsDependencies
}

// ClassifyDependencies classifies records in place.
type ClassifyDependencies interface {
	ClassifyRecords(ctx context.Context, ruleset string, records []*recordio.Record) ([]badge.Assignment, error)
}

// ExplainDependencies exposes the evaluator for one team.
type ExplainDependencies interface {
	Explain(ctx context.Context, ruleset string, stats model.TeamStatistics) (types.ExplainResponse, error)
}

// RunsDependencies stores classified runs.
type RunsDependencies interface {
	SubmitRun(ctx context.Context, req types.RunRequest) (types.RunResponse, error)
}

// TeamsDependencies reads stored team badges.
type TeamsDependencies interface {
	TeamBadges(ctx context.Context, team string) (types.TeamBadges, error)
}

// DistributionDependencies summarizes the latest run.
type DistributionDependencies interface {
	Distribution(ctx context.Context) (types.DistributionResponse, error)
}

// ThresholdsDependencies lists a ruleset's rows.
type ThresholdsDependencies interface {
	Thresholds(ruleset string) (types.ThresholdsResponse, error)
}

// Option configures the Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies. Larger bodies get 413.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	classifyHandler     *ClassifyHandler
	explainHandler      *ExplainHandler
	runsHandler         *RunsHandler
	teamsHandler        *TeamsHandler
	distributionHandler *DistributionHandler
	thresholdsHandler   *ThresholdsHandler

	maxBodyBytes int64
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.classifyHandler = NewClassifyHandler(deps, s.maxBodyBytes)
	s.explainHandler = NewExplainHandler(deps, s.maxBodyBytes)
	s.runsHandler = NewRunsHandler(deps, s.maxBodyBytes)
	s.teamsHandler = NewTeamsHandler(deps)
	s.distributionHandler = NewDistributionHandler(deps)
	s.thresholdsHandler = NewThresholdsHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("/explain", MetricsMiddleware(s.explainHandler.HandleExplain, "explain"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandlePostRun, "runs"))
	mux.HandleFunc("/teams/", MetricsMiddleware(s.teamsHandler.HandleGetTeam, "teams"))
	mux.HandleFunc("/distribution", MetricsMiddleware(s.distributionHandler.HandleGetDistribution, "distribution"))
	mux.HandleFunc("/thresholds", MetricsMiddleware(s.thresholdsHandler.HandleGetThresholds, "thresholds"))
}
