// Package types contains common types used across the application
package types

import (
	"encoding/json"
	"time"

	"github.com/okian/teambadge/internal/domain/badge"
)

// RunRequest submits a batch of team records to be classified and stored.
type RunRequest struct {
	RunID   string          `json:"run_id,omitempty"`
	Ruleset string          `json:"ruleset,omitempty"`
	Teams   json.RawMessage `json:"teams"`
}

// RunResponse acknowledges a stored run.
type RunResponse struct {
	RunID        string             `json:"run_id"`
	Ruleset      string             `json:"ruleset"`
	Teams        int                `json:"teams"`
	Duplicate    bool               `json:"duplicate"`
	Distribution badge.Distribution `json:"distribution"`
}

// ExplainResponse shows how one team's badges were chosen.
type ExplainResponse struct {
	Team       string           `json:"team"`
	Ruleset    string           `json:"ruleset"`
	Candidates badge.Candidates `json:"candidates"`
	Assignment badge.Assignment `json:"assignment"`
}

// TeamBadges is the latest stored classification of a team.
type TeamBadges struct {
	Team            string        `json:"team"`
	RunID           string        `json:"run_id"`
	Ruleset         string        `json:"ruleset"`
	PrimaryBadge    badge.Badge   `json:"primaryBadge"`
	SecondaryBadges []badge.Badge `json:"secondaryBadges"`
	ClassifiedAt    time.Time     `json:"classified_at"`
}

// DistributionResponse summarizes the latest stored run.
type DistributionResponse struct {
	RunID   string `json:"run_id"`
	Ruleset string `json:"ruleset"`
	badge.Distribution
}

// ThresholdsResponse lists a ruleset's rows in evaluation order.
type ThresholdsResponse struct {
	Ruleset  string       `json:"ruleset"`
	Fallback badge.Badge  `json:"fallback"`
	Rules    []badge.Rule `json:"rules"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
