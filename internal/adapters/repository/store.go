// Package repository stores classified runs and answers "what badges does
// this team have now".
package repository

import (
	"context"
	"time"

	"github.com/okian/teambadge/internal/domain/badge"
)

// Entry is one team's classification within a run.
type Entry struct {
	RunID           string
	Ruleset         string
	Team            string
	PrimaryBadge    badge.Badge
	SecondaryBadges []badge.Badge
	ClassifiedAt    time.Time
}

// Assignment returns the badge pair of the entry.
func (e Entry) Assignment() badge.Assignment {
	sec := e.SecondaryBadges
	if sec == nil {
		sec = []badge.Badge{}
	}
	return badge.Assignment{PrimaryBadge: e.PrimaryBadge, SecondaryBadges: sec}
}

// Run is a classified batch in input order.
type Run struct {
	ID        string
	Ruleset   string
	CreatedAt time.Time
	Entries   []Entry
}

// Assignments returns the entries' assignments in order.
func (r Run) Assignments() []badge.Assignment {
	out := make([]badge.Assignment, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Assignment()
	}
	return out
}

// Store provides read/write access to stored runs.
type Store interface {
	// SaveRun stores a run. Returns ErrRunExists if the ID is taken.
	SaveRun(ctx context.Context, run Run) error

	// Team returns the team's entry from the most recent run containing it.
	// Returns ErrNotFound if the team was never classified.
	Team(ctx context.Context, team string) (Entry, error)

	// Run returns a stored run by ID or ErrNotFound.
	Run(ctx context.Context, id string) (Run, error)

	// LatestRun returns the most recently saved run or ErrNoRuns.
	LatestRun(ctx context.Context) (Run, error)

	// Count returns the number of distinct teams with a stored entry.
	Count(ctx context.Context) int

	Close() error
}

// stamp fills run-level fields into every entry.
func stamp(run Run) Run {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	entries := make([]Entry, len(run.Entries))
	for i, e := range run.Entries {
		e.RunID = run.ID
		e.Ruleset = run.Ruleset
		if e.ClassifiedAt.IsZero() {
			e.ClassifiedAt = run.CreatedAt
		}
		if e.SecondaryBadges == nil {
			e.SecondaryBadges = []badge.Badge{}
		}
		entries[i] = e
	}
	run.Entries = entries
	return run
}
