package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRun(id string, teams ...string) Run {
	run := Run{ID: id, Ruleset: badge.RulesetNCAA, CreatedAt: time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)}
	for i, team := range teams {
		e := Entry{Team: team, PrimaryBadge: badge.Balanced}
		if i%2 == 0 {
			e.PrimaryBadge = badge.Fortress
			e.SecondaryBadges = []badge.Badge{badge.Lockdown, badge.GiantSlayers}
		}
		run.Entries = append(run.Entries, e)
	}
	return run
}

// storeContract runs the same expectations against every Store implementation.
func storeContract(open func() Store) {
	ctx := context.Background()

	Convey("When the store is empty", func() {
		s := open()
		defer s.Close()

		_, err := s.LatestRun(ctx)
		So(errors.Is(err, ErrNoRuns), ShouldBeTrue)
		_, err = s.Team(ctx, "Duke")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		_, err = s.Run(ctx, "missing")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		So(s.Count(ctx), ShouldEqual, 0)
	})

	Convey("When a run is saved", func() {
		s := open()
		defer s.Close()
		So(s.SaveRun(ctx, sampleRun("r1", "Duke", "Iowa", "Gonzaga")), ShouldBeNil)

		Convey("Then it is the latest run with entries in order", func() {
			run, err := s.LatestRun(ctx)
			So(err, ShouldBeNil)
			So(run.ID, ShouldEqual, "r1")
			So(run.Ruleset, ShouldEqual, badge.RulesetNCAA)
			So(run.Entries, ShouldHaveLength, 3)
			So(run.Entries[0].Team, ShouldEqual, "Duke")
			So(run.Entries[1].Team, ShouldEqual, "Iowa")
			So(run.Entries[2].Team, ShouldEqual, "Gonzaga")
			So(run.Entries[0].SecondaryBadges, ShouldResemble, []badge.Badge{badge.Lockdown, badge.GiantSlayers})
			So(run.Entries[1].SecondaryBadges, ShouldResemble, []badge.Badge{})
			So(run.Assignments()[1].PrimaryBadge, ShouldEqual, badge.Balanced)
		})

		Convey("Then team lookups return the stamped entry", func() {
			e, err := s.Team(ctx, "Duke")
			So(err, ShouldBeNil)
			So(e.RunID, ShouldEqual, "r1")
			So(e.Ruleset, ShouldEqual, badge.RulesetNCAA)
			So(e.PrimaryBadge, ShouldEqual, badge.Fortress)
			So(e.ClassifiedAt.Equal(time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(s.Count(ctx), ShouldEqual, 3)
		})

		Convey("Then saving the same ID again fails", func() {
			err := s.SaveRun(ctx, sampleRun("r1", "Duke"))
			So(errors.Is(err, ErrRunExists), ShouldBeTrue)
		})

		Convey("Then a later run takes over the team", func() {
			later := sampleRun("r2", "Kansas", "Duke")
			later.CreatedAt = later.CreatedAt.Add(time.Hour)
			So(s.SaveRun(ctx, later), ShouldBeNil)

			e, err := s.Team(ctx, "Duke")
			So(err, ShouldBeNil)
			So(e.RunID, ShouldEqual, "r2")
			So(e.PrimaryBadge, ShouldEqual, badge.Balanced)
			So(s.Count(ctx), ShouldEqual, 4)

			latest, err := s.LatestRun(ctx)
			So(err, ShouldBeNil)
			So(latest.ID, ShouldEqual, "r2")

			first, err := s.Run(ctx, "r1")
			So(err, ShouldBeNil)
			So(first.Entries, ShouldHaveLength, 3)
		})
	})

	Convey("When a run holds a team without a name", func() {
		s := open()
		defer s.Close()
		So(s.SaveRun(ctx, sampleRun("r1", "Duke", "")), ShouldBeNil)

		Convey("Then the entry is kept in the run but not indexed by team", func() {
			run, err := s.Run(ctx, "r1")
			So(err, ShouldBeNil)
			So(run.Entries, ShouldHaveLength, 2)
			So(run.Entries[1].PrimaryBadge, ShouldEqual, badge.Balanced)

			_, err = s.Team(ctx, "")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(s.Count(ctx), ShouldEqual, 1)
		})
	})

	Convey("When a run has no ID", func() {
		s := open()
		defer s.Close()
		err := s.SaveRun(ctx, sampleRun("", "Duke"))
		So(errors.Is(err, ErrInvalidRun), ShouldBeTrue)
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		storeContract(func() Store { return NewMemoryStore() })
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a SQLite store in a temp dir", t, func() {
		So(logger.Init(), ShouldBeNil)
		dir := t.TempDir()
		n := 0
		storeContract(func() Store {
			n++
			s, err := OpenSQLite(context.Background(), filepath.Join(dir, "runs", fmt.Sprintf("%d.db", n)))
			So(err, ShouldBeNil)
			return s
		})
	})

	Convey("Given a database reopened from disk", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "archive.db")

		s, err := OpenSQLite(ctx, path, WithLogger(logger.Get()), WithPragmas("PRAGMA foreign_keys=ON"))
		So(err, ShouldBeNil)
		So(s.SaveRun(ctx, sampleRun("persisted", "Duke")), ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		reopened, err := OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		defer reopened.Close()

		Convey("Then earlier runs are still there", func() {
			run, err := reopened.LatestRun(ctx)
			So(err, ShouldBeNil)
			So(run.ID, ShouldEqual, "persisted")
			So(reopened.Count(ctx), ShouldEqual, 1)
		})
	})
}

func TestMemoryStoreConcurrent(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		s := NewMemoryStore()
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.SaveRun(ctx, sampleRun(string(rune('A'+i)), "Duke", "Iowa"))
			}(i)
		}
		wg.Wait()

		Convey("Then every run is kept", func() {
			So(len(s.runs), ShouldEqual, 20)
			So(s.Count(ctx), ShouldEqual, 2)
		})
	})
}
