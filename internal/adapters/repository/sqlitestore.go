package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/pkg/logger"
	"github.com/okian/teambadge/pkg/metrics"
)

var defaultPragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	ruleset    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS assignments (
	run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position         INTEGER NOT NULL,
	team             TEXT NOT NULL,
	primary_badge    TEXT NOT NULL,
	secondary_badges TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_assignments_team ON assignments(team);
`

// SQLiteStore persists runs in a SQLite database file.
type SQLiteStore struct {
	conn    *sql.DB
	path    string
	pragmas []string
	logger  logger.Logger
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{
		path:    path,
		pragmas: defaultPragmas,
		logger:  logger.Get().Named("sqlite-store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)

	for _, p := range s.pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s.conn = conn
	s.logger.Info(ctx, "run store opened", logger.String("path", path))
	metrics.UpdateTeamsStored(s.Count(ctx))
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) (err error) {
	start := time.Now()
	defer observe("save_run", start)

	if run.ID == "" {
		return fmt.Errorf("%w: empty run id", ErrInvalidRun)
	}
	run = stamp(run)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, ruleset, created_at) VALUES (?, ?, ?)`,
		run.ID, run.Ruleset, run.CreatedAt.UnixNano(),
	); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: %s", ErrRunExists, run.ID)
		}
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assignments (run_id, position, team, primary_badge, secondary_badges) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range run.Entries {
		sec, mErr := json.Marshal(e.SecondaryBadges)
		if mErr != nil {
			return fmt.Errorf("encode secondary badges: %w", mErr)
		}
		if _, err = stmt.ExecContext(ctx, run.ID, i, e.Team, string(e.PrimaryBadge), string(sec)); err != nil {
			return fmt.Errorf("insert assignment %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	metrics.UpdateTeamsStored(s.Count(ctx))
	return nil
}

func (s *SQLiteStore) Team(ctx context.Context, team string) (Entry, error) {
	start := time.Now()
	defer observe("team", start)

	if team == "" {
		return Entry{}, fmt.Errorf("team %q: %w", team, ErrNotFound)
	}

	row := s.conn.QueryRowContext(ctx, `
		SELECT a.run_id, r.ruleset, r.created_at, a.team, a.primary_badge, a.secondary_badges
		FROM assignments a JOIN runs r ON r.id = a.run_id
		WHERE a.team = ?
		ORDER BY r.rowid DESC, a.position DESC
		LIMIT 1`, team)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("team %q: %w", team, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("query team: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Run(ctx context.Context, id string) (Run, error) {
	start := time.Now()
	defer observe("run", start)

	row := s.conn.QueryRowContext(ctx, `SELECT id, ruleset, created_at FROM runs WHERE id = ?`, id)
	run, err := s.loadRun(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	return run, err
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (Run, error) {
	start := time.Now()
	defer observe("latest_run", start)

	row := s.conn.QueryRowContext(ctx, `SELECT id, ruleset, created_at FROM runs ORDER BY rowid DESC LIMIT 1`)
	run, err := s.loadRun(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	return run, err
}

func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(DISTINCT team) FROM assignments WHERE team <> ''`).Scan(&n); err != nil {
		s.logger.Warn(ctx, "count teams failed", logger.Error(err))
		return 0
	}
	return n
}

func (s *SQLiteStore) loadRun(ctx context.Context, row *sql.Row) (Run, error) {
	var (
		run     Run
		created int64
	)
	if err := row.Scan(&run.ID, &run.Ruleset, &created); err != nil {
		return Run{}, err
	}
	run.CreatedAt = time.Unix(0, created).UTC()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT team, primary_badge, secondary_badges
		FROM assignments WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return Run{}, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	run.Entries = []Entry{}
	for rows.Next() {
		var team, primary, sec string
		if err := rows.Scan(&team, &primary, &sec); err != nil {
			return Run{}, fmt.Errorf("scan assignment: %w", err)
		}
		badges, err := decodeBadges(sec)
		if err != nil {
			return Run{}, err
		}
		run.Entries = append(run.Entries, Entry{
			RunID:           run.ID,
			Ruleset:         run.Ruleset,
			Team:            team,
			PrimaryBadge:    badge.Badge(primary),
			SecondaryBadges: badges,
			ClassifiedAt:    run.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate assignments: %w", err)
	}
	return run, nil
}

func scanEntry(row *sql.Row) (Entry, error) {
	var (
		e       Entry
		created int64
		primary string
		sec     string
	)
	if err := row.Scan(&e.RunID, &e.Ruleset, &created, &e.Team, &primary, &sec); err != nil {
		return Entry{}, err
	}
	badges, err := decodeBadges(sec)
	if err != nil {
		return Entry{}, err
	}
	e.PrimaryBadge = badge.Badge(primary)
	e.SecondaryBadges = badges
	e.ClassifiedAt = time.Unix(0, created).UTC()
	return e, nil
}

func decodeBadges(s string) ([]badge.Badge, error) {
	out := []badge.Badge{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode secondary badges: %w", err)
	}
	return out, nil
}

func isConstraint(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "constraint")
}
