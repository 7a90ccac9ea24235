// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Loaders layer file and environment values on top of the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/teambadge/internal/domain/badge"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory classification queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of classification workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many run IDs are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// Ruleset is the threshold table used when a request names none.
	Ruleset string `koanf:"ruleset"`

	// StorePath is the SQLite run archive. Empty keeps runs in memory.
	StorePath string `koanf:"store_path"`

	// MaxBatchSize caps the number of teams in one request.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// New creates a Config with defaults. The context is reserved for loaders
// that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		QueueSize:    10_000,
		WorkerCount:  runtime.NumCPU(),
		DedupeSize:   10_000,
		Ruleset:      badge.RulesetNCAA,
		StorePath:    "",
		MaxBatchSize: 5_000,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := badge.Lookup(c.Ruleset); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("%w: max_batch_size must be at least 1", ErrInvalidConfig)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be at least 1", ErrInvalidConfig)
	}
	// a batch is queued whole, so a larger one could never be accepted
	if c.MaxBatchSize > c.QueueSize {
		return fmt.Errorf("%w: max_batch_size %d exceeds queue_size %d", ErrInvalidConfig, c.MaxBatchSize, c.QueueSize)
	}
	return nil
}
