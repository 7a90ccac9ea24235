package repository

import "github.com/okian/teambadge/pkg/logger"

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithLogger sets the logger used for schema and query diagnostics.
func WithLogger(l logger.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPragmas replaces the pragmas executed after opening the database.
func WithPragmas(pragmas ...string) SQLiteOption {
	return func(s *SQLiteStore) {
		s.pragmas = pragmas
	}
}
