package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound   = errors.New("not found")
	ErrNoRuns     = errors.New("no runs stored")
	ErrRunExists  = errors.New("run already stored")
	ErrInvalidRun = errors.New("invalid run")
)
