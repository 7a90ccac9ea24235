package service

import "errors"

var (
	ErrNotStarted    = errors.New("service not started")
	ErrStopped       = errors.New("service stopped")
	ErrBackpressure  = errors.New("classification queue is full")
	ErrBatchTooLarge = errors.New("batch too large")
)
