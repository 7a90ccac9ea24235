package api

import (
	"errors"
	"net/http"

	"github.com/okian/teambadge/internal/adapters/recordio"
	"github.com/okian/teambadge/internal/adapters/repository"
	service "github.com/okian/teambadge/internal/app"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/validation"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("not found")
	ErrBodyTooLarge     = errors.New("request body too large")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrBackpressure     = errors.New("backpressure")
	ErrUnavailable      = errors.New("service unavailable")
)

var (
	errMissingTeams = errors.New("missing teams")
	errMissingTeam  = errors.New("missing team name")
)

// Error ties a failure to the handler operation and the kind used to pick
// the response status.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil && e.Kind != e.Err:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of kind with no further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap attaches op to err and lets the kind be inferred from err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

// WrapKind attaches op and an explicit kind to err.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// kindOf maps errors from the layers below to an API kind.
func kindOf(err error) error {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, service.ErrBatchTooLarge):
		return ErrBodyTooLarge
	case errors.Is(err, service.ErrBackpressure):
		return ErrBackpressure
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrStopped):
		return ErrUnavailable
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrNoRuns):
		return ErrNotFound
	case errors.Is(err, badge.ErrUnknownRuleset),
		errors.Is(err, validation.ErrInvalidDocument),
		errors.Is(err, recordio.ErrNotArray),
		errors.Is(err, recordio.ErrNotObject):
		return ErrBadRequest
	}
	return nil
}

// statusOf returns the response status and code for err.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}
