package validation

import (
	"errors"
	"strings"
)

// ErrInvalidDocument is the kind of every schema violation.
var ErrInvalidDocument = errors.New("invalid document")

// Error lists every problem found in a document.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return ErrInvalidDocument.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalidDocument }
