package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/teambadge/internal/domain/types"
	"github.com/okian/teambadge/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError picks the status from err's kind and lists schema problems
// when there are any.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	resp := types.ErrorResponse{Code: code, Message: http.StatusText(status)}
	if err != nil {
		resp.Message = err.Error()
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Details = verr.Problems
	}
	writeJSON(w, status, resp)
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func allow(w http.ResponseWriter, r *http.Request, op, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, NewKind(op, ErrMethodNotAllowed))
	return false
}
