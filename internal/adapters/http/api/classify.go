package api

import (
	"net/http"

	"github.com/okian/teambadge/internal/adapters/recordio"
	"github.com/okian/teambadge/internal/validation"
)

// ClassifyHandler handles classify requests.
type ClassifyHandler struct {
	deps    ClassifyDependencies
	maxBody int64
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies, maxBody int64) *ClassifyHandler {
	return &ClassifyHandler{deps: deps, maxBody: maxBody}
}

// HandleClassify handles POST /classify?ruleset= requests. The body is a JSON
// array of team records; the reply is the same array with badges added.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if !allow(w, r, op, http.MethodPost) {
		return
	}
	body, err := readBody(w, r, h.maxBody)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if err := validation.ValidateDocument(body); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	records, err := recordio.Decode(body)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if _, err := h.deps.ClassifyRecords(r.Context(), r.URL.Query().Get("ruleset"), records); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}
