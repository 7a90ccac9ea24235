package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/teambadge/internal/domain/model"
	"github.com/okian/teambadge/internal/validation"
)

// ExplainHandler handles explain requests.
type ExplainHandler struct {
	deps    ExplainDependencies
	maxBody int64
}

// NewExplainHandler creates a new explain handler.
func NewExplainHandler(deps ExplainDependencies, maxBody int64) *ExplainHandler {
	return &ExplainHandler{deps: deps, maxBody: maxBody}
}

// HandleExplain handles POST /explain?ruleset= requests with one team record.
func (h *ExplainHandler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	const op = "api.explain"
	if !allow(w, r, op, http.MethodPost) {
		return
	}
	body, err := readBody(w, r, h.maxBody)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if err := validation.ValidateRecord(body); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	var stats model.TeamStatistics
	if err := json.Unmarshal(body, &stats); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	resp, err := h.deps.Explain(r.Context(), r.URL.Query().Get("ruleset"), stats)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
