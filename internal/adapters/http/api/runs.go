package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/okian/teambadge/internal/domain/types"
)

// RunsHandler handles run submissions.
type RunsHandler struct {
	deps    RunsDependencies
	maxBody int64
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps RunsDependencies, maxBody int64) *RunsHandler {
	return &RunsHandler{deps: deps, maxBody: maxBody}
}

// HandlePostRun handles POST /runs requests. A new run answers 201, a
// resubmitted run ID answers 200 with duplicate set.
func (h *RunsHandler) HandlePostRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_run"
	if !allow(w, r, op, http.MethodPost) {
		return
	}
	body, err := readBody(w, r, h.maxBody)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	var req types.RunRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Teams) == 0 {
		writeError(w, WrapKind(op, ErrBadRequest, errMissingTeams))
		return
	}

	resp, err := h.deps.SubmitRun(r.Context(), req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	status := http.StatusCreated
	if resp.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}
