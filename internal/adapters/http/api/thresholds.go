package api

import (
	"bytes"
	"net/http"

	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/report"
)

// ThresholdsHandler handles threshold table requests.
type ThresholdsHandler struct {
	deps ThresholdsDependencies
}

// NewThresholdsHandler creates a new thresholds handler.
func NewThresholdsHandler(deps ThresholdsDependencies) *ThresholdsHandler {
	return &ThresholdsHandler{deps: deps}
}

// HandleGetThresholds handles GET /thresholds?ruleset=&format= requests.
// format=text renders the same report the CLI prints.
func (h *ThresholdsHandler) HandleGetThresholds(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_thresholds"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	resp, err := h.deps.Thresholds(q.Get("ruleset"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}

	if q.Get("format") != "text" {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	table, err := badge.Lookup(resp.Ruleset)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	var buf bytes.Buffer
	report.New(&buf, report.WithColor(false)).Thresholds(table)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
