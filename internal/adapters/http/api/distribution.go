package api

import "net/http"

// DistributionHandler handles distribution requests.
type DistributionHandler struct {
	deps DistributionDependencies
}

// NewDistributionHandler creates a new distribution handler.
func NewDistributionHandler(deps DistributionDependencies) *DistributionHandler {
	return &DistributionHandler{deps: deps}
}

// HandleGetDistribution handles GET /distribution requests.
func (h *DistributionHandler) HandleGetDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_distribution"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	d, err := h.deps.Distribution(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}
