package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/teambadge/pkg/metrics"
)

// HealthHandler serves the metrics registry as the liveness endpoint.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests with the Prometheus exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	metrics.UpdateSystemMetrics()
	h.metrics.ServeHTTP(w, r)
}
