package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/devtrack/pkg/metrics"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a backing service can take traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler handles health check requests.
type HealthHandler struct {
	metrics http.Handler
	ready   ReadinessCheck
}

// NewHealthHandler creates a new health handler. A nil check is always ready.
func NewHealthHandler(ready ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
		ready:   ready,
	}
}

// HandleHealth handles GET /healthz by serving the Prometheus registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// HandleReady handles GET /readyz.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readinessResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, readinessResponse{Status: "ok"})
}
