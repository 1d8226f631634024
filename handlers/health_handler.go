package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// ReadinessProbe checks one dependency. postgres.DB.HealthCheck and
// throttle.Limiter.Ping both fit.
type ReadinessProbe func(ctx context.Context) error

type probe struct {
	name     string
	check    ReadinessProbe
	critical bool
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	probes  []probe
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with no probes
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// WithProbe registers a readiness probe. A failing critical probe makes the
// service not ready; a failing optional one only degrades it.
func (h *HealthHandler) WithProbe(name string, check ReadinessProbe, critical bool) *HealthHandler {
	h.probes = append(h.probes, probe{name: name, check: check, critical: critical})
	return h
}

// HandleHealth handles GET /healthz. It answers 200 while the process runs.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]string, len(h.probes))
	status := "ready"
	httpStatus := http.StatusOK

	for _, p := range h.probes {
		if err := p.check(ctx); err != nil {
			h.logger.Warn("readiness probe failed",
				zap.String("dependency", p.name),
				zap.Bool("critical", p.critical),
				zap.Error(err))
			checks[p.name] = "unhealthy"

			if p.critical {
				status = "not_ready"
				httpStatus = http.StatusServiceUnavailable
			} else if status == "ready" {
				status = "degraded"
			}
			continue
		}
		checks[p.name] = "healthy"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if err := utils.WriteJSON(w, httpStatus, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
