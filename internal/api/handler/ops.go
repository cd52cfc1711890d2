// Package handler provides HTTP handlers for the SkyCast API.
package handler

import (
	"net/http"
	"time"

	"github.com/skycastlabs/skycast/internal/api/models"
	"github.com/skycastlabs/skycast/internal/api/response"
	"github.com/skycastlabs/skycast/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. A nil registry falls back to the
// global provider registry.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	if registry == nil {
		registry = resilience.GlobalRegistry
	}
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
// Provider rows come straight from the circuit-breaker registry; the overall
// status degrades when any circuit is half-open and fails when one is open.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	overall := models.HealthStatusOK
	providers := make([]models.ProviderStatus, 0, h.registry.ProviderCount())

	for _, health := range h.registry.GetAllHealth() {
		status := models.HealthStatusOK
		switch {
		case health.IsUnhealthy():
			status = models.HealthStatusFail
			overall = models.HealthStatusFail
		case health.IsDegraded():
			status = models.HealthStatusDegraded
			if overall == models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}
		}

		row := models.ProviderStatus{
			Provider: health.Name,
			Status:   status,
		}
		if health.LastSuccessAt != nil {
			ts := models.Timestamp(*health.LastSuccessAt)
			row.LastSuccessAt = &ts
		}
		if health.LastFailureAt != nil {
			ts := models.Timestamp(*health.LastFailureAt)
			row.LastFailureAt = &ts
		}
		if health.LastError != "" {
			msg := health.LastError
			row.Message = &msg
		}
		providers = append(providers, row)
	}

	status := models.SystemStatus{
		Status:     overall,
		Time:       models.Timestamp(time.Now()),
		Subsystems: []models.SubsystemStatus{},
		Providers:  providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}
