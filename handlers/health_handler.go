package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/section3-pro/compliance-backend/internal/probe"
	"github.com/section3-pro/compliance-backend/types"
)

type HealthHandler struct {
	healthService HealthServiceInterface
}

func NewHealthHandler(healthService HealthServiceInterface) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// LivenessCheck handles kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// ReadinessCheck handles kubernetes readiness probe
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	h.DetailedHealth(c)
}

// DetailedHealth runs every registered probe and returns the aggregate.
// Degraded still answers 200 so load balancers keep routing.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if !health.OverallStatus.IsOperable() {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

// DatabaseHealth answers 500 when the database probe is unhealthy.
func (h *HealthHandler) DatabaseHealth(c *gin.Context) {
	result, err := h.healthService.CheckComponent(c.Request.Context(), probe.KindDatabase)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if result.Status == types.ProbeStatusUnhealthy || result.Status == types.ProbeStatusError {
		status = http.StatusInternalServerError
	}
	c.JSON(status, types.ComponentHealthResponse{ProbeResult: result})
}

// AIHealth always answers 200. A missing key is reported as a warning.
func (h *HealthHandler) AIHealth(c *gin.Context) {
	result, err := h.healthService.CheckComponent(c.Request.Context(), probe.KindAI)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := types.ComponentHealthResponse{ProbeResult: result}
	if result.Status == types.ProbeStatusNotConfigured {
		response.Warning = probe.AIMissingKeyMessage
	}
	c.JSON(http.StatusOK, response)
}
