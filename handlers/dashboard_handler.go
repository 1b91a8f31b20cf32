package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService DashboardServiceInterface
}

func NewDashboardHandler(dashboardService DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetKPIs returns the Section 3 labor-hour figures for the dashboard widgets.
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	kpis, err := h.dashboardService.GetKPIs(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, kpis)
}
