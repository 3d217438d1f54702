package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riskhub/internal/services"
)

// DashboardHandler handles dashboard and report requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns current risk and assignment totals.
// @Summary     Dashboard summary
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSummary "Summary"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": summary})
}

// GetRiskReport returns reporting totals for risks and open assignments.
// @Summary     Risk report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RiskReport "Report"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /reports/risks [get]
func (h *DashboardHandler) GetRiskReport(c *gin.Context) {
	report, err := h.dashboardService.GetRiskReport(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
