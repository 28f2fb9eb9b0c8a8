package handler

import (
	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard, calendar and equity curve endpoints
type DashboardHandler struct {
	metricsService *service.MetricsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(metricsService *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{metricsService: metricsService}
}

// Dashboard returns the full per-account dashboard
// GET /api/v1/accounts/:id/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.metricsService.Dashboard(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, dashboard)
}

// Calendar returns per-day PnL totals, optionally filtered to one month
// GET /api/v1/accounts/:id/calendar?month=YYYY-MM
func (h *DashboardHandler) Calendar(c *gin.Context) {
	days, err := h.metricsService.Calendar(c.Request.Context(),
		middleware.UserID(c), c.Param("id"), c.Query("month"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, days)
}

// EquityCurve returns the running balance after each trade
// GET /api/v1/accounts/:id/equity
func (h *DashboardHandler) EquityCurve(c *gin.Context) {
	points, err := h.metricsService.EquityCurve(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, points)
}
