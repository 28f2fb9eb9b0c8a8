package handler

import (
	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PlanHandler handles trading plan endpoints
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Get returns the current user's trading plan
// GET /api/v1/plan
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.planService.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, plan)
}

// Upsert creates or replaces the trading plan
// PUT /api/v1/plan
func (h *PlanHandler) Upsert(c *gin.Context) {
	var req model.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	plan, err := h.planService.Upsert(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, plan)
}
