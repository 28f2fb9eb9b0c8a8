package handler

import (
	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy endpoints
type StrategyHandler struct {
	strategyService *service.StrategyService
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(strategyService *service.StrategyService) *StrategyHandler {
	return &StrategyHandler{strategyService: strategyService}
}

// Create creates a strategy with its rules
// POST /api/v1/strategies
func (h *StrategyHandler) Create(c *gin.Context) {
	var req model.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	strategy, err := h.strategyService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, strategy, "Strategy created")
}

// List returns the user's strategies
// GET /api/v1/strategies
func (h *StrategyHandler) List(c *gin.Context) {
	strategies, err := h.strategyService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, strategies)
}

// Get returns one strategy with its rules
// GET /api/v1/strategies/:id
func (h *StrategyHandler) Get(c *gin.Context) {
	strategy, err := h.strategyService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, strategy)
}

// Update replaces a strategy's fields and rules
// PUT /api/v1/strategies/:id
func (h *StrategyHandler) Update(c *gin.Context) {
	var req model.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	strategy, err := h.strategyService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, strategy)
}

// Delete removes a strategy
// DELETE /api/v1/strategies/:id
func (h *StrategyHandler) Delete(c *gin.Context) {
	if err := h.strategyService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Strategy deleted")
}
