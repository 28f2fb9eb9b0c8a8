package handler

import (
	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PayoutHandler handles withdrawal endpoints
type PayoutHandler struct {
	payoutService *service.PayoutService
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutService *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// Create records a payout after the eligibility check
// POST /api/v1/payouts
func (h *PayoutHandler) Create(c *gin.Context) {
	var req model.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	payout, err := h.payoutService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, payout, "Payout recorded")
}

// List returns an account's payouts
// GET /api/v1/payouts?account_id=
func (h *PayoutHandler) List(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		util.SendValidationError(c, "account_id is required")
		return
	}

	payouts, err := h.payoutService.List(c.Request.Context(), middleware.UserID(c), accountID)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, payouts)
}

// Delete removes a payout, restoring the derived balance
// DELETE /api/v1/payouts/:id
func (h *PayoutHandler) Delete(c *gin.Context) {
	if err := h.payoutService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Payout deleted")
}
