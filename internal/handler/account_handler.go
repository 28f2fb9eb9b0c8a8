package handler

import (
	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles trading account endpoints
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create creates a trading account
// POST /api/v1/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req model.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	acct, err := h.accountService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, acct, "Account created")
}

// List returns the current user's accounts
// GET /api/v1/accounts
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, accounts)
}

// Get returns one account
// GET /api/v1/accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	acct, err := h.accountService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, acct)
}

// Update replaces an account's settings
// PUT /api/v1/accounts/:id
func (h *AccountHandler) Update(c *gin.Context) {
	var req model.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	acct, err := h.accountService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, acct)
}

// Delete removes an account with its trades and payouts
// DELETE /api/v1/accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.accountService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Account deleted")
}

// Summary returns the reconciled balance, high-water mark and withdrawal
// eligibility of an account
// GET /api/v1/accounts/:id/summary
func (h *AccountHandler) Summary(c *gin.Context) {
	summary, err := h.accountService.Summary(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, summary)
}
