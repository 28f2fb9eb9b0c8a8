package handler

import (
	"time"

	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TradeHandler handles trade journal endpoints
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// Create records a trade
// POST /api/v1/trades
func (h *TradeHandler) Create(c *gin.Context) {
	var req model.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	trade, err := h.tradeService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, trade, "Trade recorded")
}

// List returns a filtered page of trades
// GET /api/v1/trades?account_id=&strategy_id=&symbol=&from=&to=&limit=&offset=
func (h *TradeHandler) List(c *gin.Context) {
	limit, offset := util.ParsePagination(c)
	filter := repository.TradeFilter{
		AccountID:  c.Query("account_id"),
		StrategyID: c.Query("strategy_id"),
		Symbol:     c.Query("symbol"),
		Limit:      limit,
		Offset:     offset,
	}

	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			util.SendValidationError(c, "from must be YYYY-MM-DD")
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			util.SendValidationError(c, "to must be YYYY-MM-DD")
			return
		}
		// Exclusive upper bound covering the whole named day
		t = t.Add(24 * time.Hour)
		filter.To = &t
	}

	trades, total, err := h.tradeService.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendPaginated(c, trades, util.Pagination{Limit: limit, Offset: offset, Total: total})
}

// Get returns one trade
// GET /api/v1/trades/:id
func (h *TradeHandler) Get(c *gin.Context) {
	trade, err := h.tradeService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, trade)
}

// Update replaces a trade's fields
// PUT /api/v1/trades/:id
func (h *TradeHandler) Update(c *gin.Context) {
	var req model.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	trade, err := h.tradeService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, trade)
}

// Delete removes a trade
// DELETE /api/v1/trades/:id
func (h *TradeHandler) Delete(c *gin.Context) {
	if err := h.tradeService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Trade deleted")
}
