package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/logger"
	"sagetrade/backend/pkg/redis"
)

// TradeService manages journal trades
type TradeService struct {
	trades     *repository.TradeRepository
	accounts   *repository.AccountRepository
	strategies *repository.StrategyRepository
	redis      *redis.Client
	log        *logger.Logger
}

// NewTradeService creates a new trade service
func NewTradeService(
	trades *repository.TradeRepository,
	accounts *repository.AccountRepository,
	strategies *repository.StrategyRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) *TradeService {
	return &TradeService{
		trades:     trades,
		accounts:   accounts,
		strategies: strategies,
		redis:      redisClient,
		log:        log,
	}
}

// Create records a new trade against an account the user owns
func (s *TradeService) Create(ctx context.Context, userID string, req *model.TradeRequest) (*model.Trade, error) {
	if err := s.validateRefs(ctx, userID, req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trade := &model.Trade{
		ID:              uuid.New().String(),
		UserID:          userID,
		AccountID:       req.AccountID,
		StrategyID:      req.StrategyID,
		Symbol:          strings.ToUpper(req.Symbol),
		Direction:       req.Direction,
		EntryAt:         req.EntryAt,
		ExitAt:          req.ExitAt,
		PnlNet:          *req.PnlNet,
		RiskAmount:      req.RiskAmount,
		Emotion:         req.Emotion,
		SetupRating:     req.SetupRating,
		SetupCompliance: req.SetupCompliance,
		OutsidePlan:     req.OutsidePlan,
		PreNotes:        req.PreNotes,
		PostNotes:       req.PostNotes,
		BrokenRuleIDs:   req.BrokenRuleIDs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if trade.BrokenRuleIDs == nil {
		trade.BrokenRuleIDs = []string{}
	}

	if err := s.trades.Create(ctx, trade); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to create trade", err)
	}

	s.invalidateDashboard(ctx, trade.AccountID)
	return trade, nil
}

// Get fetches one trade
func (s *TradeService) Get(ctx context.Context, userID, tradeID string) (*model.Trade, error) {
	trade, err := s.trades.GetByID(ctx, userID, tradeID)
	if err != nil {
		return nil, util.ErrTradeNotFound()
	}
	return trade, nil
}

// List returns a filtered page of the user's trades
func (s *TradeService) List(ctx context.Context, userID string, filter repository.TradeFilter) ([]model.Trade, int64, error) {
	trades, total, err := s.trades.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, util.WrapError(500, util.ErrCodeInternal, "Failed to list trades", err)
	}
	return trades, total, nil
}

// Update replaces a trade's fields. Moving a trade between accounts is not
// supported; the account reference is fixed at creation.
func (s *TradeService) Update(ctx context.Context, userID, tradeID string, req *model.TradeRequest) (*model.Trade, error) {
	trade, err := s.trades.GetByID(ctx, userID, tradeID)
	if err != nil {
		return nil, util.ErrTradeNotFound()
	}
	if req.AccountID != trade.AccountID {
		return nil, util.ErrValidation("Trades cannot be moved between accounts")
	}
	if err := s.validateStrategy(ctx, userID, req.StrategyID); err != nil {
		return nil, err
	}

	trade.StrategyID = req.StrategyID
	trade.Symbol = strings.ToUpper(req.Symbol)
	trade.Direction = req.Direction
	trade.EntryAt = req.EntryAt
	trade.ExitAt = req.ExitAt
	trade.PnlNet = *req.PnlNet
	trade.RiskAmount = req.RiskAmount
	trade.Emotion = req.Emotion
	trade.SetupRating = req.SetupRating
	trade.SetupCompliance = req.SetupCompliance
	trade.OutsidePlan = req.OutsidePlan
	trade.PreNotes = req.PreNotes
	trade.PostNotes = req.PostNotes
	trade.BrokenRuleIDs = req.BrokenRuleIDs
	if trade.BrokenRuleIDs == nil {
		trade.BrokenRuleIDs = []string{}
	}

	if err := s.trades.Update(ctx, trade); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrTradeNotFound()
		}
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to update trade", err)
	}

	s.invalidateDashboard(ctx, trade.AccountID)
	return trade, nil
}

// Delete removes a trade
func (s *TradeService) Delete(ctx context.Context, userID, tradeID string) error {
	trade, err := s.trades.GetByID(ctx, userID, tradeID)
	if err != nil {
		return util.ErrTradeNotFound()
	}

	if err := s.trades.Delete(ctx, userID, tradeID); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrTradeNotFound()
		}
		return util.WrapError(500, util.ErrCodeInternal, "Failed to delete trade", err)
	}

	s.invalidateDashboard(ctx, trade.AccountID)
	return nil
}

func (s *TradeService) validateRefs(ctx context.Context, userID string, req *model.TradeRequest) error {
	if _, err := s.accounts.GetByID(ctx, userID, req.AccountID); err != nil {
		return util.ErrAccountNotFound()
	}
	return s.validateStrategy(ctx, userID, req.StrategyID)
}

func (s *TradeService) validateStrategy(ctx context.Context, userID string, strategyID *string) error {
	if strategyID == nil {
		return nil
	}
	if _, err := s.strategies.GetByID(ctx, userID, *strategyID); err != nil {
		return util.ErrStrategyNotFound()
	}
	return nil
}

func (s *TradeService) invalidateDashboard(ctx context.Context, accountID string) {
	if err := s.redis.Del(ctx, redis.DashboardMetricsKey(accountID)); err != nil {
		s.log.WithField("account_id", accountID).Warn("Failed to invalidate dashboard cache")
	}
}
