package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/logger"
)

// StrategyService manages strategies and their rule checklists
type StrategyService struct {
	strategies *repository.StrategyRepository
	log        *logger.Logger
}

// NewStrategyService creates a new strategy service
func NewStrategyService(strategies *repository.StrategyRepository, log *logger.Logger) *StrategyService {
	return &StrategyService{strategies: strategies, log: log}
}

// Create creates a strategy with its ordered rules
func (s *StrategyService) Create(ctx context.Context, userID string, req *model.StrategyRequest) (*model.Strategy, error) {
	now := time.Now().UTC()
	strategy := &model.Strategy{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Rules:       rulesFromTexts(req.Rules),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.strategies.Create(ctx, strategy); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to create strategy", err)
	}
	return strategy, nil
}

// Get fetches one strategy with its rules
func (s *StrategyService) Get(ctx context.Context, userID, strategyID string) (*model.Strategy, error) {
	strategy, err := s.strategies.GetByID(ctx, userID, strategyID)
	if err != nil {
		return nil, util.ErrStrategyNotFound()
	}
	return strategy, nil
}

// List returns the user's strategies
func (s *StrategyService) List(ctx context.Context, userID string) ([]model.Strategy, error) {
	strategies, err := s.strategies.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to list strategies", err)
	}
	return strategies, nil
}

// Update replaces a strategy's fields and rules
func (s *StrategyService) Update(ctx context.Context, userID, strategyID string, req *model.StrategyRequest) (*model.Strategy, error) {
	strategy, err := s.strategies.GetByID(ctx, userID, strategyID)
	if err != nil {
		return nil, util.ErrStrategyNotFound()
	}

	strategy.Name = req.Name
	strategy.Description = req.Description
	strategy.Rules = rulesFromTexts(req.Rules)

	if err := s.strategies.Update(ctx, strategy); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStrategyNotFound()
		}
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to update strategy", err)
	}
	return strategy, nil
}

// Delete removes a strategy. Trades that referenced it keep their records
// with a null strategy.
func (s *StrategyService) Delete(ctx context.Context, userID, strategyID string) error {
	if err := s.strategies.Delete(ctx, userID, strategyID); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrStrategyNotFound()
		}
		return util.WrapError(500, util.ErrCodeInternal, "Failed to delete strategy", err)
	}
	return nil
}

func rulesFromTexts(texts []string) []model.Rule {
	rules := make([]model.Rule, 0, len(texts))
	for i, text := range texts {
		rules = append(rules, model.Rule{RuleText: text, Position: i})
	}
	return rules
}
