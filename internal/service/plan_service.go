package service

import (
	"context"
	"time"

	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/logger"
)

// PlanService manages the one-per-user trading plan
type PlanService struct {
	plans *repository.PlanRepository
	log   *logger.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(plans *repository.PlanRepository, log *logger.Logger) *PlanService {
	return &PlanService{plans: plans, log: log}
}

// Get fetches the user's trading plan
func (s *PlanService) Get(ctx context.Context, userID string) (*model.TradingPlan, error) {
	plan, err := s.plans.Get(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrPlanNotFound()
		}
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to load plan", err)
	}
	return plan, nil
}

// Upsert creates or replaces the user's trading plan
func (s *PlanService) Upsert(ctx context.Context, userID string, req *model.PlanRequest) (*model.TradingPlan, error) {
	plan := &model.TradingPlan{
		UserID:          userID,
		RiskPerTradePct: req.RiskPerTradePct,
		MaxDailyRiskPct: req.MaxDailyRiskPct,
		MaxTradesPerDay: req.MaxTradesPerDay,
		MinRewardRisk:   req.MinRewardRisk,
		StopAfterLosses: req.StopAfterLosses,
		PsychRules:      req.PsychRules,
		Setups:          req.Setups,
		MonthlyGoals:    req.MonthlyGoals,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := s.plans.Upsert(ctx, plan); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to save plan", err)
	}
	return plan, nil
}
