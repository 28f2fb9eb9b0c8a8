package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"sagetrade/backend/internal/model"
)

// PlanRepository persists the one-per-user trading plan. The nested rule,
// setup and goal lists are stored as jsonb columns.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

type planRow struct {
	UserID          string    `db:"user_id"`
	RiskPerTradePct float64   `db:"risk_per_trade_pct"`
	MaxDailyRiskPct float64   `db:"max_daily_risk_pct"`
	MaxTradesPerDay int       `db:"max_trades_per_day"`
	MinRewardRisk   float64   `db:"min_reward_risk"`
	StopAfterLosses int       `db:"stop_after_losses"`
	PsychRules      []byte    `db:"psych_rules"`
	Setups          []byte    `db:"setups"`
	MonthlyGoals    []byte    `db:"monthly_goals"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Get fetches a user's trading plan
func (r *PlanRepository) Get(ctx context.Context, userID string) (*model.TradingPlan, error) {
	var row planRow
	query := `SELECT * FROM trading_plans WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, err
	}

	plan := &model.TradingPlan{
		UserID:          row.UserID,
		RiskPerTradePct: row.RiskPerTradePct,
		MaxDailyRiskPct: row.MaxDailyRiskPct,
		MaxTradesPerDay: row.MaxTradesPerDay,
		MinRewardRisk:   row.MinRewardRisk,
		StopAfterLosses: row.StopAfterLosses,
		UpdatedAt:       row.UpdatedAt,
	}
	if err := json.Unmarshal(row.PsychRules, &plan.PsychRules); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.Setups, &plan.Setups); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.MonthlyGoals, &plan.MonthlyGoals); err != nil {
		return nil, err
	}
	return plan, nil
}

// Upsert creates or replaces a user's trading plan
func (r *PlanRepository) Upsert(ctx context.Context, plan *model.TradingPlan) error {
	psychRules, err := json.Marshal(emptyIfNilRules(plan.PsychRules))
	if err != nil {
		return err
	}
	setups, err := json.Marshal(emptyIfNilSetups(plan.Setups))
	if err != nil {
		return err
	}
	goals, err := json.Marshal(emptyIfNilGoals(plan.MonthlyGoals))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trading_plans (
			user_id, risk_per_trade_pct, max_daily_risk_pct, max_trades_per_day,
			min_reward_risk, stop_after_losses, psych_rules, setups, monthly_goals,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			risk_per_trade_pct = EXCLUDED.risk_per_trade_pct,
			max_daily_risk_pct = EXCLUDED.max_daily_risk_pct,
			max_trades_per_day = EXCLUDED.max_trades_per_day,
			min_reward_risk = EXCLUDED.min_reward_risk,
			stop_after_losses = EXCLUDED.stop_after_losses,
			psych_rules = EXCLUDED.psych_rules,
			setups = EXCLUDED.setups,
			monthly_goals = EXCLUDED.monthly_goals,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		plan.UserID, plan.RiskPerTradePct, plan.MaxDailyRiskPct, plan.MaxTradesPerDay,
		plan.MinRewardRisk, plan.StopAfterLosses, psychRules, setups, goals,
		plan.UpdatedAt)
	return err
}

func emptyIfNilRules(v []model.PsychRule) []model.PsychRule {
	if v == nil {
		return []model.PsychRule{}
	}
	return v
}

func emptyIfNilSetups(v []model.PlanSetup) []model.PlanSetup {
	if v == nil {
		return []model.PlanSetup{}
	}
	return v
}

func emptyIfNilGoals(v []model.PlanGoal) []model.PlanGoal {
	if v == nil {
		return []model.PlanGoal{}
	}
	return v
}
