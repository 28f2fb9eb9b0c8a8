package model

import "time"

// TradingPlan encodes one user's risk limits, psychological rules, setup
// definitions and monthly goals. Reference data only: it does not gate
// trade entry, but it feeds the mentor context.
type TradingPlan struct {
	UserID          string       `json:"user_id"`
	RiskPerTradePct float64      `json:"risk_per_trade_pct"`
	MaxDailyRiskPct float64      `json:"max_daily_risk_pct"`
	MaxTradesPerDay int          `json:"max_trades_per_day"`
	MinRewardRisk   float64      `json:"min_reward_risk"`
	StopAfterLosses int          `json:"stop_after_losses"`
	PsychRules      []PsychRule  `json:"psych_rules"`
	Setups          []PlanSetup  `json:"setups"`
	MonthlyGoals    []PlanGoal   `json:"monthly_goals"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// PsychRule is one psychological rule of the plan
type PsychRule struct {
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

// PlanSetup is a named setup with its ordered textual conditions
type PlanSetup struct {
	Name       string   `json:"name"`
	Conditions []string `json:"conditions"`
}

// PlanGoal is a qualitative goal for one month
type PlanGoal struct {
	Month string `json:"month"` // YYYY-MM
	Text  string `json:"text"`
}

// PlanRequest represents the payload to upsert the trading plan
type PlanRequest struct {
	RiskPerTradePct float64     `json:"risk_per_trade_pct" binding:"required,gt=0,lte=100"`
	MaxDailyRiskPct float64     `json:"max_daily_risk_pct" binding:"required,gt=0,lte=100"`
	MaxTradesPerDay int         `json:"max_trades_per_day" binding:"required,gte=1"`
	MinRewardRisk   float64     `json:"min_reward_risk" binding:"required,gt=0"`
	StopAfterLosses int         `json:"stop_after_losses" binding:"required,gte=1"`
	PsychRules      []PsychRule `json:"psych_rules"`
	Setups          []PlanSetup `json:"setups"`
	MonthlyGoals    []PlanGoal  `json:"monthly_goals"`
}
