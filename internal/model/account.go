package model

import (
	"time"

	"github.com/lib/pq"
)

// Account type constants
const (
	AccountTypePersonal   = "personal"
	AccountTypeEvaluation = "evaluation"
	AccountTypeLive       = "live"
)

// Drawdown policy constants
const (
	DrawdownFixed    = "fixed"
	DrawdownTrailing = "trailing"
	DrawdownNone     = "none"
)

// Account is a trading account with its own capital and risk policy.
// Its balance is never stored: it is derived from trades and payouts.
type Account struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"user_id"`
	Name           string          `db:"name" json:"name"`
	Type           string          `db:"type" json:"type"`
	AssetClass     string          `db:"asset_class" json:"asset_class"`
	InitialCapital float64         `db:"initial_capital" json:"initial_capital"`
	DrawdownType   string          `db:"drawdown_type" json:"drawdown_type"`
	DrawdownAmount *float64        `db:"drawdown_amount" json:"drawdown_amount,omitempty"`
	ProfitTarget   *float64        `db:"profit_target" json:"profit_target,omitempty"`
	FundingCompany *string         `db:"funding_company" json:"funding_company,omitempty"`
	PhaseCount     *int            `db:"phase_count" json:"phase_count,omitempty"`
	PhaseTargets   pq.Float64Array `db:"phase_targets" json:"phase_targets,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// AccountRequest represents the payload to create or update an account
type AccountRequest struct {
	Name           string    `json:"name" binding:"required,min=1,max=100"`
	Type           string    `json:"type" binding:"required,oneof=personal evaluation live"`
	AssetClass     string    `json:"asset_class" binding:"omitempty,max=50"`
	InitialCapital float64   `json:"initial_capital" binding:"required,gt=0"`
	DrawdownType   string    `json:"drawdown_type" binding:"required,oneof=fixed trailing none"`
	DrawdownAmount *float64  `json:"drawdown_amount" binding:"omitempty,gte=0"`
	ProfitTarget   *float64  `json:"profit_target" binding:"omitempty,gt=0"`
	FundingCompany *string   `json:"funding_company" binding:"omitempty,max=100"`
	PhaseCount     *int      `json:"phase_count" binding:"omitempty,gte=1"`
	PhaseTargets   []float64 `json:"phase_targets" binding:"omitempty,dive,gt=0"`
}

// AccountSummary is the derived view of an account's ledger state
type AccountSummary struct {
	AccountID      string   `json:"account_id"`
	Name           string   `json:"name"`
	InitialCapital float64  `json:"initial_capital"`
	Balance        float64  `json:"balance"`
	HighWaterMark  float64  `json:"high_water_mark"`
	Threshold      float64  `json:"threshold"`
	MaxWithdrawal  float64  `json:"max_withdrawal"`
	Eligible       bool     `json:"eligible"`
	TotalPnl       float64  `json:"total_pnl"`
	TotalPayouts   float64  `json:"total_payouts"`
	TradeCount     int      `json:"trade_count"`
	TargetProgress *float64 `json:"target_progress,omitempty"` // fraction of profit target reached
}
