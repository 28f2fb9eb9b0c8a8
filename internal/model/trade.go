package model

import (
	"time"

	"github.com/lib/pq"
)

// Trade direction constants
const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
)

// Setup compliance constants ("" means unset)
const (
	SetupComplianceFull    = "full"
	SetupCompliancePartial = "partial"
	SetupComplianceNone    = "none"
)

// Trade is one executed round-trip position. Net PnL is realized at creation
// and is the sole quantity that moves an account's derived balance.
type Trade struct {
	ID              string         `db:"id" json:"id"`
	UserID          string         `db:"user_id" json:"user_id"`
	AccountID       string         `db:"account_id" json:"account_id"`
	StrategyID      *string        `db:"strategy_id" json:"strategy_id,omitempty"`
	Symbol          string         `db:"symbol" json:"symbol"`
	Direction       string         `db:"direction" json:"direction"`
	EntryAt         time.Time      `db:"entry_at" json:"entry_at"`
	ExitAt          time.Time      `db:"exit_at" json:"exit_at"`
	PnlNet          float64        `db:"pnl_net" json:"pnl_net"`
	RiskAmount      *float64       `db:"risk_amount" json:"risk_amount,omitempty"`
	Emotion         *string        `db:"emotion" json:"emotion,omitempty"`
	SetupRating     *string        `db:"setup_rating" json:"setup_rating,omitempty"`
	SetupCompliance string         `db:"setup_compliance" json:"setup_compliance"`
	OutsidePlan     bool           `db:"outside_plan" json:"outside_plan"`
	PreNotes        string         `db:"pre_notes" json:"pre_notes"`
	PostNotes       string         `db:"post_notes" json:"post_notes"`
	BrokenRuleIDs   pq.StringArray `db:"broken_rule_ids" json:"broken_rule_ids"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// HasRiskDefined reports whether a positive risked amount is present
func (t *Trade) HasRiskDefined() bool {
	return t.RiskAmount != nil && *t.RiskAmount > 0
}

// HasNotes reports whether pre- or post-trade notes were written
func (t *Trade) HasNotes() bool {
	return t.PreNotes != "" || t.PostNotes != ""
}

// TradeRequest represents the payload to create or update a trade
type TradeRequest struct {
	AccountID       string    `json:"account_id" binding:"required,uuid"`
	StrategyID      *string   `json:"strategy_id" binding:"omitempty,uuid"`
	Symbol          string    `json:"symbol" binding:"required,min=1,max=30"`
	Direction       string    `json:"direction" binding:"required,oneof=buy sell"`
	EntryAt         time.Time `json:"entry_at" binding:"required"`
	ExitAt          time.Time `json:"exit_at" binding:"required"`
	PnlNet          *float64  `json:"pnl_net" binding:"required"`
	RiskAmount      *float64  `json:"risk_amount" binding:"omitempty,gte=0"`
	Emotion         *string   `json:"emotion" binding:"omitempty,max=50"`
	SetupRating     *string   `json:"setup_rating" binding:"omitempty,max=20"`
	SetupCompliance string    `json:"setup_compliance" binding:"omitempty,oneof=full partial none"`
	OutsidePlan     bool      `json:"outside_plan"`
	PreNotes        string    `json:"pre_notes"`
	PostNotes       string    `json:"post_notes"`
	BrokenRuleIDs   []string  `json:"broken_rule_ids" binding:"omitempty,dive,uuid"`
}
