package model

import "time"

// Strategy is a named trading method with an ordered rule checklist
type Strategy struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Rules       []Rule    `json:"rules"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Rule is one checklist item of a strategy
type Rule struct {
	ID         string `db:"id" json:"id"`
	StrategyID string `db:"strategy_id" json:"strategy_id"`
	RuleText   string `db:"rule_text" json:"rule_text"`
	Position   int    `db:"position" json:"position"`
}

// StrategyRequest represents the payload to create or update a strategy
type StrategyRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	Rules       []string `json:"rules" binding:"omitempty,dive,min=1,max=500"`
}
