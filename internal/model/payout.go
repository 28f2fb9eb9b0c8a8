package model

import "time"

// Payout is a withdrawal event against an account. Deleting a payout
// restores the derived balance by construction.
type Payout struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	AccountID  string    `db:"account_id" json:"account_id"`
	Amount     float64   `db:"amount" json:"amount"`
	PayoutDate time.Time `db:"payout_date" json:"payout_date"`
	Notes      string    `db:"notes" json:"notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PayoutRequest represents the payload to create a payout
type PayoutRequest struct {
	AccountID  string  `json:"account_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	PayoutDate string  `json:"payout_date" binding:"required,datetime=2006-01-02"`
	Notes      string  `json:"notes"`
}
