// Package ledger reconciles account balances from raw trade and payout
// history. Balances are never persisted; every caller recomputes from the
// authoritative record set.
package ledger

import (
	"sort"

	"sagetrade/backend/internal/model"
)

// Summary is the reconciled state of an account's ledger
type Summary struct {
	Balance       float64 `json:"balance"`
	HighWaterMark float64 `json:"high_water_mark"`
	TotalPnl      float64 `json:"total_pnl"`
	TotalPayouts  float64 `json:"total_payouts"`
}

// Withdrawal is the eligibility decision for an account's current state
type Withdrawal struct {
	Threshold     float64 `json:"threshold"`
	MaxWithdrawal float64 `json:"max_withdrawal"`
	Eligible      bool    `json:"eligible"`
}

// Reconcile computes the current balance and high-water mark from initial
// capital plus signed trade PnL minus payouts. The high-water mark tracks
// peak trading performance in entry-time order; payouts never reduce it.
func Reconcile(initialCapital float64, trades []model.Trade, payouts []model.Payout) Summary {
	ordered := make([]model.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryAt.Before(ordered[j].EntryAt)
	})

	running := initialCapital
	hwm := initialCapital
	totalPnl := 0.0
	for _, t := range ordered {
		running += t.PnlNet
		totalPnl += t.PnlNet
		if running > hwm {
			hwm = running
		}
	}

	totalPayouts := 0.0
	for _, p := range payouts {
		totalPayouts += p.Amount
	}

	return Summary{
		Balance:       initialCapital + totalPnl - totalPayouts,
		HighWaterMark: hwm,
		TotalPnl:      totalPnl,
		TotalPayouts:  totalPayouts,
	}
}

// EvaluateWithdrawal computes the loss-limit threshold and maximum
// withdrawable amount for the given drawdown policy.
//
// The trailing threshold is capped at initial capital: once the high-water
// mark grows past initial_capital + drawdown, the threshold freezes and
// never rises further.
func EvaluateWithdrawal(acct *model.Account, s Summary) Withdrawal {
	drawdown := 0.0
	if acct.DrawdownAmount != nil {
		drawdown = *acct.DrawdownAmount
	}

	threshold := acct.InitialCapital
	if acct.DrawdownType == model.DrawdownTrailing && drawdown > 0 {
		trailing := s.HighWaterMark - drawdown
		if trailing < threshold {
			threshold = trailing
		}
	}

	maxWithdrawal := s.Balance - threshold
	if maxWithdrawal < 0 {
		maxWithdrawal = 0
	}

	return Withdrawal{
		Threshold:     threshold,
		MaxWithdrawal: maxWithdrawal,
		Eligible:      s.Balance > threshold,
	}
}
