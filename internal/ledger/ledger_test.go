package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sagetrade/backend/internal/model"
)

func tradesFromPnls(pnls ...float64) []model.Trade {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	trades := make([]model.Trade, 0, len(pnls))
	for i, pnl := range pnls {
		trades = append(trades, model.Trade{
			EntryAt: base.Add(time.Duration(i) * time.Hour),
			ExitAt:  base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
			PnlNet:  pnl,
		})
	}
	return trades
}

func payoutsFromAmounts(amounts ...float64) []model.Payout {
	payouts := make([]model.Payout, 0, len(amounts))
	for _, a := range amounts {
		payouts = append(payouts, model.Payout{Amount: a})
	}
	return payouts
}

func TestReconcile_TradesOnly(t *testing.T) {
	s := Reconcile(10000, tradesFromPnls(150, -50, 200), nil)

	assert.InDelta(t, 10300, s.Balance, 1e-9)
	assert.InDelta(t, 300, s.TotalPnl, 1e-9)
	assert.InDelta(t, 0, s.TotalPayouts, 1e-9)
}

func TestReconcile_PayoutsOnly(t *testing.T) {
	s := Reconcile(10000, nil, payoutsFromAmounts(500, 250))

	assert.InDelta(t, 9250, s.Balance, 1e-9)
	assert.InDelta(t, 10000, s.HighWaterMark, 1e-9)
}

func TestReconcile_Empty(t *testing.T) {
	s := Reconcile(5000, nil, nil)

	assert.InDelta(t, 5000, s.Balance, 1e-9)
	assert.InDelta(t, 5000, s.HighWaterMark, 1e-9)
}

func TestReconcile_HighWaterMark(t *testing.T) {
	// Running: 10100, 10050, 10350, 10000 -> peak 10350
	s := Reconcile(10000, tradesFromPnls(100, -50, 300, -350), nil)

	assert.InDelta(t, 10350, s.HighWaterMark, 1e-9)
	assert.InDelta(t, 10000, s.Balance, 1e-9)
}

func TestReconcile_HighWaterMarkNeverBelowInitial(t *testing.T) {
	s := Reconcile(10000, tradesFromPnls(-500, -300, 100), nil)

	assert.InDelta(t, 10000, s.HighWaterMark, 1e-9)
}

func TestReconcile_HighWaterMarkMonotonic(t *testing.T) {
	pnls := []float64{200, -400, 600, -100, 50, -700, 900}
	prev := 0.0
	for n := 0; n <= len(pnls); n++ {
		s := Reconcile(10000, tradesFromPnls(pnls[:n]...), nil)
		assert.GreaterOrEqual(t, s.HighWaterMark, prev, "hwm shrank at prefix %d", n)
		assert.GreaterOrEqual(t, s.HighWaterMark, 10000.0)
		prev = s.HighWaterMark
	}
}

func TestReconcile_PayoutsDoNotReduceHighWaterMark(t *testing.T) {
	s := Reconcile(10000, tradesFromPnls(2000), payoutsFromAmounts(1500))

	assert.InDelta(t, 12000, s.HighWaterMark, 1e-9)
	assert.InDelta(t, 10500, s.Balance, 1e-9)
}

func TestReconcile_UnsortedInput(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		{EntryAt: base.Add(2 * time.Hour), PnlNet: -400},
		{EntryAt: base, PnlNet: 300},
		{EntryAt: base.Add(time.Hour), PnlNet: 100},
	}

	// Chronological walk: 10300, 10400, 10000 -> peak 10400
	s := Reconcile(10000, trades, nil)
	assert.InDelta(t, 10400, s.HighWaterMark, 1e-9)
}

func floatPtr(v float64) *float64 { return &v }

func TestEvaluateWithdrawal_TrailingFreeze(t *testing.T) {
	acct := &model.Account{
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownTrailing,
		DrawdownAmount: floatPtr(2000),
	}

	w := EvaluateWithdrawal(acct, Summary{Balance: 14000, HighWaterMark: 15000})

	// min(15000-2000, 10000) = 10000, not 13000
	assert.InDelta(t, 10000, w.Threshold, 1e-9)
	assert.InDelta(t, 4000, w.MaxWithdrawal, 1e-9)
	assert.True(t, w.Eligible)
}

func TestEvaluateWithdrawal_TrailingBelowInitial(t *testing.T) {
	acct := &model.Account{
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownTrailing,
		DrawdownAmount: floatPtr(2000),
	}

	w := EvaluateWithdrawal(acct, Summary{Balance: 9500, HighWaterMark: 10500})

	assert.InDelta(t, 8500, w.Threshold, 1e-9)
	assert.InDelta(t, 1000, w.MaxWithdrawal, 1e-9)
	assert.True(t, w.Eligible)
}

func TestEvaluateWithdrawal_FixedIgnoresHistory(t *testing.T) {
	acct := &model.Account{
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownFixed,
		DrawdownAmount: floatPtr(3000),
	}

	for _, hwm := range []float64{10000, 12000, 50000} {
		w := EvaluateWithdrawal(acct, Summary{Balance: 11000, HighWaterMark: hwm})
		assert.InDelta(t, 10000, w.Threshold, 1e-9)
	}
}

func TestEvaluateWithdrawal_NonePolicy(t *testing.T) {
	acct := &model.Account{
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownNone,
	}

	w := EvaluateWithdrawal(acct, Summary{Balance: 9000, HighWaterMark: 10000})

	assert.InDelta(t, 10000, w.Threshold, 1e-9)
	assert.InDelta(t, 0, w.MaxWithdrawal, 1e-9)
	assert.False(t, w.Eligible)
}

func TestEvaluateWithdrawal_ZeroDrawdownActsAsNone(t *testing.T) {
	acct := &model.Account{
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownTrailing,
		DrawdownAmount: floatPtr(0),
	}

	w := EvaluateWithdrawal(acct, Summary{Balance: 12000, HighWaterMark: 12000})

	assert.InDelta(t, 10000, w.Threshold, 1e-9)
}

func TestEvaluateWithdrawal_MaxNeverNegative(t *testing.T) {
	acct := &model.Account{
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownFixed,
		DrawdownAmount: floatPtr(1000),
	}

	w := EvaluateWithdrawal(acct, Summary{Balance: 8000, HighWaterMark: 10000})

	assert.InDelta(t, 0, w.MaxWithdrawal, 1e-9)
	assert.False(t, w.Eligible)
}

func TestPayoutRoundTripRestoresBalance(t *testing.T) {
	trades := tradesFromPnls(1200, -200)

	before := Reconcile(10000, trades, nil)
	during := Reconcile(10000, trades, payoutsFromAmounts(600))
	after := Reconcile(10000, trades, nil)

	assert.InDelta(t, before.Balance-600, during.Balance, 1e-9)
	assert.InDelta(t, before.Balance, after.Balance, 1e-9)
	assert.InDelta(t, before.HighWaterMark, during.HighWaterMark, 1e-9)
}
