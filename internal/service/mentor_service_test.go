package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sagetrade/backend/internal/model"
)

func TestBuildMentorContext(t *testing.T) {
	dd := 2000.0
	acct := &model.Account{
		ID:             "acct-1",
		Name:           "Eval 10k",
		Type:           model.AccountTypeEvaluation,
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownTrailing,
		DrawdownAmount: &dd,
	}
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		{EntryAt: base, Symbol: "NQ", Direction: model.DirectionBuy, PnlNet: 500},
		{EntryAt: base.Add(24 * time.Hour), Symbol: "NQ", Direction: model.DirectionSell, PnlNet: -200, OutsidePlan: true},
	}
	payouts := []model.Payout{{Amount: 100}}
	plan := &model.TradingPlan{
		RiskPerTradePct: 1,
		MaxDailyRiskPct: 3,
		MaxTradesPerDay: 3,
		StopAfterLosses: 2,
		PsychRules: []model.PsychRule{
			{Text: "No revenge trading", Active: true},
			{Text: "Old rule", Active: false},
		},
	}

	out := buildMentorContext(acct, trades, payouts, plan)

	assert.Contains(t, out, `Account "Eval 10k"`)
	assert.Contains(t, out, "balance 10200.00")
	assert.Contains(t, out, "high-water mark 10500.00")
	assert.Contains(t, out, "1 wins, 1 losses")
	assert.Contains(t, out, "No revenge trading")
	assert.NotContains(t, out, "Old rule")
	assert.Contains(t, out, "OUTSIDE PLAN")
	assert.Contains(t, out, "2024-05-01 buy NQ pnl 500.00")
}

func TestBuildMentorContext_NoPlan(t *testing.T) {
	acct := &model.Account{
		Name:           "Personal",
		Type:           model.AccountTypePersonal,
		InitialCapital: 5000,
		DrawdownType:   model.DrawdownNone,
	}

	out := buildMentorContext(acct, nil, nil, nil)

	assert.Contains(t, out, "balance 5000.00")
	assert.NotContains(t, out, "risk per trade")
	assert.NotContains(t, out, "Recent trades")
}
