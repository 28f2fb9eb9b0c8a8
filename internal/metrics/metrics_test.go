package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sagetrade/backend/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func tradesFromPnls(pnls ...float64) []model.Trade {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	trades := make([]model.Trade, 0, len(pnls))
	for i, pnl := range pnls {
		trades = append(trades, model.Trade{
			EntryAt: base.Add(time.Duration(i) * time.Hour),
			PnlNet:  pnl,
		})
	}
	return trades
}

func TestStreaks_WalkExample(t *testing.T) {
	// Running streak values: 1, 2, -1, -2, -3, 1
	s := Streaks(tradesFromPnls(10, 5, -3, -2, -1, 7))

	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 2, s.Best)
	assert.Equal(t, -3, s.Worst)
}

func TestStreaks_SkipsBreakEven(t *testing.T) {
	s := Streaks(tradesFromPnls(10, 0, 5, 0, 8))

	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Best)
	assert.Equal(t, 0, s.Worst)
}

func TestStreaks_Empty(t *testing.T) {
	s := Streaks(nil)

	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 0, s.Best)
	assert.Equal(t, 0, s.Worst)
}

func TestStreaks_UnsortedInput(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		{EntryAt: base.Add(2 * time.Hour), PnlNet: 7},
		{EntryAt: base, PnlNet: -3},
		{EntryAt: base.Add(time.Hour), PnlNet: -5},
	}

	// Chronological: -1, -2, 1
	s := Streaks(trades)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, -2, s.Worst)
}

func TestDisciplineScore_EmptyIsZero(t *testing.T) {
	b := DisciplineScore(nil)

	assert.Equal(t, 0, b.Total)
}

func TestDisciplineScore_PerfectHistory(t *testing.T) {
	// Single day, all inside plan, all with risk and notes -> 100
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		{EntryAt: base, PnlNet: 50, RiskAmount: floatPtr(25), PreNotes: "setup A"},
		{EntryAt: base.Add(time.Hour), PnlNet: 30, RiskAmount: floatPtr(25), PostNotes: "clean exit"},
	}

	b := DisciplineScore(trades)

	assert.InDelta(t, 40, b.PlanAdherence, 1e-9)
	assert.InDelta(t, 30, b.Consistency, 1e-9)
	assert.InDelta(t, 20, b.RiskDefined, 1e-9)
	assert.InDelta(t, 10, b.Reflection, 1e-9)
	assert.Equal(t, 100, b.Total)
}

func TestDisciplineScore_Components(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		{EntryAt: base, PnlNet: 100, RiskAmount: floatPtr(50), PreNotes: "notes"},
		{EntryAt: base.Add(time.Hour), PnlNet: 100, OutsidePlan: true},
	}

	b := DisciplineScore(trades)

	// Half inside plan, half with risk, half with notes, single trading day.
	assert.InDelta(t, 20, b.PlanAdherence, 1e-9)
	assert.InDelta(t, 30, b.Consistency, 1e-9)
	assert.InDelta(t, 10, b.RiskDefined, 1e-9)
	assert.InDelta(t, 5, b.Reflection, 1e-9)
	assert.Equal(t, 65, b.Total)
}

func TestDisciplineScore_ZeroRiskDoesNotCount(t *testing.T) {
	trades := tradesFromPnls(10)
	trades[0].RiskAmount = floatPtr(0)

	b := DisciplineScore(trades)
	assert.InDelta(t, 0, b.RiskDefined, 1e-9)
}

func TestConsistencyComponent_VolatileDaysScoreLower(t *testing.T) {
	steady := consistencyComponent([]DayTotal{{Pnl: 100}, {Pnl: 110}, {Pnl: 90}})
	volatile := consistencyComponent([]DayTotal{{Pnl: 500}, {Pnl: -400}, {Pnl: 200}})

	assert.Greater(t, steady, volatile)
	assert.GreaterOrEqual(t, volatile, 0.0)
	assert.LessOrEqual(t, steady, 30.0)
}

func TestConsistencyComponent_ZeroMeanUsesUnitDivisor(t *testing.T) {
	// mean 0 -> divisor 1, stddev 100 -> penalty capped at 30
	c := consistencyComponent([]DayTotal{{Pnl: 100}, {Pnl: -100}})

	assert.InDelta(t, 0, c, 1e-9)
}

func TestDailyTotals_GroupsByUTCDate(t *testing.T) {
	trades := []model.Trade{
		{EntryAt: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), PnlNet: 50},
		{EntryAt: time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC), PnlNet: -20},
		{EntryAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), PnlNet: 30},
	}

	days := DailyTotals(trades)

	assert.Len(t, days, 2)
	assert.Equal(t, "2024-03-04", days[0].Date)
	assert.InDelta(t, 30, days[0].Pnl, 1e-9)
	assert.Equal(t, 2, days[0].Trades)
	assert.Equal(t, "2024-03-05", days[1].Date)
	assert.Equal(t, 1, days[1].Trades)
}

func TestDailyAverages_Example(t *testing.T) {
	days := []DayTotal{{Pnl: 50}, {Pnl: -20}, {Pnl: 30}, {Pnl: -10}}

	avgWin, avgLoss := DailyAverages(days)

	assert.InDelta(t, 40, avgWin, 1e-9)
	assert.InDelta(t, -15, avgLoss, 1e-9)
}

func TestDailyAverages_EmptyPartitionsAreZero(t *testing.T) {
	avgWin, avgLoss := DailyAverages([]DayTotal{{Pnl: 50}})

	assert.InDelta(t, 50, avgWin, 1e-9)
	assert.InDelta(t, 0, avgLoss, 1e-9)
}

func TestPlanDays_TrailingStreak(t *testing.T) {
	day := func(d int, outside bool) model.Trade {
		return model.Trade{
			EntryAt:     time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC),
			OutsidePlan: outside,
		}
	}
	trades := []model.Trade{
		day(1, false),
		day(2, true),
		day(2, false), // day 2 broken by the outside trade
		day(3, false),
		day(4, false),
	}

	stats := PlanDays(trades)

	assert.Equal(t, 4, stats.TotalDays)
	assert.Equal(t, 3, stats.DaysRespected)
	assert.Equal(t, 2, stats.CurrentStreak)
}

func TestPlanDays_StreakBrokenOnLatestDay(t *testing.T) {
	trades := []model.Trade{
		{EntryAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{EntryAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), OutsidePlan: true},
	}

	stats := PlanDays(trades)

	assert.Equal(t, 1, stats.DaysRespected)
	assert.Equal(t, 0, stats.CurrentStreak)
}

func TestSummarize(t *testing.T) {
	o := Summarize(tradesFromPnls(100, -50, 0, 200, -25))

	assert.Equal(t, 5, o.TotalTrades)
	assert.Equal(t, 2, o.Wins)
	assert.Equal(t, 2, o.Losses)
	assert.Equal(t, 1, o.BreakEven)
	assert.InDelta(t, 50, o.WinRate, 1e-9)
	assert.InDelta(t, 150, o.AvgWin, 1e-9)
	assert.InDelta(t, -37.5, o.AvgLoss, 1e-9)
	assert.InDelta(t, 4, o.ProfitFactor, 1e-9)
}

func TestEquityCurve(t *testing.T) {
	points := EquityCurve(10000, tradesFromPnls(100, -50, 200))

	assert.Len(t, points, 3)
	assert.InDelta(t, 10100, points[0].Balance, 1e-9)
	assert.InDelta(t, 10050, points[1].Balance, 1e-9)
	assert.InDelta(t, 10250, points[2].Balance, 1e-9)
}
