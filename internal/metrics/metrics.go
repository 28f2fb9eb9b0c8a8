// Package metrics reduces trade lists into the dashboard numbers: streaks,
// the 0-100 discipline score, daily aggregates and the equity curve.
//
// All daily grouping uses the UTC calendar date of the entry timestamp.
// Break-even trades (PnL == 0) are skipped by streak calculations.
package metrics

import (
	"math"
	"sort"
	"time"

	"sagetrade/backend/internal/model"
)

// Discipline score component weights
const (
	weightPlanAdherence = 40.0
	weightConsistency   = 30.0
	weightRiskDefined   = 20.0
	weightReflection    = 10.0
)

// StreakStats holds the signed streak walk results. Current carries the
// direction in its sign: +3 means three wins in a row.
type StreakStats struct {
	Current int `json:"current"`
	Best    int `json:"best"`
	Worst   int `json:"worst"`
}

// ScoreBreakdown is the weighted discipline score and its four components
type ScoreBreakdown struct {
	PlanAdherence float64 `json:"plan_adherence"` // 0..40
	Consistency   float64 `json:"consistency"`    // 0..30
	RiskDefined   float64 `json:"risk_defined"`   // 0..20
	Reflection    float64 `json:"reflection"`     // 0..10
	Total         int     `json:"total"`          // 0..100
}

// DayTotal is one calendar day's aggregate
type DayTotal struct {
	Date   string  `json:"date"` // YYYY-MM-DD, UTC
	Pnl    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

// PlanDayStats counts days where every trade stayed inside the plan
type PlanDayStats struct {
	TotalDays     int `json:"total_days"`
	DaysRespected int `json:"days_respected"`
	CurrentStreak int `json:"current_streak"` // trailing run ending at the latest traded day
}

// Overview holds per-trade aggregates for the dashboard header
type Overview struct {
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	BreakEven    int     `json:"break_even"`
	WinRate      float64 `json:"win_rate"` // percent of non-break-even trades
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	ProfitFactor float64 `json:"profit_factor"`
}

// EquityPoint is one step of the equity curve
type EquityPoint struct {
	Time    time.Time `json:"time"`
	Balance float64   `json:"balance"`
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func sortedByEntry(trades []model.Trade) []model.Trade {
	ordered := make([]model.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryAt.Before(ordered[j].EntryAt)
	})
	return ordered
}

// Streaks walks the trades in entry-time order keeping a signed counter:
// a win extends a positive run or resets to +1, a loss is symmetric.
// Break-even trades are skipped.
func Streaks(trades []model.Trade) StreakStats {
	var stats StreakStats
	streak := 0
	for _, t := range sortedByEntry(trades) {
		switch {
		case t.PnlNet > 0:
			if streak >= 0 {
				streak++
			} else {
				streak = 1
			}
		case t.PnlNet < 0:
			if streak <= 0 {
				streak--
			} else {
				streak = -1
			}
		default:
			continue
		}
		if streak > stats.Best {
			stats.Best = streak
		}
		if streak < stats.Worst {
			stats.Worst = streak
		}
	}
	stats.Current = streak
	return stats
}

// DisciplineScore computes the weighted 0-100 score. Zero trades score 0.
func DisciplineScore(trades []model.Trade) ScoreBreakdown {
	total := len(trades)
	if total == 0 {
		return ScoreBreakdown{}
	}

	inside, withRisk, withNotes := 0, 0, 0
	for _, t := range trades {
		if !t.OutsidePlan {
			inside++
		}
		if t.HasRiskDefined() {
			withRisk++
		}
		if t.HasNotes() {
			withNotes++
		}
	}

	b := ScoreBreakdown{
		PlanAdherence: float64(inside) / float64(total) * weightPlanAdherence,
		Consistency:   consistencyComponent(DailyTotals(trades)),
		RiskDefined:   float64(withRisk) / float64(total) * weightRiskDefined,
		Reflection:    float64(withNotes) / float64(total) * weightReflection,
	}

	score := math.Round(b.PlanAdherence + b.Consistency + b.RiskDefined + b.Reflection)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	b.Total = int(score)
	return b
}

// consistencyComponent scores the relative volatility of daily results:
// 30 - (stddev / |mean|) * 15, floored at 0 and capped at 30. A zero mean
// divides by 1 instead. Single-day histories have zero variance and score
// the full 30.
func consistencyComponent(days []DayTotal) float64 {
	n := len(days)
	if n == 0 {
		return 0
	}

	sum := 0.0
	for _, d := range days {
		sum += d.Pnl
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, d := range days {
		diff := d.Pnl - mean
		variance += diff * diff
	}
	stddev := math.Sqrt(variance / float64(n))

	denom := math.Abs(mean)
	if denom == 0 {
		denom = 1
	}

	penalty := math.Min(weightConsistency, stddev/denom*15)
	return math.Max(0, weightConsistency-penalty)
}

// DailyTotals groups trades by the UTC calendar date of their entry time,
// summing PnL and counting trades per day. Result is sorted by date.
func DailyTotals(trades []model.Trade) []DayTotal {
	byDay := make(map[string]*DayTotal)
	for _, t := range trades {
		key := dayKey(t.EntryAt)
		d, ok := byDay[key]
		if !ok {
			d = &DayTotal{Date: key}
			byDay[key] = d
		}
		d.Pnl += t.PnlNet
		d.Trades++
	}

	days := make([]DayTotal, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// DailyAverages partitions the day totals by sign and averages each set
// independently. Empty sets average to 0, not NaN. Zero days belong to
// neither set.
func DailyAverages(days []DayTotal) (avgWin, avgLoss float64) {
	winSum, lossSum := 0.0, 0.0
	winDays, lossDays := 0, 0
	for _, d := range days {
		switch {
		case d.Pnl > 0:
			winSum += d.Pnl
			winDays++
		case d.Pnl < 0:
			lossSum += d.Pnl
			lossDays++
		}
	}
	if winDays > 0 {
		avgWin = winSum / float64(winDays)
	}
	if lossDays > 0 {
		avgLoss = lossSum / float64(lossDays)
	}
	return avgWin, avgLoss
}

// PlanDays counts days where every trade has its outside-plan flag false,
// and the trailing run of such days ending at the latest traded day.
func PlanDays(trades []model.Trade) PlanDayStats {
	respected := make(map[string]bool)
	for _, t := range trades {
		key := dayKey(t.EntryAt)
		if _, ok := respected[key]; !ok {
			respected[key] = true
		}
		if t.OutsidePlan {
			respected[key] = false
		}
	}

	days := make([]string, 0, len(respected))
	for key := range respected {
		days = append(days, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	stats := PlanDayStats{TotalDays: len(days)}
	for _, key := range days {
		if respected[key] {
			stats.DaysRespected++
		}
	}
	for _, key := range days {
		if !respected[key] {
			break
		}
		stats.CurrentStreak++
	}
	return stats
}

// Summarize computes the per-trade dashboard aggregates
func Summarize(trades []model.Trade) Overview {
	o := Overview{TotalTrades: len(trades)}

	winSum, lossSum := 0.0, 0.0
	for _, t := range trades {
		switch {
		case t.PnlNet > 0:
			o.Wins++
			winSum += t.PnlNet
		case t.PnlNet < 0:
			o.Losses++
			lossSum += t.PnlNet
		default:
			o.BreakEven++
		}
	}

	if decided := o.Wins + o.Losses; decided > 0 {
		o.WinRate = float64(o.Wins) / float64(decided) * 100
	}
	if o.Wins > 0 {
		o.AvgWin = winSum / float64(o.Wins)
	}
	if o.Losses > 0 {
		o.AvgLoss = lossSum / float64(o.Losses)
	}
	if lossSum != 0 {
		o.ProfitFactor = winSum / math.Abs(lossSum)
	}
	return o
}

// EquityCurve walks the trades in entry-time order producing the running
// balance after each trade. Payouts are excluded: the curve mirrors the
// high-water walk, not withdrawable cash.
func EquityCurve(initialCapital float64, trades []model.Trade) []EquityPoint {
	ordered := sortedByEntry(trades)
	points := make([]EquityPoint, 0, len(ordered))
	running := initialCapital
	for _, t := range ordered {
		running += t.PnlNet
		points = append(points, EquityPoint{Time: t.EntryAt, Balance: running})
	}
	return points
}
