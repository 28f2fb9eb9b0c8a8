package service

import (
	"context"
	"time"

	"sagetrade/backend/internal/ledger"
	"sagetrade/backend/internal/metrics"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/logger"
	"sagetrade/backend/pkg/redis"
)

const dashboardCacheTTL = 5 * time.Minute

// Dashboard is the full per-account dashboard payload
type Dashboard struct {
	Account    *model.AccountSummary  `json:"account"`
	Overview   metrics.Overview       `json:"overview"`
	Streaks    metrics.StreakStats    `json:"streaks"`
	Discipline metrics.ScoreBreakdown `json:"discipline"`
	AvgWinDay  float64                `json:"avg_win_day"`
	AvgLossDay float64                `json:"avg_loss_day"`
	PlanDays   metrics.PlanDayStats   `json:"plan_days"`
}

// MetricsService computes dashboard metrics, the calendar and the equity
// curve. Dashboard results are cached in Redis and invalidated by every
// write that touches the account.
type MetricsService struct {
	accounts *repository.AccountRepository
	trades   *repository.TradeRepository
	payouts  *repository.PayoutRepository
	redis    *redis.Client
	log      *logger.Logger
}

// NewMetricsService creates a new metrics service
func NewMetricsService(
	accounts *repository.AccountRepository,
	trades *repository.TradeRepository,
	payouts *repository.PayoutRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) *MetricsService {
	return &MetricsService{
		accounts: accounts,
		trades:   trades,
		payouts:  payouts,
		redis:    redisClient,
		log:      log,
	}
}

// Dashboard builds the account dashboard, serving from cache when fresh
func (s *MetricsService) Dashboard(ctx context.Context, userID, accountID string) (*Dashboard, error) {
	cacheKey := redis.DashboardMetricsKey(accountID)

	var cached Dashboard
	if err := s.redis.GetJSON(ctx, cacheKey, &cached); err == nil {
		// Ownership still has to hold even on a cache hit
		if cached.Account != nil && cached.Account.AccountID == accountID {
			if _, err := s.accounts.GetByID(ctx, userID, accountID); err == nil {
				return &cached, nil
			}
		}
	}

	acct, trades, payouts, err := s.loadHistory(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	reconciled := ledger.Reconcile(acct.InitialCapital, trades, payouts)
	withdrawal := ledger.EvaluateWithdrawal(acct, reconciled)

	summary := &model.AccountSummary{
		AccountID:      acct.ID,
		Name:           acct.Name,
		InitialCapital: acct.InitialCapital,
		Balance:        reconciled.Balance,
		HighWaterMark:  reconciled.HighWaterMark,
		Threshold:      withdrawal.Threshold,
		MaxWithdrawal:  withdrawal.MaxWithdrawal,
		Eligible:       withdrawal.Eligible,
		TotalPnl:       reconciled.TotalPnl,
		TotalPayouts:   reconciled.TotalPayouts,
		TradeCount:     len(trades),
	}
	if acct.ProfitTarget != nil && *acct.ProfitTarget > 0 {
		progress := reconciled.TotalPnl / *acct.ProfitTarget
		summary.TargetProgress = &progress
	}

	avgWin, avgLoss := metrics.DailyAverages(metrics.DailyTotals(trades))
	dashboard := &Dashboard{
		Account:    summary,
		Overview:   metrics.Summarize(trades),
		Streaks:    metrics.Streaks(trades),
		Discipline: metrics.DisciplineScore(trades),
		AvgWinDay:  avgWin,
		AvgLossDay: avgLoss,
		PlanDays:   metrics.PlanDays(trades),
	}

	if err := s.redis.SetJSON(ctx, cacheKey, dashboard, dashboardCacheTTL); err != nil {
		s.log.WithField("account_id", accountID).Warn("Failed to cache dashboard")
	}
	return dashboard, nil
}

// Calendar returns per-day totals for the account, optionally windowed to
// one month ("2006-01")
func (s *MetricsService) Calendar(ctx context.Context, userID, accountID, month string) ([]metrics.DayTotal, error) {
	_, trades, _, err := s.loadHistory(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	days := metrics.DailyTotals(trades)
	if month == "" {
		return days, nil
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, util.ErrValidation("month must be YYYY-MM")
	}

	filtered := make([]metrics.DayTotal, 0, len(days))
	for _, d := range days {
		if len(d.Date) >= 7 && d.Date[:7] == month {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// EquityCurve returns the running balance after each trade
func (s *MetricsService) EquityCurve(ctx context.Context, userID, accountID string) ([]metrics.EquityPoint, error) {
	acct, trades, _, err := s.loadHistory(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return metrics.EquityCurve(acct.InitialCapital, trades), nil
}

func (s *MetricsService) loadHistory(ctx context.Context, userID, accountID string) (*model.Account, []model.Trade, []model.Payout, error) {
	acct, err := s.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, nil, nil, util.ErrAccountNotFound()
	}
	trades, err := s.trades.ListByAccount(ctx, userID, accountID)
	if err != nil {
		return nil, nil, nil, util.WrapError(500, util.ErrCodeInternal, "Failed to load trades", err)
	}
	payouts, err := s.payouts.ListByAccount(ctx, userID, accountID)
	if err != nil {
		return nil, nil, nil, util.WrapError(500, util.ErrCodeInternal, "Failed to load payouts", err)
	}
	return acct, trades, payouts, nil
}
