package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sagetrade/backend/internal/ledger"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/logger"
	"sagetrade/backend/pkg/redis"
)

// AccountService manages trading accounts and their derived ledger state
type AccountService struct {
	accounts *repository.AccountRepository
	trades   *repository.TradeRepository
	payouts  *repository.PayoutRepository
	redis    *redis.Client
	log      *logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accounts *repository.AccountRepository,
	trades *repository.TradeRepository,
	payouts *repository.PayoutRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		trades:   trades,
		payouts:  payouts,
		redis:    redisClient,
		log:      log,
	}
}

// Create creates a new trading account
func (s *AccountService) Create(ctx context.Context, userID string, req *model.AccountRequest) (*model.Account, error) {
	if err := validateDrawdown(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := &model.Account{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           req.Name,
		Type:           req.Type,
		AssetClass:     req.AssetClass,
		InitialCapital: req.InitialCapital,
		DrawdownType:   req.DrawdownType,
		DrawdownAmount: req.DrawdownAmount,
		ProfitTarget:   req.ProfitTarget,
		FundingCompany: req.FundingCompany,
		PhaseCount:     req.PhaseCount,
		PhaseTargets:   req.PhaseTargets,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to create account", err)
	}
	return acct, nil
}

// Get fetches one account
func (s *AccountService) Get(ctx context.Context, userID, accountID string) (*model.Account, error) {
	acct, err := s.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, util.ErrAccountNotFound()
	}
	return acct, nil
}

// List returns the user's accounts
func (s *AccountService) List(ctx context.Context, userID string) ([]model.Account, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to list accounts", err)
	}
	return accounts, nil
}

// Update replaces an account's settings. Changing initial capital or the
// drawdown policy immediately changes the derived balance and threshold.
func (s *AccountService) Update(ctx context.Context, userID, accountID string, req *model.AccountRequest) (*model.Account, error) {
	if err := validateDrawdown(req); err != nil {
		return nil, err
	}

	acct, err := s.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, util.ErrAccountNotFound()
	}

	acct.Name = req.Name
	acct.Type = req.Type
	acct.AssetClass = req.AssetClass
	acct.InitialCapital = req.InitialCapital
	acct.DrawdownType = req.DrawdownType
	acct.DrawdownAmount = req.DrawdownAmount
	acct.ProfitTarget = req.ProfitTarget
	acct.FundingCompany = req.FundingCompany
	acct.PhaseCount = req.PhaseCount
	acct.PhaseTargets = req.PhaseTargets

	if err := s.accounts.Update(ctx, acct); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrAccountNotFound()
		}
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to update account", err)
	}

	s.invalidateDashboard(ctx, accountID)
	return acct, nil
}

// Delete removes an account with all its trades and payouts
func (s *AccountService) Delete(ctx context.Context, userID, accountID string) error {
	if err := s.accounts.Delete(ctx, userID, accountID); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrAccountNotFound()
		}
		return util.WrapError(500, util.ErrCodeInternal, "Failed to delete account", err)
	}
	s.invalidateDashboard(ctx, accountID)
	return nil
}

// Summary reconciles the account's ledger and evaluates withdrawal
// eligibility from the full trade and payout history.
func (s *AccountService) Summary(ctx context.Context, userID, accountID string) (*model.AccountSummary, error) {
	acct, err := s.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, util.ErrAccountNotFound()
	}

	trades, err := s.trades.ListByAccount(ctx, userID, accountID)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to load trades", err)
	}
	payouts, err := s.payouts.ListByAccount(ctx, userID, accountID)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to load payouts", err)
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
	return summary, nil
}

func (s *AccountService) invalidateDashboard(ctx context.Context, accountID string) {
	if err := s.redis.Del(ctx, redis.DashboardMetricsKey(accountID)); err != nil {
		s.log.WithField("account_id", accountID).Warn("Failed to invalidate dashboard cache")
	}
}

func validateDrawdown(req *model.AccountRequest) error {
	if req.DrawdownType != model.DrawdownNone {
		if req.DrawdownAmount == nil || *req.DrawdownAmount <= 0 {
			return util.ErrValidation("drawdown_amount must be positive for fixed and trailing policies")
		}
	}
	return nil
}
