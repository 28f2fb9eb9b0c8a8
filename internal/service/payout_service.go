package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sagetrade/backend/internal/ledger"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/logger"
	"sagetrade/backend/pkg/redis"
)

// PayoutService manages withdrawals against accounts
type PayoutService struct {
	payouts  *repository.PayoutRepository
	accounts *repository.AccountRepository
	redis    *redis.Client
	log      *logger.Logger
}

// NewPayoutService creates a new payout service
func NewPayoutService(
	payouts *repository.PayoutRepository,
	accounts *repository.AccountRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) *PayoutService {
	return &PayoutService{
		payouts:  payouts,
		accounts: accounts,
		redis:    redisClient,
		log:      log,
	}
}

// Create records a payout. Eligibility is re-checked against the locked
// ledger inside the insert transaction so a stale client cannot overdraw.
func (s *PayoutService) Create(ctx context.Context, userID string, req *model.PayoutRequest) (*model.Payout, error) {
	payoutDate, err := time.ParseInLocation("2006-01-02", req.PayoutDate, time.UTC)
	if err != nil {
		return nil, util.ErrValidation("payout_date must be YYYY-MM-DD")
	}

	payout := &model.Payout{
		ID:         uuid.New().String(),
		UserID:     userID,
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		PayoutDate: payoutDate,
		Notes:      req.Notes,
		CreatedAt:  time.Now().UTC(),
	}

	err = s.payouts.CreateChecked(ctx, payout,
		func(acct *model.Account, trades []model.Trade, payouts []model.Payout) error {
			reconciled := ledger.Reconcile(acct.InitialCapital, trades, payouts)
			withdrawal := ledger.EvaluateWithdrawal(acct, reconciled)

			if !withdrawal.Eligible || req.Amount > withdrawal.MaxWithdrawal {
				return util.ErrInsufficientSurplus(fmt.Sprintf(
					"requested %.2f, withdrawable %.2f", req.Amount, withdrawal.MaxWithdrawal))
			}
			return nil
		})
	if err != nil {
		if util.IsAppError(err) {
			return nil, err
		}
		if repository.IsNotFound(err) {
			return nil, util.ErrAccountNotFound()
		}
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to create payout", err)
	}

	s.invalidateDashboard(ctx, payout.AccountID)
	s.log.WithFields(map[string]interface{}{
		"account_id": payout.AccountID,
		"amount":     payout.Amount,
	}).Info("Payout recorded")
	return payout, nil
}

// List returns an account's payouts
func (s *PayoutService) List(ctx context.Context, userID, accountID string) ([]model.Payout, error) {
	if _, err := s.accounts.GetByID(ctx, userID, accountID); err != nil {
		return nil, util.ErrAccountNotFound()
	}
	payouts, err := s.payouts.ListByAccount(ctx, userID, accountID)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to list payouts", err)
	}
	return payouts, nil
}

// Delete removes a payout, restoring the derived balance
func (s *PayoutService) Delete(ctx context.Context, userID, payoutID string) error {
	payout, err := s.payouts.GetByID(ctx, userID, payoutID)
	if err != nil {
		return util.ErrPayoutNotFound()
	}

	if err := s.payouts.Delete(ctx, userID, payoutID); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrPayoutNotFound()
		}
		return util.WrapError(500, util.ErrCodeInternal, "Failed to delete payout", err)
	}

	s.invalidateDashboard(ctx, payout.AccountID)
	return nil
}

func (s *PayoutService) invalidateDashboard(ctx context.Context, accountID string) {
	if err := s.redis.Del(ctx, redis.DashboardMetricsKey(accountID)); err != nil {
		s.log.WithField("account_id", accountID).Warn("Failed to invalidate dashboard cache")
	}
}
