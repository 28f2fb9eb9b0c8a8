package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sagetrade/backend/internal/model"
)

// AccountRepository persists trading accounts in Postgres.
// All reads are scoped by user ID so one user can never see another's data.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, acct *model.Account) error {
	query := `
		INSERT INTO accounts (
			id, user_id, name, type, asset_class, initial_capital,
			drawdown_type, drawdown_amount, profit_target, funding_company,
			phase_count, phase_targets, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		acct.ID, acct.UserID, acct.Name, acct.Type, acct.AssetClass, acct.InitialCapital,
		acct.DrawdownType, acct.DrawdownAmount, acct.ProfitTarget, acct.FundingCompany,
		acct.PhaseCount, acct.PhaseTargets, acct.CreatedAt, acct.UpdatedAt)
	return err
}

// GetByID fetches an account owned by the given user
func (r *AccountRepository) GetByID(ctx context.Context, userID, id string) (*model.Account, error) {
	var acct model.Account
	query := `SELECT * FROM accounts WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &acct, query, id, userID); err != nil {
		return nil, err
	}
	return &acct, nil
}

// ListByUser returns all accounts of a user ordered by creation time
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]model.Account, error) {
	var accounts []model.Account
	query := `SELECT * FROM accounts WHERE user_id = $1 ORDER BY created_at`
	err := r.db.SelectContext(ctx, &accounts, query, userID)
	return accounts, err
}

// Update updates an account's settings
func (r *AccountRepository) Update(ctx context.Context, acct *model.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, type = $4, asset_class = $5, initial_capital = $6,
		    drawdown_type = $7, drawdown_amount = $8, profit_target = $9,
		    funding_company = $10, phase_count = $11, phase_targets = $12,
		    updated_at = $13
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		acct.ID, acct.UserID, acct.Name, acct.Type, acct.AssetClass, acct.InitialCapital,
		acct.DrawdownType, acct.DrawdownAmount, acct.ProfitTarget,
		acct.FundingCompany, acct.PhaseCount, acct.PhaseTargets,
		time.Now().UTC())
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// Delete removes an account and, via cascades, its trades and payouts
func (r *AccountRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}
