package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"sagetrade/backend/internal/model"
)

// PayoutRepository persists payouts in Postgres
type PayoutRepository struct {
	db *sqlx.DB
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *sqlx.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// CreateChecked inserts a payout after re-validating it against the account's
// current ledger inside one transaction. The account row is locked so two
// concurrent payouts cannot both pass the surplus check.
func (r *PayoutRepository) CreateChecked(ctx context.Context, payout *model.Payout,
	check func(acct *model.Account, trades []model.Trade, payouts []model.Payout) error) error {

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var acct model.Account
	err = tx.GetContext(ctx, &acct,
		`SELECT * FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		payout.AccountID, payout.UserID)
	if err != nil {
		return err
	}

	var trades []model.Trade
	err = tx.SelectContext(ctx, &trades,
		`SELECT * FROM trades WHERE account_id = $1 ORDER BY entry_at`, payout.AccountID)
	if err != nil {
		return err
	}

	var payouts []model.Payout
	err = tx.SelectContext(ctx, &payouts,
		`SELECT * FROM payouts WHERE account_id = $1`, payout.AccountID)
	if err != nil {
		return err
	}

	if err := check(&acct, trades, payouts); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payouts (id, user_id, account_id, amount, payout_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payout.ID, payout.UserID, payout.AccountID, payout.Amount,
		payout.PayoutDate, payout.Notes, payout.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID fetches a payout owned by the given user
func (r *PayoutRepository) GetByID(ctx context.Context, userID, id string) (*model.Payout, error) {
	var payout model.Payout
	query := `SELECT * FROM payouts WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &payout, query, id, userID); err != nil {
		return nil, err
	}
	return &payout, nil
}

// ListByAccount returns an account's payouts, newest first
func (r *PayoutRepository) ListByAccount(ctx context.Context, userID, accountID string) ([]model.Payout, error) {
	var payouts []model.Payout
	query := `
		SELECT * FROM payouts
		WHERE user_id = $1 AND account_id = $2
		ORDER BY payout_date DESC, created_at DESC`
	err := r.db.SelectContext(ctx, &payouts, query, userID, accountID)
	return payouts, err
}

// Delete removes a payout. The derived balance rises again by construction;
// no eligibility check is needed on the way out.
func (r *PayoutRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM payouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}
