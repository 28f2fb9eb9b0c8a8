package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"sagetrade/backend/internal/model"
)

// TradeFilter narrows trade listings
type TradeFilter struct {
	AccountID  string
	StrategyID string
	Symbol     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// TradeRepository persists trades in Postgres
type TradeRepository struct {
	db *sqlx.DB
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *sqlx.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create inserts a new trade
func (r *TradeRepository) Create(ctx context.Context, trade *model.Trade) error {
	query := `
		INSERT INTO trades (
			id, user_id, account_id, strategy_id, symbol, direction,
			entry_at, exit_at, pnl_net, risk_amount, emotion, setup_rating,
			setup_compliance, outside_plan, pre_notes, post_notes,
			broken_rule_ids, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.db.ExecContext(ctx, query,
		trade.ID, trade.UserID, trade.AccountID, trade.StrategyID, trade.Symbol, trade.Direction,
		trade.EntryAt, trade.ExitAt, trade.PnlNet, trade.RiskAmount, trade.Emotion, trade.SetupRating,
		trade.SetupCompliance, trade.OutsidePlan, trade.PreNotes, trade.PostNotes,
		trade.BrokenRuleIDs, trade.CreatedAt, trade.UpdatedAt)
	return err
}

// GetByID fetches a trade owned by the given user
func (r *TradeRepository) GetByID(ctx context.Context, userID, id string) (*model.Trade, error) {
	var trade model.Trade
	query := `SELECT * FROM trades WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &trade, query, id, userID); err != nil {
		return nil, err
	}
	return &trade, nil
}

// ListByAccount returns every trade of an account in entry-time order.
// Used by the reconciler and scorers, which need the full history.
func (r *TradeRepository) ListByAccount(ctx context.Context, userID, accountID string) ([]model.Trade, error) {
	var trades []model.Trade
	query := `
		SELECT * FROM trades
		WHERE user_id = $1 AND account_id = $2
		ORDER BY entry_at`
	err := r.db.SelectContext(ctx, &trades, query, userID, accountID)
	return trades, err
}

// List returns a filtered page of trades, newest entries first
func (r *TradeRepository) List(ctx context.Context, userID string, filter TradeFilter) ([]model.Trade, int64, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.AccountID != "" {
		addArg("account_id = $%d", filter.AccountID)
	}
	if filter.StrategyID != "" {
		addArg("strategy_id = $%d", filter.StrategyID)
	}
	if filter.Symbol != "" {
		addArg("symbol = $%d", strings.ToUpper(filter.Symbol))
	}
	if filter.From != nil {
		addArg("entry_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addArg("entry_at < $%d", *filter.To)
	}

	clause := strings.Join(where, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM trades WHERE " + clause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(
		"SELECT * FROM trades WHERE %s ORDER BY entry_at DESC LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))

	var trades []model.Trade
	if err := r.db.SelectContext(ctx, &trades, query, args...); err != nil {
		return nil, 0, err
	}
	return trades, total, nil
}

// Update replaces a trade's mutable fields
func (r *TradeRepository) Update(ctx context.Context, trade *model.Trade) error {
	query := `
		UPDATE trades
		SET strategy_id = $3, symbol = $4, direction = $5, entry_at = $6,
		    exit_at = $7, pnl_net = $8, risk_amount = $9, emotion = $10,
		    setup_rating = $11, setup_compliance = $12, outside_plan = $13,
		    pre_notes = $14, post_notes = $15, broken_rule_ids = $16,
		    updated_at = $17
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		trade.ID, trade.UserID, trade.StrategyID, trade.Symbol, trade.Direction, trade.EntryAt,
		trade.ExitAt, trade.PnlNet, trade.RiskAmount, trade.Emotion,
		trade.SetupRating, trade.SetupCompliance, trade.OutsidePlan,
		trade.PreNotes, trade.PostNotes, trade.BrokenRuleIDs,
		time.Now().UTC())
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// Delete removes a trade
func (r *TradeRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM trades WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}
