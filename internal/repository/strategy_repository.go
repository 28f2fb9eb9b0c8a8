package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sagetrade/backend/internal/model"
)

// StrategyRepository persists strategies and their rule checklists
type StrategyRepository struct {
	db *sqlx.DB
}

// NewStrategyRepository creates a new strategy repository
func NewStrategyRepository(db *sqlx.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// Create inserts a strategy and its rules in one transaction
func (r *StrategyRepository) Create(ctx context.Context, strategy *model.Strategy) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO strategies (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		strategy.ID, strategy.UserID, strategy.Name, strategy.Description,
		strategy.CreatedAt, strategy.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertRules(ctx, tx, strategy); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches a strategy with its rules
func (r *StrategyRepository) GetByID(ctx context.Context, userID, id string) (*model.Strategy, error) {
	var strategy model.Strategy
	query := `SELECT * FROM strategies WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &strategy, query, id, userID); err != nil {
		return nil, err
	}

	err := r.db.SelectContext(ctx, &strategy.Rules,
		`SELECT * FROM strategy_rules WHERE strategy_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	return &strategy, nil
}

// ListByUser returns all strategies of a user with their rules
func (r *StrategyRepository) ListByUser(ctx context.Context, userID string) ([]model.Strategy, error) {
	var strategies []model.Strategy
	query := `SELECT * FROM strategies WHERE user_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &strategies, query, userID); err != nil {
		return nil, err
	}
	if len(strategies) == 0 {
		return strategies, nil
	}

	ids := make([]string, len(strategies))
	byID := make(map[string]*model.Strategy, len(strategies))
	for i := range strategies {
		ids[i] = strategies[i].ID
		byID[strategies[i].ID] = &strategies[i]
	}

	query, args, err := sqlx.In(
		`SELECT * FROM strategy_rules WHERE strategy_id IN (?) ORDER BY position`, ids)
	if err != nil {
		return nil, err
	}

	var rules []model.Rule
	if err := r.db.SelectContext(ctx, &rules, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, rule := range rules {
		s := byID[rule.StrategyID]
		s.Rules = append(s.Rules, rule)
	}
	return strategies, nil
}

// Update replaces a strategy's fields and its full rule checklist
func (r *StrategyRepository) Update(ctx context.Context, strategy *model.Strategy) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE strategies
		SET name = $3, description = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2`,
		strategy.ID, strategy.UserID, strategy.Name, strategy.Description, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := requireRowAffected(result); err != nil {
		return err
	}

	// Rules referenced by trades survive via broken_rule_ids as plain text IDs
	_, err = tx.ExecContext(ctx,
		`DELETE FROM strategy_rules WHERE strategy_id = $1`, strategy.ID)
	if err != nil {
		return err
	}

	if err := insertRules(ctx, tx, strategy); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a strategy; trades referencing it keep a null strategy
func (r *StrategyRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM strategies WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

func insertRules(ctx context.Context, tx *sqlx.Tx, strategy *model.Strategy) error {
	for i := range strategy.Rules {
		rule := &strategy.Rules[i]
		if rule.ID == "" {
			rule.ID = uuid.New().String()
		}
		rule.StrategyID = strategy.ID
		rule.Position = i

		_, err := tx.ExecContext(ctx, `
			INSERT INTO strategy_rules (id, strategy_id, rule_text, position)
			VALUES ($1, $2, $3, $4)`,
			rule.ID, rule.StrategyID, rule.RuleText, rule.Position)
		if err != nil {
			return err
		}
	}
	return nil
}
