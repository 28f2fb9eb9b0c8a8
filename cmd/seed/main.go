// Seeds a demo user with one evaluation account, a strategy, a plan and a
// month of trades. Intended for local development only.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"sagetrade/backend/internal/config"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/pkg/crypto"
	"sagetrade/backend/pkg/logger"
	"sagetrade/backend/pkg/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, "pretty")
	log := logger.GetLogger()

	db, err := postgres.New(postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to Postgres", err)
	}
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	users := repository.NewUserRepository(db)
	accounts := repository.NewAccountRepository(db)
	strategies := repository.NewStrategyRepository(db)
	trades := repository.NewTradeRepository(db)
	plans := repository.NewPlanRepository(db)

	hash, err := crypto.HashPassword("demo1234")
	if err != nil {
		log.Fatal("Failed to hash password", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: hash,
		Role:         model.RoleUser,
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatal("Failed to create demo user", err)
	}
	log.Infof("Created user demo / demo1234 (%s)", user.ID)

	drawdown := 2000.0
	target := 1000.0
	acct := &model.Account{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		Name:           "Eval 10k",
		Type:           model.AccountTypeEvaluation,
		AssetClass:     "futures",
		InitialCapital: 10000,
		DrawdownType:   model.DrawdownTrailing,
		DrawdownAmount: &drawdown,
		ProfitTarget:   &target,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := accounts.Create(ctx, acct); err != nil {
		log.Fatal("Failed to create account", err)
	}

	strategy := &model.Strategy{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Name:        "Opening range breakout",
		Description: "Break of the first 15-minute range with volume confirmation",
		Rules: []model.Rule{
			{RuleText: "Wait for the range to complete"},
			{RuleText: "Enter only on a close beyond the range"},
			{RuleText: "Stop below the range midpoint"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := strategies.Create(ctx, strategy); err != nil {
		log.Fatal("Failed to create strategy", err)
	}

	plan := &model.TradingPlan{
		UserID:          user.ID,
		RiskPerTradePct: 1,
		MaxDailyRiskPct: 3,
		MaxTradesPerDay: 3,
		MinRewardRisk:   2,
		StopAfterLosses: 2,
		PsychRules: []model.PsychRule{
			{Text: "No trades in the first 5 minutes", Active: true},
			{Text: "Walk away after two losses", Active: true},
		},
		UpdatedAt: now,
	}
	if err := plans.Upsert(ctx, plan); err != nil {
		log.Fatal("Failed to create plan", err)
	}

	pnls := []float64{150, -80, 220, -60, 0, 310, -120, 90, 175, -45}
	risk := 100.0
	for i, pnl := range pnls {
		entry := now.AddDate(0, 0, -len(pnls)+i).Truncate(24 * time.Hour).Add(14 * time.Hour)
		trade := &model.Trade{
			ID:              uuid.New().String(),
			UserID:          user.ID,
			AccountID:       acct.ID,
			StrategyID:      &strategy.ID,
			Symbol:          "NQ",
			Direction:       model.DirectionBuy,
			EntryAt:         entry,
			ExitAt:          entry.Add(45 * time.Minute),
			PnlNet:          pnl,
			RiskAmount:      &risk,
			SetupCompliance: model.SetupComplianceFull,
			OutsidePlan:     i == 6,
			PreNotes:        "Clean range, above average volume",
			BrokenRuleIDs:   []string{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := trades.Create(ctx, trade); err != nil {
			log.Fatal("Failed to create trade", err)
		}
	}

	log.Infof("Seeded account %s with %d trades", acct.ID, len(pnls))
}
