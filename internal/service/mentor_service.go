package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sagetrade/backend/internal/ledger"
	"sagetrade/backend/internal/metrics"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/llm"
	"sagetrade/backend/pkg/logger"
	"sagetrade/backend/pkg/redis"
)

const (
	mentorHistoryMax = 20
	mentorHistoryTTL = 7 * 24 * time.Hour
)

const mentorSystemPrompt = "You are a trading mentor reviewing a private " +
	"journal. Ground every answer in the journal data provided. Be direct " +
	"about discipline problems and never give financial advice on specific " +
	"future positions."

// MentorService answers journal questions through an LLM. The model never
// sees raw credentials, only the derived journal context.
type MentorService struct {
	chat     llm.ChatClient
	accounts *repository.AccountRepository
	trades   *repository.TradeRepository
	payouts  *repository.PayoutRepository
	plans    *repository.PlanRepository
	redis    *redis.Client
	log      *logger.Logger
}

// NewMentorService creates a new mentor service
func NewMentorService(
	chat llm.ChatClient,
	accounts *repository.AccountRepository,
	trades *repository.TradeRepository,
	payouts *repository.PayoutRepository,
	plans *repository.PlanRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) *MentorService {
	return &MentorService{
		chat:     chat,
		accounts: accounts,
		trades:   trades,
		payouts:  payouts,
		plans:    plans,
		redis:    redisClient,
		log:      log,
	}
}

// Chat sends a user message with full journal context and stores the
// exchange in the conversation history. A failed LLM call leaves the
// history untouched so the user can simply retry.
func (s *MentorService) Chat(ctx context.Context, userID string, req *model.ChatRequest) (*model.ChatResponse, error) {
	journalContext, err := s.buildContext(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	history, err := s.History(ctx, userID)
	if err != nil {
		s.log.WithField("user_id", userID).Warn("Failed to load mentor history")
		history = nil
	}

	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: mentorSystemPrompt})
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: journalContext})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	reply, err := s.chat.Chat(ctx, messages)
	if err != nil {
		s.log.WithField("user_id", userID).Error("Mentor completion failed", err)
		return nil, util.ErrMentorUnavailable(err)
	}

	now := time.Now().UTC()
	s.appendHistory(ctx, userID,
		model.ChatMessage{Role: llm.RoleUser, Content: req.Message, CreatedAt: now},
		model.ChatMessage{Role: llm.RoleAssistant, Content: reply, CreatedAt: now})

	return &model.ChatResponse{Reply: reply}, nil
}

// History returns the stored conversation, oldest first
func (s *MentorService) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	raw, err := s.redis.LRange(ctx, redis.MentorHistoryKey(userID), 0, -1)
	if err != nil {
		return nil, err
	}

	history := make([]model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		history = append(history, msg)
	}
	return history, nil
}

// ClearHistory drops the stored conversation
func (s *MentorService) ClearHistory(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, redis.MentorHistoryKey(userID)); err != nil {
		return util.WrapError(500, util.ErrCodeInternal, "Failed to clear history", err)
	}
	return nil
}

func (s *MentorService) appendHistory(ctx context.Context, userID string, msgs ...model.ChatMessage) {
	key := redis.MentorHistoryKey(userID)
	for _, msg := range msgs {
		if err := s.redis.RPushJSON(ctx, key, msg); err != nil {
			s.log.WithField("user_id", userID).Warn("Failed to store mentor message")
			return
		}
	}
	if err := s.redis.LTrim(ctx, key, -int64(mentorHistoryMax), -1); err != nil {
		s.log.WithField("user_id", userID).Warn("Failed to trim mentor history")
	}
	if err := s.redis.Expire(ctx, key, mentorHistoryTTL); err != nil {
		s.log.WithField("user_id", userID).Warn("Failed to expire mentor history")
	}
}

func (s *MentorService) buildContext(ctx context.Context, userID, accountID string) (string, error) {
	acct, err := s.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return "", util.ErrAccountNotFound()
	}
	trades, err := s.trades.ListByAccount(ctx, userID, accountID)
	if err != nil {
		return "", util.WrapError(500, util.ErrCodeInternal, "Failed to load trades", err)
	}
	payouts, err := s.payouts.ListByAccount(ctx, userID, accountID)
	if err != nil {
		return "", util.WrapError(500, util.ErrCodeInternal, "Failed to load payouts", err)
	}

	var plan *model.TradingPlan
	if p, err := s.plans.Get(ctx, userID); err == nil {
		plan = p
	}

	return buildMentorContext(acct, trades, payouts, plan), nil
}

// buildMentorContext renders the journal state into a compact prompt block
func buildMentorContext(acct *model.Account, trades []model.Trade, payouts []model.Payout, plan *model.TradingPlan) string {
	reconciled := ledger.Reconcile(acct.InitialCapital, trades, payouts)
	withdrawal := ledger.EvaluateWithdrawal(acct, reconciled)
	overview := metrics.Summarize(trades)
	streaks := metrics.Streaks(trades)
	discipline := metrics.DisciplineScore(trades)

	var b strings.Builder
	fmt.Fprintf(&b, "Account %q (%s, %s drawdown policy)\n", acct.Name, acct.Type, acct.DrawdownType)
	fmt.Fprintf(&b, "Initial capital %.2f, balance %.2f, high-water mark %.2f\n",
		acct.InitialCapital, reconciled.Balance, reconciled.HighWaterMark)
	fmt.Fprintf(&b, "Withdrawal threshold %.2f, max withdrawal %.2f, eligible: %t\n",
		withdrawal.Threshold, withdrawal.MaxWithdrawal, withdrawal.Eligible)
	fmt.Fprintf(&b, "Trades: %d total, %d wins, %d losses, win rate %.1f%%, profit factor %.2f\n",
		overview.TotalTrades, overview.Wins, overview.Losses, overview.WinRate, overview.ProfitFactor)
	fmt.Fprintf(&b, "Streaks: current %+d, best %d, worst %d\n",
		streaks.Current, streaks.Best, streaks.Worst)
	fmt.Fprintf(&b, "Discipline score %d/100 (plan %.1f, consistency %.1f, risk %.1f, reflection %.1f)\n",
		discipline.Total, discipline.PlanAdherence, discipline.Consistency,
		discipline.RiskDefined, discipline.Reflection)

	if plan != nil {
		fmt.Fprintf(&b, "Plan: %.1f%% risk per trade, %.1f%% max daily risk, max %d trades/day, stop after %d losses\n",
			plan.RiskPerTradePct, plan.MaxDailyRiskPct, plan.MaxTradesPerDay, plan.StopAfterLosses)
		for _, rule := range plan.PsychRules {
			if rule.Active {
				fmt.Fprintf(&b, "Psych rule: %s\n", rule.Text)
			}
		}
	}

	recent := trades
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	if len(recent) > 0 {
		b.WriteString("Recent trades (oldest first):\n")
	}
	for _, t := range recent {
		flag := ""
		if t.OutsidePlan {
			flag = " OUTSIDE PLAN"
		}
		fmt.Fprintf(&b, "- %s %s %s pnl %.2f%s\n",
			t.EntryAt.UTC().Format("2006-01-02"), t.Direction, t.Symbol, t.PnlNet, flag)
	}
	return b.String()
}
