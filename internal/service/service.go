package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"finscore/internal/config"
	"finscore/internal/ledger"
	"finscore/internal/notify"
	"finscore/internal/scheduler"
	"finscore/internal/scoring"
	"finscore/internal/storage"
)

// Service re-scores every stored account on a schedule and pushes decisions
// worth flagging. Each tick is stateless: scores are derived, logged,
// optionally notified, and discarded.
type Service struct {
	scheduler *scheduler.Scheduler
	store     storage.TransactionStore
	engine    *scoring.Engine
	notifier  notify.Notifier
	logger    zerolog.Logger

	windowDays    int
	retentionDays int
	notifyOn      bool
	belowScore    int
}

// New constructs the watch service.
func New(cfg *config.Config, sched *scheduler.Scheduler, store storage.TransactionStore, engine *scoring.Engine, notifier notify.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		scheduler:  sched,
		store:      store,
		engine:     engine,
		notifier:   notifier,
		logger:     logger.With().Str("component", "service").Logger(),
		windowDays:    cfg.Watch.WindowDays,
		retentionDays: cfg.Watch.RetentionDays,
		notifyOn:      cfg.Notify.Enabled,
		belowScore:    cfg.Notify.BelowScore,
	}
}

// Run begins the periodic re-scoring loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessTick)
}

// ProcessTick 对所有已存账户执行一轮评分。
func (s *Service) ProcessTick(ctx context.Context, at time.Time) error {
	if s.store == nil {
		return storage.ErrNotConfigured
	}

	if s.retentionDays > 0 {
		horizon := at.AddDate(0, 0, -s.retentionDays)
		if err := s.store.DeleteTransactionsBefore(ctx, horizon); err != nil {
			s.logger.Error().Err(err).Time("horizon", horizon).Msg("retention pruning failed")
		}
	}

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	from := at.AddDate(0, 0, -s.windowDays)
	scored := 0
	failed := 0
	for _, account := range accounts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.scoreAccount(ctx, account, from, at); err != nil {
			failed++
			s.logger.Error().Err(err).Str("account", account).Msg("account scoring failed")
			continue
		}
		scored++
	}

	s.logger.Info().Time("tick", at).Int("scored", scored).Int("failed", failed).Msg("re-scoring pass complete")
	return nil
}

func (s *Service) scoreAccount(ctx context.Context, account string, from, to time.Time) error {
	l, err := s.store.ListTransactions(ctx, account, from, to)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	result, err := s.engine.Score(l)
	if err != nil {
		return fmt.Errorf("score ledger: %w", err)
	}

	s.logger.Info().
		Str("account", account).
		Int("transactions", len(l.Transactions)).
		Int("score", result.Score).
		Str("outcome", string(result.Decision.Outcome)).
		Msg("account scored")

	if !s.shouldNotify(result) {
		return nil
	}

	note := BuildNotification(account, l, result, to)
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("account", account).Msg("failed to dispatch decision notification")
	}
	return nil
}

func (s *Service) shouldNotify(result scoring.ScoreResult) bool {
	if !s.notifyOn || s.notifier == nil {
		return false
	}
	if result.Decision.Outcome == scoring.OutcomeDecline {
		return true
	}
	return result.Score < s.belowScore
}

// BuildNotification assembles the notification payload for a score result.
func BuildNotification(account string, l ledger.Ledger, result scoring.ScoreResult, at time.Time) notify.Notification {
	factors := make([]string, 0, len(result.Factors))
	for _, f := range result.Factors {
		factors = append(factors, f.Explanation)
	}

	note := notify.Notification{
		Account:      account,
		ScoredAt:     at,
		Score:        result.Score,
		Outcome:      string(result.Decision.Outcome),
		Ceiling:      result.Decision.Ceiling,
		RatePct:      result.Decision.RatePct,
		Factors:      factors,
		Transactions: len(l.Transactions),
	}
	if from, to, ok := l.Window(); ok {
		note.WindowFrom = from
		note.WindowTo = to
	}
	return note
}
