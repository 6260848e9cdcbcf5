package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"finscore/internal/scheduler"
	"finscore/internal/service"
)

// Watch executes the long-running re-scoring service.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database.dsn not configured; watch mode needs stored accounts")
	}
	if closeStore != nil {
		defer closeStore()
	}

	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	notifier := a.newNotifier()
	if a.Config.Notify.Enabled && notifier == nil {
		a.Logger.Warn().Msg("notify.enabled set but no channel configured; decisions will only be logged")
	}

	svc := service.New(a.Config, sched, store, engine, notifier, a.Logger)

	a.Logger.Info().Msg("starting watch service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch service terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch service stopped")
	return nil
}
