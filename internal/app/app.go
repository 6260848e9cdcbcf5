package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"finscore/internal/config"
	"finscore/internal/notify"
	"finscore/internal/scoring"
	"finscore/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newEngine() (*scoring.Engine, error) {
	return scoring.NewEngine(a.Config.Scoring, a.Logger)
}

func (a *App) newNotifier() notify.Notifier {
	if a.Config.Notify.Telegram.Enabled {
		cfg := a.Config.Notify.Telegram
		return notify.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// ScoreOptions select the ledger to score and how to report it.
type ScoreOptions struct {
	InputPath string
	Account   string
	From      *time.Time
	To        *time.Time
	Notify    bool
}

// ImportOptions configure the bulk ledger import.
type ImportOptions struct {
	InputPath string
	Account   string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Account string
	Limit   int
}

// ExportOptions hold parameters for exporting a stored ledger window.
type ExportOptions struct {
	Account      string
	From         *time.Time
	To           *time.Time
	CSVPath      string
	BalancesPath string
}

// SimulateOptions configure the synthetic scoring run.
type SimulateOptions struct {
	Profile string
	Days    int
	Seed    int64
}
