package app

import (
	"context"
	"time"

	"finscore/internal/ledger"
)

// Simulate 生成合成账本并走完整评分流程，便于演练参数调整。
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	l, err := ledger.Generate(ledger.Profile(opts.Profile), "simulated", opts.Days, time.Now().UTC(), opts.Seed)
	if err != nil {
		return err
	}

	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	result, err := engine.Score(l)
	if err != nil {
		return err
	}

	a.Logger.Info().
		Str("profile", opts.Profile).
		Int("days", opts.Days).
		Int("score", result.Score).
		Str("outcome", string(result.Decision.Outcome)).
		Msg("simulation scored")

	printResult(l, result)
	return nil
}
