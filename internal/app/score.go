package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"finscore/internal/ledger"
	"finscore/internal/scoring"
	"finscore/internal/service"
)

// Score runs the engine over one ledger and prints the decision report. The
// ledger comes either from a structured CSV file or from the stored
// transaction history of an account.
func (a *App) Score(ctx context.Context, opts ScoreOptions) error {
	l, err := a.loadLedger(ctx, opts)
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

	printResult(l, result)

	if opts.Notify {
		notifier := a.newNotifier()
		if notifier == nil {
			return errors.New("notify requested but no notification channel configured")
		}
		note := service.BuildNotification(l.Account, l, result, time.Now().UTC())
		if err := notifier.Notify(ctx, note); err != nil {
			return fmt.Errorf("dispatch notification: %w", err)
		}
	}

	return nil
}

func (a *App) loadLedger(ctx context.Context, opts ScoreOptions) (ledger.Ledger, error) {
	if opts.InputPath != "" {
		return ledger.ReadFile(opts.InputPath, opts.Account)
	}

	if opts.Account == "" {
		return ledger.Ledger{}, errors.New("either --input or --account must be provided")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return ledger.Ledger{}, err
	}
	if store == nil {
		return ledger.Ledger{}, errors.New("database not configured; cannot load account ledger")
	}
	if closeStore != nil {
		defer closeStore()
	}

	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}
	from := to.AddDate(0, 0, -a.Config.Watch.WindowDays)
	if opts.From != nil {
		from = opts.From.UTC()
	}
	if !from.Before(to) {
		return ledger.Ledger{}, errors.New("from must be before to")
	}

	return store.ListTransactions(ctx, opts.Account, from, to)
}

func printResult(l ledger.Ledger, result scoring.ScoreResult) {
	account := l.Account
	if account == "" {
		account = "-"
	}

	fmt.Fprintf(os.Stdout, "Account: %s\n", account)
	fmt.Fprintf(os.Stdout, "Transactions: %d\n", len(l.Transactions))
	if from, to, ok := l.Window(); ok {
		fmt.Fprintf(os.Stdout, "Window: %s .. %s\n", from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	}
	fmt.Fprintf(os.Stdout, "Score: %d/100\n", result.Score)
	fmt.Fprintf(os.Stdout, "Decision: %s\n", result.Decision.Outcome)
	if result.Decision.RatePct != nil {
		fmt.Fprintf(os.Stdout, "Offer: KES %s at %s%%\n",
			result.Decision.Ceiling.StringFixed(0), result.Decision.RatePct.StringFixed(0))
	} else {
		fmt.Fprintln(os.Stdout, "Offer: none")
	}

	if len(result.Factors) > 0 {
		fmt.Fprintln(os.Stdout, "\nRisk factors:")
		for _, factor := range result.Factors {
			fmt.Fprintf(os.Stdout, "  - %s (%s)\n", factor.Explanation, factor.Feature)
		}
	} else {
		fmt.Fprintln(os.Stdout, "\nNo risk factors flagged.")
	}

	fmt.Fprintln(os.Stdout, "\nFeatures:")
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Feature\tValue")
	for _, feature := range scoring.Features() {
		fmt.Fprintf(writer, "%s\t%.3f\n", feature, result.Features.Get(feature))
	}
	writer.Flush()
}
