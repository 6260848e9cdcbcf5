package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"time"

	"finscore/internal/ledger"
)

// Export writes a stored account window back out as exchange-format CSV,
// optionally alongside the derived end-of-day balance series. Output stays
// plain tabular data; rendering is the dashboard collaborator's job.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.BalancesPath == "" {
		return errors.New("at least one of --csv or --balances must be provided")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
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
		return errors.New("from must be before to")
	}

	l, err := store.ListTransactions(ctx, opts.Account, from, to)
	if err != nil {
		return err
	}
	if l.Empty() {
		a.Logger.Info().Str("account", opts.Account).Msg("no transactions found for export window")
		return nil
	}

	a.Logger.Info().Str("account", opts.Account).Int("transactions", len(l.Transactions)).Msg("exporting ledger")

	if opts.CSVPath != "" {
		if err := ledger.WriteFile(opts.CSVPath, l); err != nil {
			return err
		}
	}

	if opts.BalancesPath != "" {
		if err := writeBalancesCSV(opts.BalancesPath, l.DailyBalances()); err != nil {
			return err
		}
	}

	return nil
}

func writeBalancesCSV(path string, series []ledger.DayBalance) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"day", "closing_balance"}); err != nil {
		return err
	}
	for _, day := range series {
		record := []string{
			day.Day.Format("2006-01-02"),
			day.Balance.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
