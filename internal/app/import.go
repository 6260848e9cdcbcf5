package app

import (
	"context"
	"errors"

	"finscore/internal/ledger"
)

// Import bulk-loads a structured ledger CSV into the transaction store. The
// file is the output of the external statement parser; malformed rows abort
// the import before anything is written.
func (a *App) Import(ctx context.Context, opts ImportOptions) error {
	if opts.Account == "" {
		return errors.New("--account must be provided")
	}

	l, err := ledger.ReadFile(opts.InputPath, opts.Account)
	if err != nil {
		return err
	}
	if l.Empty() {
		a.Logger.Warn().Str("account", opts.Account).Msg("ledger file contains no transactions")
		return nil
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot import")
	}
	if closeStore != nil {
		defer closeStore()
	}

	inserted, err := store.InsertTransactions(ctx, opts.Account, l.Transactions)
	if err != nil {
		return err
	}

	total, err := store.CountTransactions(ctx, opts.Account)
	if err != nil {
		return err
	}

	a.Logger.Info().
		Str("account", opts.Account).
		Int("rows", len(l.Transactions)).
		Int("inserted", inserted).
		Int("duplicates", len(l.Transactions)-inserted).
		Int64("stored_total", total).
		Msg("ledger imported")
	return nil
}
