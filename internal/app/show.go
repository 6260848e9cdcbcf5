package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// Show prints the most recent stored transactions for an account.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show transactions")
	}
	if closeStore != nil {
		defer closeStore()
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -a.Config.Watch.WindowDays)
	l, err := store.ListTransactions(ctx, opts.Account, from, to)
	if err != nil {
		return err
	}
	if l.Empty() {
		fmt.Fprintln(os.Stdout, "no transactions found")
		return nil
	}

	txs := l.Transactions
	if opts.Limit > 0 && len(txs) > opts.Limit {
		txs = txs[len(txs)-opts.Limit:]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tAmount\tBalance\tChannel\tCounterparty")

	for _, tx := range txs {
		balance := "-"
		if tx.Balance != nil {
			balance = tx.Balance.StringFixed(2)
		}
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\n",
			tx.Timestamp.UTC().Format(time.RFC3339),
			tx.Amount.StringFixed(2),
			balance,
			tx.Channel,
			sanitizeInline(tx.Counterparty),
		)
	}

	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
