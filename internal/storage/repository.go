package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"finscore/internal/ledger"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	insertTransactionSQL = `INSERT INTO transactions (
        account_id,
        ts,
        amount,
        balance,
        channel,
        counterparty
    ) VALUES (
        $1,$2,$3,$4,$5,$6
    )
    ON CONFLICT (account_id, ts, amount, counterparty) DO NOTHING;`

	listTransactionsSQL = `SELECT
        ts,
        amount,
        balance,
        channel,
        counterparty
    FROM transactions
    WHERE account_id = $1
      AND ts >= $2
      AND ts < $3
    ORDER BY ts;`

	listAccountsSQL = `SELECT DISTINCT account_id FROM transactions ORDER BY account_id;`

	countTransactionsSQL = `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`

	deleteTransactionsBeforeSQL = `DELETE FROM transactions WHERE ts < $1;`
)

// TransactionStore persists raw ledger rows per account. Scores are never
// stored; only the input side of the pipeline lives in the database.
type TransactionStore interface {
	InsertTransactions(ctx context.Context, account string, txs []ledger.Transaction) (int, error)
	ListTransactions(ctx context.Context, account string, from, to time.Time) (ledger.Ledger, error)
	ListAccounts(ctx context.Context) ([]string, error)
	CountTransactions(ctx context.Context, account string) (int64, error)
	DeleteTransactionsBefore(ctx context.Context, olderThan time.Time) error
}

// Store implements TransactionStore over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertTransactions bulk-inserts ledger rows for an account, skipping exact
// duplicates. Returns the number of rows written.
func (s *Store) InsertTransactions(ctx context.Context, account string, txs []ledger.Transaction) (int, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, tx := range txs {
		var balance interface{}
		if tx.Balance != nil {
			balance = tx.Balance.String()
		}
		batch.Queue(insertTransactionSQL,
			account,
			tx.Timestamp.UTC(),
			tx.Amount.String(),
			balance,
			string(tx.Channel),
			tx.Counterparty,
		)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range txs {
		tag, execErr := results.Exec()
		if execErr != nil {
			return inserted, fmt.Errorf("insert transaction: %w", execErr)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// ListTransactions loads the stored ledger of an account within [from, to).
func (s *Store) ListTransactions(ctx context.Context, account string, from, to time.Time) (ledger.Ledger, error) {
	pool, err := s.getPool()
	if err != nil {
		return ledger.Ledger{}, err
	}

	rows, queryErr := pool.Query(ctx, listTransactionsSQL, account, from, to)
	if queryErr != nil {
		return ledger.Ledger{}, fmt.Errorf("list transactions: %w", queryErr)
	}
	defer rows.Close()

	l := ledger.Ledger{Account: account}
	for rows.Next() {
		tx, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return ledger.Ledger{}, scanErr
		}
		l.Transactions = append(l.Transactions, tx)
	}
	if rows.Err() != nil {
		return ledger.Ledger{}, rows.Err()
	}
	return l, nil
}

// ListAccounts returns every account with stored transactions.
func (s *Store) ListAccounts(ctx context.Context) ([]string, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listAccountsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list accounts: %w", queryErr)
	}
	defer rows.Close()

	accounts := make([]string, 0)
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return accounts, nil
}

// CountTransactions counts stored rows for an account.
func (s *Store) CountTransactions(ctx context.Context, account string) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countTransactionsSQL, account).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count transactions: %w", scanErr)
	}
	return count, nil
}

// DeleteTransactionsBefore prunes rows older than the retention horizon.
func (s *Store) DeleteTransactionsBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, deleteTransactionsBeforeSQL, olderThan); execErr != nil {
		return fmt.Errorf("delete transactions before: %w", execErr)
	}
	return nil
}

func scanTransaction(rows pgx.Rows) (ledger.Transaction, error) {
	var (
		ts           time.Time
		amountStr    string
		balanceStr   sql.NullString
		channel      string
		counterparty string
	)

	if err := rows.Scan(&ts, &amountStr, &balanceStr, &channel, &counterparty); err != nil {
		return ledger.Transaction{}, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}

	tx := ledger.Transaction{
		Timestamp:    ts,
		Amount:       amount,
		Channel:      ledger.Channel(channel),
		Counterparty: counterparty,
	}

	if balanceStr.Valid {
		balance, err := decimal.NewFromString(balanceStr.String)
		if err != nil {
			return ledger.Transaction{}, fmt.Errorf("parse balance: %w", err)
		}
		tx.Balance = &balance
	}

	return tx, nil
}

var _ TransactionStore = (*Store)(nil)
