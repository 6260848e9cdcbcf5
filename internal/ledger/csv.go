package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// csvHeader is the structured ledger exchange format agreed with the
// statement-parsing collaborator. This codec never interprets raw statement
// files.
var csvHeader = []string{"timestamp", "amount", "balance", "channel", "counterparty"}

// ReadFile loads a structured ledger CSV for one account.
func ReadFile(path, account string) (Ledger, error) {
	file, err := os.Open(path)
	if err != nil {
		return Ledger{}, fmt.Errorf("open ledger csv: %w", err)
	}
	defer file.Close()

	l, err := Read(file, account)
	if err != nil {
		return Ledger{}, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Read decodes ledger rows from r. The first record must be the exchange
// header.
func Read(r io.Reader, account string) (Ledger, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return Ledger{}, fmt.Errorf("read ledger header: %w", err)
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return Ledger{}, fmt.Errorf("%w: header column %d is %q, want %q", ErrInvalid, i, header[i], name)
		}
	}

	l := Ledger{Account: account}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Ledger{}, fmt.Errorf("read ledger row: %w", err)
		}

		tx, err := parseRecord(record)
		if err != nil {
			return Ledger{}, fmt.Errorf("line %d: %w", line, err)
		}
		l.Transactions = append(l.Transactions, tx)
	}

	if err := l.Validate(); err != nil {
		return Ledger{}, err
	}
	return l, nil
}

func parseRecord(record []string) (Transaction, error) {
	ts, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: bad timestamp %q", ErrInvalid, record[0])
	}

	amount, err := decimal.NewFromString(record[1])
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: bad amount %q", ErrInvalid, record[1])
	}

	var balance *decimal.Decimal
	if record[2] != "" {
		b, err := decimal.NewFromString(record[2])
		if err != nil {
			return Transaction{}, fmt.Errorf("%w: bad balance %q", ErrInvalid, record[2])
		}
		balance = &b
	}

	channel, err := ParseChannel(record[3])
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		Timestamp:    ts,
		Amount:       amount,
		Balance:      balance,
		Channel:      channel,
		Counterparty: record[4],
	}, nil
}

// WriteFile writes the ledger back out in the exchange format.
func WriteFile(path string, l Ledger) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return Write(file, l)
}

// Write encodes the ledger as exchange-format CSV.
func Write(w io.Writer, l Ledger) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, tx := range l.Transactions {
		balance := ""
		if tx.Balance != nil {
			balance = tx.Balance.String()
		}
		record := []string{
			tx.Timestamp.UTC().Format(time.RFC3339),
			tx.Amount.String(),
			balance,
			string(tx.Channel),
			tx.Counterparty,
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
