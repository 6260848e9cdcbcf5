package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalid marks a ledger that violates the input contract.
var ErrInvalid = errors.New("ledger: invalid input")

// Channel tags the kind of a mobile-money transaction. The external parser
// assigns one of these when it categorises statement rows.
type Channel string

const (
	ChannelDeposit    Channel = "deposit"
	ChannelWithdrawal Channel = "withdrawal"
	ChannelTransfer   Channel = "transfer"
	ChannelAirtime    Channel = "airtime"
	ChannelPayment    Channel = "payment"
	ChannelUnknown    Channel = "unknown"
)

var knownChannels = map[Channel]struct{}{
	ChannelDeposit:    {},
	ChannelWithdrawal: {},
	ChannelTransfer:   {},
	ChannelAirtime:    {},
	ChannelPayment:    {},
	ChannelUnknown:    {},
}

// ParseChannel maps a tag string onto a Channel.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if _, ok := knownChannels[c]; !ok {
		return "", fmt.Errorf("%w: unknown channel %q", ErrInvalid, s)
	}
	return c, nil
}

// Transaction is one immutable ledger row. Amount is signed: inbound money is
// positive, outbound negative. Balance is the account balance recorded by the
// statement after this row, when the source statement carries one.
type Transaction struct {
	Timestamp    time.Time
	Amount       decimal.Decimal
	Balance      *decimal.Decimal
	Channel      Channel
	Counterparty string
}

// Ledger is the chronologically ordered transaction history of one account
// over an observation window.
type Ledger struct {
	Account      string
	Transactions []Transaction
}

// Validate fails fast on contract violations the upstream parser should have
// rejected: zero timestamps, rows out of chronological order, unrecognised
// channel tags. Sparse or empty ledgers are not violations.
func (l Ledger) Validate() error {
	var prev time.Time
	for i, tx := range l.Transactions {
		if tx.Timestamp.IsZero() {
			return fmt.Errorf("%w: transaction %d has zero timestamp", ErrInvalid, i)
		}
		if _, ok := knownChannels[tx.Channel]; !ok {
			return fmt.Errorf("%w: transaction %d has unknown channel %q", ErrInvalid, i, tx.Channel)
		}
		if i > 0 && tx.Timestamp.Before(prev) {
			return fmt.Errorf("%w: transaction %d out of chronological order", ErrInvalid, i)
		}
		prev = tx.Timestamp
	}
	return nil
}

// Empty reports whether the ledger has no transactions.
func (l Ledger) Empty() bool {
	return len(l.Transactions) == 0
}

// Window returns the first and last transaction timestamps. ok is false for
// an empty ledger.
func (l Ledger) Window() (from, to time.Time, ok bool) {
	if l.Empty() {
		return time.Time{}, time.Time{}, false
	}
	return l.Transactions[0].Timestamp, l.Transactions[len(l.Transactions)-1].Timestamp, true
}

// Days counts calendar days touched by the observation window, minimum 1 for
// a non-empty ledger.
func (l Ledger) Days() int {
	from, to, ok := l.Window()
	if !ok {
		return 0
	}
	days := int(dayOf(to).Sub(dayOf(from)).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// Deposits returns the inbound income rows in ledger order.
func (l Ledger) Deposits() []Transaction {
	deposits := make([]Transaction, 0)
	for _, tx := range l.Transactions {
		if tx.Channel == ChannelDeposit && tx.Amount.IsPositive() {
			deposits = append(deposits, tx)
		}
	}
	return deposits
}

// DayBalance pairs a calendar day with its end-of-day balance.
type DayBalance struct {
	Day     time.Time
	Balance decimal.Decimal
}

// DailyBalances derives the end-of-day balance series over the window. Days
// without activity carry the previous day's closing balance forward. When a
// row records a statement balance that value is authoritative; otherwise the
// series is the cumulative net flow starting at zero.
func (l Ledger) DailyBalances() []DayBalance {
	if l.Empty() {
		return nil
	}

	running := decimal.Zero
	closing := make(map[time.Time]decimal.Decimal)
	for _, tx := range l.Transactions {
		if tx.Balance != nil {
			running = *tx.Balance
		} else {
			running = running.Add(tx.Amount)
		}
		closing[dayOf(tx.Timestamp)] = running
	}

	from, to, _ := l.Window()
	series := make([]DayBalance, 0, l.Days())
	last := decimal.Zero
	for day := dayOf(from); !day.After(dayOf(to)); day = day.AddDate(0, 0, 1) {
		if bal, ok := closing[day]; ok {
			last = bal
		}
		series = append(series, DayBalance{Day: day, Balance: last})
	}
	return series
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
