package ledger

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Profile selects a synthetic ledger shape for simulation runs.
type Profile string

const (
	// ProfileSteady 模拟规律周薪、日常小额消费的健康账户。
	ProfileSteady Profile = "steady"
	// ProfileRisky 模拟深夜整数套现、收入不规律的高风险账户。
	ProfileRisky Profile = "risky"
)

// Generate builds a deterministic synthetic ledger covering the given number
// of days ending at end. The same seed always yields the same ledger.
func Generate(profile Profile, account string, days int, end time.Time, seed int64) (Ledger, error) {
	if days <= 0 {
		return Ledger{}, fmt.Errorf("%w: days must be positive", ErrInvalid)
	}

	rng := rand.New(rand.NewSource(seed))
	start := dayOf(end).AddDate(0, 0, -(days - 1))

	switch profile {
	case ProfileSteady:
		return generateSteady(account, start, days, rng), nil
	case ProfileRisky:
		return generateRisky(account, start, days, rng), nil
	default:
		return Ledger{}, fmt.Errorf("%w: unknown profile %q", ErrInvalid, profile)
	}
}

func generateSteady(account string, start time.Time, days int, rng *rand.Rand) Ledger {
	l := Ledger{Account: account}

	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)

		// Weekly wage lands every 7th day at a stable amount.
		if d%7 == 0 {
			l.Transactions = append(l.Transactions, Transaction{
				Timestamp:    day.Add(9 * time.Hour),
				Amount:       decimal.NewFromInt(8000 + rng.Int63n(200)),
				Channel:      ChannelDeposit,
				Counterparty: "ACME PAYROLL",
			})
		}

		l.Transactions = append(l.Transactions, Transaction{
			Timestamp:    day.Add(12*time.Hour + time.Duration(rng.Intn(240))*time.Minute),
			Amount:       decimal.NewFromInt(-(150 + rng.Int63n(400))).Sub(decimal.NewFromFloat(0.5)),
			Channel:      ChannelPayment,
			Counterparty: "GROCER TILL",
		})

		if d%3 == 0 {
			l.Transactions = append(l.Transactions, Transaction{
				Timestamp:    day.Add(18 * time.Hour),
				Amount:       decimal.NewFromInt(-(20 + rng.Int63n(30))),
				Channel:      ChannelAirtime,
				Counterparty: "AIRTIME TOPUP",
			})
		}
	}

	return l
}

func generateRisky(account string, start time.Time, days int, rng *rand.Rand) Ledger {
	l := Ledger{Account: account}

	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)

		// Sporadic, widely varying deposits.
		if rng.Intn(9) == 0 {
			l.Transactions = append(l.Transactions, Transaction{
				Timestamp:    day.Add(time.Duration(6+rng.Intn(12)) * time.Hour),
				Amount:       decimal.NewFromInt(500 + rng.Int63n(20000)),
				Channel:      ChannelDeposit,
				Counterparty: "UNKNOWN SENDER",
			})
		}

		// Round-number cash-outs in the small hours.
		for i := 0; i < 1+rng.Intn(2); i++ {
			l.Transactions = append(l.Transactions, Transaction{
				Timestamp:    day.Add(time.Duration(rng.Intn(5))*time.Hour + time.Duration(rng.Intn(60))*time.Minute),
				Amount:       decimal.NewFromInt(-100 * (1 + rng.Int63n(10))),
				Channel:      ChannelWithdrawal,
				Counterparty: "AGENT CASHOUT",
			})
		}
	}

	sortByTime(l.Transactions)
	return l
}

func sortByTime(txs []Transaction) {
	// Insertion sort keeps equal timestamps in generation order.
	for i := 1; i < len(txs); i++ {
		for j := i; j > 0 && txs[j].Timestamp.Before(txs[j-1].Timestamp); j-- {
			txs[j], txs[j-1] = txs[j-1], txs[j]
		}
	}
}
