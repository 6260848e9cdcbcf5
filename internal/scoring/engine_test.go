package scoring

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"finscore/internal/ledger"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultParams(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

var testBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// steadyLedger models the reference good borrower: identical weekly wages,
// daily non-rounded spending, recurring airtime top-ups, healthy balance.
func steadyLedger() ledger.Ledger {
	l := ledger.Ledger{Account: "steady"}
	for d := 0; d < 30; d++ {
		day := testBase.AddDate(0, 0, d)
		if d%7 == 0 {
			l.Transactions = append(l.Transactions, ledger.Transaction{
				Timestamp:    day.Add(9 * time.Hour),
				Amount:       decimal.NewFromInt(8050),
				Channel:      ledger.ChannelDeposit,
				Counterparty: "PAYROLL",
			})
		}
		l.Transactions = append(l.Transactions, ledger.Transaction{
			Timestamp:    day.Add(13 * time.Hour),
			Amount:       decimal.NewFromFloat(-250.5),
			Channel:      ledger.ChannelPayment,
			Counterparty: "GROCER",
		})
		if d%3 == 1 {
			l.Transactions = append(l.Transactions, ledger.Transaction{
				Timestamp:    day.Add(18 * time.Hour),
				Amount:       decimal.NewFromFloat(-20.5),
				Channel:      ledger.ChannelAirtime,
				Counterparty: "TOPUP",
			})
		}
	}
	return l
}

// riskyLedger models the reference bad borrower: sporadic uneven deposits,
// nightly round-number cash-outs, mostly sub-threshold balances.
func riskyLedger() ledger.Ledger {
	l := ledger.Ledger{Account: "risky"}
	deposits := map[int]int64{0: 300, 2: 9000, 27: 700}
	for d := 0; d < 30; d++ {
		day := testBase.AddDate(0, 0, d)
		l.Transactions = append(l.Transactions,
			ledger.Transaction{
				Timestamp:    day.Add(1 * time.Hour),
				Amount:       decimal.NewFromInt(-200),
				Channel:      ledger.ChannelWithdrawal,
				Counterparty: "AGENT",
			},
			ledger.Transaction{
				Timestamp:    day.Add(3*time.Hour + 30*time.Minute),
				Amount:       decimal.NewFromInt(-500),
				Channel:      ledger.ChannelWithdrawal,
				Counterparty: "AGENT",
			},
		)
		if amount, ok := deposits[d]; ok {
			l.Transactions = append(l.Transactions, ledger.Transaction{
				Timestamp:    day.Add(10 * time.Hour),
				Amount:       decimal.NewFromInt(amount),
				Channel:      ledger.ChannelDeposit,
				Counterparty: "SENDER",
			})
		}
	}
	return l
}

func TestScoreDeterminism(t *testing.T) {
	engine := testEngine(t)
	l := steadyLedger()

	first, err := engine.Score(l)
	if err != nil {
		t.Fatalf("first score: %v", err)
	}
	second, err := engine.Score(l)
	if err != nil {
		t.Fatalf("second score: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring is not deterministic: %+v vs %+v", first, second)
	}
}

func TestSteadyLedgerApproves(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.Score(steadyLedger())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if result.Score < 75 {
		t.Fatalf("steady ledger should score at least 75, got %d", result.Score)
	}
	if result.Decision.Outcome != OutcomeApprove {
		t.Fatalf("expected APPROVE, got %s", result.Decision.Outcome)
	}
	if !result.Decision.Ceiling.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected ceiling 50000, got %s", result.Decision.Ceiling)
	}
	if result.Decision.RatePct == nil || !result.Decision.RatePct.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected rate 8%%, got %v", result.Decision.RatePct)
	}
	if len(result.Factors) != 0 {
		t.Fatalf("steady ledger should trigger no risk factors, got %+v", result.Factors)
	}
}

func TestRiskyLedgerDeclines(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.Score(riskyLedger())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if result.Score >= engine.Params().Tiers.ConditionalScore {
		t.Fatalf("risky ledger should score below %d, got %d", engine.Params().Tiers.ConditionalScore, result.Score)
	}
	if result.Decision.Outcome != OutcomeDecline {
		t.Fatalf("expected DECLINE, got %s", result.Decision.Outcome)
	}
	if !result.Decision.Ceiling.IsZero() {
		t.Fatalf("declined ceiling should be zero, got %s", result.Decision.Ceiling)
	}
	if result.Decision.RatePct != nil {
		t.Fatalf("declined decision should carry no rate")
	}

	for _, want := range []string{msgIrregularIncome, msgRoundedAmounts, msgLowBalanceDays, msgNightActivity} {
		if !hasFactor(result.Factors, want) {
			t.Fatalf("expected factor %q, got %+v", want, result.Factors)
		}
	}
}

func TestEmptyLedgerDefinedResult(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.Score(ledger.Ledger{Account: "empty"})
	if err != nil {
		t.Fatalf("empty ledger must not error: %v", err)
	}

	if result.Score < 0 || result.Score >= engine.Params().Tiers.ConditionalScore {
		t.Fatalf("empty ledger should yield a defined low score, got %d", result.Score)
	}
	if result.Decision.Outcome != OutcomeDecline {
		t.Fatalf("expected DECLINE for empty ledger, got %s", result.Decision.Outcome)
	}
	if !hasFactor(result.Factors, msgIrregularIncome) {
		t.Fatalf("empty ledger should flag missing income, got %+v", result.Factors)
	}
	if !hasFactor(result.Factors, msgLowActivity) {
		t.Fatalf("empty ledger should flag missing activity, got %+v", result.Factors)
	}
}

func TestMalformedLedgerRejected(t *testing.T) {
	engine := testEngine(t)

	cases := map[string]ledger.Ledger{
		"zero timestamp": {Transactions: []ledger.Transaction{
			{Amount: decimal.NewFromInt(10), Channel: ledger.ChannelDeposit},
		}},
		"unknown channel": {Transactions: []ledger.Transaction{
			{Timestamp: testBase, Amount: decimal.NewFromInt(10), Channel: ledger.Channel("bogus")},
		}},
		"out of order": {Transactions: []ledger.Transaction{
			{Timestamp: testBase.AddDate(0, 0, 1), Amount: decimal.NewFromInt(10), Channel: ledger.ChannelDeposit},
			{Timestamp: testBase, Amount: decimal.NewFromInt(-5), Channel: ledger.ChannelPayment},
		}},
	}

	for name, l := range cases {
		if _, err := engine.Score(l); !errors.Is(err, ledger.ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestScoreRangeAcrossProfiles(t *testing.T) {
	engine := testEngine(t)

	for _, profile := range []ledger.Profile{ledger.ProfileSteady, ledger.ProfileRisky} {
		for seed := int64(1); seed <= 5; seed++ {
			l, err := ledger.Generate(profile, "range", 45, testBase.AddDate(0, 0, 45), seed)
			if err != nil {
				t.Fatalf("generate %s/%d: %v", profile, seed, err)
			}
			result, err := engine.Score(l)
			if err != nil {
				t.Fatalf("score %s/%d: %v", profile, seed, err)
			}
			if result.Score < 0 || result.Score > 100 {
				t.Fatalf("score out of range for %s/%d: %d", profile, seed, result.Score)
			}
		}
	}
}

func hasFactor(factors []RiskFactor, explanation string) bool {
	for _, f := range factors {
		if strings.Contains(f.Explanation, explanation) {
			return true
		}
	}
	return false
}
