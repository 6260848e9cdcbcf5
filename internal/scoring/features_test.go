package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finscore/internal/ledger"
)

func tx(at time.Time, amount float64, channel ledger.Channel) ledger.Transaction {
	return ledger.Transaction{
		Timestamp: at,
		Amount:    decimal.NewFromFloat(amount),
		Channel:   channel,
	}
}

func TestExtractFeaturesEmptyLedger(t *testing.T) {
	fv := ExtractFeatures(ledger.Ledger{}, DefaultParams())
	if fv != (FeatureVector{}) {
		t.Fatalf("empty ledger should yield all-zero features, got %+v", fv)
	}
}

func TestIncomeRegularityFallback(t *testing.T) {
	p := DefaultParams()

	one := ledger.Ledger{Transactions: []ledger.Transaction{
		tx(testBase, 5000, ledger.ChannelDeposit),
	}}
	if fv := ExtractFeatures(one, p); fv.IncomeRegularity != 0 {
		t.Fatalf("a single deposit has no pattern and must score 0, got %v", fv.IncomeRegularity)
	}
}

func TestIncomeRegularityPerfectPattern(t *testing.T) {
	p := DefaultParams()

	l := ledger.Ledger{}
	for w := 0; w < 5; w++ {
		l.Transactions = append(l.Transactions, tx(testBase.AddDate(0, 0, w*7), 8000, ledger.ChannelDeposit))
	}

	fv := ExtractFeatures(l, p)
	if math.Abs(fv.IncomeRegularity-1) > 1e-9 {
		t.Fatalf("identical weekly deposits should score 1, got %v", fv.IncomeRegularity)
	}
}

func TestNightRatioWindow(t *testing.T) {
	p := DefaultParams()

	l := ledger.Ledger{Transactions: []ledger.Transaction{
		tx(testBase.Add(2*time.Hour), -100, ledger.ChannelWithdrawal),  // 02:00, night
		tx(testBase.Add(12*time.Hour), -100, ledger.ChannelPayment),    // noon
		tx(testBase.Add(23*time.Hour), -100, ledger.ChannelWithdrawal), // 23:00, not in 00..05
		tx(testBase.Add(28*time.Hour), -100, ledger.ChannelWithdrawal), // 04:00 next day, night
	}}

	fv := ExtractFeatures(l, p)
	if math.Abs(fv.NightRatio-0.5) > 1e-9 {
		t.Fatalf("expected night ratio 0.5, got %v", fv.NightRatio)
	}
}

func TestNightRatioWrappedWindow(t *testing.T) {
	p := DefaultParams()
	p.Normalize.NightStartHour = 22
	p.Normalize.NightEndHour = 5

	l := ledger.Ledger{Transactions: []ledger.Transaction{
		tx(testBase.Add(12*time.Hour), -100, ledger.ChannelPayment),
		tx(testBase.Add(23*time.Hour), -100, ledger.ChannelWithdrawal),
	}}

	fv := ExtractFeatures(l, p)
	if math.Abs(fv.NightRatio-0.5) > 1e-9 {
		t.Fatalf("23:00 should fall inside a 22..05 window, got ratio %v", fv.NightRatio)
	}
}

func TestRoundedRatio(t *testing.T) {
	p := DefaultParams()

	l := ledger.Ledger{Transactions: []ledger.Transaction{
		tx(testBase.Add(10*time.Hour), -500, ledger.ChannelWithdrawal),
		tx(testBase.Add(11*time.Hour), -250.5, ledger.ChannelPayment),
		tx(testBase.Add(12*time.Hour), 1200, ledger.ChannelDeposit),
		tx(testBase.Add(13*time.Hour), -75, ledger.ChannelPayment),
	}}

	fv := ExtractFeatures(l, p)
	if math.Abs(fv.RoundedRatio-0.5) > 1e-9 {
		t.Fatalf("expected rounded ratio 0.5, got %v", fv.RoundedRatio)
	}
}

func TestLowBalanceFreqDerivedFromFlow(t *testing.T) {
	p := DefaultParams()

	// No recorded balances: series is cumulative net flow from zero.
	// Day 0 closes at 2000, day 1 at 100, day 2 carries 100 forward,
	// day 3 closes at 1100.
	l := ledger.Ledger{Transactions: []ledger.Transaction{
		tx(testBase.Add(9*time.Hour), 2000, ledger.ChannelDeposit),
		tx(testBase.AddDate(0, 0, 1).Add(9*time.Hour), -1900, ledger.ChannelWithdrawal),
		tx(testBase.AddDate(0, 0, 3).Add(9*time.Hour), 1000, ledger.ChannelDeposit),
	}}

	fv := ExtractFeatures(l, p)
	if math.Abs(fv.LowBalanceFreq-0.5) > 1e-9 {
		t.Fatalf("expected low-balance frequency 0.5, got %v", fv.LowBalanceFreq)
	}
}

func TestLowBalanceFreqRecordedBalanceWins(t *testing.T) {
	p := DefaultParams()

	recorded := decimal.NewFromInt(10000)
	l := ledger.Ledger{Transactions: []ledger.Transaction{
		{
			Timestamp: testBase.Add(9 * time.Hour),
			Amount:    decimal.NewFromInt(-100),
			Balance:   &recorded,
			Channel:   ledger.ChannelPayment,
		},
	}}

	fv := ExtractFeatures(l, p)
	if fv.LowBalanceFreq != 0 {
		t.Fatalf("recorded balance of 10000 is not low, got frequency %v", fv.LowBalanceFreq)
	}
	if math.Abs(fv.AvgDailyBalance-10000.0/p.Normalize.BalanceCeiling) > 1e-9 {
		t.Fatalf("average balance should use the recorded value, got %v", fv.AvgDailyBalance)
	}
}

func TestTxnFrequencySaturates(t *testing.T) {
	p := DefaultParams()

	// 10 transactions on one day with 1 expected per day saturates at 1.
	p.Normalize.ExpectedTxnsPerDay = 1
	l := ledger.Ledger{}
	for i := 0; i < 10; i++ {
		l.Transactions = append(l.Transactions, tx(testBase.Add(time.Duration(6+i)*time.Hour), -10.5, ledger.ChannelPayment))
	}

	fv := ExtractFeatures(l, p)
	if fv.TxnFrequency != 1 {
		t.Fatalf("frequency should saturate at 1, got %v", fv.TxnFrequency)
	}
}

func TestAirtimeRegularityRewardsRecurrence(t *testing.T) {
	p := DefaultParams()

	// Same airtime share, different recurrence: weekly top-ups across the
	// window must beat a single burst at the start.
	spread := ledger.Ledger{}
	burst := ledger.Ledger{}
	for d := 0; d < 28; d++ {
		day := testBase.AddDate(0, 0, d)
		spread.Transactions = append(spread.Transactions, tx(day.Add(12*time.Hour), -150.5, ledger.ChannelPayment))
		burst.Transactions = append(burst.Transactions, tx(day.Add(12*time.Hour), -150.5, ledger.ChannelPayment))
		if d%7 == 0 {
			spread.Transactions = append(spread.Transactions, tx(day.Add(18*time.Hour), -20.5, ledger.ChannelAirtime))
		}
		if d < 4 {
			burst.Transactions = append(burst.Transactions, tx(day.Add(19*time.Hour), -20.5, ledger.ChannelAirtime))
		}
	}

	spreadFV := ExtractFeatures(spread, p)
	burstFV := ExtractFeatures(burst, p)
	if spreadFV.AirtimeRegularity <= burstFV.AirtimeRegularity {
		t.Fatalf("recurring top-ups should outscore a burst: %v vs %v",
			spreadFV.AirtimeRegularity, burstFV.AirtimeRegularity)
	}
	if burstFV.AirtimeRegularity <= 0 {
		t.Fatalf("burst top-ups should still score above zero, got %v", burstFV.AirtimeRegularity)
	}
}

func TestNegativeMeanBalanceClampsToZero(t *testing.T) {
	p := DefaultParams()

	l := ledger.Ledger{Transactions: []ledger.Transaction{
		tx(testBase.Add(9*time.Hour), -5000, ledger.ChannelWithdrawal),
	}}

	fv := ExtractFeatures(l, p)
	if fv.AvgDailyBalance != 0 {
		t.Fatalf("negative derived balance should normalize to 0, got %v", fv.AvgDailyBalance)
	}
}
