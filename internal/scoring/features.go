package scoring

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"finscore/internal/ledger"
)

// Feature identifies one scoring signal.
type Feature string

const (
	FeatureAvgDailyBalance   Feature = "avg_daily_balance"
	FeatureIncomeRegularity  Feature = "income_regularity"
	FeatureNightRatio        Feature = "night_ratio"
	FeatureAirtimeRegularity Feature = "airtime_regularity"
	FeatureRoundedRatio      Feature = "rounded_ratio"
	FeatureLowBalanceFreq    Feature = "low_balance_freq"
	FeatureTxnFrequency      Feature = "txn_frequency"
)

// FeatureVector holds the seven normalized signals, each in [0,1]. Every
// value measures "how much of the signal is present"; direction handling
// (favorable vs risky) belongs to the scorer.
type FeatureVector struct {
	AvgDailyBalance   float64
	IncomeRegularity  float64
	NightRatio        float64
	AirtimeRegularity float64
	RoundedRatio      float64
	LowBalanceFreq    float64
	TxnFrequency      float64
}

// Get returns the value for a feature id.
func (fv FeatureVector) Get(f Feature) float64 {
	switch f {
	case FeatureAvgDailyBalance:
		return fv.AvgDailyBalance
	case FeatureIncomeRegularity:
		return fv.IncomeRegularity
	case FeatureNightRatio:
		return fv.NightRatio
	case FeatureAirtimeRegularity:
		return fv.AirtimeRegularity
	case FeatureRoundedRatio:
		return fv.RoundedRatio
	case FeatureLowBalanceFreq:
		return fv.LowBalanceFreq
	case FeatureTxnFrequency:
		return fv.TxnFrequency
	default:
		return 0
	}
}

// featureOrder fixes presentation and rule-evaluation order.
var featureOrder = []Feature{
	FeatureAvgDailyBalance,
	FeatureIncomeRegularity,
	FeatureNightRatio,
	FeatureAirtimeRegularity,
	FeatureRoundedRatio,
	FeatureLowBalanceFreq,
	FeatureTxnFrequency,
}

// Features lists the feature ids in canonical order.
func Features() []Feature {
	out := make([]Feature, len(featureOrder))
	copy(out, featureOrder)
	return out
}

// ExtractFeatures derives the feature vector from a ledger. Pure and
// deterministic; degenerate ledgers fall back to defined values instead of
// erroring.
func ExtractFeatures(l ledger.Ledger, p Params) FeatureVector {
	balances := l.DailyBalances()
	return FeatureVector{
		AvgDailyBalance:   avgDailyBalance(balances, p.Normalize),
		IncomeRegularity:  incomeRegularity(l.Deposits()),
		NightRatio:        nightRatio(l, p.Normalize),
		AirtimeRegularity: airtimeRegularity(l, p.Normalize),
		RoundedRatio:      roundedRatio(l, p.Normalize),
		LowBalanceFreq:    lowBalanceFreq(balances, p.Normalize),
		TxnFrequency:      txnFrequency(l, p.Normalize),
	}
}

func avgDailyBalance(series []ledger.DayBalance, n Normalize) float64 {
	if len(series) == 0 {
		return 0
	}

	values := make([]float64, len(series))
	for i, day := range series {
		values[i], _ = day.Balance.Float64()
	}

	mean, err := stats.Mean(values)
	if err != nil || mean <= 0 {
		return 0
	}
	return clamp01(mean / n.BalanceCeiling)
}

// incomeRegularity blends the coefficient of variation of inter-deposit gaps
// with that of deposit amounts: 1/(1+cv) per component, averaged. Fewer than
// two deposits means no pattern exists and scores worst case.
func incomeRegularity(deposits []ledger.Transaction) float64 {
	if len(deposits) < 2 {
		return 0
	}

	gaps := make([]float64, 0, len(deposits)-1)
	for i := 1; i < len(deposits); i++ {
		gaps = append(gaps, deposits[i].Timestamp.Sub(deposits[i-1].Timestamp).Hours()/24)
	}

	amounts := make([]float64, len(deposits))
	for i, tx := range deposits {
		amounts[i], _ = tx.Amount.Float64()
	}

	return (consistency(gaps) + consistency(amounts)) / 2
}

// consistency maps a sample's coefficient of variation onto (0,1]; zero
// variance yields 1.
func consistency(values []float64) float64 {
	mean, err := stats.Mean(values)
	if err != nil || mean <= 0 {
		return 0
	}
	sd, err := stats.StandardDeviation(values)
	if err != nil {
		return 0
	}
	return 1 / (1 + sd/mean)
}

func nightRatio(l ledger.Ledger, n Normalize) float64 {
	if l.Empty() {
		return 0
	}
	count := 0
	for _, tx := range l.Transactions {
		if inNightWindow(tx.Timestamp.Hour(), n.NightStartHour, n.NightEndHour) {
			count++
		}
	}
	return float64(count) / float64(len(l.Transactions))
}

func inNightWindow(hour, start, end int) bool {
	if start <= end {
		return hour >= start && hour < end
	}
	// Window wraps midnight, e.g. 22..05.
	return hour >= start || hour < end
}

// airtimeRegularity rewards recurring small top-ups rather than raw counts:
// the airtime share saturates at the target ratio and is weighted by the
// fraction of observed weeks that contain at least one top-up.
func airtimeRegularity(l ledger.Ledger, n Normalize) float64 {
	if l.Empty() {
		return 0
	}

	from, _, _ := l.Window()
	count := 0
	weeksWith := map[int]struct{}{}
	for _, tx := range l.Transactions {
		if tx.Channel != ledger.ChannelAirtime {
			continue
		}
		count++
		week := int(tx.Timestamp.Sub(from).Hours() / 24 / 7)
		weeksWith[week] = struct{}{}
	}
	if count == 0 {
		return 0
	}

	ratio := float64(count) / float64(len(l.Transactions))
	weeks := (l.Days() + 6) / 7
	recurrence := float64(len(weeksWith)) / float64(weeks)

	return clamp01(ratio/n.AirtimeTargetRatio) * clamp01(recurrence)
}

func roundedRatio(l ledger.Ledger, n Normalize) float64 {
	if l.Empty() {
		return 0
	}
	unit := decimal.NewFromFloat(n.RoundUnit)
	count := 0
	for _, tx := range l.Transactions {
		if tx.Amount.Abs().Mod(unit).IsZero() {
			count++
		}
	}
	return float64(count) / float64(len(l.Transactions))
}

func lowBalanceFreq(series []ledger.DayBalance, n Normalize) float64 {
	if len(series) == 0 {
		return 0
	}
	threshold := decimal.NewFromFloat(n.LowBalanceThreshold)
	count := 0
	for _, day := range series {
		if day.Balance.LessThan(threshold) {
			count++
		}
	}
	return float64(count) / float64(len(series))
}

func txnFrequency(l ledger.Ledger, n Normalize) float64 {
	days := l.Days()
	if days == 0 {
		return 0
	}
	perDay := float64(len(l.Transactions)) / float64(days)
	return clamp01(perDay / n.ExpectedTxnsPerDay)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
