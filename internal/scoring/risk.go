package scoring

// RiskFactor is one flagged lending-risk condition with its precomposed
// explanation. Factors carry no dynamic prose; the message is fixed per
// feature and violation direction.
type RiskFactor struct {
	Feature     Feature
	Explanation string
}

// Fixed explanations, matched to feature and direction.
const (
	msgLowAvgBalance   = "Low average balance"
	msgIrregularIncome = "Irregular or insufficient income"
	msgNightActivity   = "High share of night-time transactions"
	msgNoAirtime       = "No recurring airtime purchases"
	msgRoundedAmounts  = "Many rounded transaction amounts"
	msgLowBalanceDays  = "Frequently low balance"
	msgLowActivity     = "Little account activity"
)

// EvaluateRisk applies one fixed threshold rule per feature and returns the
// triggered factors in canonical feature order. Rules are independent; any
// subset can fire together.
func EvaluateRisk(fv FeatureVector, p Params) []RiskFactor {
	r := p.Rules
	factors := make([]RiskFactor, 0, len(featureOrder))

	if fv.AvgDailyBalance < r.MinAvgDailyBalance {
		factors = append(factors, RiskFactor{FeatureAvgDailyBalance, msgLowAvgBalance})
	}
	if fv.IncomeRegularity < r.MinRegularity {
		factors = append(factors, RiskFactor{FeatureIncomeRegularity, msgIrregularIncome})
	}
	if fv.NightRatio > r.MaxNightRatio {
		factors = append(factors, RiskFactor{FeatureNightRatio, msgNightActivity})
	}
	if fv.AirtimeRegularity < r.MinAirtime {
		factors = append(factors, RiskFactor{FeatureAirtimeRegularity, msgNoAirtime})
	}
	if fv.RoundedRatio > r.MaxRoundedRatio {
		factors = append(factors, RiskFactor{FeatureRoundedRatio, msgRoundedAmounts})
	}
	if fv.LowBalanceFreq > r.MaxLowBalanceFreq {
		factors = append(factors, RiskFactor{FeatureLowBalanceFreq, msgLowBalanceDays})
	}
	if fv.TxnFrequency < r.MinTxnFrequency {
		factors = append(factors, RiskFactor{FeatureTxnFrequency, msgLowActivity})
	}

	return factors
}
