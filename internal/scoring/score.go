package scoring

import "math"

// ComputeScore folds the feature vector into a single 0..100 score as a
// weighted linear combination. Favorable features (balance, regularity,
// airtime, frequency) contribute as-is; risk-direction features (night,
// rounded, low balance) are inverted before weighting. Same vector in, same
// score out.
func ComputeScore(fv FeatureVector, p Params) int {
	w := p.Weights
	weighted := w.AvgDailyBalance*fv.AvgDailyBalance +
		w.IncomeRegularity*fv.IncomeRegularity +
		w.NightRatio*(1-fv.NightRatio) +
		w.AirtimeRegularity*fv.AirtimeRegularity +
		w.RoundedRatio*(1-fv.RoundedRatio) +
		w.LowBalanceFreq*(1-fv.LowBalanceFreq) +
		w.TxnFrequency*fv.TxnFrequency

	score := int(math.Round(weighted * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
