package scoring

import (
	"fmt"
	"math"
)

// Params holds every weight, threshold, and loan tier the engine uses. All
// cut points live here so the scoring arithmetic stays auditable and the
// engine itself carries no magic numbers.
type Params struct {
	Weights   Weights     `mapstructure:"weights"`
	Normalize Normalize   `mapstructure:"normalize"`
	Rules     RuleCutoffs `mapstructure:"rules"`
	Tiers     Tiers       `mapstructure:"tiers"`
}

// Weights assigns each feature its share of the score. They must sum to 1.
type Weights struct {
	AvgDailyBalance   float64 `mapstructure:"avg_daily_balance"`
	IncomeRegularity  float64 `mapstructure:"income_regularity"`
	NightRatio        float64 `mapstructure:"night_ratio"`
	AirtimeRegularity float64 `mapstructure:"airtime_regularity"`
	RoundedRatio      float64 `mapstructure:"rounded_ratio"`
	LowBalanceFreq    float64 `mapstructure:"low_balance_freq"`
	TxnFrequency      float64 `mapstructure:"txn_frequency"`
}

func (w Weights) sum() float64 {
	return w.AvgDailyBalance + w.IncomeRegularity + w.NightRatio +
		w.AirtimeRegularity + w.RoundedRatio + w.LowBalanceFreq + w.TxnFrequency
}

// Normalize bounds raw feature values onto [0,1].
type Normalize struct {
	// NightStartHour/NightEndHour define the night window [start,end) in
	// local statement hours; the window may wrap midnight.
	NightStartHour int `mapstructure:"night_start_hour"`
	NightEndHour   int `mapstructure:"night_end_hour"`
	// RoundUnit marks an amount as "rounded" when it is an exact multiple.
	RoundUnit float64 `mapstructure:"round_unit"`
	// LowBalanceThreshold flags a day whose closing balance falls below it.
	LowBalanceThreshold float64 `mapstructure:"low_balance_threshold"`
	// BalanceCeiling saturates the average-daily-balance feature.
	BalanceCeiling float64 `mapstructure:"balance_ceiling"`
	// ExpectedTxnsPerDay saturates the transaction-frequency feature.
	ExpectedTxnsPerDay float64 `mapstructure:"expected_txns_per_day"`
	// AirtimeTargetRatio saturates the airtime share before recurrence
	// weighting.
	AirtimeTargetRatio float64 `mapstructure:"airtime_target_ratio"`
}

// RuleCutoffs are the per-feature flag thresholds used by the risk
// evaluator. All values compare against normalized features.
type RuleCutoffs struct {
	MinAvgDailyBalance float64 `mapstructure:"min_avg_daily_balance"`
	MinRegularity      float64 `mapstructure:"min_regularity"`
	MaxNightRatio      float64 `mapstructure:"max_night_ratio"`
	MinAirtime         float64 `mapstructure:"min_airtime"`
	MaxRoundedRatio    float64 `mapstructure:"max_rounded_ratio"`
	MaxLowBalanceFreq  float64 `mapstructure:"max_low_balance_freq"`
	MinTxnFrequency    float64 `mapstructure:"min_txn_frequency"`
}

// Tiers map the score onto loan terms via two breakpoints.
type Tiers struct {
	ApproveScore       int     `mapstructure:"approve_score"`
	ConditionalScore   int     `mapstructure:"conditional_score"`
	ApproveCeiling     float64 `mapstructure:"approve_ceiling"`
	ApproveRatePct     float64 `mapstructure:"approve_rate_pct"`
	ConditionalCeiling float64 `mapstructure:"conditional_ceiling"`
	ConditionalRatePct float64 `mapstructure:"conditional_rate_pct"`
}

// Validate rejects parameter sets the engine cannot score with.
func (p Params) Validate() error {
	if math.Abs(p.Weights.sum()-1) > 1e-9 {
		return fmt.Errorf("scoring.weights must sum to 1, got %v", p.Weights.sum())
	}
	for name, w := range map[string]float64{
		"avg_daily_balance":  p.Weights.AvgDailyBalance,
		"income_regularity":  p.Weights.IncomeRegularity,
		"night_ratio":        p.Weights.NightRatio,
		"airtime_regularity": p.Weights.AirtimeRegularity,
		"rounded_ratio":      p.Weights.RoundedRatio,
		"low_balance_freq":   p.Weights.LowBalanceFreq,
		"txn_frequency":      p.Weights.TxnFrequency,
	} {
		if w < 0 {
			return fmt.Errorf("scoring.weights.%s cannot be negative", name)
		}
	}

	n := p.Normalize
	if n.NightStartHour < 0 || n.NightStartHour > 23 || n.NightEndHour < 0 || n.NightEndHour > 23 {
		return fmt.Errorf("scoring.normalize night hours must be within 0..23")
	}
	if n.RoundUnit <= 0 {
		return fmt.Errorf("scoring.normalize.round_unit must be greater than zero")
	}
	if n.BalanceCeiling <= 0 {
		return fmt.Errorf("scoring.normalize.balance_ceiling must be greater than zero")
	}
	if n.ExpectedTxnsPerDay <= 0 {
		return fmt.Errorf("scoring.normalize.expected_txns_per_day must be greater than zero")
	}
	if n.AirtimeTargetRatio <= 0 {
		return fmt.Errorf("scoring.normalize.airtime_target_ratio must be greater than zero")
	}

	t := p.Tiers
	if t.ApproveScore <= t.ConditionalScore {
		return fmt.Errorf("scoring.tiers.approve_score must exceed conditional_score")
	}
	if t.ApproveScore > 100 || t.ConditionalScore < 0 {
		return fmt.Errorf("scoring.tiers breakpoints must lie within 0..100")
	}
	if t.ApproveCeiling <= 0 || t.ConditionalCeiling <= 0 {
		return fmt.Errorf("scoring.tiers ceilings must be greater than zero")
	}
	return nil
}

// DefaultParams returns the engine defaults, tuned against the two reference
// borrower profiles (steady weekly earner vs night cash-out pattern).
func DefaultParams() Params {
	return Params{
		Weights: Weights{
			AvgDailyBalance:   0.20,
			IncomeRegularity:  0.20,
			NightRatio:        0.10,
			AirtimeRegularity: 0.10,
			RoundedRatio:      0.10,
			LowBalanceFreq:    0.15,
			TxnFrequency:      0.15,
		},
		Normalize: Normalize{
			NightStartHour:      0,
			NightEndHour:        5,
			RoundUnit:           100,
			LowBalanceThreshold: 500,
			BalanceCeiling:      50000,
			ExpectedTxnsPerDay:  5,
			AirtimeTargetRatio:  0.1,
		},
		Rules: RuleCutoffs{
			MinAvgDailyBalance: 0.05,
			MinRegularity:      0.6,
			MaxNightRatio:      0.3,
			MinAirtime:         0.05,
			MaxRoundedRatio:    0.4,
			MaxLowBalanceFreq:  0.3,
			MinTxnFrequency:    0.1,
		},
		Tiers: Tiers{
			ApproveScore:       70,
			ConditionalScore:   40,
			ApproveCeiling:     50000,
			ApproveRatePct:     8,
			ConditionalCeiling: 3000,
			ConditionalRatePct: 20,
		},
	}
}
