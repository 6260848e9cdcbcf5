package scoring

import "github.com/shopspring/decimal"

// Outcome is the discrete loan decision.
type Outcome string

const (
	OutcomeApprove     Outcome = "APPROVE"
	OutcomeConditional Outcome = "CONDITIONAL"
	OutcomeDecline     Outcome = "DECLINE"
)

// Decision pairs an outcome with the offered loan ceiling and interest rate.
// A decline carries a zero ceiling and no rate.
type Decision struct {
	Outcome Outcome
	Ceiling decimal.Decimal
	RatePct *decimal.Decimal
}

// MapDecision classifies a score against the two tier breakpoints. Pure
// range check; no hysteresis, no history.
func MapDecision(score int, p Params) Decision {
	t := p.Tiers
	switch {
	case score >= t.ApproveScore:
		rate := decimal.NewFromFloat(t.ApproveRatePct)
		return Decision{
			Outcome: OutcomeApprove,
			Ceiling: decimal.NewFromFloat(t.ApproveCeiling),
			RatePct: &rate,
		}
	case score >= t.ConditionalScore:
		rate := decimal.NewFromFloat(t.ConditionalRatePct)
		return Decision{
			Outcome: OutcomeConditional,
			Ceiling: decimal.NewFromFloat(t.ConditionalCeiling),
			RatePct: &rate,
		}
	default:
		return Decision{
			Outcome: OutcomeDecline,
			Ceiling: decimal.Zero,
		}
	}
}
