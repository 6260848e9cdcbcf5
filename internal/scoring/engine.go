package scoring

import (
	"fmt"

	"github.com/rs/zerolog"

	"finscore/internal/ledger"
)

// ScoreResult is the engine's sole output: the score, the triggered risk
// factors in canonical order, the decision, and the feature vector the
// result was derived from. It has no identity beyond the call that produced
// it.
type ScoreResult struct {
	Score    int
	Features FeatureVector
	Factors  []RiskFactor
	Decision Decision
}

// Engine scores ledgers against an immutable parameter set. Every call is a
// one-shot pure transformation; the engine holds no per-call state and is
// safe to share across goroutines.
type Engine struct {
	params Params
	logger zerolog.Logger
}

// NewEngine validates the parameter set and builds an engine around it.
func NewEngine(p Params, logger zerolog.Logger) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("scoring params: %w", err)
	}
	return &Engine{
		params: p,
		logger: logger.With().Str("component", "engine").Logger(),
	}, nil
}

// Params returns the parameter set the engine was built with.
func (e *Engine) Params() Params {
	return e.params
}

// Score runs the full pipeline: validate → extract → evaluate → score →
// decide. A sparse or empty ledger yields a defined low result; a malformed
// one is rejected up front.
func (e *Engine) Score(l ledger.Ledger) (ScoreResult, error) {
	if err := l.Validate(); err != nil {
		return ScoreResult{}, err
	}

	fv := ExtractFeatures(l, e.params)
	factors := EvaluateRisk(fv, e.params)
	score := ComputeScore(fv, e.params)
	decision := MapDecision(score, e.params)

	e.logger.Debug().
		Str("account", l.Account).
		Int("transactions", len(l.Transactions)).
		Int("score", score).
		Str("outcome", string(decision.Outcome)).
		Int("factors", len(factors)).
		Msg("ledger scored")

	return ScoreResult{
		Score:    score,
		Features: fv,
		Factors:  factors,
		Decision: decision,
	}, nil
}
