// Package scoring turns classified evidence items and a policy into a single
// deterministic compliance score and recommendation. This is pure domain
// logic: no I/O, no mutable state, identical inputs always produce identical
// results — a required property for auditability of authorization decisions.
package scoring

import (
	"authscript/internal/evidence"
	"authscript/internal/policy"
)

// Recommendation is the categorical authorization decision.
type Recommendation string

const (
	RecommendApprove      Recommendation = "APPROVE"
	RecommendManualReview Recommendation = "MANUAL_REVIEW"
	RecommendNeedInfo     Recommendation = "NEED_INFO"
)

// Result is the aggregated outcome of one scoring call.
type Result struct {
	// Score is the weighted compliance score, clamped to [0.05, 1.0].
	Score float64 `json:"score"`
	// Recommendation follows the fixed thresholds on Score.
	Recommendation Recommendation `json:"recommendation"`
}

// Score floor/ceiling and decision thresholds.
const (
	scoreFloor   = 0.05
	scoreCeiling = 1.0

	approveThreshold = 0.80
	reviewThreshold  = 0.50

	// Hard gate: each unmet required criterion lowers the cap further. Held
	// in hundredths so the cap is an exact decimal (0.50, 0.35, ...) rather
	// than an accumulated float product.
	hardGateBaseHundredths    = 65
	hardGatePenaltyHundredths = 15
)

// statusScore maps a classified status to its contribution factor.
func statusScore(s evidence.Status) float64 {
	switch s {
	case evidence.StatusMet:
		return 1.0
	case evidence.StatusUnclear:
		return 0.5
	default: // NOT_MET
		return 0.0
	}
}

// Score computes the weighted compliance score for the evidence against the
// policy's criteria.
//
// A MET criterion that declares bypasses promotes its targets to an effective
// MET regardless of their reported status. Bypass effects do not chain: a
// bypassing criterion that is itself bypassed still propagates its own effect
// only if it actually reported MET. Items referencing unknown criterion IDs
// are ignored entirely, and criteria with no item are simply absent from the
// weighted sum.
func Score(items []evidence.Item, p *policy.Policy) Result {
	byID := make(map[string]policy.Criterion, len(p.Criteria))
	for _, c := range p.Criteria {
		byID[c.ID] = c
	}

	bypassed := make(map[string]struct{})
	for _, item := range items {
		if item.Status != evidence.StatusMet {
			continue
		}
		c, ok := byID[item.CriterionID]
		if !ok {
			continue
		}
		for _, target := range c.Bypasses {
			bypassed[target] = struct{}{}
		}
	}

	var numerator, denominator float64
	violations := 0
	for _, item := range items {
		c, ok := byID[item.CriterionID]
		if !ok {
			continue
		}

		_, isBypassed := bypassed[c.ID]
		status := statusScore(item.Status)
		if isBypassed {
			// Treated as MET regardless of the reported status.
			status = 1.0
		}
		numerator += c.Weight * status * item.Confidence
		denominator += c.Weight

		if c.Required && item.Status == evidence.StatusNotMet && !isBypassed {
			violations++
		}
	}

	score := scoreFloor
	if denominator > 0 {
		score = numerator / denominator
	}

	if violations > 0 {
		gate := float64(hardGateBaseHundredths-hardGatePenaltyHundredths*violations) / 100
		if score > gate {
			score = gate
		}
	}

	score = clamp(score)

	return Result{Score: score, Recommendation: recommend(score)}
}

func clamp(score float64) float64 {
	if score < scoreFloor {
		return scoreFloor
	}
	if score > scoreCeiling {
		return scoreCeiling
	}
	return score
}

func recommend(score float64) Recommendation {
	switch {
	case score >= approveThreshold:
		return RecommendApprove
	case score >= reviewThreshold:
		return RecommendManualReview
	default:
		return RecommendNeedInfo
	}
}
