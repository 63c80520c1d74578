// Package evidence evaluates a policy's criteria against a prepared clinical
// evidence summary by dispatching one judgment per criterion to the reasoning
// oracle and classifying each answer into a structured evidence item.
package evidence

// Status is the classified outcome of judging one criterion.
type Status string

const (
	StatusMet     Status = "MET"
	StatusNotMet  Status = "NOT_MET"
	StatusUnclear Status = "UNCLEAR"
)

// Item is the classified outcome of evaluating one criterion. Items are
// produced exactly once per criterion per evaluation pass, in policy order.
type Item struct {
	// CriterionID references the criterion in the policy being scored.
	CriterionID string `json:"criterion_id"`
	Status      Status `json:"status"`
	// Evidence is the oracle's free-text rationale, kept for audit/display.
	Evidence string `json:"evidence"`
	// Source is a provenance label.
	Source string `json:"source"`
	// Confidence is the oracle's self-reported certainty in [0,1]. It is
	// distinct from the criterion's policy weight.
	Confidence float64 `json:"confidence"`
}
