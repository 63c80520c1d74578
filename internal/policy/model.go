// Package policy holds the coverage-policy data model and the registry that
// resolves procedure codes to policies. Policies are built once at startup and
// treated as read-only afterwards, so evaluation requests can share them
// without synchronization.
package policy

import (
	"fmt"
)

// Criterion is one weighted, independently evaluable eligibility condition.
type Criterion struct {
	// ID is a stable key, unique within its policy.
	ID string
	// Description is human-readable and sent verbatim to the reasoning oracle.
	Description string
	// Weight is the criterion's relative clinical importance in [0,1]. Weights
	// within one policy are expected to sum to roughly 1.0 but are not enforced
	// at construction; the scorer normalizes by the actual sum.
	Weight float64
	// Required marks a hard gate: an unmet required criterion caps the score.
	Required bool
	// Bypasses lists criterion IDs that are treated as MET when this criterion
	// is MET. Models clinical red-flag short-circuits (e.g. cauda equina
	// waiving the conservative-therapy requirement).
	Bypasses []string
	// LCDSection is an opaque reference annotation carried through for
	// audit/display only.
	LCDSection string
}

// Policy is the ordered, weighted set of criteria for a procedure scope.
type Policy struct {
	ID             string
	Name           string
	LCDReference   string
	LCDTitle       string
	LCDContractor  string
	Payer          string
	ProcedureCodes []string
	DiagnosisCodes []string
	Criteria       []Criterion
}

// Validate rejects malformed policies at registration time: empty or duplicate
// criterion IDs and self-referential bypasses. Unknown bypass targets are
// allowed (they are no-ops at scoring time) and bypass cycles are not checked.
func (p *Policy) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("policy id is required")
	}
	seen := make(map[string]struct{}, len(p.Criteria))
	for _, c := range p.Criteria {
		if c.ID == "" {
			return fmt.Errorf("policy %s: criterion id is required", p.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("policy %s: duplicate criterion id %q", p.ID, c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Weight < 0 || c.Weight > 1 {
			return fmt.Errorf("policy %s: criterion %q weight %v out of [0,1]", p.ID, c.ID, c.Weight)
		}
		for _, target := range c.Bypasses {
			if target == c.ID {
				return fmt.Errorf("policy %s: criterion %q bypasses itself", p.ID, c.ID)
			}
		}
	}
	return nil
}

// CriterionByID returns the criterion with the given ID, if present.
func (p *Policy) CriterionByID(id string) (Criterion, bool) {
	for _, c := range p.Criteria {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}
