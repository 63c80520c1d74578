package audit

import "time"

// Event records one completed analysis for the decision audit trail. It
// deliberately carries no patient identifiers; the analysis ID is the join
// key back to the result cache.
type Event struct {
	AnalysisID        string            `json:"analysis_id"`
	RequestID         string            `json:"request_id,omitempty"`
	ProcedureCode     string            `json:"procedure_code"`
	PolicyID          string            `json:"policy_id"`
	Score             float64           `json:"score"`
	Recommendation    string            `json:"recommendation"`
	CriterionStatuses map[string]string `json:"criterion_statuses"`
	Timestamp         time.Time         `json:"timestamp"`
}
