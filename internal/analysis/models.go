// Package analysis orchestrates a full prior-authorization analysis: policy
// resolution, criterion evaluation through the reasoning oracle, confidence
// scoring, and PA form generation.
package analysis

import (
	"authscript/internal/bundle"
	"authscript/internal/evidence"
)

// Document is an uploaded clinical document awaiting text extraction.
type Document struct {
	Name string
	Data []byte
}

// Request is the domain input for one analysis.
type Request struct {
	PatientID     string
	ProcedureCode string
	Bundle        bundle.ClinicalBundle
	Documents     []Document
}

// PAForm is the completed prior-authorization form produced by an analysis.
// FieldMappings carry the PDF field name to value pairs a downstream stamper
// would use; actual PDF stamping is out of scope here.
type PAForm struct {
	AnalysisID         string            `json:"analysis_id"`
	PatientName        string            `json:"patient_name"`
	PatientDOB         string            `json:"patient_dob"`
	MemberID           string            `json:"member_id"`
	DiagnosisCodes     []string          `json:"diagnosis_codes"`
	ProcedureCode      string            `json:"procedure_code"`
	ClinicalSummary    string            `json:"clinical_summary"`
	SupportingEvidence []evidence.Item   `json:"supporting_evidence"`
	Recommendation     string            `json:"recommendation"`
	ConfidenceScore    float64           `json:"confidence_score"`
	FieldMappings      map[string]string `json:"field_mappings"`
	PolicyID           string            `json:"policy_id,omitempty"`
	LCDReference       string            `json:"lcd_reference,omitempty"`
}
