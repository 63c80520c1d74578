package handler

import (
	"authscript/internal/analysis"
	"authscript/internal/evidence"
)

// AnalyzeResponse is the HTTP response for the analyze endpoints.
type AnalyzeResponse struct {
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

// FromForm converts a domain PA form to an HTTP response.
func FromForm(form *analysis.PAForm) *AnalyzeResponse {
	evidenceItems := form.SupportingEvidence
	if evidenceItems == nil {
		evidenceItems = []evidence.Item{}
	}
	return &AnalyzeResponse{
		AnalysisID:         form.AnalysisID,
		PatientName:        form.PatientName,
		PatientDOB:         form.PatientDOB,
		MemberID:           form.MemberID,
		DiagnosisCodes:     form.DiagnosisCodes,
		ProcedureCode:      form.ProcedureCode,
		ClinicalSummary:    form.ClinicalSummary,
		SupportingEvidence: evidenceItems,
		Recommendation:     form.Recommendation,
		ConfidenceScore:    form.ConfidenceScore,
		FieldMappings:      form.FieldMappings,
		PolicyID:           form.PolicyID,
		LCDReference:       form.LCDReference,
	}
}
