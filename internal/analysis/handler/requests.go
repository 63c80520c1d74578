package handler

import (
	"encoding/json"
	"strings"

	"authscript/internal/analysis"
	"authscript/internal/bundle"
	dErrors "authscript/pkg/domain-errors"
)

const maxProcedureCodeLen = 10

// AnalyzeRequest is the HTTP request body for POST /analyze.
type AnalyzeRequest struct {
	PatientID     string          `json:"patient_id"`
	ProcedureCode string          `json:"procedure_code"`
	ClinicalData  json.RawMessage `json:"clinical_data"`

	// Populated by Validate
	parsedBundle bundle.ClinicalBundle
}

// Validate validates and parses the request.
// Implements the Validator interface for httputil.DecodeAndPrepare.
func (r *AnalyzeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.PatientID = strings.TrimSpace(r.PatientID)
	if r.PatientID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "patient_id is required")
	}

	r.ProcedureCode = strings.TrimSpace(r.ProcedureCode)
	if r.ProcedureCode == "" {
		return dErrors.New(dErrors.CodeBadRequest, "procedure_code is required")
	}
	if len(r.ProcedureCode) > maxProcedureCodeLen {
		return dErrors.New(dErrors.CodeBadRequest, "procedure_code is too long")
	}

	if len(r.ClinicalData) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "clinical_data is required")
	}
	if err := json.Unmarshal(r.ClinicalData, &r.parsedBundle); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "clinical_data is not valid JSON")
	}
	r.parsedBundle.PatientID = r.PatientID

	return nil
}

// ToDomain converts the validated request into the domain form.
func (r *AnalyzeRequest) ToDomain(documents []analysis.Document) analysis.Request {
	return analysis.Request{
		PatientID:     r.PatientID,
		ProcedureCode: r.ProcedureCode,
		Bundle:        r.parsedBundle,
		Documents:     documents,
	}
}
