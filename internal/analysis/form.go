package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"authscript/internal/bundle"
	"authscript/internal/evidence"
	"authscript/internal/oracle"
	"authscript/internal/policy"
	"authscript/internal/scoring"
)

const (
	summaryInstruction = "You are a medical prior authorization specialist. Generate a concise " +
		"clinical summary for prior authorization."

	summaryTemperature = 0.5
	summaryMaxTokens   = 1000

	// summaryPending is returned when the narrative call yields no signal.
	summaryPending = "Clinical summary generation pending."

	unknownField = "Unknown"
)

// clinicalNarrative asks the oracle for a short medical-necessity summary.
// Oracle silence degrades to a fixed pending string; rate-limit errors
// propagate like any other judgment.
func (s *Service) clinicalNarrative(ctx context.Context, items []evidence.Item, diagnosisCodes []string, procedureCode string) (string, error) {
	var lines []string
	for _, item := range items {
		text := truncate(item.Evidence, 100)
		lines = append(lines, fmt.Sprintf("- %s: %s - %s", item.CriterionID, item.Status, text))
	}

	prompt := fmt.Sprintf(`Based on the following evidence evaluation, generate a brief clinical summary
(2-3 sentences) explaining the medical necessity for this procedure.

Evidence Summary:
%s

Patient: [REDACTED]
Diagnoses: %s
Procedure: %s

Generate a professional clinical summary.`,
		strings.Join(lines, "\n"),
		strings.Join(diagnosisCodes, ", "),
		procedureCode,
	)

	text, err := s.oracle.Judge(ctx, oracle.JudgmentRequest{
		System:      summaryInstruction,
		Prompt:      prompt,
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return summaryPending, nil
	}
	return text, nil
}

// truncate cuts s to at most n runes. Oracle free text can contain
// multi-byte characters, so a byte slice could split a rune in half.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// buildForm assembles the PA form from the scored evidence.
func buildForm(analysisID string, b *bundle.ClinicalBundle, pol *policy.Policy, items []evidence.Item, result scoring.Result, narrative, procedureCode string) *PAForm {
	patientName := unknownField
	patientDOB := unknownField
	memberID := unknownField
	if b.Patient != nil {
		if b.Patient.Name != "" {
			patientName = b.Patient.Name
		}
		if b.Patient.BirthDate != "" {
			patientDOB = b.Patient.BirthDate
		}
		if b.Patient.MemberID != "" {
			memberID = b.Patient.MemberID
		}
	}

	diagnosisCodes := b.DiagnosisCodes()
	primaryDiagnosis := unknownField
	if len(diagnosisCodes) > 0 {
		primaryDiagnosis = diagnosisCodes[0]
	}

	return &PAForm{
		AnalysisID:         analysisID,
		PatientName:        patientName,
		PatientDOB:         patientDOB,
		MemberID:           memberID,
		DiagnosisCodes:     diagnosisCodes,
		ProcedureCode:      procedureCode,
		ClinicalSummary:    narrative,
		SupportingEvidence: items,
		Recommendation:     string(result.Recommendation),
		ConfidenceScore:    result.Score,
		FieldMappings: map[string]string{
			"PatientName":           patientName,
			"PatientDOB":            patientDOB,
			"MemberID":              memberID,
			"PrimaryDiagnosis":      primaryDiagnosis,
			"ProcedureCode":         procedureCode,
			"ClinicalJustification": narrative,
		},
		PolicyID:     pol.ID,
		LCDReference: pol.LCDReference,
	}
}
