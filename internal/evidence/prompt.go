package evidence

import (
	"strings"

	"authscript/internal/oracle"
	"authscript/internal/policy"
)

const (
	systemInstruction = "You are a medical prior authorization analyst. Evaluate whether " +
		"clinical evidence meets the specified criterion."

	judgmentTemperature = 0.0
	judgmentMaxTokens   = 500

	// sourceLabel is the provenance recorded on every produced item.
	sourceLabel = "LLM analysis"
)

// buildJudgment assembles the per-criterion request: role instruction,
// criterion description (plus LCD section when present), and the evidence
// summary forwarded verbatim.
func buildJudgment(c policy.Criterion, summary string) oracle.JudgmentRequest {
	var b strings.Builder
	b.WriteString("Criterion: ")
	b.WriteString(c.Description)
	if c.LCDSection != "" {
		b.WriteString("\nPolicy reference: ")
		b.WriteString(c.LCDSection)
	}
	b.WriteString("\n\nClinical Data:\n")
	b.WriteString(summary)
	b.WriteString("\n\nEvaluate if this criterion is MET, NOT_MET, or UNCLEAR. ")
	b.WriteString("State HIGH CONFIDENCE or LOW CONFIDENCE if warranted, and provide a brief ")
	b.WriteString("explanation of the evidence found.")

	return oracle.JudgmentRequest{
		System:      systemInstruction,
		Prompt:      b.String(),
		Temperature: judgmentTemperature,
		MaxTokens:   judgmentMaxTokens,
	}
}
