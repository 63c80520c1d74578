package evidence

import "strings"

// Confidence levels read from the oracle's answer. The 0.5 value doubles as
// the "no signal at all" confidence for an empty answer, which is deliberately
// distinct from the 0.7 default assigned to an answer with no marker: a hedged
// answer still carries more signal than silence.
const (
	confidenceHigh     = 0.9
	confidenceMedium   = 0.7
	confidenceLow      = 0.5
	confidenceNoSignal = 0.5
)

// classifyStatus maps free text to a status with ordered matching. NOT_MET
// must be tested before MET: a plain "MET" substring test would match inside
// "NOT_MET" and flip every negative judgment positive.
func classifyStatus(text string) Status {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "NOT_MET") || strings.Contains(upper, "NOT MET"):
		return StatusNotMet
	case strings.Contains(upper, "MET"):
		return StatusMet
	case strings.Contains(upper, "UNCLEAR"):
		return StatusUnclear
	default:
		return StatusUnclear
	}
}

// classifyConfidence reads the confidence marker independently of status.
func classifyConfidence(text string) float64 {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "HIGH CONFIDENCE") || strings.Contains(upper, "CONFIDENCE: HIGH"):
		return confidenceHigh
	case strings.Contains(upper, "LOW CONFIDENCE") || strings.Contains(upper, "CONFIDENCE: LOW"):
		return confidenceLow
	default:
		return confidenceMedium
	}
}
