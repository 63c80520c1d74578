// Package bundle models the clinical data attached to an analysis request
// and builds the evidence summary forwarded to the reasoning backend.
package bundle

import "strings"

// Patient carries the demographic fields needed to populate a PA form.
type Patient struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"` // YYYY-MM-DD
	Gender    string `json:"gender,omitempty"`
	MemberID  string `json:"member_id,omitempty"`
}

// Condition is a documented diagnosis.
type Condition struct {
	Code           string `json:"code"`
	System         string `json:"system,omitempty"`
	Display        string `json:"display,omitempty"`
	ClinicalStatus string `json:"clinical_status,omitempty"`
}

// Observation is a lab result or vital sign.
type Observation struct {
	Code    string `json:"code"`
	System  string `json:"system,omitempty"`
	Display string `json:"display,omitempty"`
	Value   string `json:"value,omitempty"`
	Unit    string `json:"unit,omitempty"`
}

// Procedure is a prior or planned clinical procedure.
type Procedure struct {
	Code    string `json:"code"`
	System  string `json:"system,omitempty"`
	Display string `json:"display,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ClinicalBundle aggregates the clinical data for one patient. DocumentTexts
// holds text extracted from uploaded documents; it is not part of the request
// JSON.
type ClinicalBundle struct {
	PatientID     string        `json:"patient_id"`
	Patient       *Patient      `json:"patient,omitempty"`
	Conditions    []Condition   `json:"conditions,omitempty"`
	Observations  []Observation `json:"observations,omitempty"`
	Procedures    []Procedure   `json:"procedures,omitempty"`
	DocumentTexts []string      `json:"-"`
}

// DiagnosisCodes returns the condition codes in document order.
func (b *ClinicalBundle) DiagnosisCodes() []string {
	codes := make([]string, 0, len(b.Conditions))
	for _, c := range b.Conditions {
		codes = append(codes, c.Code)
	}
	return codes
}

// Summary renders the clinical data as the evidence text handed to the
// reasoning backend. Direct patient identifiers (name, member ID) are
// deliberately excluded; downstream components forward this text verbatim.
func (b *ClinicalBundle) Summary() string {
	var sb strings.Builder

	if b.Patient != nil && b.Patient.BirthDate != "" {
		sb.WriteString("Patient DOB: ")
		sb.WriteString(b.Patient.BirthDate)
		sb.WriteString("\n")
	}

	sb.WriteString("Diagnoses: ")
	sb.WriteString(joinOrNone(b.conditionLines()))
	sb.WriteString("\n")

	sb.WriteString("Observations: ")
	sb.WriteString(joinOrNone(b.observationLines()))
	sb.WriteString("\n")

	sb.WriteString("Prior procedures: ")
	sb.WriteString(joinOrNone(b.procedureLines()))
	sb.WriteString("\n")

	sb.WriteString("Documents:\n")
	if len(b.DocumentTexts) == 0 {
		sb.WriteString("No documents")
	} else {
		sb.WriteString(strings.Join(b.DocumentTexts, "\n\n"))
	}

	return sb.String()
}

func (b *ClinicalBundle) conditionLines() []string {
	var lines []string
	for _, c := range b.Conditions {
		if c.Display != "" {
			lines = append(lines, c.Code+" ("+c.Display+")")
		} else if c.Code != "" {
			lines = append(lines, c.Code)
		}
	}
	return lines
}

func (b *ClinicalBundle) observationLines() []string {
	var lines []string
	for _, o := range b.Observations {
		if o.Value == "" {
			continue
		}
		label := o.Display
		if label == "" {
			label = o.Code
		}
		line := label + ": " + o.Value
		if o.Unit != "" {
			line += " " + o.Unit
		}
		lines = append(lines, line)
	}
	return lines
}

func (b *ClinicalBundle) procedureLines() []string {
	var lines []string
	for _, p := range b.Procedures {
		label := p.Display
		if label == "" {
			label = p.Code
		}
		if label == "" {
			continue
		}
		if p.Status != "" {
			label += " (" + p.Status + ")"
		}
		lines = append(lines, label)
	}
	return lines
}

func joinOrNone(lines []string) string {
	if len(lines) == 0 {
		return "None documented"
	}
	return strings.Join(lines, ", ")
}
