package policy

// BuildGenericPolicy synthesizes a payer-agnostic medical-necessity policy for
// a procedure code with no registered coverage policy. Each call returns a
// fresh instance; fallbacks are never cached in the registry.
func BuildGenericPolicy(procedureCode string) *Policy {
	return &Policy{
		ID:             "generic-" + procedureCode,
		Name:           "General Medical Necessity",
		Payer:          "General",
		ProcedureCodes: []string{procedureCode},
		Criteria: []Criterion{
			{
				ID:          "medical_necessity",
				Description: "Medical necessity is documented with clinical rationale",
				Weight:      0.40,
				Required:    true,
			},
			{
				ID:          "diagnosis_present",
				Description: "Valid diagnosis code is present and supports the procedure",
				Weight:      0.30,
				Required:    true,
			},
			{
				ID:          "conservative_therapy",
				Description: "Conservative therapy attempted or documented as not applicable",
				Weight:      0.30,
			},
		},
	}
}
