package policy

// Seed policies translated from published LCD coverage criteria. Weights and
// section references track the source LCDs; keep them in sync when a
// contractor revises coverage language.

// SeedPolicies returns the built-in LCD-backed policies.
func SeedPolicies() []*Policy {
	return []*Policy{
		mriLumbar(),
		mriBrain(),
		totalKneeArthroplasty(),
		physicalTherapy(),
		epiduralSteroid(),
	}
}

// RegisterSeeds installs every seed policy into the registry.
func RegisterSeeds(r *Registry) error {
	for _, p := range SeedPolicies() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

func mriLumbar() *Policy {
	return &Policy{
		ID:             "lcd-mri-lumbar-L34220",
		Name:           "MRI Lumbar Spine",
		LCDReference:   "L34220",
		LCDTitle:       "Magnetic Resonance Imaging of the Lumbar Spine",
		LCDContractor:  "Noridian Healthcare Solutions",
		Payer:          "CMS Medicare",
		ProcedureCodes: []string{"72148", "72149", "72158"},
		DiagnosisCodes: []string{"M54.5", "M54.50", "M54.51", "M51.16", "M51.17"},
		Criteria: []Criterion{
			{
				ID:          "diagnosis_present",
				Description: "Valid ICD-10 for lumbar pathology",
				Weight:      0.15,
				Required:    true,
				LCDSection:  "L34220 / A57206 — Covered Diagnoses",
			},
			{
				ID:          "red_flag_screening",
				Description: "Cauda equina, tumor, infection, major neuro deficit",
				Weight:      0.25,
				LCDSection:  "L34220 — Immediate MRI Indications",
				Bypasses:    []string{"conservative_therapy_4wk"},
			},
			{
				ID:          "conservative_therapy_4wk",
				Description: "4+ weeks conservative management (NSAIDs, PT, activity mod) documented",
				Weight:      0.30,
				Required:    true,
				LCDSection:  "L34220 — Non-Red-Flag Requirements",
			},
			{
				ID:          "clinical_rationale",
				Description: "Imaging abnormalities alone insufficient; supporting clinical rationale documented",
				Weight:      0.20,
				Required:    true,
				LCDSection:  "L34220 — Coverage Principle",
			},
			{
				ID:          "no_duplicate_imaging",
				Description: "No recent duplicative CT/MRI without new justification",
				Weight:      0.10,
				LCDSection:  "L34220 — Non-Covered Indications",
			},
		},
	}
}

func mriBrain() *Policy {
	return &Policy{
		ID:             "lcd-mri-brain-L37373",
		Name:           "MRI Brain",
		LCDReference:   "L37373",
		LCDTitle:       "Magnetic Resonance Imaging of the Brain",
		LCDContractor:  "Noridian Healthcare Solutions",
		Payer:          "CMS Medicare",
		ProcedureCodes: []string{"70551", "70552", "70553"},
		DiagnosisCodes: []string{"G40.909", "R51.9", "G43.909", "G35"},
		Criteria: []Criterion{
			{
				ID:          "diagnosis_present",
				Description: "Valid ICD-10 for neurological condition",
				Weight:      0.15,
				Required:    true,
				LCDSection:  "L37373 / A57204 — Covered Diagnoses",
			},
			{
				ID:          "neurological_indication",
				Description: "Tumor, stroke, MS, seizures, unexplained neuro deficit",
				Weight:      0.35,
				Required:    true,
				LCDSection:  "L37373 — Indications for MRI",
			},
			{
				ID:          "ct_insufficient",
				Description: "CT already performed and insufficient, or MRI specifically indicated",
				Weight:      0.25,
				LCDSection:  "L37373 — MRI vs CT Selection",
			},
			{
				ID:          "clinical_documentation",
				Description: "Supporting clinical findings documented",
				Weight:      0.25,
				Required:    true,
				LCDSection:  "L37373 — Coverage Requirements",
			},
		},
	}
}

func totalKneeArthroplasty() *Policy {
	return &Policy{
		ID:             "lcd-tka-L36575",
		Name:           "Total Knee Arthroplasty",
		LCDReference:   "L36575",
		LCDTitle:       "Total Knee Arthroplasty",
		LCDContractor:  "Noridian Healthcare Solutions",
		Payer:          "CMS Medicare",
		ProcedureCodes: []string{"27447"},
		DiagnosisCodes: []string{"M17.0", "M17.11", "M17.12", "M87.052"},
		Criteria: []Criterion{
			{
				ID:          "diagnosis_present",
				Description: "Valid ICD-10 for knee joint disease",
				Weight:      0.10,
				Required:    true,
				LCDSection:  "L36575 / A57685 — Covered Diagnoses",
			},
			{
				ID:          "advanced_joint_disease",
				Description: "Imaging showing joint space narrowing, osteophytes, sclerosis, AVN",
				Weight:      0.25,
				Required:    true,
				LCDSection:  "L36575 — Advanced Joint Disease",
			},
			{
				ID:          "functional_impairment",
				Description: "Pain/disability interfering with ADLs, increased with weight bearing",
				Weight:      0.25,
				Required:    true,
				LCDSection:  "L36575 — Functional Impairment",
			},
			{
				ID:          "failed_conservative_mgmt",
				Description: "Documented trials of NSAIDs, PT, assistive devices, injections",
				Weight:      0.30,
				Required:    true,
				LCDSection:  "L36575 — Failed Conservative Management",
			},
			{
				ID:          "no_contraindication",
				Description: "No active joint infection, systemic bacteremia, skin infection at site",
				Weight:      0.10,
				Required:    true,
				LCDSection:  "L36575 — Contraindications",
			},
		},
	}
}

func physicalTherapy() *Policy {
	return &Policy{
		ID:             "lcd-pt-L34049",
		Name:           "Physical Therapy",
		LCDReference:   "L34049",
		LCDTitle:       "Outpatient Physical and Occupational Therapy Services",
		LCDContractor:  "Noridian Healthcare Solutions",
		Payer:          "CMS Medicare",
		ProcedureCodes: []string{"97161", "97162", "97163"},
		DiagnosisCodes: []string{"M54.5", "M25.561", "M79.3", "S83.511A"},
		Criteria: []Criterion{
			{
				ID:          "improvement_potential",
				Description: "Patient condition has improvement potential or actively improving",
				Weight:      0.30,
				Required:    true,
				LCDSection:  "L34049 — Rehabilitative Therapy",
			},
			{
				ID:          "skilled_service_required",
				Description: "Service requires professional judgment, cannot be self-administered",
				Weight:      0.25,
				Required:    true,
				LCDSection:  "L34049 — Skilled Service Requirements",
			},
			{
				ID:          "individualized_plan",
				Description: "Plan of care with goals, frequency, duration documented",
				Weight:      0.25,
				Required:    true,
				LCDSection:  "L34049 — Documentation Requirements",
			},
			{
				ID:          "objective_progress",
				Description: "Successive objective measurements demonstrate progress",
				Weight:      0.20,
				LCDSection:  "L34049 — Progress Documentation",
			},
		},
	}
}

func epiduralSteroid() *Policy {
	return &Policy{
		ID:             "lcd-esi-L39240",
		Name:           "Epidural Steroid Injection",
		LCDReference:   "L39240",
		LCDTitle:       "Epidural Steroid Injections",
		LCDContractor:  "Noridian Healthcare Solutions",
		Payer:          "CMS Medicare",
		ProcedureCodes: []string{"62322", "62323"},
		DiagnosisCodes: []string{"M54.10", "M54.16", "M54.17", "M48.06"},
		Criteria: []Criterion{
			{
				ID:          "diagnosis_confirmed",
				Description: "Radiculopathy/stenosis confirmed by history, exam, and imaging",
				Weight:      0.25,
				Required:    true,
				LCDSection:  "L39240 — Requirement 1",
			},
			{
				ID:          "severity_documented",
				Description: "Pain severe enough to impact QoL/function, documented with standardized scale",
				Weight:      0.20,
				Required:    true,
				LCDSection:  "L39240 — Requirement 2",
			},
			{
				ID:          "conservative_care_4wk",
				Description: "4 weeks conservative care failed/intolerable (except acute herpes zoster)",
				Weight:      0.25,
				Required:    true,
				LCDSection:  "L39240 — Requirement 3",
			},
			{
				ID:          "frequency_within_limits",
				Description: "<=4 sessions per region per rolling 12 months",
				Weight:      0.15,
				Required:    true,
				LCDSection:  "L39240 — Frequency Limits",
			},
			{
				ID:          "image_guidance_planned",
				Description: "Fluoroscopy or CT guidance with contrast planned",
				Weight:      0.15,
				Required:    true,
				LCDSection:  "L39240 — Procedural Requirements",
			},
		},
	}
}
