package policy

// Registry maps procedure codes to policies. It is an explicitly constructed
// instance: all registrations happen during startup wiring, before the HTTP
// server accepts traffic, so Resolve needs no locking.
type Registry struct {
	policies map[string]*Policy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[string]*Policy)}
}

// Register installs the policy for every procedure code it declares. The last
// registration for a given code wins. Malformed policies are rejected.
func (r *Registry) Register(p *Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, code := range p.ProcedureCodes {
		r.policies[code] = p
	}
	return nil
}

// Resolve returns the registered policy for a procedure code, or a freshly
// synthesized generic fallback when none is registered. It is total over all
// string inputs and never mutates the registry; callers must treat the result
// as read-only.
func (r *Registry) Resolve(procedureCode string) *Policy {
	if p, ok := r.policies[procedureCode]; ok {
		return p
	}
	return BuildGenericPolicy(procedureCode)
}

// RegisteredCodes returns all procedure codes with a specific policy.
func (r *Registry) RegisteredCodes() []string {
	codes := make([]string, 0, len(r.policies))
	for code := range r.policies {
		codes = append(codes, code)
	}
	return codes
}
