package plan

// Validator checks plans against a configured tool allow-list. It is a pure
// function of its input; the allow-list is injected at construction time.
type Validator struct {
	allowed map[string]struct{}
}

// NewValidator builds a validator for the given tool allow-list.
func NewValidator(allowedTools []string) *Validator {
	allowed := make(map[string]struct{}, len(allowedTools))
	for _, name := range allowedTools {
		allowed[name] = struct{}{}
	}
	return &Validator{allowed: allowed}
}

// Validate rejects empty plans, steps naming tools outside the allow-list and
// steps whose parameter mapping is absent. An empty-but-present mapping is
// fine.
func (v *Validator) Validate(p Plan) error {
	if p.IsEmpty() {
		return ErrEmptyPlan()
	}
	for _, step := range p.Steps {
		if _, ok := v.allowed[step.ToolName]; !ok {
			return ErrUnknownTool(step.ToolName)
		}
		if step.Parameters == nil {
			return ErrMissingParameters(step.ToolName)
		}
	}
	return nil
}

// Allowed reports whether the given tool name is in the allow-list.
func (v *Validator) Allowed(tool string) bool {
	_, ok := v.allowed[tool]
	return ok
}
