package plan

import (
	"fmt"
	"strings"
)

// Step is a single tool invocation within a plan. Steps are value objects:
// build one and leave it alone.
type Step struct {
	Description string                 `json:"description"`
	ToolName    string                 `json:"toolName"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Plan is an ordered sequence of steps; order is execution order.
// An empty plan is a legal value signalling "no actionable intent".
type Plan struct {
	Steps []Step `json:"steps"`
}

// New builds a plan from the given steps.
func New(steps ...Step) Plan {
	return Plan{Steps: steps}
}

// IsEmpty reports whether the plan has no steps.
func (p Plan) IsEmpty() bool {
	return len(p.Steps) == 0
}

// ToolNames returns the tool name of each step in execution order.
func (p Plan) ToolNames() []string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.ToolName)
	}
	return names
}

// Describe renders a human-readable summary of the plan, one line per step.
func (p Plan) Describe() string {
	if p.IsEmpty() {
		return "empty plan"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "plan with %d step(s):", len(p.Steps))
	for i, s := range p.Steps {
		fmt.Fprintf(&b, "\n  %d. [%s] %s", i+1, s.ToolName, s.Description)
	}
	return b.String()
}
