package tool

import (
	"sort"
	"strings"
)

// Registry resolves tool names to implementations and renders the tool
// catalogue used inside the synthesis prompt. Iteration order is
// registration order, so the rendered catalogue is stable.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry and registers the given tools in order.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool. Re-registering a name replaces the previous
// implementation but keeps its position in the catalogue.
func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Lookup returns the tool registered under name, if any.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Describe renders the catalogue of every registered tool: name, description
// and parameter hints. The output goes verbatim into the synthesis prompt,
// so its formatting is part of the contract with the provider.
func (r *Registry) Describe() string {
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, name := range r.order {
		t := r.tools[name]
		b.WriteString("\n- ")
		b.WriteString(t.Name())
		b.WriteString(": ")
		b.WriteString(t.Description())
		hints := t.ParameterHints()
		if len(hints) == 0 {
			continue
		}
		b.WriteString("\n  Parameters: ")
		keys := make([]string, 0, len(hints))
		for k := range hints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("\n    - ")
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(hints[k])
		}
	}
	return b.String()
}
