package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgonzalez/agentd/config"
)

// Factory holds the registered providers and the configured preference, and
// implements the selection policy: the preferred provider when it is
// configured, otherwise the first configured provider in registration
// order. An unconfigured provider is never selected silently.
type Factory struct {
	providers []Provider
	preferred string
}

// NewFactory builds a factory over the given providers in registration
// order.
func NewFactory(preferred string, providers ...Provider) *Factory {
	return &Factory{providers: providers, preferred: preferred}
}

// FromConfig constructs providers from the llm config section. Providers are
// registered in name order so fallback selection is deterministic.
func FromConfig(cfg config.LLMConfig) (*Factory, error) {
	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	var providers []Provider
	for _, name := range names {
		pc := cfg.Providers[name]
		switch pc.Type {
		case "openai":
			providers = append(providers, NewOpenAI(name, pc))
		case "anthropic":
			providers = append(providers, NewAnthropic(name, pc))
		case "local":
			providers = append(providers, NewLocal(name, pc))
		default:
			return nil, fmt.Errorf("unsupported provider type: %s", pc.Type)
		}
	}
	return NewFactory(cfg.Preferred, providers...), nil
}

// Default returns the preferred provider when it is configured, else the
// first configured provider, else ErrNoProviderConfigured. An unconfigured
// preferred provider is skipped, not an error, as long as something else is
// configured.
func (f *Factory) Default() (Provider, error) {
	if p, ok := f.ByName(f.preferred); ok && p.IsConfigured() {
		return p, nil
	}
	for _, p := range f.providers {
		if p.IsConfigured() {
			return p, nil
		}
	}
	return nil, ErrNoProviderConfigured
}

// ByName returns the provider with the given name, case-insensitively.
func (f *Factory) ByName(name string) (Provider, bool) {
	for _, p := range f.providers {
		if strings.EqualFold(p.Name(), name) {
			return p, true
		}
	}
	return nil, false
}

// ByType returns the first provider of the given type.
func (f *Factory) ByType(t Type) (Provider, bool) {
	for _, p := range f.providers {
		if p.Type() == t {
			return p, true
		}
	}
	return nil, false
}

// All returns every registered provider in registration order.
func (f *Factory) All() []Provider {
	return f.providers
}

// Configured returns the providers that are ready to use.
func (f *Factory) Configured() []Provider {
	var out []Provider
	for _, p := range f.providers {
		if p.IsConfigured() {
			out = append(out, p)
		}
	}
	return out
}

// Status renders a diagnostic summary of every registered provider.
func (f *Factory) Status() string {
	var b strings.Builder
	b.WriteString("LLM Provider Status:\n")
	for _, p := range f.providers {
		state := "NOT CONFIGURED"
		if p.IsConfigured() {
			state = "CONFIGURED"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", p.Name(), p.Type(), state)
	}
	return b.String()
}
