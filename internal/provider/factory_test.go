package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgonzalez/agentd/config"
)

func TestDefaultPrefersConfiguredPreferredProvider(t *testing.T) {
	f := NewFactory("openai",
		NewOpenAI("openai", config.ProviderConfig{Type: "openai", APIKey: "sk-test"}),
		NewAnthropic("anthropic", config.ProviderConfig{Type: "anthropic", APIKey: "ak-test"}),
	)

	p, err := f.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("expected preferred provider, got %s", p.Name())
	}
}

func TestDefaultSkipsUnconfiguredPreferred(t *testing.T) {
	f := NewFactory("openai",
		NewOpenAI("openai", config.ProviderConfig{Type: "openai"}),
		NewAnthropic("anthropic", config.ProviderConfig{Type: "anthropic", APIKey: "ak-test"}),
	)

	p, err := f.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if p.Name() != "anthropic" {
		t.Fatalf("expected fallback to the configured provider, got %s", p.Name())
	}
}

func TestDefaultFailsWhenNothingConfigured(t *testing.T) {
	f := NewFactory("openai",
		NewOpenAI("openai", config.ProviderConfig{Type: "openai"}),
		NewAnthropic("anthropic", config.ProviderConfig{Type: "anthropic"}),
	)

	if _, err := f.Default(); !errors.Is(err, ErrNoProviderConfigured) {
		t.Fatalf("expected ErrNoProviderConfigured, got %v", err)
	}
}

func TestByNameIsCaseInsensitive(t *testing.T) {
	f := NewFactory("openai",
		NewOpenAI("openai", config.ProviderConfig{Type: "openai", APIKey: "sk-test"}),
	)

	if _, ok := f.ByName("OpenAI"); !ok {
		t.Fatalf("ByName should match regardless of case")
	}
	if _, ok := f.ByName("mistral"); ok {
		t.Fatalf("ByName should miss unknown providers")
	}
}

func TestFromConfigRegistersInNameOrder(t *testing.T) {
	f, err := FromConfig(config.LLMConfig{
		Preferred: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai":    {Type: "openai"},
			"anthropic": {Type: "anthropic", APIKey: "ak-test"},
			"local":     {Type: "local"},
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	all := f.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(all))
	}
	if all[0].Name() != "anthropic" || all[1].Name() != "local" || all[2].Name() != "openai" {
		t.Fatalf("expected name-ordered registration, got %s, %s, %s", all[0].Name(), all[1].Name(), all[2].Name())
	}
}

func TestFromConfigRejectsUnknownType(t *testing.T) {
	_, err := FromConfig(config.LLMConfig{
		Providers: map[string]config.ProviderConfig{
			"weird": {Type: "quantum"},
		},
	})
	if err == nil {
		t.Fatalf("expected error for unsupported provider type")
	}
}

func TestOpenAIChatFailsFastWhenNotConfigured(t *testing.T) {
	p := NewOpenAI("openai", config.ProviderConfig{Type: "openai"})

	_, err := p.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	var nce *NotConfiguredError
	if !errors.As(err, &nce) {
		t.Fatalf("expected NotConfiguredError, got %v", err)
	}
	if nce.Provider != "openai" {
		t.Fatalf("unexpected provider in error: %q", nce.Provider)
	}
}

func TestLocalProviderProducesUsageEstimate(t *testing.T) {
	p := NewLocal("local", config.ProviderConfig{Type: "local"})

	req := ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: "find customers with overdue balance"},
		},
	}
	resp, err := p.Chat(context.Background(), req)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.FirstChoiceContent() == "" {
		t.Fatalf("expected simulated content")
	}
	if resp.Usage.PromptTokens == 0 || resp.Usage.CompletionTokens == 0 {
		t.Fatalf("expected non-zero usage estimate: %+v", resp.Usage)
	}
	if resp.Usage.TotalTokens != resp.Usage.PromptTokens+resp.Usage.CompletionTokens {
		t.Fatalf("usage totals do not add up: %+v", resp.Usage)
	}
}

func TestFactoryStatusMentionsEveryProvider(t *testing.T) {
	f := NewFactory("openai",
		NewOpenAI("openai", config.ProviderConfig{Type: "openai", APIKey: "sk-test"}),
		NewLocal("local", config.ProviderConfig{Type: "local"}),
	)

	status := f.Status()
	if !strings.Contains(status, "openai") || !strings.Contains(status, "local") {
		t.Fatalf("status should list all providers:\n%s", status)
	}
}
