package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Type identifies the family of a provider backend.
type Type string

const (
	TypeOpenAI    Type = "OPENAI"
	TypeAnthropic Type = "ANTHROPIC"
	TypeLocal     Type = "LOCAL"
	TypeAzure     Type = "AZURE"
	TypeOther     Type = "OTHER"
)

// ErrNoProviderConfigured is returned by the factory when no registered
// provider has credentials.
var ErrNoProviderConfigured = errors.New("no LLM provider is configured")

// NotConfiguredError reports a chat call against a provider with no
// credentials.
type NotConfiguredError struct {
	Provider string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("provider %s is not configured", e.Provider)
}

// Message is one entry in a chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the uniform request shape sent to any provider.
type ChatRequest struct {
	Model       string                 `json:"model"`
	Messages    []Message              `json:"messages"`
	Temperature float64                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens"`
	Tools       map[string]interface{} `json:"tools,omitempty"`
}

// Choice is a single completion alternative.
type Choice struct {
	Index        int    `json:"index"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason"`
}

// Usage reports token accounting for a chat call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the uniform response shape returned by any provider.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// FirstChoiceContent returns the content of the first choice, or "" when the
// response carries none. Callers only ever read the first choice.
func (r ChatResponse) FirstChoiceContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Content
}

// Provider is a pluggable language-model backend.
type Provider interface {
	Name() string
	DefaultModel() string
	Type() Type
	IsConfigured() bool
	// CountTokens approximates the token count of text; exactness is not
	// part of the contract.
	CountTokens(text string) int
	// Chat sends the request and returns the completion. It fails fast
	// with NotConfiguredError when the provider has no credentials, and
	// defaults the request model to DefaultModel when unset.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// estimateTokens is the shared 1 token ~ 4 characters approximation,
// rounded up.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// requestUsage tokenizes the concatenated input messages plus the produced
// content.
func requestUsage(p Provider, req ChatRequest, content string) Usage {
	var inputs []string
	for _, m := range req.Messages {
		inputs = append(inputs, m.Content)
	}
	u := Usage{
		PromptTokens:     p.CountTokens(strings.Join(inputs, "\n")),
		CompletionTokens: p.CountTokens(content),
	}
	u.TotalTokens = u.PromptTokens + u.CompletionTokens
	return u
}
