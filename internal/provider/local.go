package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rgonzalez/agentd/config"
)

// Local is a deterministic in-process provider. It needs no credentials and
// answers from canned heuristics, which makes it the development and test
// backend.
type Local struct {
	name  string
	model string
}

// NewLocal builds a local provider.
func NewLocal(name string, cfg config.ProviderConfig) *Local {
	model := cfg.Model
	if model == "" {
		model = "local-sim"
	}
	return &Local{name: name, model: model}
}

func (p *Local) Name() string { return p.name }

func (p *Local) DefaultModel() string { return p.model }

func (p *Local) Type() Type { return TypeLocal }

func (p *Local) IsConfigured() bool { return true }

func (p *Local) CountTokens(text string) int { return estimateTokens(text) }

// Chat produces a deterministic completion keyed off the last user message.
func (p *Local) Chat(_ context.Context, req ChatRequest) (ChatResponse, error) {
	if req.Model == "" {
		req.Model = p.DefaultModel()
	}

	var lastUser string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUser = req.Messages[i].Content
			break
		}
	}
	content := simulatedReply(lastUser)

	resp := ChatResponse{
		ID:    "local-" + uuid.NewString(),
		Model: req.Model,
		Choices: []Choice{{
			Index:        0,
			Role:         "assistant",
			Content:      content,
			FinishReason: "stop",
		}},
	}
	resp.Usage = requestUsage(p, req, content)
	return resp, nil
}

func simulatedReply(userMessage string) string {
	lower := strings.ToLower(userMessage)
	switch {
	case strings.Contains(lower, "search") || strings.Contains(lower, "find"):
		return "I understand you want to search for something. I'll help you with that. " +
			"What specific criteria would you like me to use for the search?"
	case strings.Contains(lower, "email") || strings.Contains(lower, "send"):
		return "I can help you send emails. Here's what I'll do:\n" +
			"1. Identify the recipients\n" +
			"2. Prepare the email content\n" +
			"3. Send the emails\n" +
			"4. Confirm delivery"
	case strings.Contains(lower, "overdue") || strings.Contains(lower, "balance"):
		return "I'll search for customers with overdue balances and prepare reminder communications. " +
			"Let me gather the data and send out notifications."
	default:
		return fmt.Sprintf("I've received your request: %q. I'm processing this and will provide you with detailed assistance.", userMessage)
	}
}
