package planner

import (
	"context"
	"fmt"
	"log"

	"github.com/rgonzalez/agentd/internal/plan"
	"github.com/rgonzalez/agentd/internal/provider"
	"github.com/rgonzalez/agentd/internal/tool"
)

// LLMPlanner asks a language model for a JSON plan document, parses it and
// validates the result. Any failure along the way surfaces as a planning
// error wrapping the cause.
type LLMPlanner struct {
	factory   *provider.Factory
	validator *plan.Validator
	registry  *tool.Registry
	logger    *log.Logger
}

// NewLLMPlanner builds the model-driven planner.
func NewLLMPlanner(factory *provider.Factory, validator *plan.Validator, registry *tool.Registry, logger *log.Logger) *LLMPlanner {
	if logger == nil {
		logger = log.New(log.Writer(), "[PLANNER] ", log.LstdFlags)
	}
	return &LLMPlanner{factory: factory, validator: validator, registry: registry, logger: logger}
}

func (p *LLMPlanner) Name() string { return "LLMPlanner" }

// CreatePlan requests a plan document from the default provider and runs it
// through schema parsing and the plan validator before returning it.
func (p *LLMPlanner) CreatePlan(ctx context.Context, goal string) (plan.Plan, error) {
	prov, err := p.factory.Default()
	if err != nil {
		return plan.Plan{}, plan.ErrBadModelOutput(fmt.Errorf("select provider: %w", err))
	}

	req := provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: p.buildPrompt()},
			{Role: "user", Content: goal},
		},
		Temperature: 0.2,
		MaxTokens:   1000,
	}

	resp, err := prov.Chat(ctx, req)
	if err != nil {
		return plan.Plan{}, plan.ErrBadModelOutput(fmt.Errorf("chat: %w", err))
	}
	content := resp.FirstChoiceContent()
	if content == "" {
		return plan.Plan{}, plan.ErrBadModelOutput(fmt.Errorf("provider %s returned empty content", prov.Name()))
	}

	raw, err := extractJSON(content)
	if err != nil {
		return plan.Plan{}, plan.ErrBadModelOutput(err)
	}
	parsed, err := plan.ParseDocument([]byte(raw))
	if err != nil {
		return plan.Plan{}, err
	}
	if err := p.validator.Validate(parsed); err != nil {
		return plan.Plan{}, err
	}

	p.logger.Printf("model %s produced %s", resp.Model, parsed.Describe())
	return parsed, nil
}

// buildPrompt instructs the model to emit a plan document conforming to the
// embedded schema, using only the registered tools.
func (p *LLMPlanner) buildPrompt() string {
	return fmt.Sprintf(`You are a planning assistant for a business agent.
Given the user's goal, produce an execution plan as a JSON object.

%s

Respond ONLY with a JSON object conforming to this schema (1 to 5 steps):
%s

Each step's toolName must be one of the tools listed above. Do not include
any prose outside the JSON object.`, p.registry.Describe(), plan.SchemaJSON())
}
