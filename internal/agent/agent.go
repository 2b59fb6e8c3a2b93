package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rgonzalez/agentd/config"
	"github.com/rgonzalez/agentd/internal/conversation"
	"github.com/rgonzalez/agentd/internal/planner"
	"github.com/rgonzalez/agentd/internal/provider"
	"github.com/rgonzalez/agentd/internal/telemetry"
	"github.com/rgonzalez/agentd/internal/tool"
)

// Service orchestrates a conversation turn: it plans tool usage for the
// user's goal, executes the plan, and synthesizes the assistant reply
// through an LLM provider.
type Service struct {
	store     conversation.Store
	registry  *tool.Registry
	planner   planner.Planner
	factory   *provider.Factory
	synthesis config.SynthesisConfig
	metrics   *telemetry.Telemetry
	logger    *log.Logger
}

func NewService(store conversation.Store, registry *tool.Registry, pl planner.Planner, factory *provider.Factory, synthesis config.SynthesisConfig, metrics *telemetry.Telemetry) *Service {
	return &Service{
		store:     store,
		registry:  registry,
		planner:   pl,
		factory:   factory,
		synthesis: synthesis,
		metrics:   metrics,
		logger:    log.New(log.Writer(), "[AGENT] ", log.LstdFlags),
	}
}

// CreateConversation starts a new conversation for the given user.
func (s *Service) CreateConversation(ctx context.Context, userID string) (conversation.Conversation, error) {
	conv, err := s.store.Create(ctx, userID)
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("creating conversation: %w", err)
	}
	s.logger.Printf("created conversation %s for user %s", conv.ID, userID)
	return conv, nil
}

// GetConversation fetches a conversation by id.
func (s *Service) GetConversation(ctx context.Context, id string) (conversation.Conversation, error) {
	return s.store.FindByID(ctx, id)
}

// History returns all messages of a conversation in chronological order.
func (s *Service) History(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	if _, err := s.store.FindByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}

// SendMessage runs one full turn: persist the user message, plan, execute
// the plan's tools, synthesize a reply, and persist the assistant message.
// Planning failures abort the turn; provider failures do not, the reply
// falls back to a template instead.
func (s *Service) SendMessage(ctx context.Context, conversationID, content string) (conversation.Message, error) {
	started := time.Now()
	msg, err := s.sendMessage(ctx, conversationID, content)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.ObserveTurn(outcome, time.Since(started))
	return msg, err
}

func (s *Service) sendMessage(ctx context.Context, conversationID, content string) (conversation.Message, error) {
	conv, err := s.store.FindByID(ctx, conversationID)
	if err != nil {
		return conversation.Message{}, err
	}

	userMsg := conversation.Message{
		ConversationID: conv.ID,
		Role:           conversation.RoleUser,
		Content:        content,
	}
	if _, err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return conversation.Message{}, fmt.Errorf("saving user message: %w", err)
	}

	p, err := s.planner.CreatePlan(ctx, content)
	if err != nil {
		return conversation.Message{}, err
	}
	s.logger.Printf("created plan: %s", p.Describe())

	var toolResults strings.Builder
	executionContext := map[string]interface{}{}
	toolsUsed := make([]string, 0, len(p.Steps))

	for _, step := range p.Steps {
		s.logger.Printf("executing: %s", step.Description)

		result := s.executeStep(step.ToolName, step.Parameters, executionContext)
		toolResults.WriteString("Tool: " + step.ToolName + "\n")
		toolResults.WriteString(result + "\n\n")

		executionContext[tool.ResultKey(step.ToolName)] = result
		toolsUsed = append(toolsUsed, step.ToolName)
	}

	reply := s.synthesize(ctx, content, toolResults.String(), toolsUsed)

	assistantMsg := conversation.Message{
		ConversationID: conv.ID,
		Role:           conversation.RoleAssistant,
		Content:        reply,
	}
	if len(toolsUsed) > 0 {
		assistantMsg.ToolsUsed = toolsUsed
	}
	assistant, err := s.store.AppendMessage(ctx, assistantMsg)
	if err != nil {
		return conversation.Message{}, fmt.Errorf("saving assistant message: %w", err)
	}

	conv.Status = conversation.StatusCompleted
	if _, err := s.store.Save(ctx, conv); err != nil {
		return conversation.Message{}, fmt.Errorf("saving conversation: %w", err)
	}

	return assistant, nil
}

// executeStep runs a single plan step. A tool missing from the registry
// degrades to a result string rather than failing the turn.
func (s *Service) executeStep(toolName string, parameters, executionContext map[string]interface{}) string {
	t, ok := s.registry.Lookup(toolName)
	if !ok {
		s.metrics.ObserveTool(toolName, "not_found")
		return fmt.Sprintf("Tool '%s' not found", toolName)
	}

	params := make(map[string]interface{}, len(parameters))
	for k, v := range parameters {
		params[k] = v
	}

	result, err := t.ExecuteWithContext(params, executionContext)
	if err != nil {
		s.metrics.ObserveTool(toolName, "error")
		return fmt.Sprintf("Tool '%s' failed: %v", toolName, err)
	}
	s.metrics.ObserveTool(toolName, "ok")
	return result
}

// synthesize asks the default provider to turn tool results into a reply.
// Any provider problem falls back to a template answer.
func (s *Service) synthesize(ctx context.Context, userMessage, toolResults string, toolsUsed []string) string {
	prov, err := s.factory.Default()
	if err != nil {
		s.logger.Printf("no provider available: %v", err)
		s.metrics.ObserveFallback()
		return fallbackAnswer(toolsUsed)
	}
	s.logger.Printf("using LLM provider: %s", prov.Name())

	req := provider.ChatRequest{
		Model: prov.DefaultModel(),
		Messages: []provider.Message{
			{Role: "system", Content: s.buildSystemPrompt(toolResults, toolsUsed)},
			{Role: "user", Content: userMessage},
		},
		Temperature: s.synthesis.Temperature,
		MaxTokens:   s.synthesis.MaxTokens,
	}

	resp, err := prov.Chat(ctx, req)
	if err != nil {
		s.logger.Printf("provider %s failed: %v", prov.Name(), err)
		s.metrics.ObserveProviderCall(prov.Name(), "error")
		s.metrics.ObserveFallback()
		return fallbackAnswer(toolsUsed)
	}
	s.metrics.ObserveProviderCall(prov.Name(), "ok")

	content := resp.FirstChoiceContent()
	if content == "" {
		s.metrics.ObserveFallback()
		return fallbackAnswer(toolsUsed)
	}
	return content
}

func (s *Service) buildSystemPrompt(toolResults string, toolsUsed []string) string {
	var prompt strings.Builder
	prompt.WriteString("You are an intelligent business agent assistant. ")
	prompt.WriteString("Your role is to help users accomplish their business tasks by using available tools.\n\n")

	prompt.WriteString("AVAILABLE TOOLS:\n")
	prompt.WriteString(s.registry.Describe())
	prompt.WriteString("\n\n")

	if toolResults != "" {
		prompt.WriteString("TOOL EXECUTION RESULTS:\n")
		prompt.WriteString(toolResults)
		prompt.WriteString("\n")
	}

	if len(toolsUsed) > 0 {
		prompt.WriteString("TOOLS USED IN THIS REQUEST:\n")
		for _, name := range toolsUsed {
			prompt.WriteString("- " + name + "\n")
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("Based on the tool results above, provide a concise and helpful response to the user. ")
	prompt.WriteString("Summarize what was done, highlight key findings, and suggest next steps if appropriate.\n")

	return prompt.String()
}
