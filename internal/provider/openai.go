package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rgonzalez/agentd/config"
)

// OpenAI talks to the OpenAI chat completions API.
type OpenAI struct {
	name   string
	cfg    config.ProviderConfig
	client *http.Client
}

// NewOpenAI builds an OpenAI provider from configuration. The timeout bounds
// every chat call; there is no retry here.
func NewOpenAI(name string, cfg config.ProviderConfig) *OpenAI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{name: name, cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (p *OpenAI) Name() string { return p.name }

func (p *OpenAI) DefaultModel() string {
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return "gpt-4"
}

func (p *OpenAI) Type() Type { return TypeOpenAI }

func (p *OpenAI) IsConfigured() bool { return p.cfg.APIKey != "" }

func (p *OpenAI) CountTokens(text string) int { return estimateTokens(text) }

// Chat calls POST {base_url}/chat/completions.
func (p *OpenAI) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if !p.IsConfigured() {
		return ChatResponse{}, &NotConfiguredError{Provider: p.name}
	}
	if req.Model == "" {
		req.Model = p.DefaultModel()
	}

	type wireMsg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	wire := struct {
		Model       string    `json:"model"`
		Messages    []wireMsg `json:"messages"`
		Temperature float64   `json:"temperature,omitempty"`
		MaxTokens   int       `json:"max_tokens,omitempty"`
	}{Model: req.Model, Temperature: req.Temperature, MaxTokens: req.MaxTokens}
	for _, m := range req.Messages {
		wire.Messages = append(wire.Messages, wireMsg{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshal: %w", err)
	}

	baseURL := p.cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ChatResponse{}, fmt.Errorf("openai status %d", resp.StatusCode)
	}

	var out struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ChatResponse{}, fmt.Errorf("decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("openai returned no choices")
	}

	result := ChatResponse{ID: out.ID, Model: out.Model}
	if result.Model == "" {
		result.Model = req.Model
	}
	for _, c := range out.Choices {
		result.Choices = append(result.Choices, Choice{
			Index:        c.Index,
			Role:         c.Message.Role,
			Content:      c.Message.Content,
			FinishReason: c.FinishReason,
		})
	}
	// Prefer API-reported usage; estimate when the API omits it.
	if out.Usage.TotalTokens > 0 {
		result.Usage = Usage(out.Usage)
	} else {
		result.Usage = requestUsage(p, req, result.FirstChoiceContent())
	}
	return result, nil
}
