package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rgonzalez/agentd/config"
)

// Anthropic talks to the Anthropic messages API.
type Anthropic struct {
	name   string
	cfg    config.ProviderConfig
	client *http.Client
}

// NewAnthropic builds an Anthropic provider from configuration.
func NewAnthropic(name string, cfg config.ProviderConfig) *Anthropic {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Anthropic{name: name, cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (p *Anthropic) Name() string { return p.name }

func (p *Anthropic) DefaultModel() string {
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return "claude-3-5-sonnet-latest"
}

func (p *Anthropic) Type() Type { return TypeAnthropic }

func (p *Anthropic) IsConfigured() bool { return p.cfg.APIKey != "" }

func (p *Anthropic) CountTokens(text string) int { return estimateTokens(text) }

// Chat calls POST {base_url}/v1/messages. System messages are folded into
// the request's system field, which is where the messages API expects them.
func (p *Anthropic) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
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
	var system []string
	var msgs []wireMsg
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		msgs = append(msgs, wireMsg{Role: m.Role, Content: m.Content})
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	wire := struct {
		Model       string    `json:"model"`
		MaxTokens   int       `json:"max_tokens"`
		System      string    `json:"system,omitempty"`
		Temperature float64   `json:"temperature,omitempty"`
		Messages    []wireMsg `json:"messages"`
	}{Model: req.Model, MaxTokens: maxTokens, System: strings.Join(system, "\n\n"), Temperature: req.Temperature, Messages: msgs}

	body, err := json.Marshal(wire)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshal: %w", err)
	}

	baseURL := p.cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewBuffer(body))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ChatResponse{}, fmt.Errorf("anthropic status %d", resp.StatusCode)
	}

	var out struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ChatResponse{}, fmt.Errorf("decode: %w", err)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return ChatResponse{}, fmt.Errorf("anthropic returned no text content")
	}

	result := ChatResponse{
		ID:    out.ID,
		Model: out.Model,
		Choices: []Choice{{
			Index:        0,
			Role:         "assistant",
			Content:      text.String(),
			FinishReason: out.StopReason,
		}},
	}
	if result.Model == "" {
		result.Model = req.Model
	}
	if out.Usage.InputTokens > 0 || out.Usage.OutputTokens > 0 {
		result.Usage = Usage{
			PromptTokens:     out.Usage.InputTokens,
			CompletionTokens: out.Usage.OutputTokens,
			TotalTokens:      out.Usage.InputTokens + out.Usage.OutputTokens,
		}
	} else {
		result.Usage = requestUsage(p, req, result.FirstChoiceContent())
	}
	return result, nil
}
