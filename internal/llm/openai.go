package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using the OpenAI chat completions API.
// It also serves Ollama through its OpenAI-compatible endpoint.
type OpenAIProvider struct {
	name     string
	settings Settings
	client   *openai.Client
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(s Settings) *OpenAIProvider {
	if s.Model == "" {
		s.Model = "gpt-4o-mini"
	}
	return newOpenAICompatible("openai", s)
}

// NewOllamaProvider creates a provider for a local Ollama server. No API key
// is needed.
func NewOllamaProvider(s Settings) *OpenAIProvider {
	if s.Endpoint == "" {
		s.Endpoint = "http://localhost:11434/v1"
	}
	if s.Model == "" {
		s.Model = "llama3.2"
	}
	return newOpenAICompatible("ollama", s)
}

func newOpenAICompatible(name string, s Settings) *OpenAIProvider {
	cfg := openai.DefaultConfig(s.APIKey)
	if s.Endpoint != "" {
		cfg.BaseURL = s.Endpoint
	}
	return &OpenAIProvider{
		name:     name,
		settings: s,
		client:   openai.NewClientWithConfig(cfg),
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Capabilities() Capabilities {
	return Capabilities{Documents: false}
}

func (p *OpenAIProvider) Validate() error {
	if p.name == "ollama" {
		return nil
	}
	if p.settings.APIKey == "" {
		return errors.New("openai API key not configured (set OPENAI_API_KEY or providers.openai.api_key)")
	}
	return nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if len(req.Documents) > 0 {
		return nil, fmt.Errorf("%s: %w", p.name, ErrAttachmentUnsupported)
	}

	messages := buildOpenAIMessages(req)
	if len(messages) == 0 {
		return nil, fmt.Errorf("no user content provided")
	}

	model := p.settings.modelFor(req)
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   p.settings.maxTokens(req),
		Temperature: float32(req.Options.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrNoContent
	}

	return &Result{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		if msg.Text == "" {
			continue
		}
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}
	return messages
}
