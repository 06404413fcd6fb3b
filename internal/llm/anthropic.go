package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	settings Settings
	client   anthropic.Client
}

// NewAnthropicProvider creates an Anthropic provider.
func NewAnthropicProvider(s Settings) *AnthropicProvider {
	if s.Model == "" {
		s.Model = "claude-sonnet-4-20250514"
	}

	opts := []option.RequestOption{option.WithAPIKey(s.APIKey)}
	if s.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(s.Endpoint))
	}

	return &AnthropicProvider{
		settings: s,
		client:   anthropic.NewClient(opts...),
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Capabilities() Capabilities {
	return Capabilities{Documents: true}
}

func (p *AnthropicProvider) Validate() error {
	if p.settings.APIKey == "" {
		return errors.New("anthropic API key not configured (set ANTHROPIC_API_KEY or providers.anthropic.api_key)")
	}
	return nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	messages := buildAnthropicMessages(req)
	if len(messages) == 0 {
		return nil, fmt.Errorf("no user content provided")
	}

	model := p.settings.modelFor(req)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(p.settings.maxTokens(req)),
		Messages:    messages,
		Temperature: anthropic.Float(req.Options.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, ErrNoContent
	}

	return &Result{
		Text:  sb.String(),
		Model: string(msg.Model),
		Usage: TokenUsage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
			TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

// buildAnthropicMessages maps the conversation to Anthropic messages. PDF
// documents become base64 document blocks ahead of the last user text.
func buildAnthropicMessages(req Request) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(req.Messages))
	last := lastUserIndex(req.Messages)

	for i, msg := range req.Messages {
		var blocks []anthropic.ContentBlockParamUnion
		if i == last {
			for _, doc := range req.Documents {
				blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{
					Data: base64.StdEncoding.EncodeToString(doc.Data),
				}))
			}
		}
		if msg.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(msg.Text))
		}
		if len(blocks) == 0 {
			continue
		}

		if msg.Role == RoleModel {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}
