package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider using the Google Gemini API.
type GeminiProvider struct {
	settings Settings
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(s Settings) *GeminiProvider {
	if s.Model == "" {
		s.Model = "gemini-2.5-flash"
	}
	return &GeminiProvider{settings: s}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Capabilities() Capabilities {
	return Capabilities{Documents: true}
}

func (p *GeminiProvider) Validate() error {
	if p.settings.APIKey == "" {
		return errors.New("gemini API key not configured (set GOOGLE_API_KEY or providers.gemini.api_key)")
	}
	return nil
}

func (p *GeminiProvider) newClient(ctx context.Context) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  p.settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.settings.Endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.settings.Endpoint}
	}
	return genai.NewClient(ctx, cfg)
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	client, err := p.newClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	contents := buildGeminiContents(req)
	if len(contents) == 0 {
		return nil, fmt.Errorf("no user content provided")
	}

	model := p.settings.modelFor(req)
	resp, err := client.Models.GenerateContent(ctx, model, contents, buildGeminiConfig(req, p.settings.maxTokens(req)))
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	result := &Result{Text: text, Model: model}
	if resp.UsageMetadata != nil {
		result.Usage = TokenUsage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return result, nil
}

func buildGeminiConfig(req Request, maxTokens int) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Options.Temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return config
}

// buildGeminiContents maps the conversation to Gemini contents. Documents are
// attached as inline data ahead of the text of the last user message.
func buildGeminiContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.Messages))
	last := lastUserIndex(req.Messages)

	for i, msg := range req.Messages {
		role := genai.RoleUser
		if msg.Role == RoleModel {
			role = genai.RoleModel
		}

		content := &genai.Content{Role: role}
		if i == last {
			for _, doc := range req.Documents {
				content.Parts = append(content.Parts, &genai.Part{
					InlineData: &genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data},
				})
			}
		}
		if msg.Text != "" {
			content.Parts = append(content.Parts, &genai.Part{Text: msg.Text})
		}
		if len(content.Parts) > 0 {
			contents = append(contents, content)
		}
	}
	return contents
}

func lastUserIndex(messages []Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return i
		}
	}
	return -1
}
