// Package llm provides the LLM provider interface and registry used to obtain
// markdown from a generative model.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNoContent is returned when the model produced no text.
	ErrNoContent = errors.New("model returned no content")
	// ErrAttachmentUnsupported is returned when a request carries documents
	// the provider cannot accept.
	ErrAttachmentUnsupported = errors.New("provider does not accept document attachments")
)

// Provider is the interface that all LLM providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini", "anthropic").
	Name() string

	// Generate sends the conversation and returns the model's reply.
	Generate(ctx context.Context, req Request) (*Result, error)

	// Capabilities reports optional input features.
	Capabilities() Capabilities

	// Validate checks if the provider is properly configured.
	Validate() error
}

// Capabilities describes what a provider accepts besides plain text.
type Capabilities struct {
	Documents bool // inline PDF attachments
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Document is a binary attachment sent with the last user message.
type Document struct {
	Name     string `json:"name,omitempty"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Tier selects between a provider's fast and quality models.
type Tier int

const (
	TierFast Tier = iota
	TierQuality
)

// Request is a single generation call.
type Request struct {
	System    string     `json:"system,omitempty"`
	Messages  []Message  `json:"messages"`
	Documents []Document `json:"documents,omitempty"`
	Tier      Tier       `json:"tier"`
	Options   GenerateOptions
}

// GenerateOptions contains options for a generation call.
type GenerateOptions struct {
	Model       string  `json:"model,omitempty"`       // overrides the tier model
	MaxTokens   int     `json:"max_tokens,omitempty"`  // maximum tokens for response
	Temperature float64 `json:"temperature,omitempty"` // creativity level (0.0 - 1.0)
}

// Result contains the result of a generation call.
type Result struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
	Model string     `json:"model"`
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}

// UserText is shorthand for a single user message request.
func UserText(text string) []Message {
	return []Message{{Role: RoleUser, Text: text}}
}

// Settings holds what a provider needs to talk to its API.
type Settings struct {
	APIKey       string
	Model        string
	QualityModel string
	MaxTokens    int
	Endpoint     string
}

// modelFor resolves the model for a request.
func (s Settings) modelFor(req Request) string {
	if req.Options.Model != "" {
		return req.Options.Model
	}
	if req.Tier == TierQuality && s.QualityModel != "" {
		return s.QualityModel
	}
	return s.Model
}

// maxTokens resolves the output token limit for a request.
func (s Settings) maxTokens(req Request) int {
	if req.Options.MaxTokens > 0 {
		return req.Options.MaxTokens
	}
	if s.MaxTokens > 0 {
		return s.MaxTokens
	}
	return DefaultGenerateOptions().MaxTokens
}
