// Package config manages application configuration.
package config

import "time"

// Config represents the application configuration.
type Config struct {
	DefaultProvider string              `yaml:"default_provider"`
	Providers       map[string]Provider `yaml:"providers"`
	Generate        GenerateConfig      `yaml:"generate"`
	Render          RenderConfig        `yaml:"render"`
	Extract         ExtractConfig       `yaml:"extract"`
}

// Provider represents an LLM provider configuration.
type Provider struct {
	APIKey       string `yaml:"api_key"`
	Model        string `yaml:"model"`                   // fast tier: recommendations, resume review
	QualityModel string `yaml:"quality_model,omitempty"` // plans and chat; falls back to Model
	MaxTokens    int    `yaml:"max_tokens"`
	Endpoint     string `yaml:"endpoint,omitempty"` // for Ollama or custom endpoints
}

// GenerateConfig contains model call options.
type GenerateConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// RenderConfig contains terminal rendering options.
type RenderConfig struct {
	Width int    `yaml:"width"` // 0 = detect from terminal
	Theme string `yaml:"theme"` // indigo, mono
	Color bool   `yaml:"color"`
}

// ExtractConfig configures the Upstage document parser used to turn resume
// PDFs into text for providers that cannot read documents.
type ExtractConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "gemini",
		Providers: map[string]Provider{
			"gemini": {
				APIKey:       "${GOOGLE_API_KEY}",
				Model:        "gemini-2.5-flash",
				QualityModel: "gemini-3-pro-preview",
				MaxTokens:    8192,
			},
			"anthropic": {
				APIKey:       "${ANTHROPIC_API_KEY}",
				Model:        "claude-sonnet-4-20250514",
				QualityModel: "claude-opus-4-20250514",
				MaxTokens:    8192,
			},
			"openai": {
				APIKey:    "${OPENAI_API_KEY}",
				Model:     "gpt-4o-mini",
				MaxTokens: 8192,
			},
			"ollama": {
				Endpoint:  "http://localhost:11434/v1",
				Model:     "llama3.2",
				MaxTokens: 4096,
			},
		},
		Generate: GenerateConfig{
			Timeout: 3 * time.Minute,
		},
		Render: RenderConfig{
			Width: 0,
			Theme: "indigo",
			Color: true,
		},
		Extract: ExtractConfig{
			APIKey: "${UPSTAGE_API_KEY}",
		},
	}
}

// GetProvider returns the provider configuration by name.
func (c *Config) GetProvider(name string) (*Provider, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// GetDefaultProvider returns the default provider configuration.
func (c *Config) GetDefaultProvider() (*Provider, bool) {
	return c.GetProvider(c.DefaultProvider)
}

// ModelFor returns the model for the requested tier.
func (p *Provider) ModelFor(quality bool) string {
	if quality && p.QualityModel != "" {
		return p.QualityModel
	}
	return p.Model
}
