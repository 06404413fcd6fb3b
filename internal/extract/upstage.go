// Package extract converts resume PDFs to markdown with the Upstage Document
// Parse API, for providers that cannot read documents directly.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/roboco-io/coachmd/internal/attachment"
)

const (
	// DefaultBaseURL is the default Upstage API endpoint.
	DefaultBaseURL = "https://api.upstage.ai/v1/document-ai/document-parse"
	// DefaultModel is the default document parse model.
	DefaultModel = "document-parse"
	// Name is the extractor identifier.
	Name = "upstage"
)

// ErrNoText is returned when the API answered but found no text.
var ErrNoText = errors.New("document contains no extractable text")

// Config holds the configuration for the Upstage client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Upstage extracts document text using the Upstage Document Parse API.
type Upstage struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// APIResponse represents the response from Upstage Document Parse API.
type APIResponse struct {
	API      string    `json:"api"`
	Model    string    `json:"model"`
	Content  Content   `json:"content"`
	Elements []Element `json:"elements"`
	Usage    struct {
		Pages int `json:"pages"`
	} `json:"usage"`
}

// Content holds one rendering of a document or element.
type Content struct {
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
	Text     string `json:"text"`
}

// Element represents a parsed document element.
type Element struct {
	ID       int     `json:"id"`
	Category string  `json:"category"`
	Page     int     `json:"page"`
	Content  Content `json:"content"`
}

// New creates a new Upstage client.
func New(cfg Config) (*Upstage, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("UPSTAGE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("Upstage API key not configured (set UPSTAGE_API_KEY or extract.api_key)")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 180 * time.Second
	}

	return &Upstage{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the extractor identifier.
func (u *Upstage) Name() string {
	return Name
}

// Extract returns the attachment as markdown. Text attachments are returned
// as-is; PDFs are sent to the API.
func (u *Upstage) Extract(ctx context.Context, a *attachment.Attachment) (string, error) {
	if a.Format.IsText() {
		return a.Text(), nil
	}

	resp, err := u.Parse(ctx, a)
	if err != nil {
		return "", err
	}

	text := resp.Markdown()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", a.Name, ErrNoText)
	}
	return text, nil
}

// Parse uploads the attachment and returns the raw API response.
func (u *Upstage) Parse(ctx context.Context, a *attachment.Attachment) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("model", u.model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField("output_formats", "[\"markdown\", \"text\"]"); err != nil {
		return nil, fmt.Errorf("failed to write output_formats field: %w", err)
	}

	part, err := writer.CreateFormFile("document", a.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(a.Data); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	return &apiResp, nil
}

// Markdown returns the best available text: the document markdown, then the
// element markdown joined by blank lines, then the plain text.
func (r *APIResponse) Markdown() string {
	if strings.TrimSpace(r.Content.Markdown) != "" {
		return r.Content.Markdown
	}

	var parts []string
	for _, elem := range r.Elements {
		text := elem.Content.Markdown
		if strings.TrimSpace(text) == "" {
			text = elem.Content.Text
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n\n")
	}

	return r.Content.Text
}
