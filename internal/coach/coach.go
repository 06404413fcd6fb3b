// Package coach implements the career coaching workflows: role
// recommendation, career plans, resume critique and revision, and chat.
package coach

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roboco-io/coachmd/internal/attachment"
	"github.com/roboco-io/coachmd/internal/llm"
)

// DefaultRole is used when a recommendation carries no role line.
const DefaultRole = "Recommended Role"

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:markdown)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```\\s*$")
	rolePattern   = regexp.MustCompile(`(?i)RECOMMENDED ROLE:[ \t]*(.+?)[ \t]*(?:\n|$)`)
	scorePattern  = regexp.MustCompile(`(?is)Impact Score.*?(\d+(?:\.\d+)?)\s*/\s*10`)
)

// Extractor turns a document into text for providers that cannot read it.
type Extractor interface {
	Extract(ctx context.Context, a *attachment.Attachment) (string, error)
}

// Profile describes the student being coached.
type Profile struct {
	Name      string `json:"name" yaml:"name"`
	Major     string `json:"major" yaml:"major"`
	Skills    string `json:"skills" yaml:"skills"`
	Interests string `json:"interests" yaml:"interests"`
}

// Validate reports the first missing field.
func (p Profile) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return errors.New("profile name is required")
	case strings.TrimSpace(p.Major) == "":
		return errors.New("profile major is required")
	case strings.TrimSpace(p.Skills) == "":
		return errors.New("profile skills are required")
	case strings.TrimSpace(p.Interests) == "":
		return errors.New("profile interests are required")
	}
	return nil
}

// Options tunes each workflow's model call.
type Options struct {
	RecommendTemperature float64
	PlanTemperature      float64
	ResumeTemperature    float64
	ChatTemperature      float64
	MaxTokens            int
	Model                string // overrides the tier model for every call
}

// DefaultOptions returns the temperatures each workflow is tuned for.
func DefaultOptions() Options {
	d := llm.DefaultGenerateOptions()
	return Options{
		RecommendTemperature: 0.2,
		PlanTemperature:      0.5,
		ResumeTemperature:    d.Temperature,
		ChatTemperature:      d.Temperature,
	}
}

// Plan is a generated career plan.
type Plan struct {
	Role           string `json:"role"`
	Recommendation string `json:"recommendation,omitempty"`
	Content        string `json:"content"`
}

// Markdown joins the recommendation and the plan body.
func (p *Plan) Markdown() string {
	if p.Recommendation == "" {
		return p.Content
	}
	return p.Recommendation + "\n\n" + p.Content
}

// Critique is a resume review.
type Critique struct {
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// Service runs coaching workflows against a provider.
type Service struct {
	Provider  llm.Provider
	Extractor Extractor // optional; used when Provider cannot read documents
	Options   Options
}

// NewService creates a service with default options.
func NewService(p llm.Provider) *Service {
	return &Service{Provider: p, Options: DefaultOptions()}
}

// RecommendRole asks for the single best-fit role for the profile.
func (s *Service) RecommendRole(ctx context.Context, p Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	req := s.request(llm.TierFast, s.Options.RecommendTemperature)
	req.Messages = llm.UserText(fmt.Sprintf(recommendPrompt, profileBlock(p)))
	return s.generate(ctx, req, FallbackRecommendation)
}

// CareerPlan builds a preparation plan for role. With an empty role the
// recommendation is requested first and its role line is used.
func (s *Service) CareerPlan(ctx context.Context, p Profile, role string) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{Role: strings.TrimSpace(role)}
	if plan.Role == "" {
		rec, err := s.RecommendRole(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("recommendation failed: %w", err)
		}
		plan.Recommendation = rec
		plan.Role = ExtractRole(rec)
	}

	req := s.request(llm.TierQuality, s.Options.PlanTemperature)
	req.Messages = llm.UserText(fmt.Sprintf(planPrompt, plan.Role, profileBlock(p)))

	content, err := s.generate(ctx, req, FallbackPlan)
	if err != nil {
		return nil, err
	}
	plan.Content = content
	return plan, nil
}

// CritiqueResume reviews the resume and scores its impact.
func (s *Service) CritiqueResume(ctx context.Context, resume *attachment.Attachment) (*Critique, error) {
	req, err := s.resumeRequest(ctx, resume, critiquePrompt)
	if err != nil {
		return nil, err
	}

	content, err := s.generate(ctx, req, FallbackCritique)
	if err != nil {
		return nil, err
	}
	return &Critique{Score: ExtractScore(content), Content: content}, nil
}

// ReviseResume rewrites the resume summary and one experience entry to fit
// the job description.
func (s *Service) ReviseResume(ctx context.Context, resume *attachment.Attachment, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", errors.New("job description is required")
	}

	req, err := s.resumeRequest(ctx, resume, fmt.Sprintf(revisePrompt, jobDescription))
	if err != nil {
		return "", err
	}
	return s.generate(ctx, req, FallbackRevision)
}

func (s *Service) request(tier llm.Tier, temperature float64) llm.Request {
	return llm.Request{
		Tier: tier,
		Options: llm.GenerateOptions{
			Model:       s.Options.Model,
			MaxTokens:   s.Options.MaxTokens,
			Temperature: temperature,
		},
	}
}

// resumeRequest attaches the resume as a document when the provider reads
// documents, and inlines it as text otherwise.
func (s *Service) resumeRequest(ctx context.Context, resume *attachment.Attachment, prompt string) (llm.Request, error) {
	req := s.request(llm.TierFast, s.Options.ResumeTemperature)
	if resume == nil || len(resume.Data) == 0 {
		return req, errors.New("resume is required")
	}

	switch {
	case resume.Format.IsText():
		prompt += fmt.Sprintf(inlineResume, resume.Format, resume.Text())
	case s.Provider.Capabilities().Documents:
		req.Documents = []llm.Document{{
			Name:     resume.Name,
			MIMEType: resume.MIMEType(),
			Data:     resume.Data,
		}}
	case s.Extractor != nil:
		text, err := s.Extractor.Extract(ctx, resume)
		if err != nil {
			return req, fmt.Errorf("failed to extract resume text: %w", err)
		}
		prompt += fmt.Sprintf(inlineResume, "extracted text", text)
	default:
		return req, fmt.Errorf("%s cannot read %s files and no extractor is configured: %w",
			s.Provider.Name(), resume.Format, llm.ErrAttachmentUnsupported)
	}

	req.Messages = llm.UserText(prompt)
	return req, nil
}

// generate calls the provider and cleans the reply. An empty reply becomes
// fallback.
func (s *Service) generate(ctx context.Context, req llm.Request, fallback string) (string, error) {
	res, err := s.Provider.Generate(ctx, req)
	if errors.Is(err, llm.ErrNoContent) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}

	text := CleanFences(res.Text)
	if text == "" {
		return fallback, nil
	}
	return text, nil
}

// CleanFences strips a code fence wrapped around the whole reply.
func CleanFences(text string) string {
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractRole returns the role named on the RECOMMENDED ROLE line with bold
// markers removed, or DefaultRole.
func ExtractRole(recommendation string) string {
	m := rolePattern.FindStringSubmatch(recommendation)
	if m == nil {
		return DefaultRole
	}
	role := strings.TrimSpace(strings.ReplaceAll(m[1], "**", ""))
	if role == "" {
		return DefaultRole
	}
	return role
}

// ExtractScore returns the N in "Impact Score ... N/10", or 0.
func ExtractScore(critique string) float64 {
	m := scorePattern.FindStringSubmatch(critique)
	if m == nil {
		return 0
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return score
}
