package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/coachmd/internal/attachment"
	"github.com/roboco-io/coachmd/internal/llm"
)

// mockProvider replays scripted replies and records every request.
type mockProvider struct {
	mu        sync.Mutex
	documents bool
	replies   []string
	errs      []error
	requests  []llm.Request
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Capabilities() llm.Capabilities {
	return llm.Capabilities{Documents: m.documents}
}

func (m *mockProvider) Validate() error { return nil }

func (m *mockProvider) Generate(ctx context.Context, req llm.Request) (*llm.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := len(m.requests)
	m.requests = append(m.requests, req)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.replies) {
		return &llm.Result{Text: m.replies[i], Model: "mock-model"}, nil
	}
	return nil, llm.ErrNoContent
}

type mockExtractor struct {
	text  string
	err   error
	calls int
}

func (m *mockExtractor) Extract(ctx context.Context, a *attachment.Attachment) (string, error) {
	m.calls++
	return m.text, m.err
}

var student = Profile{
	Name:      "Alex Chen",
	Major:     "Computer Science Junior",
	Skills:    "Python, SQL",
	Interests: "sustainable tech",
}

func pdfResume() *attachment.Attachment {
	return &attachment.Attachment{Name: "cv.pdf", Format: attachment.FormatPDF, Data: []byte("%PDF-1.4")}
}

func TestProfile_Validate(t *testing.T) {
	if err := student.Validate(); err != nil {
		t.Errorf("expected valid profile, got %v", err)
	}

	missing := student
	missing.Skills = "  "
	err := missing.Validate()
	if err == nil || !strings.Contains(err.Error(), "skills") {
		t.Errorf("expected skills error, got %v", err)
	}
}

func TestCleanFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markdown fence", "```markdown\n# Plan\n```", "# Plan"},
		{"bare fence", "```\n- item\n```\n", "- item"},
		{"uppercase tag", "```Markdown\ntext```", "text"},
		{"no fence", "  plain  ", "plain"},
		{"inner fence kept", "# A\n```go\nx\n```\nend", "# A\n```go\nx\n```\nend"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFences(tt.in); got != tt.want {
				t.Errorf("CleanFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractRole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold role", "RECOMMENDED ROLE: **Data Analyst**\nEXPLANATION: fits.", "Data Analyst"},
		{"case insensitive", "recommended role: Product Manager", "Product Manager"},
		{"trailing spaces", "RECOMMENDED ROLE:   **UX Researcher**  \nmore", "UX Researcher"},
		{"missing", "EXPLANATION: none", DefaultRole},
		{"empty role", "RECOMMENDED ROLE: ****\n", DefaultRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRole(tt.in); got != tt.want {
				t.Errorf("ExtractRole() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractScore(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"## 1. Impact Score (0-10)\n**7.5/10**", 7.5},
		{"Impact Score: 8 / 10", 8},
		{"no score here", 0},
	}

	for _, tt := range tests {
		if got := ExtractScore(tt.in); got != tt.want {
			t.Errorf("ExtractScore(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRecommendRole(t *testing.T) {
	p := &mockProvider{replies: []string{"```markdown\nRECOMMENDED ROLE: **Data Analyst**\n```"}}
	s := NewService(p)

	got, err := s.RecommendRole(context.Background(), student)
	if err != nil {
		t.Fatalf("RecommendRole: %v", err)
	}
	if got != "RECOMMENDED ROLE: **Data Analyst**" {
		t.Errorf("unexpected reply %q", got)
	}

	req := p.requests[0]
	if req.Tier != llm.TierFast || req.Options.Temperature != 0.2 {
		t.Errorf("expected fast tier at 0.2, got tier %v temp %v", req.Tier, req.Options.Temperature)
	}
	if !strings.Contains(req.Messages[0].Text, "Skills: Python, SQL") {
		t.Errorf("expected profile in prompt, got %q", req.Messages[0].Text)
	}
}

func TestRecommendRole_Fallback(t *testing.T) {
	s := NewService(&mockProvider{replies: []string{"```\n```"}})

	got, err := s.RecommendRole(context.Background(), student)
	if err != nil {
		t.Fatalf("RecommendRole: %v", err)
	}
	if got != FallbackRecommendation {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestRecommendRole_InvalidProfile(t *testing.T) {
	p := &mockProvider{}
	s := NewService(p)

	if _, err := s.RecommendRole(context.Background(), Profile{}); err == nil {
		t.Error("expected validation error")
	}
	if len(p.requests) != 0 {
		t.Errorf("expected no provider calls, got %d", len(p.requests))
	}
}

func TestCareerPlan_WithRole(t *testing.T) {
	p := &mockProvider{replies: []string{"## 1. Skill Gap Analysis"}}
	s := NewService(p)

	plan, err := s.CareerPlan(context.Background(), student, "ML Engineer")
	if err != nil {
		t.Fatalf("CareerPlan: %v", err)
	}

	want := &Plan{Role: "ML Engineer", Content: "## 1. Skill Gap Analysis"}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if len(p.requests) != 1 {
		t.Fatalf("expected 1 call, got %d", len(p.requests))
	}
	if req := p.requests[0]; req.Tier != llm.TierQuality || req.Options.Temperature != 0.5 {
		t.Errorf("expected quality tier at 0.5, got tier %v temp %v", req.Tier, req.Options.Temperature)
	}
	if !strings.Contains(p.requests[0].Messages[0].Text, `"ML Engineer"`) {
		t.Error("expected role in plan prompt")
	}
}

func TestCareerPlan_RecommendsFirst(t *testing.T) {
	p := &mockProvider{replies: []string{
		"RECOMMENDED ROLE: **Data Analyst**\nEXPLANATION: SQL.",
		"## 1. Skill Gap Analysis",
	}}
	s := NewService(p)

	plan, err := s.CareerPlan(context.Background(), student, "")
	if err != nil {
		t.Fatalf("CareerPlan: %v", err)
	}

	if plan.Role != "Data Analyst" {
		t.Errorf("expected extracted role, got %q", plan.Role)
	}
	want := "RECOMMENDED ROLE: **Data Analyst**\nEXPLANATION: SQL.\n\n## 1. Skill Gap Analysis"
	if plan.Markdown() != want {
		t.Errorf("unexpected markdown:\n%s", plan.Markdown())
	}
	if !strings.Contains(p.requests[1].Messages[0].Text, `"Data Analyst"`) {
		t.Error("expected extracted role in plan prompt")
	}
}

func TestCareerPlan_RecommendError(t *testing.T) {
	boom := errors.New("boom")
	s := NewService(&mockProvider{errs: []error{boom}})

	_, err := s.CareerPlan(context.Background(), student, "")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestCritiqueResume_Document(t *testing.T) {
	p := &mockProvider{documents: true, replies: []string{"## 1. Impact Score (0-10)\n**6/10**"}}
	s := NewService(p)

	c, err := s.CritiqueResume(context.Background(), pdfResume())
	if err != nil {
		t.Fatalf("CritiqueResume: %v", err)
	}
	if c.Score != 6 {
		t.Errorf("expected score 6, got %v", c.Score)
	}

	req := p.requests[0]
	if len(req.Documents) != 1 || req.Documents[0].MIMEType != "application/pdf" {
		t.Errorf("expected PDF document, got %+v", req.Documents)
	}
	if strings.Contains(req.Messages[0].Text, "RESUME (") {
		t.Error("document requests must not inline the resume")
	}
}

func TestCritiqueResume_Extractor(t *testing.T) {
	p := &mockProvider{replies: []string{"ok"}}
	ex := &mockExtractor{text: "# Alex Chen\n- Python"}
	s := NewService(p)
	s.Extractor = ex

	if _, err := s.CritiqueResume(context.Background(), pdfResume()); err != nil {
		t.Fatalf("CritiqueResume: %v", err)
	}
	if ex.calls != 1 {
		t.Errorf("expected extractor call, got %d", ex.calls)
	}

	req := p.requests[0]
	if len(req.Documents) != 0 {
		t.Error("expected no documents when extracting")
	}
	if !strings.Contains(req.Messages[0].Text, "# Alex Chen\n- Python") {
		t.Errorf("expected extracted text in prompt, got %q", req.Messages[0].Text)
	}
}

func TestCritiqueResume_Unsupported(t *testing.T) {
	s := NewService(&mockProvider{})

	_, err := s.CritiqueResume(context.Background(), pdfResume())
	if !errors.Is(err, llm.ErrAttachmentUnsupported) {
		t.Errorf("expected ErrAttachmentUnsupported, got %v", err)
	}
}

func TestCritiqueResume_TextResume(t *testing.T) {
	p := &mockProvider{replies: []string{"fine"}}
	s := NewService(p)

	if _, err := s.CritiqueResume(context.Background(), attachment.FromText("cv", "Alex Chen, Python")); err != nil {
		t.Fatalf("CritiqueResume: %v", err)
	}
	if !strings.Contains(p.requests[0].Messages[0].Text, "Alex Chen, Python") {
		t.Error("expected resume text inlined")
	}
}

func TestCritiqueResume_Missing(t *testing.T) {
	s := NewService(&mockProvider{documents: true})

	if _, err := s.CritiqueResume(context.Background(), nil); err == nil {
		t.Error("expected error for missing resume")
	}
}

func TestReviseResume(t *testing.T) {
	p := &mockProvider{documents: true}
	s := NewService(p)

	got, err := s.ReviseResume(context.Background(), pdfResume(), "Junior data analyst, SQL")
	if err != nil {
		t.Fatalf("ReviseResume: %v", err)
	}
	if got != FallbackRevision {
		t.Errorf("expected fallback on empty reply, got %q", got)
	}
	if !strings.Contains(p.requests[0].Messages[0].Text, "Junior data analyst, SQL") {
		t.Error("expected job description in prompt")
	}

	if _, err := s.ReviseResume(context.Background(), pdfResume(), " "); err == nil {
		t.Error("expected error for empty job description")
	}
}

func TestOptions_ModelOverride(t *testing.T) {
	p := &mockProvider{replies: []string{"x"}}
	s := NewService(p)
	s.Options.Model = "pinned"
	s.Options.MaxTokens = 100

	if _, err := s.RecommendRole(context.Background(), student); err != nil {
		t.Fatalf("RecommendRole: %v", err)
	}
	opts := p.requests[0].Options
	if opts.Model != "pinned" || opts.MaxTokens != 100 {
		t.Errorf("expected overrides to reach the request, got %+v", opts)
	}
}
