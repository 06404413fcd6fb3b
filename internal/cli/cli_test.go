package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/coachmd/internal/coach"
	"github.com/roboco-io/coachmd/internal/config"
	"github.com/roboco-io/coachmd/internal/ir"
	"github.com/roboco-io/coachmd/internal/llm"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "coachmd [file]" {
		t.Errorf("expected Use 'coachmd [file]', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	for _, flag := range []string{"verbose", "quiet"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag '%s' to exist", flag)
		}
	}
}

func TestSubcommands(t *testing.T) {
	want := []string{"chat", "config", "critique", "parse", "plan", "providers", "recommend", "render", "revise", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestCommandFlags(t *testing.T) {
	modelFlags := []string{"provider", "model", "raw", "json", "save", "width", "no-color"}
	profileFlags := []string{"profile", "name", "major", "skills", "interests"}

	tests := []struct {
		cmd   string
		flags []string
	}{
		{"render", []string{"output", "width", "no-color"}},
		{"parse", []string{"output", "format", "pretty"}},
		{"recommend", append(append([]string{}, modelFlags...), profileFlags...)},
		{"plan", append(append([]string{"role"}, modelFlags...), profileFlags...)},
		{"critique", modelFlags},
		{"revise", append([]string{"job"}, modelFlags...)},
		{"chat", append([]string{"plan", "critique", "context"}, modelFlags...)},
	}

	for _, tc := range tests {
		t.Run(tc.cmd, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tc.cmd})
			if err != nil {
				t.Fatalf("Find(%s): %v", tc.cmd, err)
			}
			for _, flag := range tc.flags {
				if cmd.Flags().Lookup(flag) == nil {
					t.Errorf("expected flag '%s' to exist", flag)
				}
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", configCmd.Use)
	}

	subcommands := []string{"show", "init", "set", "path"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range configCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(*config.Config) bool
	}{
		{"default_provider", "anthropic", false, func(c *config.Config) bool { return c.DefaultProvider == "anthropic" }},
		{"default_provider", "claude", true, nil},
		{"generate.timeout", "90s", false, func(c *config.Config) bool { return c.Generate.Timeout == 90*time.Second }},
		{"generate.timeout", "soon", true, nil},
		{"render.width", "72", false, func(c *config.Config) bool { return c.Render.Width == 72 }},
		{"render.width", "-1", true, nil},
		{"render.theme", "mono", false, func(c *config.Config) bool { return c.Render.Theme == "mono" }},
		{"render.theme", "neon", true, nil},
		{"render.color", "false", false, func(c *config.Config) bool { return !c.Render.Color }},
		{"render.color", "maybe", true, nil},
		{"format.language", "en", true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := setConfigValue(cfg, tc.key, tc.value)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(cfg) {
				t.Errorf("%s was not applied", tc.key)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-abcd1234efgh5678", "sk-a****5678"},
		{"AIzaSyD1234567890abcdefghijklmnop", "AIza****mnop"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			result := maskAPIKey(tc.input)
			if result != tc.expected {
				t.Errorf("maskAPIKey(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	slice := []string{"a", "b", "c"}

	if !contains(slice, "a") {
		t.Error("expected contains(slice, 'a') to be true")
	}
	if !contains(slice, "c") {
		t.Error("expected contains(slice, 'c') to be true")
	}
	if contains(slice, "d") {
		t.Error("expected contains(slice, 'd') to be false")
	}
	if contains([]string{}, "a") {
		t.Error("expected contains(empty, 'a') to be false")
	}
}

func TestDetectProviderFromModel(t *testing.T) {
	tests := []struct {
		model    string
		expected string
	}{
		// Empty model defaults to gemini
		{"", "gemini"},

		{"gemini-2.5-flash", "gemini"},
		{"Gemini-3-pro-preview", "gemini"},

		{"claude-sonnet-4-20250514", "anthropic"},
		{"Claude-3-Haiku", "anthropic"},

		{"gpt-4o", "openai"},
		{"GPT-4-turbo", "openai"},
		{"o1-mini", "openai"},
		{"o3-mini", "openai"},
		{"o4-mini", "openai"},

		// Unknown models default to Ollama
		{"llama3.2", "ollama"},
		{"mistral", "ollama"},
		{"qwen2.5", "ollama"},
	}

	for _, tc := range tests {
		t.Run(tc.model, func(t *testing.T) {
			result := detectProviderFromModel(tc.model)
			if result != tc.expected {
				t.Errorf("detectProviderFromModel(%q) = %q, want %q", tc.model, result, tc.expected)
			}
		})
	}
}

func TestProviderModels(t *testing.T) {
	cfg := config.DefaultConfig()

	model, quality := providerModels(cfg, "gemini")
	if model != "gemini-2.5-flash" || quality != "gemini-3-pro-preview" {
		t.Errorf("gemini models = %q, %q", model, quality)
	}

	model, quality = providerModels(cfg, "openai")
	if model != "gpt-4o-mini" || quality != "-" {
		t.Errorf("openai models = %q, %q", model, quality)
	}

	model, quality = providerModels(cfg, "missing")
	if model != "(default)" || quality != "-" {
		t.Errorf("missing provider models = %q, %q", model, quality)
	}
}

func TestProviderSettings_Missing(t *testing.T) {
	cfg := &config.Config{}
	if diff := cmp.Diff(llm.Settings{}, providerSettings(cfg, "gemini")); diff != "" {
		t.Errorf("expected zero settings (-want +got):\n%s", diff)
	}
}

func TestFormatOutput(t *testing.T) {
	doc := ir.NewDocument()
	doc.Add(ir.HeadingNode(ir.NewHeading(2, []ir.Span{ir.Text("Plan")})))
	doc.Add(ir.ListItemNode(ir.NewBulletItem([]ir.Span{ir.Bold("SQL")})))

	md, err := formatOutput(doc, "markdown", false)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if diff := cmp.Diff("## Plan\n- **SQL**\n", md); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}

	js, err := formatOutput(doc, "json", false)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.HasSuffix(js, "\n") || !strings.Contains(js, `"heading"`) {
		t.Errorf("unexpected json output: %s", js)
	}

	if _, err := formatOutput(doc, "html", false); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatAsText(t *testing.T) {
	doc := ir.NewDocument()
	doc.Metadata.Title = "Career Plan"
	doc.Metadata.Provider = "gemini"
	doc.Metadata.Model = "gemini-2.5-flash"
	doc.Add(ir.ParagraphNode(ir.NewParagraph([]ir.Span{ir.Emphasis("Go")})))

	want := "Title: Career Plan\nModel: gemini/gemini-2.5-flash\n\n---\n\nGo\n"
	if diff := cmp.Diff(want, formatAsText(doc)); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}

	bare := ir.NewDocument()
	bare.Add(ir.ParagraphNode(ir.NewParagraph([]ir.Span{ir.Text("hi")})))
	if got := formatAsText(bare); got != "hi\n" {
		t.Errorf("expected no header without metadata, got %q", got)
	}
}

func TestReadTextArg(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(job, []byte("Junior analyst"), 0644); err != nil {
		t.Fatal(err)
	}
	pdf := filepath.Join(dir, "job.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := readTextArg(job)
	if err != nil || got != "Junior analyst" {
		t.Errorf("readTextArg(file) = %q, %v", got, err)
	}

	got, err = readTextArg("Data analyst, SQL")
	if err != nil || got != "Data analyst, SQL" {
		t.Errorf("readTextArg(literal) = %q, %v", got, err)
	}

	if _, err := readTextArg(pdf); err == nil {
		t.Error("expected error for PDF job description")
	}
}

func TestLoadProfile(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	path := filepath.Join(t.TempDir(), "me.yaml")
	data := "name: Alex Chen\nmajor: CS Junior\nskills: Python, SQL\ninterests: climate tech\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	profileFile = path
	profile.Skills = "Go"

	got, err := loadProfile()
	if err != nil {
		t.Fatalf("loadProfile: %v", err)
	}
	want := coach.Profile{Name: "Alex Chen", Major: "CS Junior", Skills: "Go", Interests: "climate tech"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	resetFlags()
	profile.Name = "Alex"
	if _, err := loadProfile(); err == nil {
		t.Error("expected error for incomplete profile")
	}
}

func TestRenderOptions(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	cfg := config.DefaultConfig()
	cfg.Render.Width = 60

	opts := renderOptions(cfg)
	if opts.Width != 60 || !opts.Color || opts.Theme != "indigo" {
		t.Errorf("unexpected options from config: %+v", opts)
	}

	renderWidth = 40
	renderNoColor = true
	opts = renderOptions(cfg)
	if opts.Width != 40 || opts.Color {
		t.Errorf("flags should override config: %+v", opts)
	}

	resetFlags()
	cfg.Render.Width = 0
	if opts := renderOptions(cfg); opts.Width <= 0 {
		t.Errorf("expected detected width, got %d", opts.Width)
	}
}

func TestLookupProvider(t *testing.T) {
	if got := lookupProvider("anthropic"); got.EnvKey != "ANTHROPIC_API_KEY" {
		t.Errorf("anthropic env key = %q", got.EnvKey)
	}
	want := providerInfo{Name: "custom", EnvKey: "-"}
	if diff := cmp.Diff(want, lookupProvider("custom")); diff != "" {
		t.Errorf("unknown provider mismatch (-want +got):\n%s", diff)
	}
}
