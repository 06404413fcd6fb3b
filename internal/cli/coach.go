package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/coachmd/internal/attachment"
	"github.com/roboco-io/coachmd/internal/coach"
	"github.com/roboco-io/coachmd/internal/config"
	"github.com/roboco-io/coachmd/internal/extract"
	"github.com/roboco-io/coachmd/internal/llm"
	"github.com/roboco-io/coachmd/internal/parser"
	"github.com/roboco-io/coachmd/internal/render"
)

var (
	modelProvider string
	modelName     string
	outputRaw     bool
	outputJSON    bool
	outputSave    string

	profileFile string
	profile     coach.Profile
	planRole    string
	reviseJob   string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the best-fit job role for a profile",
	Long: `Ask the model for the single job role that best fits the profile, with a
short explanation.

Examples:
  coachmd recommend --name "Alex Chen" --major "Computer Science Junior" \
    --skills "Python, SQL, React" --interests "sustainable tech"
  coachmd recommend --profile me.yaml --provider anthropic`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a detailed career preparation plan",
	Long: `Generate a career plan covering skill gaps, coursework, project ideas, and
interview preparation. Without --role the best-fit role is recommended first.

Examples:
  coachmd plan --profile me.yaml
  coachmd plan --profile me.yaml --role "Data Analyst" -s plan.md`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

var critiqueCmd = &cobra.Command{
	Use:   "critique <resume>",
	Short: "Critique a resume",
	Long: `Review a resume (PDF, markdown, or text) as a hiring manager would, with an
impact score and concrete improvements.

Providers that cannot read PDFs need an Upstage API key (UPSTAGE_API_KEY) to
extract the text first.

Examples:
  coachmd critique resume.pdf
  coachmd critique resume.pdf --provider openai -s critique.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCritique,
}

var reviseCmd = &cobra.Command{
	Use:   "revise <resume>",
	Short: "Rewrite resume sections for a job description",
	Long: `Rewrite the resume summary and one experience entry to match a job
description. --job takes a file path or the description text itself.

Examples:
  coachmd revise resume.pdf --job job.txt
  coachmd revise resume.md --job "Junior data analyst, SQL and Tableau"`,
	Args: cobra.ExactArgs(1),
	RunE: runRevise,
}

func init() {
	for _, cmd := range []*cobra.Command{recommendCmd, planCmd} {
		cmd.Flags().StringVar(&profileFile, "profile", "", "YAML profile file (name, major, skills, interests)")
		cmd.Flags().StringVar(&profile.Name, "name", "", "student name")
		cmd.Flags().StringVar(&profile.Major, "major", "", "major and academics")
		cmd.Flags().StringVar(&profile.Skills, "skills", "", "skills, comma separated")
		cmd.Flags().StringVar(&profile.Interests, "interests", "", "interests")
	}
	planCmd.Flags().StringVar(&planRole, "role", "", "target role (default: recommend one first)")
	reviseCmd.Flags().StringVar(&reviseJob, "job", "", "job description file or text")
	_ = reviseCmd.MarkFlagRequired("job")

	for _, cmd := range []*cobra.Command{recommendCmd, planCmd, critiqueCmd, reviseCmd} {
		addModelFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

// addModelFlags registers the provider selection and output flags shared by
// every command that calls a model.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modelProvider, "provider", "", "LLM provider (gemini, anthropic, openai, ollama)")
	cmd.Flags().StringVar(&modelName, "model", "", "model name (provider is detected from it)")
	cmd.Flags().BoolVar(&outputRaw, "raw", false, "print the raw markdown instead of rendering it")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "print the parsed nodes as JSON")
	cmd.Flags().StringVarP(&outputSave, "save", "s", "", "also save the raw markdown to a file")
	addRenderFlags(cmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := s.context(cmd)
	defer cancel()

	logf(cmd, "Finding the best-fit role with %s...", s.name())
	rec, err := s.coach.RecommendRole(ctx, p)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}
	return s.emit(cmd, "Role recommendation", rec)
}

func runPlan(cmd *cobra.Command, args []string) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := s.context(cmd)
	defer cancel()

	if planRole == "" {
		logf(cmd, "Recommending a role, then building the plan with %s...", s.name())
	} else {
		logf(cmd, "Building a plan for %s with %s...", planRole, s.name())
	}
	plan, err := s.coach.CareerPlan(ctx, p, planRole)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}
	debugf(cmd, "Role: %s", plan.Role)
	return s.emit(cmd, "Career plan: "+plan.Role, plan.Markdown())
}

func runCritique(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	resume, err := attachment.Load(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := s.context(cmd)
	defer cancel()

	logf(cmd, "Reviewing %s with %s...", resume.Name, s.name())
	c, err := s.coach.CritiqueResume(ctx, resume)
	if err != nil {
		return fmt.Errorf("critique failed: %w", err)
	}
	debugf(cmd, "Impact score: %.1f/10", c.Score)
	return s.emit(cmd, "Resume critique: "+resume.Name, c.Content)
}

func runRevise(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	resume, err := attachment.Load(args[0])
	if err != nil {
		return err
	}
	job, err := readTextArg(reviseJob)
	if err != nil {
		return err
	}

	ctx, cancel := s.context(cmd)
	defer cancel()

	logf(cmd, "Revising %s with %s...", resume.Name, s.name())
	revision, err := s.coach.ReviseResume(ctx, resume, job)
	if err != nil {
		return fmt.Errorf("revision failed: %w", err)
	}
	return s.emit(cmd, "Resume revision: "+resume.Name, revision)
}

// session is the configuration and coach shared by one model command.
type session struct {
	cfg      *config.Config
	provider llm.Provider
	settings llm.Settings
	coach    *coach.Service
}

func newSession(cmd *cobra.Command) (*session, error) {
	if outputRaw && outputJSON {
		return nil, errors.New("--raw and --json are mutually exclusive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	p, settings, err := resolveProvider(cfg)
	if err != nil {
		return nil, err
	}
	debugf(cmd, "Provider: %s (model %s, quality model %s)", p.Name(), settings.Model, settings.QualityModel)

	svc := coach.NewService(p)
	if !p.Capabilities().Documents {
		svc.Extractor = newExtractor(cmd, cfg)
	}

	return &session{cfg: cfg, provider: p, settings: settings, coach: svc}, nil
}

func (s *session) name() string {
	return s.provider.Name()
}

// context bounds a model call by the configured timeout.
func (s *session) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if s.cfg.Generate.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Generate.Timeout)
}

// emit writes a model reply as rendered output, raw markdown, or node JSON.
func (s *session) emit(cmd *cobra.Command, title, markdown string) error {
	if outputSave != "" {
		if err := os.WriteFile(outputSave, []byte(markdown+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to save markdown: %w", err)
		}
		logf(cmd, "Saved %s", outputSave)
	}

	switch {
	case outputRaw:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), markdown)
		return err

	case outputJSON:
		doc := parser.ParseDocument(markdown)
		doc.Metadata.Title = title
		doc.Metadata.Provider = s.provider.Name()
		doc.Metadata.Model = s.settings.Model
		doc.Metadata.Created = time.Now().UTC().Format(time.RFC3339)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)

	default:
		return render.Terminal(cmd.OutOrStdout(), parser.Parse(markdown), renderOptions(s.cfg))
	}
}

// resolveProvider picks the provider from --provider, the model name, or
// the configured default, in that order.
func resolveProvider(cfg *config.Config) (llm.Provider, llm.Settings, error) {
	model := modelName
	if model == "" {
		model = config.GetEnvOrDefault("COACHMD_MODEL", "")
	}

	name := modelProvider
	if name == "" && model != "" {
		name = detectProviderFromModel(model)
	}
	if name == "" {
		name = cfg.DefaultProvider
	}

	settings := providerSettings(cfg, name)
	if model != "" {
		settings.Model = model
		settings.QualityModel = model
	}

	p, err := llm.New(name, settings)
	if err != nil {
		return nil, settings, err
	}
	if err := p.Validate(); err != nil {
		return nil, settings, err
	}
	return p, settings, nil
}

// providerSettings maps a provider's config entry to llm settings.
func providerSettings(cfg *config.Config, name string) llm.Settings {
	pc, ok := cfg.GetProvider(name)
	if !ok {
		return llm.Settings{}
	}
	return llm.Settings{
		APIKey:       pc.APIKey,
		Model:        pc.Model,
		QualityModel: pc.QualityModel,
		MaxTokens:    pc.MaxTokens,
		Endpoint:     pc.Endpoint,
	}
}

// newExtractor returns the Upstage extractor when a key is configured.
func newExtractor(cmd *cobra.Command, cfg *config.Config) coach.Extractor {
	if cfg.Extract.APIKey == "" {
		debugf(cmd, "No Upstage key configured; PDF resumes need a document-capable provider")
		return nil
	}
	ex, err := extract.New(extract.Config{
		APIKey:  cfg.Extract.APIKey,
		BaseURL: cfg.Extract.Endpoint,
		Timeout: cfg.Generate.Timeout,
	})
	if err != nil {
		debugf(cmd, "Upstage extractor unavailable: %v", err)
		return nil
	}
	return ex
}

// loadProfile merges the --profile file with the individual flags, flags
// taking precedence.
func loadProfile() (coach.Profile, error) {
	p := coach.Profile{}
	if profileFile != "" {
		data, err := os.ReadFile(profileFile)
		if err != nil {
			return p, fmt.Errorf("failed to read profile: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse profile: %w", err)
		}
	}

	if profile.Name != "" {
		p.Name = profile.Name
	}
	if profile.Major != "" {
		p.Major = profile.Major
	}
	if profile.Skills != "" {
		p.Skills = profile.Skills
	}
	if profile.Interests != "" {
		p.Interests = profile.Interests
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("%w (use --profile or --name, --major, --skills, --interests)", err)
	}
	return p, nil
}

// readTextArg returns the contents of value when it names a text file, and
// value itself otherwise.
func readTextArg(value string) (string, error) {
	if _, err := os.Stat(value); err != nil {
		return value, nil
	}
	a, err := attachment.Load(value)
	if err != nil {
		return "", err
	}
	if !a.Format.IsText() {
		return "", fmt.Errorf("%s: expected a text file, got %s", a.Name, a.Format)
	}
	return a.Text(), nil
}
