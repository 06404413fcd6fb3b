// Package cli implements the coachmd command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roboco-io/coachmd/internal/config"
	"github.com/roboco-io/coachmd/internal/render"
)

var version = "dev"

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "coachmd [file]",
	Short: "Career coaching from the terminal, rendered from model markdown",
	Long: `coachmd asks an LLM for career guidance and renders the markdown it returns
as structured terminal output.

Running coachmd with a file (or - for stdin) renders that markdown directly,
the same as "coachmd render".

Examples:
  coachmd plan.md
  coachmd recommend --name "Alex Chen" --major "CS Junior" --skills "Python, SQL" --interests "climate tech"
  coachmd plan --role "Data Analyst" --name ...
  coachmd critique resume.pdf
  coachmd chat --context plan.md`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if config.GetEnvBool("COACHMD_VERBOSE") {
			verbose = true
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runRender(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "coachmd %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	rootCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file path (default: stdout)")
	addRenderFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by "coachmd version".
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// logf writes progress to stderr unless --quiet is set.
func logf(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// debugf writes diagnostics to stderr when --verbose is set.
func debugf(cmd *cobra.Command, format string, args ...any) {
	if quiet || !verbose {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// loadConfig loads the config file with environment overrides applied.
func loadConfig() (*config.Config, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(cfg)
	return cfg, nil
}

// renderOptions resolves the terminal options from flags, config, and the
// attached terminal, in that order.
func renderOptions(cfg *config.Config) render.Options {
	opts := render.Options{
		Width: cfg.Render.Width,
		Color: cfg.Render.Color && !renderNoColor,
		Theme: cfg.Render.Theme,
	}
	if renderWidth > 0 {
		opts.Width = renderWidth
	}
	if opts.Width <= 0 {
		opts.Width = terminalWidth()
	}
	return opts
}

// terminalWidth returns the stdout width, or render.DefaultWidth when stdout
// is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return render.DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return render.DefaultWidth
	}
	return w
}

// detectProviderFromModel infers the provider from a model name. Unknown
// names are assumed to be local Ollama models.
func detectProviderFromModel(model string) string {
	m := strings.ToLower(model)
	switch {
	case m == "":
		return "gemini"
	case strings.HasPrefix(m, "gemini"):
		return "gemini"
	case strings.HasPrefix(m, "claude"):
		return "anthropic"
	case strings.HasPrefix(m, "gpt"),
		strings.HasPrefix(m, "o1"),
		strings.HasPrefix(m, "o3"),
		strings.HasPrefix(m, "o4"):
		return "openai"
	default:
		return "ollama"
	}
}
