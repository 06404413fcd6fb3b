package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/coachmd/internal/config"
	"github.com/roboco-io/coachmd/internal/llm"
)

type providerInfo struct {
	Name        string
	EnvKey      string
	Description string
}

var providers = []providerInfo{
	{
		Name:        "gemini",
		EnvKey:      "GOOGLE_API_KEY",
		Description: "Google Gemini API (reads PDF resumes)",
	},
	{
		Name:        "anthropic",
		EnvKey:      "ANTHROPIC_API_KEY",
		Description: "Anthropic Claude API (reads PDF resumes)",
	},
	{
		Name:        "openai",
		EnvKey:      "OPENAI_API_KEY",
		Description: "OpenAI GPT API",
	},
	{
		Name:        "ollama",
		EnvKey:      "-",
		Description: "Local Ollama server",
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available LLM providers",
	Long: `List the LLM providers coachmd can talk to, with the models taken from
the config file and whether each one is ready to use.

Providers that cannot read PDFs directly fall back to Upstage document
parsing when UPSTAGE_API_KEY is set.

Examples:
  coachmd plan --provider anthropic --name ...
  coachmd critique resume.pdf --model gpt-4o`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := llm.NewRegistry()
	for _, info := range providers {
		if _, err := reg.Resolve(info.Name, providerSettings(cfg, info.Name)); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "PROVIDER\tMODEL\tQUALITY MODEL\tENV\tSTATUS\tDESCRIPTION")
	for _, name := range reg.List() {
		p, err := reg.Get(name)
		if err != nil {
			return err
		}
		info := lookupProvider(name)
		model, quality := providerModels(cfg, name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			name, model, quality, info.EnvKey, providerStatus(cfg, p), info.Description)
	}
	return nil
}

func lookupProvider(name string) providerInfo {
	for _, info := range providers {
		if info.Name == name {
			return info
		}
	}
	return providerInfo{Name: name, EnvKey: "-"}
}

// providerModels returns the configured fast and quality models, with the
// quality column showing "-" when it falls back to the fast model.
func providerModels(cfg *config.Config, name string) (string, string) {
	pc, ok := cfg.GetProvider(name)
	if !ok || pc.Model == "" {
		return "(default)", "-"
	}
	if pc.QualityModel == "" || pc.QualityModel == pc.Model {
		return pc.Model, "-"
	}
	return pc.Model, pc.QualityModel
}

func providerStatus(cfg *config.Config, p llm.Provider) string {
	if err := p.Validate(); err != nil {
		return "✗ not configured"
	}
	if p.Name() == cfg.DefaultProvider {
		return "✓ default"
	}
	return "✓ ready"
}
