package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/coachmd/internal/config"
	"github.com/roboco-io/coachmd/internal/llm"
	"github.com/roboco-io/coachmd/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage coachmd settings.

Config file: ~/.coachmd/config.yaml (override with COACHMD_CONFIG)

Subcommands:
  show    print the current settings
  init    write a default config file
  set     change a setting
  path    print the config file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Long: `Print the settings from the config file, or the defaults when there is
no file, followed by the environment variables that override them.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write the default settings to the config file.

Fails when the file already exists unless --force is given.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting in the config file.

Keys:
  default_provider    LLM provider (gemini, anthropic, openai, ollama)
  generate.timeout    per-request timeout (e.g. 90s, 3m)
  render.width        wrap width in columns, 0 to detect
  render.theme        terminal theme (indigo, mono)
  render.color        colored output (true, false)

Examples:
  coachmd config set default_provider anthropic
  coachmd config set render.theme mono`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := config.NewLoader()
		if err != nil {
			return fmt.Errorf("failed to initialize config loader: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

var configKeys = []string{
	"default_provider",
	"generate.timeout",
	"render.width",
	"render.theme",
	"render.color",
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	if loader.Exists() {
		fmt.Fprintf(out, "Config file: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(out, "Config file: (defaults)\n\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "Environment:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	envVars := []struct {
		key   string
		desc  string
		value string
	}{
		{"COACHMD_PROVIDER", "default provider", os.Getenv("COACHMD_PROVIDER")},
		{"COACHMD_MODEL", "model (provider detected)", os.Getenv("COACHMD_MODEL")},
		{"COACHMD_WIDTH", "render width", os.Getenv("COACHMD_WIDTH")},
		{"COACHMD_CONFIG", "config file path", os.Getenv("COACHMD_CONFIG")},
		{"COACHMD_VERBOSE", "verbose output", os.Getenv("COACHMD_VERBOSE")},
		{"NO_COLOR", "disable color", os.Getenv("NO_COLOR")},
		{"GOOGLE_API_KEY", "Gemini API key", maskAPIKey(os.Getenv("GOOGLE_API_KEY"))},
		{"ANTHROPIC_API_KEY", "Anthropic API key", maskAPIKey(os.Getenv("ANTHROPIC_API_KEY"))},
		{"OPENAI_API_KEY", "OpenAI API key", maskAPIKey(os.Getenv("OPENAI_API_KEY"))},
		{"UPSTAGE_API_KEY", "Upstage API key", maskAPIKey(os.Getenv("UPSTAGE_API_KEY"))},
	}

	for _, ev := range envVars {
		status := "(not set)"
		if ev.value != "" {
			status = ev.value
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev.key, ev.desc, status)
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	if configForce {
		err = loader.Save(config.DefaultConfig())
	} else {
		err = loader.Init()
	}
	if errors.Is(err, config.ErrConfigExists) {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// setConfigValue validates value and stores it under key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "default_provider":
		if !contains(llm.Builtin, value) {
			return fmt.Errorf("invalid provider: %s (supported: %s)", value, strings.Join(llm.Builtin, ", "))
		}
		cfg.DefaultProvider = value

	case "generate.timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid timeout: %s (e.g. 90s, 3m)", value)
		}
		cfg.Generate.Timeout = d

	case "render.width":
		w, err := strconv.Atoi(value)
		if err != nil || w < 0 {
			return fmt.Errorf("invalid width: %s", value)
		}
		cfg.Render.Width = w

	case "render.theme":
		if _, err := render.LookupTheme(value); err != nil {
			return err
		}
		cfg.Render.Theme = value

	case "render.color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid color value: %s (true or false)", value)
		}
		cfg.Render.Color = b

	default:
		return fmt.Errorf("unknown config key: %s (supported: %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
