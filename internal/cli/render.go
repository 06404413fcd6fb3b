package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roboco-io/coachmd/internal/parser"
	"github.com/roboco-io/coachmd/internal/render"
)

var (
	renderOutput  string
	renderWidth   int
	renderNoColor bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render markdown to the terminal",
	Long: `Render markdown-ish text, such as a saved plan or critique, as styled
terminal output. Reads stdin when the file is "-" or omitted.

Environment variables:
  COACHMD_WIDTH=N   wrap width (default: terminal width)
  NO_COLOR          disable colors

Examples:
  coachmd render plan.md
  cat plan.md | coachmd render
  coachmd render plan.md --width 72 -o plan.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file path (default: stdout)")
	addRenderFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

// addRenderFlags registers the terminal layout flags.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&renderWidth, "width", 0, "wrap width (default: terminal width)")
	cmd.Flags().BoolVar(&renderNoColor, "no-color", false, "disable colors")
}

func runRender(cmd *cobra.Command, args []string) error {
	text, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	nodes := parser.Parse(text)
	debugf(cmd, "Input: %s (%d bytes, %d nodes)", source, len(text), len(nodes))

	opts := renderOptions(cfg)
	if renderOutput == "" {
		// Styles are detected from the writer, so render straight to stdout.
		if err := render.Terminal(cmd.OutOrStdout(), nodes, opts); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		return nil
	}

	opts.Color = false
	var buf bytes.Buffer
	if err := render.Terminal(&buf, nodes, opts); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return writeOutput(cmd, renderOutput, buf.String())
}

// readInput reads the first argument as a file, or stdin for "-" or no
// argument.
func readInput(cmd *cobra.Command, args []string) (text, source string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("file not found: %s", path)
		}
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), filepath.Base(path), nil
}

// writeOutput prints out to stdout, or writes it to path.
func writeOutput(cmd *cobra.Command, path, out string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logf(cmd, "Wrote %s", path)
	return nil
}
