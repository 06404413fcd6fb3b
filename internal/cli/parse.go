package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/coachmd/internal/ir"
	"github.com/roboco-io/coachmd/internal/parser"
	"github.com/roboco-io/coachmd/internal/render"
)

var (
	parseOutput      string
	parseFormat      string
	parsePrettyPrint bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse markdown into content nodes",
	Long: `Parse markdown-ish text into typed content nodes (headings, list items,
quotes, paragraphs, spacers, tables) with inline spans, without rendering.

Output formats:
  json      the node tree (default)
  text      plain text with formatting removed
  markdown  normalized markdown

Examples:
  coachmd parse plan.md
  coachmd parse plan.md -o plan.json
  cat reply.md | coachmd parse --format markdown`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output file path (default: stdout)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "output format (json, text, markdown)")
	parseCmd.Flags().BoolVar(&parsePrettyPrint, "pretty", true, "indent JSON output")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	text, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	doc := parser.ParseDocument(text)
	doc.Metadata.Source = source
	debugf(cmd, "Parsed %s: %d nodes (%d tables)", source, len(doc.Content), doc.Count(ir.NodeTypeTable))

	output, err := formatOutput(doc, parseFormat, parsePrettyPrint)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return writeOutput(cmd, parseOutput, output)
}

func formatOutput(doc *ir.Document, format string, pretty bool) (string, error) {
	switch format {
	case "json":
		var data []byte
		var err error
		if pretty {
			data, err = json.MarshalIndent(doc, "", "  ")
		} else {
			data, err = json.Marshal(doc)
		}
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "text":
		return formatAsText(doc), nil

	case "markdown", "md":
		return render.Markdown(doc.Content) + "\n", nil

	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatAsText(doc *ir.Document) string {
	var sb strings.Builder

	if doc.Metadata.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", doc.Metadata.Title)
	}
	if doc.Metadata.Source != "" {
		fmt.Fprintf(&sb, "Source: %s\n", doc.Metadata.Source)
	}
	if doc.Metadata.Model != "" {
		fmt.Fprintf(&sb, "Model: %s/%s\n", doc.Metadata.Provider, doc.Metadata.Model)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString(render.Text(doc.Content))
	return sb.String()
}
