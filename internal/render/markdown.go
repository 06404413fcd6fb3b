package render

import (
	"fmt"
	"strings"

	"github.com/roboco-io/coachmd/internal/ir"
)

// Markdown renders nodes back to normalized markdown, one line per node.
// Tables are written as pipe tables with a separator row and short rows
// padded to the widest row.
func Markdown(nodes []ir.Node) string {
	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch n.Type {
		case ir.NodeTypeHeading:
			lines = append(lines, strings.Repeat("#", n.Heading.Level)+" "+inlineMarkdown(n.Heading.Spans))
		case ir.NodeTypeListItem:
			lines = append(lines, listMarker(n.ListItem, "-")+inlineMarkdown(n.ListItem.Spans))
		case ir.NodeTypeBlockquote:
			lines = append(lines, "> "+inlineMarkdown(n.Blockquote.Spans))
		case ir.NodeTypeParagraph:
			lines = append(lines, inlineMarkdown(n.Paragraph.Spans))
		case ir.NodeTypeSpacer:
			lines = append(lines, "")
		case ir.NodeTypeTable:
			lines = append(lines, markdownTable(n.Table)...)
		}
	}
	return strings.Join(lines, "\n")
}

func inlineMarkdown(spans []ir.Span) string {
	if ir.IsPlain(spans) {
		return ir.PlainText(spans)
	}
	var sb strings.Builder
	for _, s := range spans {
		switch s.Type {
		case ir.SpanTypeBold:
			sb.WriteString("**" + s.Text + "**")
		case ir.SpanTypeEmphasis:
			sb.WriteString("*" + s.Text + "*")
		case ir.SpanTypeLink:
			fmt.Fprintf(&sb, "[%s](%s)", s.Text, s.URL)
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

func listMarker(li *ir.ListItem, bullet string) string {
	if li.Ordered() {
		return fmt.Sprintf("%d. ", *li.Ordinal)
	}
	return bullet + " "
}

func markdownTable(t *ir.Table) []string {
	cols := t.Cols()
	if cols == 0 {
		return nil
	}

	row := func(r int) string {
		parts := make([]string, cols)
		for c := range parts {
			parts[c] = inlineMarkdown(t.Cell(r, c))
		}
		return "| " + strings.Join(parts, " | ") + " |"
	}

	sep := make([]string, cols)
	for c := range sep {
		sep[c] = "---"
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, row(-1), "| "+strings.Join(sep, " | ")+" |")
	for r := range t.Rows {
		lines = append(lines, row(r))
	}
	return lines
}

// Text renders nodes as plain text with inline formatting removed. Links
// keep their target in parentheses.
func Text(nodes []ir.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n.Type {
		case ir.NodeTypeHeading:
			sb.WriteString(cellText(n.Heading.Spans) + "\n")
		case ir.NodeTypeListItem:
			sb.WriteString(listMarker(n.ListItem, "•") + cellText(n.ListItem.Spans) + "\n")
		case ir.NodeTypeBlockquote:
			sb.WriteString("  " + cellText(n.Blockquote.Spans) + "\n")
		case ir.NodeTypeParagraph:
			sb.WriteString(cellText(n.Paragraph.Spans) + "\n")
		case ir.NodeTypeSpacer:
			sb.WriteString("\n")
		case ir.NodeTypeTable:
			sb.WriteString(textTable(n.Table))
		}
	}
	return sb.String()
}

func textTable(t *ir.Table) string {
	var sb strings.Builder
	write := func(cells [][]ir.Span) {
		for c, cell := range cells {
			if c > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(cellText(cell))
		}
		sb.WriteString("\n")
	}

	if len(t.Headers) > 0 {
		write(t.Headers)
	}
	for _, r := range t.Rows {
		write(r)
	}
	return sb.String()
}
