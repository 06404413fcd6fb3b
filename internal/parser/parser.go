// Package parser converts markdown-ish model output into IR nodes.
//
// The conversion is heuristic and single pass. Lines are first grouped into
// table and text segments by shape, table segments are split into cells, and
// every text line and cell is resolved into inline spans. No input is rejected:
// malformed markup degrades to plain text.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/roboco-io/coachmd/internal/ir"
)

var (
	headingPattern     = regexp.MustCompile(`^(#{1,3})\s+`)
	bulletPattern      = regexp.MustCompile(`^[-*•]\s+`)
	orderedTestPattern = regexp.MustCompile(`^\d+\.\s`)
	orderedPattern     = regexp.MustCompile(`^(\d+)\.\s+`)
	quotePattern       = regexp.MustCompile(`^>\s+`)
)

// Parse converts text into an ordered node sequence. It is safe to call
// concurrently.
func Parse(text string) []ir.Node {
	segments := Segments(text)
	nodes := make([]ir.Node, 0, len(segments))

	for _, seg := range segments {
		switch seg.Kind {
		case SegmentTable:
			nodes = append(nodes, tableNode(seg.Lines))
		case SegmentText:
			nodes = append(nodes, classifyLine(seg.Line()))
		}
	}

	return nodes
}

// ParseDocument parses text and wraps the nodes in a new document.
func ParseDocument(text string) *ir.Document {
	doc := ir.NewDocument()
	doc.Add(Parse(text)...)
	return doc
}

// tableNode builds a table node from a table segment. Segments too short to
// carry a header and a body come back from ParseTable as a single literal
// cell and are emitted as a verbatim paragraph instead.
func tableNode(lines []string) ir.Node {
	headers, rows := ParseTable(lines)
	if len(headers) == 0 {
		return ir.ParagraphNode(ir.NewLiteralParagraph(rows[0][0]))
	}

	header := make([][]ir.Span, len(headers))
	for i, h := range headers {
		header[i] = ResolveInline(h)
	}

	table := ir.NewTable(header)
	for _, row := range rows {
		cells := make([][]ir.Span, len(row))
		for i, c := range row {
			cells[i] = ResolveInline(c)
		}
		table.AddRow(cells)
	}

	return ir.TableNode(table)
}

// classifyLine types a single text line by its leading marker.
func classifyLine(line string) ir.Node {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ir.SpacerNode()
	}

	// Headings are matched on the raw line; an indented "#" is not a heading.
	for level := 3; level >= 1; level-- {
		if strings.HasPrefix(line, strings.Repeat("#", level)+" ") {
			rest := headingPattern.ReplaceAllString(line, "")
			return ir.HeadingNode(ir.NewHeading(level, ResolveInline(rest)))
		}
	}

	// List markers may follow any Unicode indentation, NBSP included.
	body := strings.TrimLeftFunc(line, unicode.IsSpace)

	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "• ") {
		rest := bulletPattern.ReplaceAllString(body, "")
		return ir.ListItemNode(ir.NewBulletItem(ResolveInline(rest)))
	}

	if orderedTestPattern.MatchString(trimmed) {
		if m := orderedPattern.FindStringSubmatchIndex(body); m != nil {
			if n, err := strconv.Atoi(body[m[2]:m[3]]); err == nil {
				return ir.ListItemNode(ir.NewOrderedItem(n, ResolveInline(body[m[1]:])))
			}
		}
	}

	if strings.HasPrefix(line, "> ") {
		rest := quotePattern.ReplaceAllString(line, "")
		return ir.BlockquoteNode(ir.NewBlockquote(ResolveInline(rest)))
	}

	return ir.ParagraphNode(ir.NewParagraph(ResolveInline(line)))
}
