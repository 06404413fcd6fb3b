package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/roboco-io/coachmd/internal/ir"
)

// DefaultWidth is the wrap width used when none is configured.
const DefaultWidth = 80

// minColWidth is the narrowest a table column is squeezed to.
const minColWidth = 3

// Options contains terminal rendering options.
type Options struct {
	Width int    // wrap width; 0 selects DefaultWidth
	Color bool   // false forces plain output
	Theme string // theme name; "" selects DefaultTheme
}

// Terminal writes nodes to w styled for a terminal.
func Terminal(w io.Writer, nodes []ir.Node, opts Options) error {
	theme, err := LookupTheme(opts.Theme)
	if err != nil {
		return err
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	t := &terminal{
		out:   bufio.NewWriter(w),
		st:    newStyles(w, theme, opts.Color),
		width: width,
	}
	for _, n := range nodes {
		t.node(n)
	}
	return t.out.Flush()
}

type terminal struct {
	out   *bufio.Writer
	st    *styles
	width int
}

func (t *terminal) node(n ir.Node) {
	switch n.Type {
	case ir.NodeTypeHeading:
		t.heading(n.Heading)
	case ir.NodeTypeListItem:
		t.listItem(n.ListItem)
	case ir.NodeTypeBlockquote:
		bar := t.st.rule.Render("│") + " "
		t.block(t.spans(n.Blockquote.Spans, t.st.plain), bar, bar, 2)
	case ir.NodeTypeParagraph:
		t.block(t.spans(n.Paragraph.Spans, t.st.plain), "", "", 0)
	case ir.NodeTypeSpacer:
		t.out.WriteString("\n")
	case ir.NodeTypeTable:
		t.table(n.Table)
	}
}

func (t *terminal) heading(h *ir.Heading) {
	style := t.st.h3
	switch h.Level {
	case 1:
		style = t.st.h1
	case 2:
		style = t.st.h2
	}

	t.block(t.spans(h.Spans, style), "", "", 0)
	if h.Level == 1 {
		w := runewidth.StringWidth(ir.PlainText(h.Spans))
		if w > t.width {
			w = t.width
		}
		t.out.WriteString(t.st.rule.Render(strings.Repeat("═", w)) + "\n")
	}
}

func (t *terminal) listItem(li *ir.ListItem) {
	marker := "• "
	if li.Ordered() {
		marker = fmt.Sprintf("%d. ", *li.Ordinal)
	}
	indent := runewidth.StringWidth(marker) + 2
	first := "  " + t.st.marker.Render(marker)
	t.block(t.spans(li.Spans, t.st.plain), first, strings.Repeat(" ", indent), indent)
}

// block wraps text to the remaining width and writes it with first before
// the first line and rest before every following line.
func (t *terminal) block(text, first, rest string, indent int) {
	avail := t.width - indent
	if avail < 10 {
		avail = 10
	}
	lines := strings.Split(wordwrap.String(text, avail), "\n")
	for i, line := range lines {
		if i == 0 {
			t.out.WriteString(first)
		} else {
			t.out.WriteString(rest)
		}
		t.out.WriteString(line)
		t.out.WriteString("\n")
	}
}

// spans renders a span sequence with base applied to untyped text.
func (t *terminal) spans(spans []ir.Span, base lipgloss.Style) string {
	var sb strings.Builder
	for _, s := range spans {
		switch s.Type {
		case ir.SpanTypeBold:
			sb.WriteString(t.st.bold.Inherit(base).Render(s.Text))
		case ir.SpanTypeEmphasis:
			sb.WriteString(t.st.emphasis.Inherit(base).Render(s.Text))
		case ir.SpanTypeLink:
			sb.WriteString(t.st.link.Render(s.Text))
			if s.URL != "" && s.URL != s.Text {
				sb.WriteString(t.st.url.Render(" (" + s.URL + ")"))
			}
		default:
			sb.WriteString(base.Render(s.Text))
		}
	}
	return sb.String()
}

func (t *terminal) table(tbl *ir.Table) {
	cols := tbl.Cols()
	if cols == 0 {
		return
	}

	widths := make([]int, cols)
	measure := func(row [][]ir.Span) {
		for c, cell := range row {
			if w := runewidth.StringWidth(cellText(cell)); w > widths[c] {
				widths[c] = w
			}
		}
	}
	measure(tbl.Headers)
	for _, row := range tbl.Rows {
		measure(row)
	}
	fitWidths(widths, t.width)

	rule := func(left, mid, right string) {
		parts := make([]string, cols)
		for c, w := range widths {
			parts[c] = strings.Repeat("─", w+2)
		}
		t.out.WriteString(t.st.rule.Render(left+strings.Join(parts, mid)+right) + "\n")
	}

	rule("┌", "┬", "┐")
	if len(tbl.Headers) > 0 {
		t.row(tbl, -1, widths, t.st.header)
		rule("├", "┼", "┤")
	}
	for r := range tbl.Rows {
		t.row(tbl, r, widths, t.st.plain)
	}
	rule("└", "┴", "┘")
}

// row writes table row r, or the header when r is -1. Short rows are
// padded with empty cells.
func (t *terminal) row(tbl *ir.Table, r int, widths []int, style lipgloss.Style) {
	bar := t.st.rule.Render("│")
	t.out.WriteString(bar)
	for c, w := range widths {
		cell := tbl.Cell(r, c)

		text := cellText(cell)
		var rendered string
		if runewidth.StringWidth(text) > w {
			text = runewidth.Truncate(text, w, "…")
			rendered = style.Render(text)
		} else {
			rendered = t.spans(cell, style)
		}
		pad := w - runewidth.StringWidth(text)

		t.out.WriteString(" " + rendered + strings.Repeat(" ", pad) + " " + bar)
	}
	t.out.WriteString("\n")
}

// cellText is the visible text of a cell, links shown with their target.
func cellText(spans []ir.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
		if s.Type == ir.SpanTypeLink && s.URL != "" && s.URL != s.Text {
			sb.WriteString(" (" + s.URL + ")")
		}
	}
	return sb.String()
}

// fitWidths shrinks the widest columns until the table, borders included,
// fits in total.
func fitWidths(widths []int, total int) {
	frame := 3*len(widths) + 1
	for {
		sum := frame
		widest := 0
		for c, w := range widths {
			sum += w
			if w > widths[widest] {
				widest = c
			}
		}
		if sum <= total || widths[widest] <= minColWidth {
			return
		}
		widths[widest]--
	}
}
