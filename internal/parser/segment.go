package parser

import "strings"

// SegmentKind distinguishes table regions from single text lines.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentTable
)

// String returns the string representation of the kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentTable:
		return "table"
	default:
		return "unknown"
	}
}

// Segment is an untyped group of source lines. A text segment holds exactly
// one raw line. A table segment holds one or more trimmed table lines, which
// may come from non-adjacent source lines when blank gaps were healed.
type Segment struct {
	Kind  SegmentKind
	Lines []string
}

// Line returns the single line of a text segment.
func (s Segment) Line() string {
	if len(s.Lines) == 0 {
		return ""
	}
	return s.Lines[0]
}

// Segments splits text into table and text segments in source order.
//
// Code fence lines are dropped and close any open table, but the lines between
// fences are classified like any other line.
func Segments(text string) []Segment {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	segments := make([]Segment, 0, len(lines))

	var table []string
	inTable := false
	flush := func() {
		if inTable {
			segments = append(segments, Segment{Kind: SegmentTable, Lines: table})
			table = nil
			inTable = false
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if IsFence(trimmed) {
			flush()
			continue
		}

		if IsTableCandidate(trimmed) {
			inTable = true
			table = append(table, trimmed)
			continue
		}

		if inTable && trimmed == "" {
			// Models often put blank lines between rows; keep the table open.
			continue
		}

		flush()
		segments = append(segments, Segment{Kind: SegmentText, Lines: []string{line}})
	}
	flush()

	return segments
}

// IsFence reports whether a trimmed line opens or closes a code fence.
func IsFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```")
}

// IsTableCandidate reports whether a trimmed line looks like a table row.
// Rows without a leading pipe still count when they have at least two pipes
// and a dash, which catches unpiped separator rows such as "--- | --- | ---".
func IsTableCandidate(trimmed string) bool {
	if strings.HasPrefix(trimmed, "|") {
		return true
	}
	return strings.Count(trimmed, "|") >= 2 && strings.Contains(trimmed, "-")
}
