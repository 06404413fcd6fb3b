package ir

import "strings"

// SpanType represents the formatting intent of an inline span.
type SpanType string

const (
	SpanTypeText     SpanType = "text"
	SpanTypeBold     SpanType = "bold"
	SpanTypeEmphasis SpanType = "emphasis"
	SpanTypeLink     SpanType = "link"
)

// Span is a typed run of text within a line or table cell.
type Span struct {
	Type SpanType `json:"type"`
	Text string   `json:"text"`          // link label for SpanTypeLink
	URL  string   `json:"url,omitempty"` // link target
}

// Text returns a plain text span.
func Text(s string) Span {
	return Span{Type: SpanTypeText, Text: s}
}

// Bold returns a bold span.
func Bold(s string) Span {
	return Span{Type: SpanTypeBold, Text: s}
}

// Emphasis returns an emphasis span.
func Emphasis(s string) Span {
	return Span{Type: SpanTypeEmphasis, Text: s}
}

// Link returns a link span.
func Link(label, url string) Span {
	return Span{Type: SpanTypeLink, Text: label, URL: url}
}

// PlainText concatenates span text with all formatting markers removed.
// Links contribute their label only.
func PlainText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// IsPlain reports whether every span is untyped text.
func IsPlain(spans []Span) bool {
	for _, s := range spans {
		if s.Type != SpanTypeText {
			return false
		}
	}
	return true
}
