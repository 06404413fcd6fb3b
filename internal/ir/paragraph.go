package ir

// Heading represents a section title.
type Heading struct {
	Level int    `json:"level"` // 1-3
	Spans []Span `json:"spans"`
}

// Paragraph represents a line of free text.
type Paragraph struct {
	Spans []Span `json:"spans"`
}

// Blockquote represents a quoted line.
type Blockquote struct {
	Spans []Span `json:"spans"`
}

// NewHeading creates a heading, clamping the level to 1-3.
func NewHeading(level int, spans []Span) *Heading {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	return &Heading{
		Level: level,
		Spans: spans,
	}
}

// NewParagraph creates a paragraph from resolved spans.
func NewParagraph(spans []Span) *Paragraph {
	return &Paragraph{Spans: spans}
}

// NewLiteralParagraph creates a paragraph holding text verbatim, without
// inline formatting.
func NewLiteralParagraph(text string) *Paragraph {
	return &Paragraph{Spans: []Span{Text(text)}}
}

// NewBlockquote creates a blockquote from resolved spans.
func NewBlockquote(spans []Span) *Blockquote {
	return &Blockquote{Spans: spans}
}

