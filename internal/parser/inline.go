package parser

import (
	"regexp"

	"github.com/roboco-io/coachmd/internal/ir"
)

var (
	boldPattern     = regexp.MustCompile(`\*\*.*?\*\*`)
	emphasisPattern = regexp.MustCompile(`\*[^*]+?\*`)
	linkPattern     = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// inlinePass turns one regexp match into a typed span. It returns false to
// leave the match as untyped text for the next pass.
type inlinePass struct {
	pattern *regexp.Regexp
	span    func(text string, m []int) (ir.Span, bool)
}

// passes run in precedence order. Each pass only sees text left untyped by
// the previous ones.
var passes = []inlinePass{
	{
		pattern: boldPattern,
		span: func(text string, m []int) (ir.Span, bool) {
			inner := text[m[0]+2 : m[1]-2]
			return ir.Bold(inner), inner != ""
		},
	},
	{
		pattern: emphasisPattern,
		span: func(text string, m []int) (ir.Span, bool) {
			return ir.Emphasis(text[m[0]+1 : m[1]-1]), true
		},
	},
	{
		pattern: linkPattern,
		span: func(text string, m []int) (ir.Span, bool) {
			return ir.Link(text[m[2]:m[3]], text[m[4]:m[5]]), true
		},
	},
}

// ResolveInline splits text into bold, emphasis, link and plain spans.
// It never fails; anything that does not form a complete token stays plain
// text, so the span text with markers re-added reproduces the input.
func ResolveInline(text string) []ir.Span {
	return resolve(text, 0, make([]ir.Span, 0, 1))
}

func resolve(text string, pass int, out []ir.Span) []ir.Span {
	if text == "" {
		return out
	}
	if pass == len(passes) {
		return append(out, ir.Text(text))
	}

	p := passes[pass]
	start := 0 // beginning of the pending untyped run
	for _, m := range p.pattern.FindAllStringSubmatchIndex(text, -1) {
		span, ok := p.span(text, m)
		if !ok {
			continue
		}
		out = resolve(text[start:m[0]], pass+1, out)
		out = append(out, span)
		start = m[1]
	}
	return resolve(text[start:], pass+1, out)
}
