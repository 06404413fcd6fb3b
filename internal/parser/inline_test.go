package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/roboco-io/coachmd/internal/ir"
)

func TestResolveInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []ir.Span
	}{
		{
			name: "mixed",
			in:   "**Bold** and *Key:* and [go](http://x)",
			want: spans(ir.Bold("Bold"), ir.Text(" and "), ir.Emphasis("Key:"), ir.Text(" and "), ir.Link("go", "http://x")),
		},
		{
			name: "stray paren after link",
			in:   "**Bold** and *Key:* and [go](http://x))",
			want: spans(ir.Bold("Bold"), ir.Text(" and "), ir.Emphasis("Key:"), ir.Text(" and "), ir.Link("go", "http://x"), ir.Text(")")),
		},
		{
			name: "unclosed emphasis",
			in:   "plain *unclosed",
			want: spans(ir.Text("plain *unclosed")),
		},
		{
			name: "unclosed bold",
			in:   "a **b",
			want: spans(ir.Text("a **b")),
		},
		{
			name: "empty bold stays text",
			in:   "****",
			want: spans(ir.Text("****")),
		},
		{
			name: "shortest bold match",
			in:   "**a** mid **b**",
			want: spans(ir.Bold("a"), ir.Text(" mid "), ir.Bold("b")),
		},
		{
			name: "bold wins over emphasis",
			in:   "**Why:** *because*",
			want: spans(ir.Bold("Why:"), ir.Text(" "), ir.Emphasis("because")),
		},
		{
			name: "markers inside bold are not reprocessed",
			in:   "**see [docs](http://d)**",
			want: spans(ir.Bold("see [docs](http://d)")),
		},
		{
			name: "link inside emphasis is not reprocessed",
			in:   "*[a](b)*",
			want: spans(ir.Emphasis("[a](b)")),
		},
		{
			name: "empty link parts",
			in:   "[]()",
			want: spans(ir.Link("", "")),
		},
		{
			name: "broken link",
			in:   "[label] (url)",
			want: spans(ir.Text("[label] (url)")),
		},
		{
			name: "two links",
			in:   "[a](1) or [b](2)",
			want: spans(ir.Link("a", "1"), ir.Text(" or "), ir.Link("b", "2")),
		},
		{
			name: "unicode",
			in:   "**경력** 계획 *중요*",
			want: spans(ir.Bold("경력"), ir.Text(" 계획 "), ir.Emphasis("중요")),
		},
		{
			name: "empty",
			in:   "",
			want: []ir.Span{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveInline(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ResolveInline(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestResolveInline_PlainIdempotent(t *testing.T) {
	inputs := []string{
		"nothing special here",
		"plain *unclosed",
		"a ** b",
		"[label] (url)",
		"****",
	}

	for _, in := range inputs {
		first := ResolveInline(in)
		if !ir.IsPlain(first) {
			t.Fatalf("expected plain spans for %q, got %+v", in, first)
		}
		second := ResolveInline(ir.PlainText(first))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("re-resolving %q changed spans (-first +second):\n%s", in, diff)
		}
	}
}

func TestResolveInline_Lossless(t *testing.T) {
	in := "x **b** y *e* z [l](u) w"

	var rebuilt string
	for _, s := range ResolveInline(in) {
		switch s.Type {
		case ir.SpanTypeBold:
			rebuilt += "**" + s.Text + "**"
		case ir.SpanTypeEmphasis:
			rebuilt += "*" + s.Text + "*"
		case ir.SpanTypeLink:
			rebuilt += "[" + s.Text + "](" + s.URL + ")"
		default:
			rebuilt += s.Text
		}
	}

	if rebuilt != in {
		t.Errorf("expected %q, got %q", in, rebuilt)
	}
}
