// Package render turns content nodes into terminal output, normalized
// markdown, or plain text.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines the color palette for terminal output.
type Theme struct {
	Primary   lipgloss.Color // level 1 headings, bullets
	Secondary lipgloss.Color // level 2 headings
	Accent    lipgloss.Color // level 3 headings, links
	Muted     lipgloss.Color // quote bars, table rules, link targets
	Bold      lipgloss.Color // bold spans
}

var themes = map[string]*Theme{
	"indigo": {
		Primary:   lipgloss.Color("#4f46e5"), // indigo-600
		Secondary: lipgloss.Color("#6366f1"), // indigo-500
		Accent:    lipgloss.Color("#818cf8"), // indigo-400
		Muted:     lipgloss.Color("#9ca3af"), // gray-400
		Bold:      lipgloss.Color("#312e81"), // indigo-900
	},
	"mono": {},
}

// DefaultTheme is used when no theme is named.
const DefaultTheme = "indigo"

// ThemeNames returns the registered theme names (sorted).
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the named theme. An empty name selects DefaultTheme.
func LookupTheme(name string) (*Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	t, ok := themes[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme: %s (available: %v)", name, ThemeNames())
	}
	return t, nil
}

// styles holds the lipgloss styles for one render pass.
type styles struct {
	h1, h2, h3 lipgloss.Style
	bold       lipgloss.Style
	emphasis   lipgloss.Style
	link       lipgloss.Style
	url        lipgloss.Style
	marker     lipgloss.Style
	rule       lipgloss.Style
	header     lipgloss.Style
	plain      lipgloss.Style
}

func newStyles(w io.Writer, theme *Theme, color bool) *styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &styles{
		h1:       r.NewStyle().Bold(true).Foreground(theme.Primary),
		h2:       r.NewStyle().Bold(true).Foreground(theme.Secondary),
		h3:       r.NewStyle().Bold(true).Foreground(theme.Accent),
		bold:     r.NewStyle().Bold(true).Foreground(theme.Bold),
		emphasis: r.NewStyle().Italic(true),
		link:     r.NewStyle().Underline(true).Foreground(theme.Accent),
		url:      r.NewStyle().Foreground(theme.Muted),
		marker:   r.NewStyle().Foreground(theme.Primary),
		rule:     r.NewStyle().Foreground(theme.Muted),
		header:   r.NewStyle().Bold(true),
		plain:    r.NewStyle(),
	}
}
