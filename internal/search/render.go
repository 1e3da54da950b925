package search

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PromptText is shown for an empty query.
const PromptText = "Start typing to search…"

// NoResultsText formats the message shown when a query matched nothing.
func NoResultsText(query string) string {
	return fmt.Sprintf("No results for «%s»", query)
}

// Renderer draws a Result. Renderers never decide what matches.
type Renderer interface {
	Render(w io.Writer, r Result) error
}

var (
	_ Renderer = HTMLRenderer{}
	_ Renderer = TerminalRenderer{}
)

// HTMLRenderer renders results as the fragment the search panel displays.
// Every hit is an anchor, so pointer and keyboard activation both navigate
// to the descriptor's URL.
type HTMLRenderer struct {
	// BasePath is prefixed to root-relative result URLs.
	BasePath string
}

func (h HTMLRenderer) Render(w io.Writer, r Result) error {
	var b strings.Builder
	switch r.State {
	case StatePrompt:
		fmt.Fprintf(&b, `<div class="search-placeholder">%s</div>`, html.EscapeString(PromptText))
	case StateNoResults:
		fmt.Fprintf(&b, `<div class="search-empty">%s</div>`, html.EscapeString(NoResultsText(r.Query)))
	case StateHits:
		b.WriteString(`<ul class="search-results" role="listbox">`)
		for _, p := range r.Pages {
			fmt.Fprintf(&b, `<li role="option"><a class="search-result" href="%s"><span class="search-result-title">%s</span>`,
				html.EscapeString(h.href(p.URL)), html.EscapeString(p.Title))
			if p.Desc != "" {
				fmt.Fprintf(&b, `<span class="search-result-desc">%s</span>`, html.EscapeString(p.Desc))
			}
			b.WriteString(`</a></li>`)
		}
		b.WriteString(`</ul>`)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (h HTMLRenderer) href(url string) string {
	if h.BasePath == "" || strings.Contains(url, "://") || strings.HasPrefix(url, "/") {
		return url
	}
	return h.BasePath + url
}

// TerminalRenderer renders results for the CLI.
type TerminalRenderer struct {
	titleStyle lipgloss.Style
	urlStyle   lipgloss.Style
	descStyle  lipgloss.Style
	noteStyle  lipgloss.Style
}

// NewTerminalRenderer returns a renderer with the default styles.
func NewTerminalRenderer() TerminalRenderer {
	return TerminalRenderer{
		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		urlStyle:   lipgloss.NewStyle().Faint(true),
		descStyle:  lipgloss.NewStyle().PaddingLeft(4),
		noteStyle:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
	}
}

func (t TerminalRenderer) Render(w io.Writer, r Result) error {
	var b strings.Builder
	switch r.State {
	case StatePrompt:
		b.WriteString(t.noteStyle.Render(PromptText))
		b.WriteString("\n")
	case StateNoResults:
		b.WriteString(t.noteStyle.Render(NoResultsText(r.Query)))
		b.WriteString("\n")
	case StateHits:
		for i, p := range r.Pages {
			fmt.Fprintf(&b, "%2d. %s  %s\n", i+1, t.titleStyle.Render(p.Title), t.urlStyle.Render(p.URL))
			if p.Desc != "" {
				b.WriteString(t.descStyle.Render(p.Desc))
				b.WriteString("\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
