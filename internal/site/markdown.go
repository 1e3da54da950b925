package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/dom"
)

// newMarkdown returns the Markdown converter used for every article.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// articleData holds the data passed to the article template.
type articleData struct {
	Title       string
	Description string
	Keywords    string
	Area        string
	Sidebar     template.JS
	Content     template.HTML
}

// articleTemplate wraps converted Markdown into a bare HTML document. The
// page chrome is added later by the bootstrap, exactly as for hand-written
// HTML articles.
const articleTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- with .Description}}
<meta name="description" content="{{.}}">
{{- end}}
{{- with .Keywords}}
<meta name="keywords" content="{{.}}">
{{- end}}
{{- with .Area}}
<meta name="wiki-area" content="{{.}}">
{{- end}}
</head>
<body>
{{- with .Sidebar}}
<script type="application/json" id="wiki-sidebar-data">{{.}}</script>
{{- end}}
<article class="wiki-article">
{{.Content}}
</article>
</body>
</html>
`

// renderMarkdown converts a Markdown article, front matter included, into
// an HTML document.
func (g *Generator) renderMarkdown(src []byte, relPath string) ([]byte, error) {
	fm, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	var content bytes.Buffer
	if err := g.md.Convert(body, &content); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	data := articleData{
		Title:       fm.Title,
		Description: fm.Description,
		Keywords:    strings.Join(fm.Keywords, ", "),
		Area:        fm.Area,
		Content:     template.HTML(content.String()),
	}
	if data.Title == "" {
		data.Title = extractTitle(string(body), relPath)
	}
	if len(fm.Sidebar) > 0 {
		raw, err := json.Marshal(fm.Sidebar)
		if err != nil {
			return nil, fmt.Errorf("encoding sidebar override: %w", err)
		}
		data.Sidebar = template.JS(raw)
	}

	var out bytes.Buffer
	if err := g.tmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("executing article template: %w", err)
	}
	return out.Bytes(), nil
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	base := path.Base(relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// rewriteMarkdownLinks points relative links at sibling .md sources to the
// generated .html pages.
func rewriteMarkdownLinks(doc *xhtml.Node) {
	for _, a := range dom.FindAll(doc, dom.IsTag("a")) {
		href := dom.Attr(a, "href")
		if href == "" || strings.Contains(href, "://") || strings.HasPrefix(href, "#") {
			continue
		}
		target, frag, _ := strings.Cut(href, "#")
		ext := strings.ToLower(path.Ext(target))
		if ext != ".md" && ext != ".markdown" {
			continue
		}
		target = strings.TrimSuffix(target, path.Ext(target)) + ".html"
		if frag != "" {
			target += "#" + frag
		}
		dom.SetAttr(a, "href", target)
	}
}
