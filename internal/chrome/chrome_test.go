package chrome

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/dom"
	"github.com/ziadkadry99/wikikit/internal/embed"
	"github.com/ziadkadry99/wikikit/internal/search"
)

const article = `<!DOCTYPE html>
<html>
<head><title>Roman History</title></head>
<body>
<h1>Roman History</h1>
<div class="wiki-toc-inline"></div>
<h2>Origins [1]</h2>
<p>See <a href="https://en.wikipedia.org/wiki/Rome">Wikipedia</a> and <a href="https://wiki.example.org/other.html">ours</a>.</p>
<h3>Kingdom</h3>
<h2>Republic</h2>
<div class="wiki-tabs">
  <button class="tab">One</button><button class="tab active">Two</button>
  <div class="tab-panel">1</div><div class="tab-panel active">2</div>
</div>
<button class="collapsible">More</button><div class="collapsible-content">hidden</div>
<figure><img src="forum.jpg" alt="Forum"></figure>
<div class="wiki-graph" data-expressions='[{"expression":"y=x"}]'></div>
</body>
</html>`

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.Title = "Test Wiki"
	cfg.Site.BaseURL = "https://wiki.example.org/"
	return cfg
}

var testNav = catalog.Navigation{
	"history": {
		{Label: "Ancient", Links: []catalog.Link{
			{Text: "Rome", URL: "history/rome.html"},
			{Text: "Greece", URL: "history/greece.html"},
		}},
	},
	"default": {
		{Label: "Start", Links: []catalog.Link{{Text: "Home", URL: "index.html"}}},
	},
}

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := dom.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func countID(doc *html.Node, id string) int {
	return len(dom.FindAll(doc, func(n *html.Node) bool { return dom.Attr(n, "id") == id }))
}

func render(t *testing.T, doc *html.Node) string {
	t.Helper()
	out, err := dom.Render(doc)
	require.NoError(t, err)
	return out
}

var romePage = Page{RelPath: "history/rome.html", BasePath: "../", BuildID: "b1"}

func TestApplyIsIdempotent(t *testing.T) {
	b := New(testConfig(), testNav, nil)
	doc := parse(t, article)

	first := b.Apply(doc, romePage)
	once := render(t, doc)
	second := b.Apply(doc, romePage)
	twice := render(t, doc)

	for _, id := range []string{HeaderID, FooterID, LayoutID, SidebarID, MainID, TOCPanelID, OverlayID, LightboxID, "wikikit-css", "wikikit-js"} {
		assert.Equal(t, 1, countID(doc, id), id)
	}
	assert.Equal(t, once, twice)
	assert.Equal(t, first.TOC, second.TOC)
	assert.Equal(t, SidebarExisting, second.SidebarSource)
}

func TestLayoutWrapsContent(t *testing.T) {
	doc := parse(t, article)
	New(testConfig(), testNav, nil).Apply(doc, romePage)

	body := dom.Body(doc)
	var ids []string
	for _, c := range dom.Children(body) {
		if c.Type == html.ElementNode {
			ids = append(ids, dom.Attr(c, "id"))
		}
	}
	assert.Equal(t, []string{HeaderID, LayoutID, FooterID, LightboxID}, ids)

	main := dom.ByID(doc, MainID)
	require.NotNil(t, main)
	assert.NotNil(t, dom.ByTag(main, "h1"))
	assert.Equal(t, "Test Wiki", dom.Text(dom.First(doc, dom.HasClassMatcher("wiki-brand"))))
	assert.Equal(t, "Built with wikikit", strings.TrimSpace(dom.Text(dom.ByID(doc, FooterID))))
	assert.Contains(t, dom.Text(dom.ByID(doc, SearchResultsID)), search.PromptText)
}

func TestExistingChromeIsKept(t *testing.T) {
	doc := parse(t, `<html><body><header id="wiki-header">custom</header><p>text</p></body></html>`)
	New(testConfig(), nil, nil).Apply(doc, Page{RelPath: "a.html"})
	assert.Equal(t, 1, countID(doc, HeaderID))
	assert.Equal(t, "custom", dom.Text(dom.ByID(doc, HeaderID)))
	assert.Nil(t, dom.ByID(doc, SearchInputID))
}

func TestSidebarResolution(t *testing.T) {
	t.Run("navigation by area", func(t *testing.T) {
		doc := parse(t, article)
		out := New(testConfig(), testNav, nil).Apply(doc, romePage)
		assert.Equal(t, SidebarNavigation, out.SidebarSource)

		links := dom.FindAll(dom.ByID(doc, SidebarID), dom.IsTag("a"))
		require.Len(t, links, 2)
		assert.Equal(t, "../history/rome.html", dom.Attr(links[0], "href"))
		assert.True(t, dom.HasClass(links[0], "active"))
		assert.Equal(t, "page", dom.Attr(links[0], "aria-current"))
		assert.False(t, dom.HasClass(links[1], "active"))
	})

	t.Run("page override wins", func(t *testing.T) {
		doc := parse(t, `<html><body>
<script type="application/json" id="wiki-sidebar-data">[{"label":"Local","links":[{"text":"Here","url":"rome.html"}]}]</script>
<p>x</p></body></html>`)
		out := New(testConfig(), testNav, nil).Apply(doc, romePage)
		assert.Equal(t, SidebarOverride, out.SidebarSource)
		link := dom.ByTag(dom.ByID(doc, SidebarID), "a")
		assert.Equal(t, "rome.html", dom.Attr(link, "href"))
		assert.True(t, dom.HasClass(link, "active"))
	})

	t.Run("malformed override falls back", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		doc := parse(t, `<html><body><script type="application/json" id="wiki-sidebar-data">{oops</script></body></html>`)
		out := New(testConfig(), testNav, zap.New(core)).Apply(doc, romePage)
		assert.Equal(t, SidebarNavigation, out.SidebarSource)
		assert.Equal(t, 1, logs.FilterMessage("ignoring page sidebar override").Len())
	})

	t.Run("placeholder", func(t *testing.T) {
		doc := parse(t, `<html><body><p>x</p></body></html>`)
		out := New(testConfig(), nil, nil).Apply(doc, Page{RelPath: "lonely.html"})
		assert.Equal(t, SidebarPlaceholder, out.SidebarSource)
		assert.Equal(t, NoSidebarText, dom.Text(dom.ByID(doc, SidebarID)))
	})
}

func TestLinkMatches(t *testing.T) {
	tests := []struct {
		mode    config.LinkMatch
		href    string
		relPath string
		want    bool
	}{
		{config.MatchBasename, "../history/rome.html", "history/rome.html", true},
		{config.MatchBasename, "../travel/rome.html", "history/rome.html", true},
		{config.MatchBasename, "greece.html", "history/rome.html", false},
		{config.MatchBasename, "rome.html#origins", "history/rome.html", true},
		{config.MatchBasename, "https://x.org/rome.html", "history/rome.html", false},
		{config.MatchBasename, "#top", "history/rome.html", false},
		{config.MatchPath, "../history/rome.html", "history/rome.html", true},
		{config.MatchPath, "../travel/rome.html", "history/rome.html", false},
		{config.MatchPath, "rome.html", "history/rome.html", true},
		{config.MatchPath, "/history/rome.html", "history/rome.html", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LinkMatches(tt.mode, tt.href, tt.relPath), "%s %s", tt.mode, tt.href)
	}
}

func TestTOCIntegration(t *testing.T) {
	doc := parse(t, article)
	out := New(testConfig(), testNav, nil).Apply(doc, romePage)

	require.Len(t, out.TOC, 3)
	assert.True(t, out.TOCRendered)
	assert.Equal(t, "Origins", out.TOC[0].Text)

	inline := dom.First(dom.First(doc, dom.HasClassMatcher("wiki-toc-inline")), dom.HasClassMatcher("wiki-toc"))
	require.NotNil(t, inline)
	assert.Len(t, dom.FindAll(inline, dom.IsTag("a")), 3)

	side := dom.First(dom.ByID(doc, TOCPanelID), dom.HasClassMatcher("toc-side"))
	require.NotNil(t, side)
	assert.Equal(t, "-20% 0px -30% 0px", dom.Attr(side, "data-spy-margin"))

	h := dom.ByID(doc, out.TOC[0].ID)
	require.NotNil(t, h)
	assert.NotNil(t, dom.First(h, dom.HasClassMatcher("heading-anchor")))
}

func TestTOCSuppressedBelowThreshold(t *testing.T) {
	doc := parse(t, `<html><body><div class="wiki-toc-inline"></div><h2>A</h2><h2>B</h2></body></html>`)
	out := New(testConfig(), nil, nil).Apply(doc, Page{RelPath: "a.html"})
	assert.Len(t, out.TOC, 2)
	assert.False(t, out.TOCRendered)
	assert.Nil(t, dom.First(doc, dom.HasClassMatcher("wiki-toc")))
	assert.Nil(t, dom.First(doc, dom.HasClassMatcher("toc-side")))
	assert.True(t, dom.HasAttr(dom.ByID(doc, TOCPanelID), "hidden"))
}

func TestWidgets(t *testing.T) {
	doc := parse(t, article)
	New(testConfig(), testNav, nil).Apply(doc, romePage)

	tabs := dom.FindAll(doc, dom.HasClassMatcher("tab"))
	require.Len(t, tabs, 2)
	assert.True(t, dom.HasClass(tabs[0], "active"))
	assert.False(t, dom.HasClass(tabs[1], "active"))
	panels := dom.FindAll(doc, dom.HasClassMatcher("tab-panel"))
	assert.True(t, dom.HasClass(panels[0], "active"))
	assert.False(t, dom.HasClass(panels[1], "active"))

	coll := dom.First(doc, dom.HasClassMatcher("collapsible"))
	assert.Len(t, dom.FindAll(coll, dom.HasClassMatcher("collapsible-icon")), 1)
	assert.Equal(t, "false", dom.Attr(coll, "aria-expanded"))

	img := dom.First(doc, dom.IsTag("img"))
	assert.Equal(t, "forum.jpg", dom.Attr(img, "data-lightbox"))
	assert.NotNil(t, dom.ByID(doc, LightboxID))

	assert.Equal(t, "light", dom.Attr(dom.ByTag(doc, "html"), "data-theme"))
}

func TestWidgetsAbsentAreNoOps(t *testing.T) {
	doc := parse(t, `<html><body><p>plain</p></body></html>`)
	New(testConfig(), nil, nil).Apply(doc, Page{RelPath: "a.html"})
	assert.Nil(t, dom.ByID(doc, LightboxID))
	assert.Nil(t, dom.First(doc, dom.HasClassMatcher("collapsible-icon")))
}

func TestExternalLinks(t *testing.T) {
	doc := parse(t, article)
	New(testConfig(), testNav, nil).Apply(doc, romePage)
	New(testConfig(), testNav, nil).Apply(doc, romePage)

	var wiki, own *html.Node
	for _, a := range dom.FindAll(doc, dom.IsTag("a")) {
		switch dom.Attr(a, "href") {
		case "https://en.wikipedia.org/wiki/Rome":
			wiki = a
		case "https://wiki.example.org/other.html":
			own = a
		}
	}
	require.NotNil(t, wiki)
	require.NotNil(t, own)

	assert.Equal(t, "_blank", dom.Attr(wiki, "target"))
	assert.Equal(t, "noopener noreferrer", dom.Attr(wiki, "rel"))
	assert.True(t, dom.HasClass(wiki, "external"))
	assert.Len(t, dom.FindAll(wiki, dom.HasClassMatcher("external-indicator")), 1)

	assert.False(t, dom.HasAttr(own, "target"))
	assert.False(t, dom.HasClass(own, "external"))
}

func TestHeadAssets(t *testing.T) {
	doc := parse(t, article)
	b := New(testConfig(), testNav, nil)
	b.Apply(doc, romePage)
	b.Apply(doc, Page{RelPath: romePage.RelPath, BasePath: "../", BuildID: "b2"})

	head := dom.Head(doc)
	assert.Equal(t, "../wikikit.css?v=b1", dom.Attr(dom.ByID(head, "wikikit-css"), "href"))
	assert.Equal(t, "b2", dom.MetaContent(doc, "wikikit-build"))
	assert.Equal(t, "../", dom.MetaContent(doc, "wikikit-base"))
	assert.Equal(t, 1, countID(doc, "wikikit-theme-init"))
	assert.Contains(t, dom.Text(dom.ByID(head, "wikikit-theme-init")), ThemeStorageKey)
}

func TestInlineCatalog(t *testing.T) {
	doc := parse(t, `<html><body><p>x</p></body></html>`)
	page := Page{RelPath: "a.html", InlineCatalog: `[{"title":"A","url":"a.html"}]`}
	b := New(testConfig(), nil, nil)
	b.Apply(doc, page)
	b.Apply(doc, page)
	require.Equal(t, 1, countID(doc, InlineCatalogID))
	assert.Equal(t, page.InlineCatalog, dom.Text(dom.ByID(doc, InlineCatalogID)))
}

type recordingMath struct{ calls int }

func (r *recordingMath) Name() string { return "recording" }

func (r *recordingMath) Apply(*html.Node) { r.calls++ }

func TestEmbedsRunLast(t *testing.T) {
	math := &recordingMath{}
	b := New(testConfig(), testNav, nil, WithEmbeds(math, embed.StaticGraph{}))
	doc := parse(t, article)
	out := b.Apply(doc, romePage)

	assert.Equal(t, 1, math.calls)
	assert.Equal(t, embed.Report{Rendered: 1}, out.Graphs)
	fallback := dom.First(doc, dom.HasClassMatcher("wiki-graph-fallback"))
	require.NotNil(t, fallback)
	assert.False(t, dom.HasClass(fallback, "external"), "graph embeds keep their own links")
}

func TestNoBody(t *testing.T) {
	doc := &html.Node{Type: html.DocumentNode}
	assert.NotPanics(t, func() {
		New(nil, nil, nil).Apply(doc, Page{})
	})
}
