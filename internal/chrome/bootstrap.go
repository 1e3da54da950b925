// Package chrome assembles the wiki page around an article: header, sidebar,
// layout wrapper, footer, tables of contents and the interactive widgets.
//
// Every construction step first looks for its target element and leaves an
// existing one untouched, so Apply can run any number of times on the same
// document.
package chrome

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/dom"
	"github.com/ziadkadry99/wikikit/internal/embed"
	"github.com/ziadkadry99/wikikit/internal/logging"
	"github.com/ziadkadry99/wikikit/internal/scrollspy"
	"github.com/ziadkadry99/wikikit/internal/search"
	"github.com/ziadkadry99/wikikit/internal/toc"
)

// Element ids owned by the bootstrap.
const (
	HeaderID        = "wiki-header"
	LayoutID        = "wiki-layout"
	MainID          = "wiki-main"
	SidebarID       = "wiki-sidebar"
	OverlayID       = "wiki-sidebar-overlay"
	TOCPanelID      = "wiki-toc-panel"
	FooterID        = "wiki-footer"
	LightboxID      = "wiki-lightbox"
	SearchInputID   = "wiki-search-input"
	SearchResultsID = "wiki-search-results"
	ThemeToggleID   = "wiki-theme-toggle"
	MenuToggleID    = "wiki-menu-toggle"

	// InlineCatalogID holds the page catalog for when search-index.json
	// cannot be fetched.
	InlineCatalogID = "wiki-pages-data"

	// ThemeStorageKey is the localStorage key of the theme preference.
	ThemeStorageKey = "wikikit-theme"

	// NoSidebarText is shown when a page has neither an override nor a
	// navigation entry.
	NoSidebarText = "No sidebar defined for this page."
)

// Page describes the document being bootstrapped.
type Page struct {
	// RelPath is the site-relative output path, e.g. "history/rome.html".
	RelPath string
	// BasePath leads from the page back to the site root, e.g. "../".
	BasePath string
	BuildID  string
	// InlineCatalog is the JSON page catalog embedded into the page, if any.
	InlineCatalog string
}

// Outcome reports what Apply did.
type Outcome struct {
	TOC           []toc.Entry
	TOCRendered   bool
	SidebarSource string
	Graphs        embed.Report
}

// Sidebar sources reported in Outcome.
const (
	SidebarOverride    = "page"
	SidebarNavigation  = "navigation"
	SidebarPlaceholder = "placeholder"
	SidebarExisting    = "existing"
)

// Bootstrap applies the page chrome. It holds only read-only state and is
// safe to share between goroutines.
type Bootstrap struct {
	cfg      *config.Config
	nav      catalog.Navigation
	math     embed.MathRenderer
	graph    embed.GraphRenderer
	band     scrollspy.Band
	siteHost string
	logger   *zap.Logger
}

// Option configures a Bootstrap.
type Option func(*Bootstrap)

// WithEmbeds overrides the adapters chosen from configuration.
func WithEmbeds(math embed.MathRenderer, graph embed.GraphRenderer) Option {
	return func(b *Bootstrap) {
		b.math = math
		b.graph = graph
	}
}

// WithBand overrides the scroll-spy trigger band.
func WithBand(band scrollspy.Band) Option {
	return func(b *Bootstrap) { b.band = band }
}

// New returns a bootstrap for cfg and the navigation catalog.
func New(cfg *config.Config, nav catalog.Navigation, logger *zap.Logger, opts ...Option) *Bootstrap {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger = logging.OrNop(logger)
	b := &Bootstrap{cfg: cfg, nav: nav, band: scrollspy.DefaultBand(), logger: logger}
	if u, err := url.Parse(cfg.Site.BaseURL); err == nil {
		b.siteHost = strings.ToLower(u.Host)
	}
	b.math, b.graph = embed.Select(cfg.Embeds, logger)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Apply bootstraps doc in place.
func (b *Bootstrap) Apply(doc *html.Node, page Page) Outcome {
	var out Outcome

	b.ensureTheme(doc)
	b.ensureHead(doc, page)

	body := dom.Body(doc)
	if body == nil {
		b.logger.Warn("document has no body, skipping chrome", zap.String("page", page.RelPath))
		return out
	}

	layout := b.ensureLayout(body)
	content := dom.ByID(layout, MainID)
	out.SidebarSource = b.ensureSidebar(doc, layout, page)
	b.markActive(doc, page)
	b.ensureOverlay(layout)
	b.ensureHeader(body, page)
	b.ensureFooter(body)
	b.ensureInlineCatalog(body, page)

	out.TOC, out.TOCRendered = b.applyTOC(doc, content)

	initTabs(content)
	initCollapsibles(content)
	initLightbox(body, content)
	b.decorateExternalLinks(body)

	b.math.Apply(doc)
	out.Graphs = b.graph.Apply(doc)
	return out
}

func (b *Bootstrap) ensureTheme(doc *html.Node) {
	root := dom.ByTag(doc, "html")
	if root == nil {
		return
	}
	if !dom.HasAttr(root, "data-theme") {
		theme := b.cfg.Site.DefaultTheme
		if theme == "" {
			theme = config.ThemeLight
		}
		dom.SetAttr(root, "data-theme", string(theme))
	}
	if !dom.HasAttr(root, "lang") {
		dom.SetAttr(root, "lang", "en")
	}
}

// ensureLayout wraps the body content into the three-column layout.
func (b *Bootstrap) ensureLayout(body *html.Node) *html.Node {
	if layout := dom.ByID(body, LayoutID); layout != nil {
		if dom.ByID(layout, MainID) == nil {
			main := dom.Element("main", "id", MainID, "class", "wiki-main")
			dom.Append(layout, main)
		}
		return layout
	}

	main := dom.Element("main", "id", MainID, "class", "wiki-main")
	for _, c := range dom.Children(body) {
		if id := dom.Attr(c, "id"); id == HeaderID || id == FooterID {
			continue
		}
		dom.Append(main, c)
	}

	layout := dom.Element("div", "id", LayoutID, "class", "wiki-layout")
	dom.Append(layout, main)
	if footer := dom.ByID(body, FooterID); footer != nil {
		body.InsertBefore(layout, footer)
	} else {
		dom.Append(body, layout)
	}
	return layout
}

func (b *Bootstrap) ensureOverlay(layout *html.Node) {
	if dom.ByID(layout, OverlayID) != nil {
		return
	}
	dom.Append(layout, dom.Element("div", "id", OverlayID, "class", "wiki-sidebar-overlay", "hidden", ""))
}

func (b *Bootstrap) ensureHeader(body *html.Node, page Page) {
	if dom.ByID(body, HeaderID) != nil {
		return
	}
	header := dom.Element("header", "id", HeaderID, "class", "wiki-header")

	menu := dom.Element("button", "id", MenuToggleID, "class", "wiki-menu-toggle", "type", "button",
		"aria-label", "Toggle navigation", "aria-controls", SidebarID, "aria-expanded", "false")
	dom.Append(menu, dom.TextNode("☰"))

	brand := dom.Element("a", "class", "wiki-brand", "href", page.BasePath+"index.html")
	dom.Append(brand, dom.TextNode(b.cfg.Site.Title))

	box := dom.Element("div", "class", "wiki-search", "role", "search")
	input := dom.Element("input", "id", SearchInputID, "type", "search", "placeholder", "Search…",
		"autocomplete", "off", "aria-label", "Search pages", "aria-controls", SearchResultsID)
	results := dom.Element("div", "id", SearchResultsID, "class", "wiki-search-results", "hidden", "")
	var placeholder strings.Builder
	_ = search.HTMLRenderer{}.Render(&placeholder, search.Result{State: search.StatePrompt})
	if nodes, err := dom.ParseFragment(placeholder.String()); err == nil {
		dom.Append(results, nodes...)
	}
	dom.Append(box, input, results)

	theme := dom.Element("button", "id", ThemeToggleID, "class", "wiki-theme-toggle", "type", "button",
		"aria-label", "Toggle theme", "data-storage-key", ThemeStorageKey)
	dom.Append(theme, dom.TextNode("◐"))

	dom.Append(header, menu, brand, box, theme)
	dom.Prepend(body, header)
}

func (b *Bootstrap) ensureFooter(body *html.Node) {
	if dom.ByID(body, FooterID) != nil {
		return
	}
	footer := dom.Element("footer", "id", FooterID, "class", "wiki-footer")
	p := dom.Element("p")
	dom.Append(p, dom.TextNode(b.cfg.Site.Footer))
	dom.Append(footer, p)
	dom.Append(body, footer)
}

func (b *Bootstrap) ensureInlineCatalog(body *html.Node, page Page) {
	if page.InlineCatalog == "" || dom.ByID(body, InlineCatalogID) != nil {
		return
	}
	block := dom.Element("script", "type", "application/json", "id", InlineCatalogID)
	dom.Append(block, dom.TextNode(page.InlineCatalog))
	dom.Append(body, block)
}

func (b *Bootstrap) applyTOC(doc, content *html.Node) ([]toc.Entry, bool) {
	if content == nil {
		return nil, false
	}
	entries := toc.Extract(content)
	toc.AddAnchors(content, entries)

	opts := toc.Options{MinHeadings: b.cfg.TOC.MinHeadings, Title: b.cfg.TOC.Title}
	rendered := false

	for _, slot := range dom.FindAll(content, dom.HasClassMatcher("wiki-toc-inline")) {
		if dom.First(slot, dom.HasClassMatcher("wiki-toc")) != nil {
			rendered = true
			continue
		}
		if n := toc.Render(entries, opts); n != nil {
			dom.Append(slot, n)
			rendered = true
		}
	}

	panel := dom.ByID(doc, TOCPanelID)
	if panel == nil {
		layout := dom.ByID(doc, LayoutID)
		panel = dom.Element("aside", "id", TOCPanelID, "class", "wiki-toc-panel")
		dom.Append(layout, panel)
	}
	if dom.First(panel, dom.HasClassMatcher("toc-side")) != nil {
		return entries, true
	}
	side := opts
	side.Variant = toc.Side
	side.SpyMargin = b.band.RootMargin()
	if n := toc.Render(entries, side); n != nil {
		dom.Append(panel, n)
		dom.RemoveAttr(panel, "hidden")
		rendered = true
	} else {
		dom.SetAttr(panel, "hidden", "")
	}
	return entries, rendered
}
