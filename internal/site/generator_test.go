package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/chrome"
	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/db"
	"github.com/ziadkadry99/wikikit/internal/dom"
)

// sampleWiki copies testdata/sample_wiki into a fresh directory and returns
// a config building it into a sibling output directory.
func sampleWiki(t *testing.T) *config.Config {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	src := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "sample_wiki")

	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	require.NoError(t, os.CopyFS(content, os.DirFS(src)))

	cfg := config.DefaultConfig()
	cfg.ContentDir = content
	cfg.OutputDir = filepath.Join(dir, "public")
	cfg.Build.Cache = false
	cfg.Build.CacheDir = filepath.Join(dir, ".wikikit")
	cfg.Site.BaseURL = "https://wiki.example.org/"
	return cfg
}

func newGenerator(t *testing.T, cfg *config.Config, opts ...Option) *Generator {
	t.Helper()
	g, err := New(cfg, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func readPage(t *testing.T, cfg *config.Config, rel string) *html.Node {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	doc, err := dom.Parse(data)
	require.NoError(t, err)
	return doc
}

func TestBuildSampleWiki(t *testing.T) {
	cfg := sampleWiki(t)
	res, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Pages)
	assert.Equal(t, 4, res.Rebuilt)
	assert.Equal(t, 1, res.Assets)
	assert.NotEmpty(t, res.BuildID)
	assert.Equal(t, 1, res.Graphs.Rendered)
	assert.Equal(t, 1, res.Graphs.Skipped)

	for _, rel := range []string{
		"index.html", "history/rome.html", "history/greece.html", "math/algebra.html",
		"img/forum.svg", chrome.IndexName, chrome.StylesheetName, chrome.ScriptName,
	} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
	}
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "drafts", "wip.html"), "gitignored drafts must not be built")
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "pages.json"))
}

func TestBuildWritesCatalogAsIndex(t *testing.T) {
	cfg := sampleWiki(t)
	res, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	want, err := catalog.LoadPages(filepath.Join(cfg.ContentDir, "pages.json"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, chrome.IndexName))
	require.NoError(t, err)
	var got []catalog.PageDescriptor
	require.NoError(t, json.Unmarshal(data, &got))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("search index mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, res.Catalog); diff != "" {
		t.Errorf("Result.Catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDescribesPagesWithoutCatalog(t *testing.T) {
	cfg := sampleWiki(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.ContentDir, "pages.json")))

	res, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	byURL := map[string]catalog.PageDescriptor{}
	for _, p := range res.Catalog {
		byURL[p.URL] = p
	}
	require.Len(t, byURL, 4)
	assert.Equal(t, "Greek History", byURL["history/greece.html"].Title)
	assert.Equal(t, []string{"history", "greece"}, byURL["history/greece.html"].Tags)
	assert.Equal(t, "Rise and fall of Rome.", byURL["history/rome.html"].Desc)
	assert.Equal(t, "Welcome", byURL["index.html"].Title)
}

func TestBuildPageChrome(t *testing.T) {
	cfg := sampleWiki(t)
	res, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	doc := readPage(t, cfg, "history/rome.html")

	for _, id := range []string{chrome.HeaderID, chrome.LayoutID, chrome.SidebarID, chrome.FooterID, chrome.TOCPanelID} {
		assert.Len(t, dom.FindAll(doc, func(n *html.Node) bool { return dom.Attr(n, "id") == id }), 1, id)
	}

	active := dom.First(dom.ByID(doc, chrome.SidebarID), dom.HasClassMatcher("active"))
	require.NotNil(t, active, "current page link should be active")
	assert.Equal(t, "../history/rome.html", dom.Attr(active, "href"))

	assert.Equal(t, res.BuildID, dom.MetaContent(doc, "wikikit-build"))
	assert.Equal(t, "../", dom.MetaContent(doc, "wikikit-base"))

	css := dom.ByID(doc, "wikikit-css")
	require.NotNil(t, css)
	assert.Equal(t, "../wikikit.css?v="+res.BuildID, dom.Attr(css, "href"))

	inline := dom.First(doc, dom.HasClassMatcher("wiki-toc-inline"))
	require.NotNil(t, inline)
	assert.NotNil(t, dom.First(inline, dom.HasClassMatcher("wiki-toc")), "inline TOC slot should be filled")

	ext := dom.First(doc, func(n *html.Node) bool {
		return n.Data == "a" && strings.HasPrefix(dom.Attr(n, "href"), "https://en.wikipedia.org")
	})
	require.NotNil(t, ext)
	assert.Equal(t, "_blank", dom.Attr(ext, "target"))
}

func TestBuildMarkdownArticle(t *testing.T) {
	cfg := sampleWiki(t)
	_, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	doc := readPage(t, cfg, "history/greece.html")
	assert.Equal(t, "Greek History", dom.Text(dom.ByTag(doc, "title")))
	assert.Equal(t, "history, greece", dom.MetaContent(doc, "keywords"))

	// goldmark heading ids are kept as anchors.
	assert.NotNil(t, dom.ByID(doc, "persian-wars"))
	side := dom.First(doc, dom.HasClassMatcher("toc-side"))
	require.NotNil(t, side)
	assert.Len(t, dom.FindAll(side, dom.IsTag("a")), 4)
}

func TestBuildMarkdownLinksAndFrontMatterSidebar(t *testing.T) {
	cfg := sampleWiki(t)
	page := `---
title: Links
sidebar:
  - label: Local
    links:
      - text: Greece
        url: history/greece.html
---
See [Greece](history/greece.md#archaic-period) and [Rome](history/rome.html).
`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, "links.md"), []byte(page), 0o644))

	res, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Pages)

	doc := readPage(t, cfg, "links.html")
	main := dom.ByID(doc, chrome.MainID)
	require.NotNil(t, main)
	var hrefs []string
	for _, a := range dom.FindAll(main, dom.IsTag("a")) {
		hrefs = append(hrefs, dom.Attr(a, "href"))
	}
	assert.Contains(t, hrefs, "history/greece.html#archaic-period")
	assert.Contains(t, hrefs, "history/rome.html")

	sidebar := dom.ByID(doc, chrome.SidebarID)
	require.NotNil(t, sidebar)
	assert.Contains(t, dom.Text(sidebar), "Local")
}

func TestBuildInlineCatalog(t *testing.T) {
	cfg := sampleWiki(t)
	cfg.Search.InlineCatalog = true
	_, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	block := dom.ByID(readPage(t, cfg, "index.html"), chrome.InlineCatalogID)
	require.NotNil(t, block)
	var pages []catalog.PageDescriptor
	require.NoError(t, json.Unmarshal([]byte(dom.Text(block)), &pages))
	assert.Len(t, pages, 4)
}

func TestBuildAutoNavigation(t *testing.T) {
	cfg := sampleWiki(t)
	cfg.Sidebar.AutoNav = true
	require.NoError(t, os.Remove(filepath.Join(cfg.ContentDir, "nav.yml")))

	_, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	sidebar := dom.ByID(readPage(t, cfg, "math/algebra.html"), chrome.SidebarID)
	require.NotNil(t, sidebar)
	text := dom.Text(sidebar)
	assert.Contains(t, text, "History")
	assert.Contains(t, text, "Algebra Basics")
	assert.NotContains(t, text, chrome.NoSidebarText)
}

func TestBuildWithoutNavigationShowsPlaceholder(t *testing.T) {
	cfg := sampleWiki(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.ContentDir, "nav.yml")))

	_, err := newGenerator(t, cfg).Build(context.Background())
	require.NoError(t, err)

	sidebar := dom.ByID(readPage(t, cfg, "index.html"), chrome.SidebarID)
	require.NotNil(t, sidebar)
	assert.Contains(t, dom.Text(sidebar), chrome.NoSidebarText)
}

func TestBuildIncremental(t *testing.T) {
	cfg := sampleWiki(t)
	cache, err := db.OpenMemory()
	require.NoError(t, err)
	defer cache.Close()

	g := newGenerator(t, cfg, WithCache(cache))
	ctx := context.Background()

	first, err := g.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Rebuilt)

	second, err := g.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, second.Pages)
	assert.Equal(t, 0, second.Rebuilt, "unchanged pages should come from the cache")

	greece := filepath.Join(cfg.ContentDir, "history", "greece.md")
	data, err := os.ReadFile(greece)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(greece, append(data, []byte("\n## Roman period\n")...), 0o644))

	third, err := g.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Rebuilt)

	require.NoError(t, os.Remove(greece))
	fourth, err := g.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fourth.Pages)
	assert.Equal(t, []string{"history/greece.html"}, fourth.Removed)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "history", "greece.html"))

	last, ok, err := cache.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fourth.BuildID, last.ID)
}

func TestBuildConfigChangeInvalidatesCache(t *testing.T) {
	cfg := sampleWiki(t)
	cache, err := db.OpenMemory()
	require.NoError(t, err)
	defer cache.Close()
	ctx := context.Background()

	_, err = newGenerator(t, cfg, WithCache(cache)).Build(ctx)
	require.NoError(t, err)

	cfg.Site.Footer = "Changed footer"
	res, err := newGenerator(t, cfg, WithCache(cache)).Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rebuilt)
}

func TestBuildNoArticles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ContentDir = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "public")
	cfg.Build.Cache = false

	_, err := newGenerator(t, cfg).Build(context.Background())
	assert.Error(t, err)
}

func TestBuildCancelled(t *testing.T) {
	cfg := sampleWiki(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newGenerator(t, cfg).Build(ctx)
	assert.Error(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.Limit = 0
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		rel, want string
	}{
		{"index.html", ""},
		{"history/rome.html", "../"},
		{"a/b/c.html", "../../"},
	}
	for _, tt := range tests {
		if got := basePath(tt.rel); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}
