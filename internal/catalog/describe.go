package catalog

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/dom"
)

// SidebarOverrideID is the id of the page-local sidebar JSON block.
const SidebarOverrideID = "wiki-sidebar-data"

// Describe derives a PageDescriptor from a parsed article: the <title> (or
// first <h1>), <meta name="description"> and the comma separated
// <meta name="keywords">.
func Describe(doc *html.Node, url string) PageDescriptor {
	title := strings.TrimSpace(dom.Text(dom.ByTag(doc, "title")))
	if title == "" {
		title = strings.TrimSpace(dom.Text(dom.ByTag(doc, "h1")))
	}
	if title == "" {
		title = strings.TrimSuffix(path.Base(url), path.Ext(url))
	}

	var tags []string
	for _, kw := range strings.Split(dom.MetaContent(doc, "keywords"), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			tags = append(tags, kw)
		}
	}

	return PageDescriptor{
		Title: strings.Join(strings.Fields(title), " "),
		URL:   url,
		Desc:  dom.MetaContent(doc, "description"),
		Tags:  tags,
	}
}

// PageLocalSidebar reads the sidebar override embedded in an article as
// <script type="application/json" id="wiki-sidebar-data">. It returns
// (nil, nil) when the page has none.
func PageLocalSidebar(doc *html.Node) ([]SidebarSection, error) {
	block := dom.ByID(doc, SidebarOverrideID)
	if block == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(dom.Text(block))
	if raw == "" {
		return nil, nil
	}
	var sections []SidebarSection
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, fmt.Errorf("%w: page sidebar: %v", ErrInvalidCatalog, err)
	}
	return sections, nil
}

// PageArea picks the navigation area of an article: <meta name="wiki-area">,
// else the first directory of its site-relative path, else defaultArea.
func PageArea(doc *html.Node, relPath, defaultArea string) string {
	if area := dom.MetaContent(doc, "wiki-area"); area != "" {
		return area
	}
	relPath = strings.TrimPrefix(relPath, "/")
	if i := strings.Index(relPath, "/"); i > 0 {
		return relPath[:i]
	}
	return defaultArea
}
