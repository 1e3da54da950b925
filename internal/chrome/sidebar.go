package chrome

import (
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/dom"
)

// ensureSidebar builds #wiki-sidebar from, in order, the page-local override,
// the navigation catalog for the page's area, or a placeholder. It returns
// the source used.
func (b *Bootstrap) ensureSidebar(doc, layout *html.Node, page Page) string {
	if dom.ByID(doc, SidebarID) != nil {
		return SidebarExisting
	}
	aside := dom.Element("nav", "id", SidebarID, "class", "wiki-sidebar", "aria-label", "Site navigation")
	dom.Prepend(layout, aside)

	sections, err := catalog.PageLocalSidebar(doc)
	if err != nil {
		b.logger.Warn("ignoring page sidebar override", zap.String("page", page.RelPath), zap.Error(err))
	}
	if len(sections) > 0 {
		renderSections(aside, sections, "")
		return SidebarOverride
	}

	area := catalog.PageArea(doc, page.RelPath, b.cfg.Sidebar.DefaultArea)
	if sections = b.nav.Sections(area); len(sections) == 0 && area != b.cfg.Sidebar.DefaultArea {
		sections = b.nav.Sections(b.cfg.Sidebar.DefaultArea)
	}
	if len(sections) > 0 {
		renderSections(aside, sections, page.BasePath)
		return SidebarNavigation
	}

	p := dom.Element("p", "class", "sidebar-empty")
	dom.Append(p, dom.TextNode(NoSidebarText))
	dom.Append(aside, p)
	return SidebarPlaceholder
}

// renderSections writes sections into parent. Site-relative link targets are
// prefixed with base.
func renderSections(parent *html.Node, sections []catalog.SidebarSection, base string) {
	for _, s := range sections {
		section := dom.Element("div", "class", "sidebar-section")
		if s.Label != "" {
			label := dom.Element("div", "class", "sidebar-label")
			dom.Append(label, dom.TextNode(s.Label))
			dom.Append(section, label)
		}
		ul := dom.Element("ul")
		for _, l := range s.Links {
			a := dom.Element("a", "href", prefixRelative(base, l.URL))
			dom.Append(a, dom.TextNode(l.Text))
			li := dom.Element("li")
			dom.Append(li, a)
			dom.Append(ul, li)
		}
		dom.Append(section, ul)
		dom.Append(parent, section)
	}
}

func prefixRelative(base, target string) string {
	if base == "" || target == "" || isAbsolute(target) || strings.HasPrefix(target, "/") || strings.HasPrefix(target, "#") {
		return target
	}
	return base + target
}

func isAbsolute(target string) bool {
	u, err := url.Parse(target)
	return err == nil && u.Scheme != ""
}

// markActive flags sidebar links pointing at the current page.
func (b *Bootstrap) markActive(doc *html.Node, page Page) {
	sidebar := dom.ByID(doc, SidebarID)
	if sidebar == nil {
		return
	}
	for _, a := range dom.FindAll(sidebar, dom.IsTag("a")) {
		if LinkMatches(b.cfg.Sidebar.Match, dom.Attr(a, "href"), page.RelPath) {
			dom.AddClass(a, "active")
			dom.SetAttr(a, "aria-current", "page")
		}
	}
}

// LinkMatches reports whether href, as written on the page at relPath,
// targets that page. MatchBasename compares file names only, so equal names
// in different directories both match; MatchPath resolves href against the
// page's directory and compares full paths.
func LinkMatches(mode config.LinkMatch, href, relPath string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return false
	}
	target := u.Path
	current := strings.TrimPrefix(relPath, "/")

	if mode == config.MatchPath {
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(path.Clean(target), "/")
		} else {
			target = path.Join(path.Dir(current), target)
		}
		return target == path.Clean(current)
	}
	return path.Base(target) == path.Base(current)
}
