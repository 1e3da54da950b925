package chrome

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/dom"
	"github.com/ziadkadry99/wikikit/internal/embed"
)

// initTabs activates the first tab and panel of every .wiki-tabs group and
// clears the rest.
func initTabs(root *html.Node) {
	for _, group := range dom.FindAll(root, dom.HasClassMatcher("wiki-tabs")) {
		tabs := dom.FindAll(group, dom.HasClassMatcher("tab"))
		panels := dom.FindAll(group, dom.HasClassMatcher("tab-panel"))
		for i, tab := range tabs {
			dom.SetAttr(tab, "role", "tab")
			dom.SetAttr(tab, "data-tab-index", strconv.Itoa(i))
			if tab.Data == "button" && !dom.HasAttr(tab, "type") {
				dom.SetAttr(tab, "type", "button")
			}
			setActive(tab, i == 0)
			dom.SetAttr(tab, "aria-selected", strconv.FormatBool(i == 0))
		}
		for i, panel := range panels {
			dom.SetAttr(panel, "role", "tabpanel")
			dom.SetAttr(panel, "data-tab-index", strconv.Itoa(i))
			setActive(panel, i == 0)
		}
	}
}

func setActive(n *html.Node, active bool) {
	if active {
		dom.AddClass(n, "active")
	} else {
		dom.RemoveClass(n, "active")
	}
}

// initCollapsibles gives every .collapsible one disclosure icon.
func initCollapsibles(root *html.Node) {
	for _, c := range dom.FindAll(root, dom.HasClassMatcher("collapsible")) {
		if !dom.HasAttr(c, "aria-expanded") {
			dom.SetAttr(c, "aria-expanded", strconv.FormatBool(dom.HasClass(c, "open")))
		}
		if dom.First(c, dom.HasClassMatcher("collapsible-icon")) != nil {
			continue
		}
		icon := dom.Element("span", "class", "collapsible-icon", "aria-hidden", "true")
		dom.Append(icon, dom.TextNode("▸"))
		dom.Prepend(c, icon)
	}
}

// initLightbox marks gallery and figure images as lightbox triggers and adds
// the shared overlay once when there is at least one.
func initLightbox(body, root *html.Node) {
	var images []*html.Node
	for _, container := range dom.FindAll(root, func(n *html.Node) bool {
		return n.Data == "figure" || dom.HasClass(n, "gallery")
	}) {
		images = append(images, dom.FindAll(container, dom.IsTag("img"))...)
	}
	if len(images) == 0 {
		return
	}
	for _, img := range images {
		full := dom.Attr(img, "data-full")
		if full == "" {
			full = dom.Attr(img, "src")
		}
		dom.SetAttr(img, "data-lightbox", full)
		dom.AddClass(img, "lightbox-trigger")
	}
	if dom.ByID(body, LightboxID) != nil {
		return
	}
	overlay := dom.Element("div", "id", LightboxID, "class", "wiki-lightbox", "hidden", "", "role", "dialog", "aria-modal", "true")
	dom.Append(overlay, dom.Element("img", "alt", ""))
	dom.Append(body, overlay)
}

// decorateExternalLinks marks links whose host differs from the site host to
// open in a new tab and appends one indicator glyph. Graph embeds own their
// markup and are left alone.
func (b *Bootstrap) decorateExternalLinks(root *html.Node) {
	var links []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if dom.HasClass(n, embed.GraphClass) {
			return false
		}
		if n.Data == "a" && b.isExternal(dom.Attr(n, "href")) {
			links = append(links, n)
		}
		return true
	})
	for _, a := range links {
		dom.SetAttr(a, "target", "_blank")
		dom.SetAttr(a, "rel", "noopener noreferrer")
		dom.AddClass(a, "external")
		if dom.First(a, dom.HasClassMatcher("external-indicator")) != nil {
			continue
		}
		glyph := dom.Element("span", "class", "external-indicator", "aria-hidden", "true")
		dom.Append(glyph, dom.TextNode("↗"))
		dom.Append(a, glyph)
	}
}

func (b *Bootstrap) isExternal(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return !strings.EqualFold(u.Host, b.siteHost)
}
