// Package toc derives a table of contents from the h2–h4 headings of an
// article and renders it as a nested outline.
package toc

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/dom"
)

const (
	// DefaultMinHeadings is the number of headings below which no TOC is shown.
	DefaultMinHeadings = 3

	// AnchorClass marks the permalink added to each heading. Its text is not
	// part of the heading text.
	AnchorClass = "heading-anchor"
)

// Entry is one heading in document order.
type Entry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

var (
	citationRe  = regexp.MustCompile(`\s*\[[^\]]*\]`)
	nonWordRe   = regexp.MustCompile(`[^\w\s-]`)
	separatorRe = regexp.MustCompile(`[\s_-]+`)
)

// CleanText strips bracketed citation markers such as "[1]" and the
// whitespace around them.
func CleanText(s string) string {
	return strings.TrimSpace(citationRe.ReplaceAllString(s, ""))
}

// Slugify lower-cases s, drops non-word characters, collapses runs of
// whitespace, hyphens and underscores into one hyphen and trims hyphens.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func headingLevel(n *html.Node) int {
	switch n.Data {
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	}
	return 0
}

// Extract collects the h2–h4 headings under root in document order. A
// heading without an id gets slug(text)-index, where index is its position
// among the collected headings; existing ids are kept.
func Extract(root *html.Node) []Entry {
	headings := dom.FindAll(root, dom.IsTag("h2", "h3", "h4"))
	entries := make([]Entry, 0, len(headings))
	for i, h := range headings {
		text := CleanText(strings.Join(strings.Fields(headingText(h)), " "))
		id := strings.TrimSpace(dom.Attr(h, "id"))
		if id == "" {
			slug := Slugify(text)
			if slug == "" {
				slug = "section"
			}
			id = slug + "-" + strconv.Itoa(i)
			dom.SetAttr(h, "id", id)
		}
		entries = append(entries, Entry{ID: id, Text: text, Level: headingLevel(h)})
	}
	return entries
}

func headingText(h *html.Node) string {
	var b strings.Builder
	dom.Walk(h, func(n *html.Node) bool {
		if n.Type == html.ElementNode && dom.HasClass(n, AnchorClass) {
			return false
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

// AddAnchors appends a permalink to every heading under root that has an
// entry and no permalink yet.
func AddAnchors(root *html.Node, entries []Entry) {
	ids := make(map[string]bool, len(entries))
	for _, e := range entries {
		ids[e.ID] = true
	}
	for _, h := range dom.FindAll(root, dom.IsTag("h2", "h3", "h4")) {
		id := dom.Attr(h, "id")
		if !ids[id] || dom.First(h, dom.HasClassMatcher(AnchorClass)) != nil {
			continue
		}
		a := dom.Element("a", "class", AnchorClass, "href", "#"+id, "aria-label", "Link to this section")
		dom.Append(a, dom.TextNode("#"))
		dom.Append(h, a)
	}
}

// Node is one item of the nested outline. Gap nodes hold no entry; they
// carry children when a heading is more than one level deeper than the
// item before it.
type Node struct {
	Entry    Entry
	Gap      bool
	Children []*Node
}

// Build nests entries by walking them with the previous level starting at
// 2: a deeper level opens one list per level crossed, a shallower one closes
// as many, equal levels are siblings. Whatever is still open at the end is
// closed, so the outline is always balanced.
func Build(entries []Entry) []*Node {
	root := &Node{Gap: true}
	open := []*Node{root}
	prev := 2
	for _, e := range entries {
		for lvl := prev; lvl < e.Level; lvl++ {
			parent := open[len(open)-1]
			var owner *Node
			if n := len(parent.Children); n > 0 {
				owner = parent.Children[n-1]
			} else {
				owner = &Node{Gap: true}
				parent.Children = append(parent.Children, owner)
			}
			open = append(open, owner)
		}
		for lvl := e.Level; lvl < prev && len(open) > 1; lvl++ {
			open = open[:len(open)-1]
		}
		top := open[len(open)-1]
		top.Children = append(top.Children, &Node{Entry: e})
		prev = e.Level
	}
	return root.Children
}

// Variant selects one of the two renderings.
type Variant int

const (
	// Inline is the collapsible outline placed inside the article.
	Inline Variant = iota
	// Side is the persistent side-panel outline used by the scroll-spy.
	Side
)

// Options controls Render.
type Options struct {
	MinHeadings int
	Title       string
	Variant     Variant
	// SpyMargin is written to data-spy-margin on the side panel.
	SpyMargin string
}

// Render returns the outline element, or nil when there are fewer entries
// than MinHeadings.
func Render(entries []Entry, opts Options) *html.Node {
	threshold := opts.MinHeadings
	if threshold <= 0 {
		threshold = DefaultMinHeadings
	}
	if len(entries) < threshold {
		return nil
	}
	title := opts.Title
	if title == "" {
		title = "Contents"
	}

	list := renderList(Build(entries))
	dom.AddClass(list, "toc-list")

	if opts.Variant == Side {
		nav := dom.Element("nav", "class", "toc-side", "aria-label", title)
		if opts.SpyMargin != "" {
			dom.SetAttr(nav, "data-spy-margin", opts.SpyMargin)
		}
		heading := dom.Element("div", "class", "toc-title")
		dom.Append(heading, dom.TextNode(title))
		dom.Append(nav, heading, list)
		return nav
	}

	details := dom.Element("details", "class", "wiki-toc", "open", "")
	summary := dom.Element("summary")
	dom.Append(summary, dom.TextNode(title))
	dom.Append(details, summary, list)
	return details
}

func renderList(nodes []*Node) *html.Node {
	ul := dom.Element("ul")
	for _, n := range nodes {
		li := dom.Element("li")
		if n.Gap {
			dom.AddClass(li, "toc-gap")
		} else {
			dom.AddClass(li, "toc-level-"+strconv.Itoa(n.Entry.Level))
			a := dom.Element("a", "href", "#"+n.Entry.ID, "data-toc-target", n.Entry.ID)
			dom.Append(a, dom.TextNode(n.Entry.Text))
			dom.Append(li, a)
		}
		if len(n.Children) > 0 {
			dom.Append(li, renderList(n.Children))
		}
		dom.Append(ul, li)
	}
	return ul
}

// Count returns the number of entries in an outline.
func Count(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		if !n.Gap {
			total++
		}
		total += Count(n.Children)
	}
	return total
}
