package chrome

import (
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/dom"
)

// Runtime asset names written next to the pages.
const (
	StylesheetName = "wikikit.css"
	ScriptName     = "wikikit.js"
	IndexName      = "search-index.json"
)

// themeInit applies the stored theme before first paint.
const themeInit = `(function(){try{var t=localStorage.getItem("` + ThemeStorageKey + `");if(t){document.documentElement.setAttribute("data-theme",t);}}catch(e){}})();`

// ensureHead adds the viewport, build and base metadata and the runtime
// assets once.
func (b *Bootstrap) ensureHead(doc *html.Node, page Page) {
	head := dom.Head(doc)
	if head == nil {
		return
	}

	if dom.First(head, func(n *html.Node) bool { return n.Data == "meta" && dom.HasAttr(n, "charset") }) == nil {
		dom.Prepend(head, dom.Element("meta", "charset", "utf-8"))
	}
	ensureMeta(head, "viewport", "width=device-width, initial-scale=1")
	ensureMeta(head, "wikikit-base", page.BasePath)
	if page.BuildID != "" {
		ensureMeta(head, "wikikit-build", page.BuildID)
	}

	if dom.ByID(head, "wikikit-theme-init") == nil {
		s := dom.Element("script", "id", "wikikit-theme-init")
		dom.Append(s, dom.TextNode(themeInit))
		dom.Append(head, s)
	}

	version := ""
	if page.BuildID != "" {
		version = "?v=" + page.BuildID
	}
	if dom.ByID(head, "wikikit-css") == nil {
		dom.Append(head, dom.Element("link", "id", "wikikit-css", "rel", "stylesheet", "href", page.BasePath+StylesheetName+version))
	}
	if dom.ByID(head, "wikikit-js") == nil {
		dom.Append(head, dom.Element("script", "id", "wikikit-js", "src", page.BasePath+ScriptName+version, "defer", ""))
	}
}

// ensureMeta sets <meta name=name content=content>, adding it if missing.
func ensureMeta(head *html.Node, name, content string) {
	meta := dom.First(head, func(n *html.Node) bool {
		return n.Data == "meta" && dom.Attr(n, "name") == name
	})
	if meta == nil {
		dom.Append(head, dom.Element("meta", "name", name, "content", content))
		return
	}
	if name == "viewport" {
		return
	}
	dom.SetAttr(meta, "content", content)
}
