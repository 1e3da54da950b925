// Package embed wires third-party math typesetting and graphing into built
// pages. Each capability has a live adapter that loads the library in the
// browser and a static adapter that leaves a usable page without it; the
// adapter is chosen once from configuration.
package embed

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/dom"
	"github.com/ziadkadry99/wikikit/internal/logging"
)

// MathRenderer prepares a document for math typesetting.
type MathRenderer interface {
	Name() string
	Apply(doc *html.Node)
}

// GraphRenderer prepares the graph embeds of a document and reports how many
// were prepared and skipped.
type GraphRenderer interface {
	Name() string
	Apply(doc *html.Node) Report
}

// Report summarises one GraphRenderer.Apply call.
type Report struct {
	Rendered int
	Skipped  int
}

// Select returns the adapters named by cfg. Unknown or "none" names select
// the static adapters.
func Select(cfg config.EmbedsConfig, logger *zap.Logger) (MathRenderer, GraphRenderer) {
	logger = logging.OrNop(logger)

	var math MathRenderer = NoMath{}
	if cfg.Math == config.MathKaTeX {
		math = KaTeX{}
	}

	var graph GraphRenderer = StaticGraph{logger: logger}
	if cfg.Graph == config.GraphDesmos {
		graph = Desmos{APIKey: cfg.DesmosAPIKey, logger: logger}
	}

	logger.Debug("embed adapters selected", zap.String("math", math.Name()), zap.String("graph", graph.Name()))
	return math, graph
}

// ensureHead appends n to <head> unless an element with its id is already
// present.
func ensureHead(doc *html.Node, n *html.Node) bool {
	head := dom.Head(doc)
	if head == nil {
		return false
	}
	if id := dom.Attr(n, "id"); id != "" && dom.ByID(doc, id) != nil {
		return false
	}
	dom.Append(head, n)
	return true
}

func scriptTag(id, src string, attrs ...string) *html.Node {
	return dom.Element("script", append([]string{"id", id, "src", src}, attrs...)...)
}

func jsonBlock(id, payload string) *html.Node {
	n := dom.Element("script", "type", "application/json", "id", id)
	dom.Append(n, dom.TextNode(payload))
	return n
}
