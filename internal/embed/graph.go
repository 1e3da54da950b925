package embed

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/dom"
	"github.com/ziadkadry99/wikikit/internal/logging"
)

const (
	// GraphClass marks a graph embed container.
	GraphClass = "wiki-graph"

	desmosScript     = "https://www.desmos.com/api/v1.9/calculator.js"
	desmosCalculator = "https://www.desmos.com/calculator"
)

// Expression is one plotted expression.
type Expression struct {
	Expression string `json:"expression"`
	Color      string `json:"color,omitempty"`
}

var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseExpressions decodes the data-expressions attribute of an embed.
func ParseExpressions(raw string) ([]Expression, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("no expressions")
	}
	var exprs []Expression
	if err := json.Unmarshal([]byte(raw), &exprs); err != nil {
		return nil, fmt.Errorf("decoding expressions: %w", err)
	}
	if len(exprs) == 0 {
		return nil, errors.New("empty expression list")
	}
	for i := range exprs {
		exprs[i].Expression = strings.TrimSpace(exprs[i].Expression)
		exprs[i].Color = strings.TrimSpace(exprs[i].Color)
		if exprs[i].Expression == "" {
			return nil, fmt.Errorf("expression %d is empty", i)
		}
		if exprs[i].Color != "" && !colorRe.MatchString(exprs[i].Color) {
			return nil, fmt.Errorf("expression %d: invalid color %q", i, exprs[i].Color)
		}
	}
	return exprs, nil
}

// prepare validates every embed and calls fn for the valid ones. Malformed
// embeds are logged, marked with data-graph-error and skipped.
func prepare(doc *html.Node, logger *zap.Logger, fn func(n *html.Node, exprs []Expression)) Report {
	var rep Report
	for _, n := range dom.FindAll(doc, dom.HasClassMatcher(GraphClass)) {
		exprs, err := ParseExpressions(dom.Attr(n, "data-expressions"))
		if err != nil {
			logger.Warn("skipping graph embed", zap.String("id", dom.Attr(n, "id")), zap.Error(err))
			dom.SetAttr(n, "data-graph-error", err.Error())
			rep.Skipped++
			continue
		}
		dom.RemoveAttr(n, "data-graph-error")
		fn(n, exprs)
		rep.Rendered++
	}
	return rep
}

func fallbackLink(exprs []Expression) *html.Node {
	labels := make([]string, len(exprs))
	for i, e := range exprs {
		labels[i] = e.Expression
	}
	a := dom.Element("a", "class", "wiki-graph-fallback", "href", desmosCalculator, "target", "_blank", "rel", "noopener noreferrer")
	dom.Append(a, dom.TextNode("Open graph: "+strings.Join(labels, ", ")))
	return a
}

// Desmos hands each embed's expressions to the Desmos calculator in the
// browser. Every embed keeps a fallback link, which the runtime script
// replaces once the library has loaded.
type Desmos struct {
	APIKey string
	logger *zap.Logger
}

func (Desmos) Name() string { return "desmos" }

func (d Desmos) Apply(doc *html.Node) Report {
	rep := prepare(doc, logging.OrNop(d.logger), func(n *html.Node, exprs []Expression) {
		payload, _ := json.Marshal(exprs)
		dom.SetAttr(n, "data-graph", string(payload))
		if dom.First(n, dom.HasClassMatcher("wiki-graph-fallback")) == nil {
			dom.RemoveChildren(n)
			dom.Append(n, fallbackLink(exprs))
		}
	})
	if rep.Rendered > 0 {
		src := desmosScript
		if d.APIKey != "" {
			src += "?apiKey=" + url.QueryEscape(d.APIKey)
		}
		ensureHead(doc, scriptTag("desmos-js", src, "async", ""))
	}
	return rep
}

// StaticGraph replaces every embed with a link to the Desmos calculator.
type StaticGraph struct {
	logger *zap.Logger
}

func (StaticGraph) Name() string { return "static" }

func (s StaticGraph) Apply(doc *html.Node) Report {
	return prepare(doc, logging.OrNop(s.logger), func(n *html.Node, exprs []Expression) {
		dom.RemoveAttr(n, "data-graph")
		dom.RemoveChildren(n)
		dom.Append(n, fallbackLink(exprs))
	})
}
