package embed

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/dom"
)

const (
	katexVersion = "0.16.11"
	katexBase    = "https://cdn.jsdelivr.net/npm/katex@" + katexVersion + "/dist/"

	// MathConfigID is the id of the JSON block the runtime script passes to
	// the auto-render extension.
	MathConfigID = "wikikit-math-config"
)

// Delimiter is one math delimiter pair.
type Delimiter struct {
	Left    string `json:"left"`
	Right   string `json:"right"`
	Display bool   `json:"display"`
}

// MathOptions is the configuration handed to the typesetter.
type MathOptions struct {
	Delimiters   []Delimiter `json:"delimiters"`
	ThrowOnError bool        `json:"throwOnError"`
	Trust        bool        `json:"trust"`
}

// DefaultMathOptions never throws on malformed input and does not trust
// embedded markup escapes.
func DefaultMathOptions() MathOptions {
	return MathOptions{
		Delimiters: []Delimiter{
			{Left: "$$", Right: "$$", Display: true},
			{Left: `\[`, Right: `\]`, Display: true},
			{Left: `\(`, Right: `\)`, Display: false},
		},
		ThrowOnError: false,
		Trust:        false,
	}
}

// HasMath reports whether the body contains any default delimiter.
func HasMath(doc *html.Node) bool {
	body := dom.Body(doc)
	if body == nil {
		return false
	}
	found := false
	dom.Walk(body, func(n *html.Node) bool {
		if found {
			return false
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "code" || n.Data == "pre") {
			return false
		}
		if n.Type == html.TextNode {
			for _, d := range DefaultMathOptions().Delimiters {
				if strings.Contains(n.Data, d.Left) {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}

// KaTeX loads KaTeX and its auto-render extension on pages containing math.
type KaTeX struct{}

func (KaTeX) Name() string { return "katex" }

func (KaTeX) Apply(doc *html.Node) {
	if !HasMath(doc) {
		return
	}
	ensureHead(doc, dom.Element("link", "id", "katex-css", "rel", "stylesheet", "href", katexBase+"katex.min.css"))
	ensureHead(doc, scriptTag("katex-js", katexBase+"katex.min.js", "defer", ""))
	ensureHead(doc, scriptTag("katex-auto-render", katexBase+"contrib/auto-render.min.js", "defer", ""))

	payload, _ := json.Marshal(DefaultMathOptions())
	ensureHead(doc, jsonBlock(MathConfigID, string(payload)))
}

// NoMath leaves math source text as written.
type NoMath struct{}

func (NoMath) Name() string { return "none" }

func (NoMath) Apply(*html.Node) {}
