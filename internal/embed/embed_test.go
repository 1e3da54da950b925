package embed

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/dom"
)

func parse(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := dom.Parse([]byte("<html><head></head><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return doc
}

func countIDs(doc *html.Node, id string) int {
	return len(dom.FindAll(doc, func(n *html.Node) bool { return dom.Attr(n, "id") == id }))
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.EmbedsConfig
		wantMath  string
		wantGraph string
	}{
		{"live", config.EmbedsConfig{Math: config.MathKaTeX, Graph: config.GraphDesmos}, "katex", "desmos"},
		{"none", config.EmbedsConfig{Math: config.EmbedNone, Graph: config.EmbedNone}, "none", "static"},
		{"unset", config.EmbedsConfig{}, "none", "static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, g := Select(tt.cfg, nil)
			assert.Equal(t, tt.wantMath, m.Name())
			assert.Equal(t, tt.wantGraph, g.Name())
		})
	}
}

func TestKaTeXInjectsOnce(t *testing.T) {
	doc := parse(t, `<p>Euler: \(e^{i\pi} + 1 = 0\)</p>`)
	KaTeX{}.Apply(doc)
	KaTeX{}.Apply(doc)

	assert.Equal(t, 1, countIDs(doc, "katex-js"))
	assert.Equal(t, 1, countIDs(doc, "katex-auto-render"))
	require.Equal(t, 1, countIDs(doc, MathConfigID))

	var opts MathOptions
	require.NoError(t, json.Unmarshal([]byte(dom.Text(dom.ByID(doc, MathConfigID))), &opts))
	assert.False(t, opts.ThrowOnError)
	assert.False(t, opts.Trust)
	assert.Len(t, opts.Delimiters, 3)
}

func TestKaTeXSkipsPagesWithoutMath(t *testing.T) {
	doc := parse(t, `<p>Costs $5.</p><pre>$$ not math $$</pre>`)
	KaTeX{}.Apply(doc)
	assert.Nil(t, dom.ByID(doc, "katex-js"))
}

func TestNoMathLeavesSource(t *testing.T) {
	doc := parse(t, `<p>$$x^2$$</p>`)
	before, _ := dom.Render(doc)
	NoMath{}.Apply(doc)
	after, _ := dom.Render(doc)
	assert.Equal(t, before, after)
}

func TestParseExpressions(t *testing.T) {
	exprs, err := ParseExpressions(`[{"expression":" y=x^2 ","color":"#c74440"},{"expression":"y=2x"}]`)
	require.NoError(t, err)
	assert.Equal(t, []Expression{{Expression: "y=x^2", Color: "#c74440"}, {Expression: "y=2x"}}, exprs)

	for name, raw := range map[string]string{
		"empty":       "",
		"not json":    "y=x",
		"empty list":  "[]",
		"blank expr":  `[{"expression":"  "}]`,
		"bad color":   `[{"expression":"y=x","color":"red"}]`,
		"wrong shape": `{"expression":"y=x"}`,
	} {
		_, err := ParseExpressions(raw)
		assert.Error(t, err, name)
	}
}

const graphs = `
<div class="wiki-graph" id="good" data-expressions='[{"expression":"y=x^2","color":"#2d70b3"}]'></div>
<div class="wiki-graph" id="bad" data-expressions='[{"expression":'></div>
<p id="after">still here</p>`

func TestDesmosMalformedEmbedSkipped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	doc := parse(t, graphs)

	rep := Desmos{logger: zap.New(core)}.Apply(doc)
	assert.Equal(t, Report{Rendered: 1, Skipped: 1}, rep)

	good := dom.ByID(doc, "good")
	assert.JSONEq(t, `[{"expression":"y=x^2","color":"#2d70b3"}]`, dom.Attr(good, "data-graph"))
	assert.NotNil(t, dom.First(good, dom.HasClassMatcher("wiki-graph-fallback")))

	bad := dom.ByID(doc, "bad")
	assert.True(t, dom.HasAttr(bad, "data-graph-error"))
	assert.False(t, dom.HasAttr(bad, "data-graph"))

	assert.Equal(t, "still here", dom.Text(dom.ByID(doc, "after")))
	assert.Equal(t, 1, logs.FilterMessage("skipping graph embed").Len())

	Desmos{logger: zap.New(core)}.Apply(doc)
	assert.Equal(t, 1, countIDs(doc, "desmos-js"))
	assert.Len(t, dom.FindAll(good, dom.HasClassMatcher("wiki-graph-fallback")), 1)
}

func TestDesmosAPIKey(t *testing.T) {
	doc := parse(t, graphs)
	Desmos{APIKey: "k&y"}.Apply(doc)
	src := dom.Attr(dom.ByID(doc, "desmos-js"), "src")
	assert.True(t, strings.HasSuffix(src, "?apiKey=k%26y"), src)
}

func TestDesmosWithoutEmbedsLoadsNothing(t *testing.T) {
	doc := parse(t, `<p>plain</p>`)
	assert.Equal(t, Report{}, Desmos{}.Apply(doc))
	assert.Nil(t, dom.ByID(doc, "desmos-js"))
}

func TestStaticGraph(t *testing.T) {
	doc := parse(t, graphs)
	rep := StaticGraph{}.Apply(doc)
	assert.Equal(t, Report{Rendered: 1, Skipped: 1}, rep)

	link := dom.First(dom.ByID(doc, "good"), dom.IsTag("a"))
	require.NotNil(t, link)
	assert.Equal(t, "Open graph: y=x^2", dom.Text(link))
	assert.Nil(t, dom.ByID(doc, "desmos-js"))
}
