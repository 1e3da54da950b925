package site

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/wikikit/internal/catalog"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantFM   FrontMatter
		wantBody string
	}{
		{
			name:     "none",
			src:      "# Title\n\nBody\n",
			wantBody: "# Title\n\nBody\n",
		},
		{
			name:     "list keywords",
			src:      "---\ntitle: Rome\nkeywords: [history, rome]\n---\n# Rome\n",
			wantFM:   FrontMatter{Title: "Rome", Keywords: keywordList{"history", "rome"}},
			wantBody: "# Rome\n",
		},
		{
			name:     "comma keywords and area",
			src:      "---\nkeywords: history,  rome ,\narea: history\n---\nText",
			wantFM:   FrontMatter{Keywords: keywordList{"history", "rome"}, Area: "history"},
			wantBody: "Text",
		},
		{
			name:     "windows line endings",
			src:      "---\r\ntitle: Crlf\r\n---\r\nBody",
			wantFM:   FrontMatter{Title: "Crlf"},
			wantBody: "Body",
		},
		{
			name:     "unterminated is body",
			src:      "---\ntitle: Open\n",
			wantBody: "---\ntitle: Open\n",
		},
		{
			name:     "thematic break is not front matter",
			src:      "----\ntext\n",
			wantBody: "----\ntext\n",
		},
		{
			name: "sidebar override",
			src:  "---\nsidebar:\n  - label: Local\n    links:\n      - text: A\n        url: a.html\n---\n",
			wantFM: FrontMatter{Sidebar: []catalog.SidebarSection{
				{Label: "Local", Links: []catalog.Link{{Text: "A", URL: "a.html"}}},
			}},
			wantBody: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := SplitFrontMatter([]byte(tt.src))
			if err != nil {
				t.Fatalf("SplitFrontMatter() error: %v", err)
			}
			if diff := cmp.Diff(tt.wantFM, fm); diff != "" {
				t.Errorf("front matter mismatch (-want +got):\n%s", diff)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestSplitFrontMatterInvalidYAML(t *testing.T) {
	if _, _, err := SplitFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
	if _, _, err := SplitFrontMatter([]byte("---\nkeywords: {a: b}\n---\n")); err == nil {
		t.Error("expected an error for a mapping as keywords")
	}
}

func TestExtractTitle(t *testing.T) {
	if got := extractTitle("intro\n# Heading One\n## Two", "a/b.md"); got != "Heading One" {
		t.Errorf("extractTitle() = %q, want Heading One", got)
	}
	if got := extractTitle("no heading here", "notes/setup.md"); got != "setup" {
		t.Errorf("extractTitle() fallback = %q, want setup", got)
	}
}
