package site

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/wikikit/internal/catalog"
)

// FrontMatter is the YAML header of a Markdown article.
type FrontMatter struct {
	Title       string                   `yaml:"title"`
	Description string                   `yaml:"description"`
	Keywords    keywordList              `yaml:"keywords"`
	Area        string                   `yaml:"area"`
	Sidebar     []catalog.SidebarSection `yaml:"sidebar"`
}

// keywordList accepts either a YAML sequence or a comma separated string.
type keywordList []string

func (k *keywordList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, kw := range strings.Split(value.Value, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				out = append(out, kw)
			}
		}
		*k = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := value.Decode(&out); err != nil {
			return err
		}
		*k = out
		return nil
	}
	return fmt.Errorf("keywords: expected a list or a string")
}

var fmDelim = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// Markdown body. Sources without front matter are returned unchanged.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	rest := bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(rest, fmDelim) {
		return fm, src, nil
	}
	firstLine, after, found := bytes.Cut(rest, []byte("\n"))
	if !found || len(bytes.TrimSpace(firstLine)) != len(fmDelim) {
		return fm, src, nil
	}

	var header []byte
	body := after
	closed := false
	for len(body) > 0 {
		line, next, _ := bytes.Cut(body, []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fmDelim) {
			body = next
			closed = true
			break
		}
		header = append(header, line...)
		header = append(header, '\n')
		body = next
	}
	if !closed {
		return fm, src, nil
	}

	if err := yaml.Unmarshal(header, &fm); err != nil {
		return FrontMatter{}, body, fmt.Errorf("parsing front matter: %w", err)
	}
	return fm, body, nil
}
