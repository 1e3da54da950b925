// Package catalog defines the page and navigation catalogs a wiki is built
// from, and loads them from JSON or YAML files or from the articles
// themselves.
package catalog

import "strings"

// PageDescriptor is one searchable article. URL uniqueness is not enforced;
// duplicates are independent records.
type PageDescriptor struct {
	Title string   `json:"title" yaml:"title"`
	URL   string   `json:"url" yaml:"url"`
	Desc  string   `json:"desc,omitempty" yaml:"desc,omitempty"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Haystack is the text a query is matched against: title, description and
// tags joined by spaces.
func (p PageDescriptor) Haystack() string {
	return p.Title + " " + p.Desc + " " + strings.Join(p.Tags, " ")
}

// Link is a single sidebar entry.
type Link struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url" yaml:"url"`
}

// SidebarSection is a labelled group of sidebar links.
type SidebarSection struct {
	Label string `json:"label" yaml:"label"`
	Links []Link `json:"links" yaml:"links"`
}

// Navigation maps an area (category) to its sidebar sections.
type Navigation map[string][]SidebarSection

// Sections returns the sections for area, or nil.
func (n Navigation) Sections(area string) []SidebarSection {
	if n == nil {
		return nil
	}
	return n[area]
}
