package site

import (
	"sort"
	"strings"

	"github.com/ziadkadry99/wikikit/internal/catalog"
)

// navTree represents a node in the article tree.
type navTree struct {
	Name     string
	Title    string // Display name: the article title, or a formatted directory name.
	Path     string // For files: site-relative output path. For dirs: directory path.
	IsDir    bool
	Children []*navTree
}

// buildTree constructs a navTree from site-relative article paths.
// titles maps a path to its display title.
func buildTree(paths []string, titles map[string]string) *navTree {
	root := &navTree{IsDir: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *navTree
			for _, child := range current.Children {
				if child.Name == part && child.IsDir == !isLast {
					next = child
					break
				}
			}
			if next == nil {
				next = &navTree{Name: part, IsDir: !isLast}
				if isLast {
					next.Path = p
					next.Title = titles[p]
				} else {
					next.Path = strings.Join(parts[:i+1], "/")
					next.Title = formatDirName(part)
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	sortTree(root)
	return root
}

// sortTree recursively sorts tree children: index pages first, then files,
// then directories, alphabetically.
func sortTree(node *navTree) {
	rank := func(n *navTree) int {
		switch {
		case !n.IsDir && n.Name == "index.html":
			return 0
		case !n.IsDir:
			return 1
		}
		return 2
	}
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if rank(a) != rank(b) {
			return rank(a) < rank(b)
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// links flattens the files below node in tree order.
func (t *navTree) links() []catalog.Link {
	var out []catalog.Link
	for _, child := range t.Children {
		if child.IsDir {
			out = append(out, child.links()...)
			continue
		}
		text := child.Title
		if text == "" {
			text = strings.TrimSuffix(child.Name, ".html")
		}
		out = append(out, catalog.Link{Text: text, URL: child.Path})
	}
	return out
}

// AutoNavigation derives a navigation catalog from the article tree: one
// section with the root pages, then one section per top-level directory.
// Everything is stored under area, so every page shows the whole tree.
func AutoNavigation(titles map[string]string, area string) catalog.Navigation {
	if len(titles) == 0 {
		return nil
	}
	paths := make([]string, 0, len(titles))
	for p := range titles {
		paths = append(paths, p)
	}
	root := buildTree(paths, titles)

	var sections []catalog.SidebarSection
	top := catalog.SidebarSection{Label: "Pages"}
	for _, child := range root.Children {
		if child.IsDir {
			continue
		}
		top.Links = append(top.Links, (&navTree{Children: []*navTree{child}}).links()...)
	}
	if len(top.Links) > 0 {
		sections = append(sections, top)
	}
	for _, child := range root.Children {
		if !child.IsDir {
			continue
		}
		if links := child.links(); len(links) > 0 {
			sections = append(sections, catalog.SidebarSection{Label: child.Title, Links: links})
		}
	}
	return catalog.Navigation{area: sections}
}

// formatDirName converts a directory name to a human-readable display name.
// Multi-word slugs are title-cased.
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
