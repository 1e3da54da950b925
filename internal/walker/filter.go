package walker

import (
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names skipped during traversal.
var DefaultExcludes = []string{
	".git",
	".wikikit",
	"node_modules",
	".idea",
	".vscode",
}

// shouldExcludeDir checks whether a directory name matches any default
// exclusion pattern. This is used during traversal to skip entire subtrees.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// isHiddenFile reports dotfiles such as .gitignore and .DS_Store.
func isHiddenFile(name string) bool {
	return strings.HasPrefix(name, ".")
}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath, and its base name, against doublestar patterns.
func matchesAny(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

type gitignoreRule struct {
	pattern string
	dirOnly bool
	negate  bool
}

type gitignore []gitignoreRule

// loadGitignore reads a .gitignore file. Blank lines and comments are
// dropped; a missing file yields no rules.
func loadGitignore(file string) gitignore {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil
	}

	var rules gitignore
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r := gitignoreRule{}
		if strings.HasPrefix(line, "!") {
			r.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.Contains(line, "/") {
			// Anchored to the root.
			r.pattern = strings.TrimPrefix(line, "/")
		} else {
			r.pattern = "**/" + line
		}
		rules = append(rules, r)
	}
	return rules
}

// matches applies the rules in order; the last matching rule wins.
func (g gitignore) matches(relPath string, isDir bool) bool {
	ignored := false
	for _, r := range g {
		if r.dirOnly && !isDir {
			continue
		}
		if matched, err := doublestar.Match(r.pattern, relPath); err == nil && matched {
			ignored = !r.negate
		}
	}
	return ignored
}
