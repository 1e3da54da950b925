package walker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies a content file.
type Kind int

const (
	// KindAsset is copied to the output unchanged.
	KindAsset Kind = iota
	// KindHTML is an HTML article.
	KindHTML
	// KindMarkdown is a Markdown article rendered to HTML.
	KindMarkdown
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindMarkdown:
		return "markdown"
	default:
		return "asset"
	}
}

// IsArticle reports whether files of this kind become wiki pages.
func (k Kind) IsArticle() bool { return k == KindHTML || k == KindMarkdown }

// Classify returns the kind of a file from its name.
func Classify(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return KindHTML
	case ".md", ".markdown":
		return KindMarkdown
	default:
		return KindAsset
	}
}

// File holds metadata about a single file discovered during traversal.
type File struct {
	Path        string // Absolute path on disk.
	RelPath     string // Slash-separated path relative to the content root.
	Size        int64
	Kind        Kind
	ContentHash string // SHA-256 hex digest of the file content.
}

// OutputPath is the site-relative path the file is written to: articles end
// in .html, assets keep their name.
func (f File) OutputPath() string {
	if f.Kind == KindMarkdown {
		return strings.TrimSuffix(f.RelPath, filepath.Ext(f.RelPath)) + ".html"
	}
	if f.Kind == KindHTML && strings.EqualFold(filepath.Ext(f.RelPath), ".htm") {
		return strings.TrimSuffix(f.RelPath, filepath.Ext(f.RelPath)) + ".html"
	}
	return f.RelPath
}

// Config controls the behaviour of the Walk function.
type Config struct {
	RootDir string   // Content root to walk.
	Include []string // Glob patterns; only matching files are included.
	Exclude []string // Glob patterns; matching files are excluded.
	// Skip lists absolute paths (files or directories) that are never
	// returned, such as the output directory or the catalog files.
	Skip []string
}

// Walk traverses the content tree rooted at cfg.RootDir and returns every
// file that passes filtering, in lexical order. It respects include/exclude
// patterns and honours the root .gitignore file.
func Walk(ctx context.Context, cfg Config) ([]File, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walker: content root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("walker: content root %s is not a directory", root)
	}

	skip := make(map[string]bool, len(cfg.Skip))
	for _, s := range cfg.Skip {
		if abs, err := filepath.Abs(s); err == nil {
			skip[abs] = true
		}
	}

	ignore := loadGitignore(filepath.Join(root, ".gitignore"))

	var files []File

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if skip[path] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path != root && (shouldExcludeDir(name) || ignore.matches(relPath, true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isHiddenFile(name) {
			return nil
		}
		if ignore.matches(relPath, false) {
			return nil
		}
		if !MatchesInclude(relPath, cfg.Include) || MatchesExclude(relPath, cfg.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		hash, err := hashFile(path)
		if err != nil {
			return nil
		}

		files = append(files, File{
			Path:        path,
			RelPath:     relPath,
			Size:        info.Size(),
			Kind:        Classify(name),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// HashFile computes the SHA-256 digest of the given file.
func HashFile(path string) (string, error) {
	return hashFile(path)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
