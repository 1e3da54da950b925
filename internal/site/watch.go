package site

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the content tree must stay quiet before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Watch rebuilds the site whenever the content directory changes and calls
// onBuild after every rebuild. It blocks until ctx is cancelled. The initial
// build is the caller's job.
func (g *Generator) Watch(ctx context.Context, debounce time.Duration, onBuild func(Result, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	ignored := g.ignoredDirs()
	if err := g.addTree(watcher, g.cfg.ContentDir, ignored); err != nil {
		return err
	}
	// Catalog files may live outside the content directory.
	for _, p := range []string{g.cfg.PagesFile, g.cfg.NavFile} {
		if p == "" {
			continue
		}
		dir := filepath.Dir(g.cfg.ResolvePath(p))
		if _, err := os.Stat(dir); err == nil {
			_ = watcher.Add(dir)
		}
	}

	g.logger.Info("watching for changes", zap.String("dir", g.cfg.ContentDir))

	ticker := time.NewTicker(debounce / 3)
	defer ticker.Stop()

	var lastEvent time.Time
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isIgnored(event.Name, ignored) || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := g.addTree(watcher, event.Name, ignored); err != nil {
						g.logger.Warn("could not watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			g.logger.Debug("content changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			lastEvent = time.Now()
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("watcher error", zap.Error(err))

		case <-ticker.C:
			if !pending || time.Since(lastEvent) < debounce {
				continue
			}
			pending = false
			res, err := g.Build(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				g.logger.Error("rebuild failed", zap.Error(err))
			}
			if onBuild != nil {
				onBuild(res, err)
			}
		}
	}
}

// addTree watches dir and every directory below it that is not ignored.
func (g *Generator) addTree(w *fsnotify.Watcher, dir string, ignored []string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if isIgnored(path, ignored) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// ignoredDirs are the generator's own outputs; changes there must not
// trigger a rebuild.
func (g *Generator) ignoredDirs() []string {
	var out []string
	for _, p := range []string{g.cfg.OutputDir, g.cfg.Build.CacheDir} {
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}

func isIgnored(path string, dirs []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, d := range dirs {
		if abs == d || strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
