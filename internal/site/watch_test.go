package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatchRebuildsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := sampleWiki(t)
	g, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	builds := make(chan Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- g.Watch(ctx, 50*time.Millisecond, func(res Result, err error) {
			if err == nil {
				builds <- res
			}
		})
	}()

	// Give the watcher time to register the tree before editing it.
	time.Sleep(200 * time.Millisecond)
	page := filepath.Join(cfg.ContentDir, "history", "new.md")
	if err := os.WriteFile(page, []byte("# New page\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case res := <-builds:
		if res.Pages != 5 {
			t.Errorf("rebuild saw %d pages, want 5", res.Pages)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after content change")
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "history", "new.html")); err != nil {
		t.Errorf("new page not written: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not stop after cancel")
	}
}

func TestWatchIgnoresOutputDir(t *testing.T) {
	cfg := sampleWiki(t)
	cfg.OutputDir = filepath.Join(cfg.ContentDir, "public")
	g, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer g.Close()

	ignored := g.ignoredDirs()
	if !isIgnored(filepath.Join(cfg.OutputDir, "index.html"), ignored) {
		t.Error("output files should be ignored")
	}
	if isIgnored(filepath.Join(cfg.ContentDir, "index.md"), ignored) {
		t.Error("content files should not be ignored")
	}
	if isIgnored(cfg.OutputDir+"-other/page.html", ignored) {
		t.Error("sibling directories sharing a prefix should not be ignored")
	}
}
