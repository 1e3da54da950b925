// Package site builds the static wiki: it discovers articles, renders
// Markdown, runs the page bootstrap over every document and writes the
// pages, the search index and the runtime assets.
package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/chrome"
	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/db"
	"github.com/ziadkadry99/wikikit/internal/dom"
	"github.com/ziadkadry99/wikikit/internal/embed"
	"github.com/ziadkadry99/wikikit/internal/logging"
	"github.com/ziadkadry99/wikikit/internal/progress"
	"github.com/ziadkadry99/wikikit/internal/walker"
)

// Generator converts a content directory into a static wiki.
type Generator struct {
	cfg        *config.Config
	logger     *zap.Logger
	reporter   progress.Reporter
	cache      *db.DB
	ownCache   bool
	chromeOpts []chrome.Option
	md         goldmark.Markdown
	tmpl       *template.Template
}

// Option configures a Generator.
type Option func(*Generator)

// WithReporter sets the progress reporter. The default discards progress.
func WithReporter(r progress.Reporter) Option {
	return func(g *Generator) { g.reporter = r }
}

// WithCache uses d as the build cache instead of opening the configured one.
// The caller keeps ownership of d.
func WithCache(d *db.DB) Option {
	return func(g *Generator) { g.cache = d }
}

// WithChromeOptions passes options through to the page bootstrap.
func WithChromeOptions(opts ...chrome.Option) Option {
	return func(g *Generator) { g.chromeOpts = append(g.chromeOpts, opts...) }
}

// New creates a Generator for cfg. When caching is enabled and no cache was
// supplied, the build cache under cfg.Build.CacheDir is opened and must be
// released with Close.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tmpl, err := template.New("article").Parse(articleTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing article template: %w", err)
	}

	g := &Generator{
		cfg:      cfg,
		logger:   logging.OrNop(logger),
		reporter: progress.Nop{},
		md:       newMarkdown(),
		tmpl:     tmpl,
	}
	for _, opt := range opts {
		opt(g)
	}

	if cfg.Build.Cache && g.cache == nil {
		cache, err := db.Open(cfg.CachePath())
		if err != nil {
			return nil, fmt.Errorf("opening build cache: %w", err)
		}
		g.cache = cache
		g.ownCache = true
	}
	return g, nil
}

// Close releases the build cache if the generator opened it.
func (g *Generator) Close() error {
	if g.ownCache && g.cache != nil {
		return g.cache.Close()
	}
	return nil
}

// Result summarises a build.
type Result struct {
	BuildID string
	// Pages is the number of articles in the site; Rebuilt counts those
	// actually rewritten.
	Pages    int
	Rebuilt  int
	Assets   int
	Removed  []string
	Catalog  []catalog.PageDescriptor
	Graphs   embed.Report
	Duration time.Duration
}

// article is one parsed content page.
type article struct {
	file walker.File
	out  string // site-relative output path
	doc  *html.Node
}

// Build generates the full static site.
func (g *Generator) Build(ctx context.Context) (Result, error) {
	started := time.Now()
	res := Result{BuildID: uuid.NewString()}

	files, err := walker.Walk(ctx, walker.Config{
		RootDir: g.cfg.ContentDir,
		Include: g.cfg.Include,
		Exclude: g.cfg.Exclude,
		Skip:    g.skipPaths(),
	})
	if err != nil {
		return res, fmt.Errorf("discovering content: %w", err)
	}

	var (
		articles []*article
		assets   []walker.File
		seen     = make(map[string]string)
	)
	for _, f := range files {
		if !f.Kind.IsArticle() {
			assets = append(assets, f)
			continue
		}
		out := f.OutputPath()
		if prev, dup := seen[out]; dup {
			g.logger.Warn("two articles map to the same page, keeping the first",
				zap.String("page", out), zap.String("kept", prev), zap.String("skipped", f.RelPath))
			continue
		}
		seen[out] = f.RelPath

		a, err := g.load(f)
		if err != nil {
			return res, fmt.Errorf("loading %s: %w", f.RelPath, err)
		}
		articles = append(articles, a)
	}
	if len(articles) == 0 {
		return res, fmt.Errorf("no articles found in %s", g.cfg.ContentDir)
	}

	res.Catalog = g.pageCatalog(articles)
	nav := g.navigation(articles)

	outDir := g.cfg.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, fmt.Errorf("creating output dir: %w", err)
	}

	index, err := json.MarshalIndent(res.Catalog, "", "  ")
	if err != nil {
		return res, fmt.Errorf("encoding search index: %w", err)
	}
	if err := writeFile(filepath.Join(outDir, chrome.IndexName), index); err != nil {
		return res, fmt.Errorf("writing search index: %w", err)
	}
	if err := writeFile(filepath.Join(outDir, chrome.StylesheetName), []byte(cssContent)); err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(outDir, chrome.ScriptName), []byte(jsContent)); err != nil {
		return res, err
	}

	var inline string
	if g.cfg.Search.InlineCatalog {
		compact, err := json.Marshal(res.Catalog)
		if err != nil {
			return res, fmt.Errorf("encoding inline catalog: %w", err)
		}
		inline = string(compact)
	}

	fingerprint, err := g.fingerprint(index, nav)
	if err != nil {
		return res, err
	}

	boot := chrome.New(g.cfg, nav, g.logger, g.chromeOpts...)
	keep := make([]string, 0, len(articles))

	g.reporter.Start(len(articles))
	for i, a := range articles {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		keep = append(keep, a.out)
		res.Pages++

		key := hashStrings(a.file.ContentHash, fingerprint)
		dest := filepath.Join(outDir, filepath.FromSlash(a.out))
		fresh, err := g.upToDate(ctx, a.out, key, dest)
		if err != nil {
			return res, err
		}
		if fresh {
			g.logger.Debug("page up to date", zap.String("page", a.out))
			g.reporter.Update(i+1, a.out)
			continue
		}

		outcome := boot.Apply(a.doc, chrome.Page{
			RelPath:       a.out,
			BasePath:      basePath(a.out),
			BuildID:       res.BuildID,
			InlineCatalog: inline,
		})
		res.Graphs.Rendered += outcome.Graphs.Rendered
		res.Graphs.Skipped += outcome.Graphs.Skipped

		rendered, err := dom.Render(a.doc)
		if err != nil {
			return res, fmt.Errorf("rendering %s: %w", a.out, err)
		}
		if err := writeFile(dest, []byte(rendered)); err != nil {
			return res, fmt.Errorf("writing %s: %w", a.out, err)
		}
		if g.cache != nil {
			if err := g.cache.Record(ctx, db.PageBuild{Path: a.out, Hash: key, BuiltAt: time.Now()}); err != nil {
				return res, err
			}
		}
		res.Rebuilt++
		g.logger.Debug("page built",
			zap.String("page", a.out),
			zap.String("sidebar", outcome.SidebarSource),
			zap.Int("toc_entries", len(outcome.TOC)),
			zap.Bool("toc_rendered", outcome.TOCRendered))
		g.reporter.Update(i+1, a.out)
	}
	g.reporter.Finish()

	for _, f := range assets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := copyFile(f.Path, filepath.Join(outDir, filepath.FromSlash(f.RelPath))); err != nil {
			return res, fmt.Errorf("copying %s: %w", f.RelPath, err)
		}
		res.Assets++
	}

	if g.cache != nil {
		removed, err := g.cache.Prune(ctx, keep)
		if err != nil {
			return res, err
		}
		for _, p := range removed {
			if err := os.Remove(filepath.Join(outDir, filepath.FromSlash(p))); err != nil && !os.IsNotExist(err) {
				g.logger.Warn("could not remove stale page", zap.String("page", p), zap.Error(err))
			}
		}
		res.Removed = removed
	}

	res.Duration = time.Since(started)
	if g.cache != nil {
		run := db.Run{
			ID:         res.BuildID,
			StartedAt:  started,
			FinishedAt: started.Add(res.Duration),
			Pages:      res.Pages,
			Rebuilt:    res.Rebuilt,
			Assets:     res.Assets,
		}
		if err := g.cache.RecordRun(ctx, run); err != nil {
			return res, err
		}
	}

	g.logger.Info("site built",
		zap.String("build_id", res.BuildID),
		zap.Int("pages", res.Pages),
		zap.Int("rebuilt", res.Rebuilt),
		zap.Int("assets", res.Assets),
		zap.Int("graphs_skipped", res.Graphs.Skipped),
		zap.Duration("took", res.Duration))
	return res, nil
}

// load reads and parses one article. Markdown is converted first.
func (g *Generator) load(f walker.File) (*article, error) {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	if f.Kind == walker.KindMarkdown {
		if src, err = g.renderMarkdown(src, f.RelPath); err != nil {
			return nil, err
		}
	}
	doc, err := dom.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	rewriteMarkdownLinks(doc)
	return &article{file: f, out: f.OutputPath(), doc: doc}, nil
}

// pageCatalog returns the configured page catalog, or one described from the
// articles themselves when there is none.
func (g *Generator) pageCatalog(articles []*article) []catalog.PageDescriptor {
	if pages := catalog.PagesOrEmpty(g.cfg.ResolvePath(g.cfg.PagesFile), g.logger); len(pages) > 0 {
		return pages
	}
	pages := make([]catalog.PageDescriptor, 0, len(articles))
	for _, a := range articles {
		pages = append(pages, catalog.Describe(a.doc, a.out))
	}
	return pages
}

func (g *Generator) navigation(articles []*article) catalog.Navigation {
	nav := catalog.NavigationOrEmpty(g.cfg.ResolvePath(g.cfg.NavFile), g.cfg.Sidebar.DefaultArea, g.logger)
	if len(nav) > 0 || !g.cfg.Sidebar.AutoNav {
		return nav
	}
	titles := make(map[string]string, len(articles))
	for _, a := range articles {
		titles[a.out] = catalog.Describe(a.doc, a.out).Title
	}
	return AutoNavigation(titles, g.cfg.Sidebar.DefaultArea)
}

// skipPaths lists the paths inside the content root that are never content.
func (g *Generator) skipPaths() []string {
	skip := []string{g.cfg.OutputDir, g.cfg.Build.CacheDir}
	for _, p := range []string{g.cfg.PagesFile, g.cfg.NavFile} {
		if p != "" {
			skip = append(skip, g.cfg.ResolvePath(p))
		}
	}
	return skip
}

// fingerprint hashes every input besides the article itself that affects a
// rendered page.
func (g *Generator) fingerprint(index []byte, nav catalog.Navigation) (string, error) {
	cfgJSON, err := json.Marshal(g.cfg)
	if err != nil {
		return "", fmt.Errorf("fingerprinting config: %w", err)
	}
	navJSON, err := json.Marshal(nav)
	if err != nil {
		return "", fmt.Errorf("fingerprinting navigation: %w", err)
	}
	return hashStrings(string(cfgJSON), string(index), string(navJSON), cssContent, jsContent), nil
}

// upToDate reports whether the cached build of page matches key and its
// output still exists.
func (g *Generator) upToDate(ctx context.Context, page, key, dest string) (bool, error) {
	if g.cache == nil {
		return false, nil
	}
	pb, ok, err := g.cache.Lookup(ctx, page)
	if err != nil || !ok || pb.Hash != key {
		return false, err
	}
	_, err = os.Stat(dest)
	return err == nil, nil
}

// basePath leads from a page back to the site root: "" for "index.html",
// "../" for "history/rome.html".
func basePath(relPath string) string {
	return strings.Repeat("../", strings.Count(relPath, "/"))
}

func hashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
