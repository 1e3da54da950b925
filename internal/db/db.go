package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB holding the incremental build cache.
type DB struct {
	*sql.DB
	mu   sync.Mutex
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the database location.
func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS page_builds (
    path TEXT PRIMARY KEY,
    hash TEXT NOT NULL,
    built_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS build_runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    pages INTEGER NOT NULL DEFAULT 0,
    rebuilt INTEGER NOT NULL DEFAULT 0,
    assets INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_build_runs_started ON build_runs(started_at);
`

// timeFormat is fixed width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// PageBuild is the cached state of one output page.
type PageBuild struct {
	Path    string
	Hash    string
	BuiltAt time.Time
}

// Lookup returns the cached build of path. ok is false when the page has
// never been built.
func (d *DB) Lookup(ctx context.Context, path string) (PageBuild, bool, error) {
	var (
		pb      = PageBuild{Path: path}
		builtAt string
	)
	err := d.QueryRowContext(ctx, `SELECT hash, built_at FROM page_builds WHERE path = ?`, path).Scan(&pb.Hash, &builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PageBuild{}, false, nil
	}
	if err != nil {
		return PageBuild{}, false, fmt.Errorf("looking up %s: %w", path, err)
	}
	pb.BuiltAt, err = time.Parse(timeFormat, builtAt)
	if err != nil {
		return PageBuild{}, false, fmt.Errorf("parsing build time of %s: %w", path, err)
	}
	return pb, true, nil
}

// Record stores the build of a page, replacing any previous entry.
func (d *DB) Record(ctx context.Context, pb PageBuild) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.ExecContext(ctx,
		`INSERT INTO page_builds (path, hash, built_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, built_at = excluded.built_at`,
		pb.Path, pb.Hash, pb.BuiltAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("recording %s: %w", pb.Path, err)
	}
	return nil
}

// Prune deletes every entry whose path is not in keep and returns the
// removed paths.
func (d *DB) Prune(ctx context.Context, keep []string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}

	rows, err := d.QueryContext(ctx, `SELECT path FROM page_builds ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing page builds: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning page build: %w", err)
		}
		if !keepSet[p] {
			stale = append(stale, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing page builds: %w", err)
	}
	if len(stale) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(stale)), ",")
	args := make([]any, len(stale))
	for i, p := range stale {
		args[i] = p
	}
	if _, err := d.ExecContext(ctx, `DELETE FROM page_builds WHERE path IN (`+placeholders+`)`, args...); err != nil {
		return nil, fmt.Errorf("pruning page builds: %w", err)
	}
	return stale, nil
}

// Run summarises one build.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Pages      int
	Rebuilt    int
	Assets     int
}

// RecordRun stores a finished build.
func (d *DB) RecordRun(ctx context.Context, r Run) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.ExecContext(ctx,
		`INSERT INTO build_runs (id, started_at, finished_at, pages, rebuilt, assets) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(timeFormat), r.FinishedAt.UTC().Format(timeFormat),
		r.Pages, r.Rebuilt, r.Assets)
	if err != nil {
		return fmt.Errorf("recording build run %s: %w", r.ID, err)
	}
	return nil
}

// LastRun returns the most recent build, or ok=false when there is none.
func (d *DB) LastRun(ctx context.Context) (Run, bool, error) {
	var (
		r                 Run
		started, finished string
	)
	err := d.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, pages, rebuilt, assets FROM build_runs ORDER BY started_at DESC LIMIT 1`).
		Scan(&r.ID, &started, &finished, &r.Pages, &r.Rebuilt, &r.Assets)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("reading last build run: %w", err)
	}
	if r.StartedAt, err = time.Parse(timeFormat, started); err != nil {
		return Run{}, false, fmt.Errorf("parsing build start: %w", err)
	}
	if r.FinishedAt, err = time.Parse(timeFormat, finished); err != nil {
		return Run{}, false, fmt.Errorf("parsing build finish: %w", err)
	}
	return r, true, nil
}
