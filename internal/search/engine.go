// Package search answers free-text queries against a page catalog by
// case-insensitive substring match. Results keep catalog order and are
// capped; there is no ranking.
package search

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/logging"
)

// DefaultLimit is the maximum number of results returned for a query.
const DefaultLimit = 10

// State describes what a result set should display.
type State int

const (
	// StatePrompt is returned for empty or whitespace-only queries.
	StatePrompt State = iota
	// StateNoResults is returned when a non-empty query matched nothing.
	StateNoResults
	// StateHits is returned when at least one descriptor matched.
	StateHits
)

func (s State) String() string {
	switch s {
	case StatePrompt:
		return "prompt"
	case StateNoResults:
		return "no_results"
	case StateHits:
		return "hits"
	default:
		return "unknown"
	}
}

// Result is the outcome of one query.
type Result struct {
	Query string
	State State
	Pages []catalog.PageDescriptor
}

// Match is the pure matching function: it returns, in catalog order, at most
// limit descriptors whose lower-cased haystack contains the lower-cased
// query. Empty or whitespace-only queries match nothing.
func Match(pages []catalog.PageDescriptor, query string, limit int) []catalog.PageDescriptor {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil
	}
	needle := strings.ToLower(query)
	var out []catalog.PageDescriptor
	for _, p := range pages {
		if strings.Contains(strings.ToLower(p.Haystack()), needle) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Index finds catalog positions whose haystack contains a lower-cased
// needle. Implementations must return positions in ascending order, capped
// at limit.
type Index interface {
	Lookup(needle string, limit int) ([]int, error)
	Close() error
}

// Engine holds an immutable catalog and answers queries against it.
type Engine struct {
	pages  []catalog.PageDescriptor
	index  Index
	limit  int
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	limit   int
	backend Backend
	logger  *zap.Logger
}

// WithLimit overrides DefaultLimit.
func WithLimit(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithBackend selects the index implementation.
func WithBackend(b Backend) Option {
	return func(o *engineOptions) { o.backend = b }
}

// WithLogger attaches a logger for index fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// New builds an engine over pages. The slice is copied; rebuilding from the
// same catalog is safe and yields an equivalent engine. If the requested
// index cannot be built the engine falls back to a linear scan.
func New(pages []catalog.PageDescriptor, opts ...Option) *Engine {
	o := engineOptions{limit: DefaultLimit, backend: Scan()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger)

	own := make([]catalog.PageDescriptor, len(pages))
	copy(own, pages)

	haystacks := make([]string, len(own))
	for i, p := range own {
		haystacks[i] = strings.ToLower(p.Haystack())
	}

	backend := o.backend
	if backend == nil {
		backend = Scan()
	}
	idx, err := backend.Build(haystacks)
	if err != nil {
		logger.Warn("search index unavailable, using linear scan", zap.String("backend", backend.Name()), zap.Error(err))
		idx, _ = Scan().Build(haystacks)
	}

	return &Engine{pages: own, index: idx, limit: o.limit, logger: logger}
}

// Len returns the catalog size.
func (e *Engine) Len() int { return len(e.pages) }

// Pages returns a copy of the catalog.
func (e *Engine) Pages() []catalog.PageDescriptor {
	out := make([]catalog.PageDescriptor, len(e.pages))
	copy(out, e.pages)
	return out
}

// Search runs query against the catalog.
func (e *Engine) Search(query string) Result {
	if strings.TrimSpace(query) == "" {
		return Result{Query: query, State: StatePrompt}
	}

	positions, err := e.index.Lookup(strings.ToLower(query), e.limit)
	if err != nil {
		e.logger.Warn("index lookup failed, scanning catalog", zap.String("query", query), zap.Error(err))
		return e.resultOf(query, Match(e.pages, query, e.limit))
	}

	pages := make([]catalog.PageDescriptor, 0, len(positions))
	for _, pos := range positions {
		pages = append(pages, e.pages[pos])
	}
	return e.resultOf(query, pages)
}

func (e *Engine) resultOf(query string, pages []catalog.PageDescriptor) Result {
	if len(pages) == 0 {
		return Result{Query: query, State: StateNoResults}
	}
	return Result{Query: query, State: StateHits, Pages: pages}
}

// Close releases the index.
func (e *Engine) Close() error {
	return e.index.Close()
}
