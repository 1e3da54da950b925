package site

import (
	"go.uber.org/zap"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/search"
)

// NewEngine builds a search engine over pages using the configured backend
// and result limit.
func NewEngine(cfg *config.Config, pages []catalog.PageDescriptor, logger *zap.Logger) *search.Engine {
	return search.New(pages,
		search.WithLimit(cfg.Search.Limit),
		search.WithBackend(search.BackendFor(string(cfg.Search.Backend), cfg.Search.BleveThreshold)),
		search.WithLogger(logger),
	)
}
