package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/chrome"
	"github.com/ziadkadry99/wikikit/internal/config"
	"github.com/ziadkadry99/wikikit/internal/logging"
	"github.com/ziadkadry99/wikikit/internal/search"
	"github.com/ziadkadry99/wikikit/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `wikikit init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger for a command from the --verbose flag.
func newLogger() (*zap.Logger, error) {
	return logging.New(verbose)
}

// loadEngine builds a search engine over the index written by the last
// build.
func loadEngine(cfg *config.Config, logger *zap.Logger) (*search.Engine, error) {
	indexPath := filepath.Join(cfg.OutputDir, chrome.IndexName)
	pages, err := catalog.LoadPages(indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no search index at %s\nRun `wikikit build` first", indexPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading search index: %w", err)
	}
	return site.NewEngine(cfg, pages, logger), nil
}
