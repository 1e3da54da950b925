package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "WIKIKIT_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (WIKIKIT_*). A .env file next to the
// config file is loaded first; variables already set win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// WIKIKIT_SEARCH__LIMIT -> search.limit; single underscores stay part of
	// the key so WIKIKIT_OUTPUT_DIR -> output_dir.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[SearchBackend]bool{
	BackendScan:  true,
	BackendBleve: true,
	BackendAuto:  true,
}

var validThemes = map[Theme]bool{
	ThemeLight: true,
	ThemeDark:  true,
}

var validMatches = map[LinkMatch]bool{
	MatchBasename: true,
	MatchPath:     true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if filepath.Clean(c.ContentDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from content_dir")
	}

	if !validBackends[c.Search.Backend] {
		return fmt.Errorf("invalid search.backend %q: must be one of scan, bleve, auto", c.Search.Backend)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive")
	}
	if c.Search.BleveThreshold < 0 {
		return fmt.Errorf("search.bleve_threshold must be non-negative")
	}

	if c.TOC.MinHeadings < 1 {
		return fmt.Errorf("toc.min_headings must be at least 1")
	}

	if c.Site.DefaultTheme != "" && !validThemes[c.Site.DefaultTheme] {
		return fmt.Errorf("invalid site.default_theme %q: must be light or dark", c.Site.DefaultTheme)
	}
	if c.Sidebar.Match != "" && !validMatches[c.Sidebar.Match] {
		return fmt.Errorf("invalid sidebar.match %q: must be basename or path", c.Sidebar.Match)
	}

	switch c.Embeds.Math {
	case "", MathKaTeX, EmbedNone:
	default:
		return fmt.Errorf("invalid embeds.math %q: must be katex or none", c.Embeds.Math)
	}
	switch c.Embeds.Graph {
	case "", GraphDesmos, EmbedNone:
	default:
		return fmt.Errorf("invalid embeds.graph %q: must be desmos or none", c.Embeds.Graph)
	}

	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}

	return nil
}

// ResolvePath returns p relative to the content directory unless it is
// absolute or empty.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ContentDir, p)
}

// CachePath is the location of the build cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.Build.CacheDir, "build.db")
}
