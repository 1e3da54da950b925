package config

// SearchBackend selects the index behind the search engine.
type SearchBackend string

const (
	BackendScan  SearchBackend = "scan"
	BackendBleve SearchBackend = "bleve"
	BackendAuto  SearchBackend = "auto"
)

// LinkMatch controls how sidebar links are compared to the current page.
type LinkMatch string

const (
	// MatchBasename compares file names only, ignoring directories.
	MatchBasename LinkMatch = "basename"
	// MatchPath compares full site-relative paths.
	MatchPath LinkMatch = "path"
)

// Theme is the light/dark flag written on <html data-theme>.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Config is the top-level wikikit configuration, corresponding to wikikit.yml.
type Config struct {
	Site       SiteConfig    `yaml:"site" koanf:"site"`
	ContentDir string        `yaml:"content_dir" koanf:"content_dir"`
	OutputDir  string        `yaml:"output_dir" koanf:"output_dir"`
	PagesFile  string        `yaml:"pages_file" koanf:"pages_file"`
	NavFile    string        `yaml:"nav_file" koanf:"nav_file"`
	Include    []string      `yaml:"include" koanf:"include"`
	Exclude    []string      `yaml:"exclude" koanf:"exclude"`
	Search     SearchConfig  `yaml:"search" koanf:"search"`
	TOC        TOCConfig     `yaml:"toc" koanf:"toc"`
	Sidebar    SidebarConfig `yaml:"sidebar" koanf:"sidebar"`
	Embeds     EmbedsConfig  `yaml:"embeds" koanf:"embeds"`
	Build      BuildConfig   `yaml:"build" koanf:"build"`
	Serve      ServeConfig   `yaml:"serve" koanf:"serve"`
}

// SiteConfig holds the values rendered into the page chrome.
type SiteConfig struct {
	Title        string `yaml:"title" koanf:"title"`
	BaseURL      string `yaml:"base_url" koanf:"base_url"`
	Footer       string `yaml:"footer" koanf:"footer"`
	DefaultTheme Theme  `yaml:"default_theme" koanf:"default_theme"`
}

// SearchConfig controls the catalog query engine.
type SearchConfig struct {
	Backend        SearchBackend `yaml:"backend" koanf:"backend"`
	Limit          int           `yaml:"limit" koanf:"limit"`
	BleveThreshold int           `yaml:"bleve_threshold" koanf:"bleve_threshold"`
	InlineCatalog  bool          `yaml:"inline_catalog" koanf:"inline_catalog"`
}

// TOCConfig controls table-of-contents generation.
type TOCConfig struct {
	MinHeadings int    `yaml:"min_headings" koanf:"min_headings"`
	Title       string `yaml:"title" koanf:"title"`
}

// SidebarConfig controls sidebar resolution and active-link marking.
type SidebarConfig struct {
	DefaultArea string    `yaml:"default_area" koanf:"default_area"`
	Match       LinkMatch `yaml:"match" koanf:"match"`
	// AutoNav derives the navigation from the content tree when no
	// navigation catalog is available.
	AutoNav bool `yaml:"auto_nav" koanf:"auto_nav"`
}

// EmbedsConfig selects the third-party math and graph adapters.
type EmbedsConfig struct {
	Math         string `yaml:"math" koanf:"math"`
	Graph        string `yaml:"graph" koanf:"graph"`
	DesmosAPIKey string `yaml:"desmos_api_key" koanf:"desmos_api_key"`
}

// BuildConfig holds build pipeline settings.
type BuildConfig struct {
	Cache    bool   `yaml:"cache" koanf:"cache"`
	CacheDir string `yaml:"cache_dir" koanf:"cache_dir"`
}

// ServeConfig holds dev server settings.
type ServeConfig struct {
	Port       int  `yaml:"port" koanf:"port"`
	LiveReload bool `yaml:"live_reload" koanf:"live_reload"`
	AllowAll   bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
