package config

// Embed adapter names accepted in EmbedsConfig.
const (
	MathKaTeX   = "katex"
	GraphDesmos = "desmos"
	EmbedNone   = "none"
)

// DefaultExcludes are glob patterns never treated as content.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	".wikikit/**",
	"*.swp",
	"*~",
}

// DefaultConfig returns a Config with sensible defaults. Every optional
// field has a usable value so a missing wikikit.yml still builds a site.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:        "Wiki",
			Footer:       "Built with wikikit",
			DefaultTheme: ThemeLight,
		},
		ContentDir: "content",
		OutputDir:  "public",
		PagesFile:  "pages.json",
		NavFile:    "nav.yml",
		Include:    []string{"**"},
		Exclude:    DefaultExcludes,
		Search: SearchConfig{
			Backend:        BackendAuto,
			Limit:          10,
			BleveThreshold: 500,
			InlineCatalog:  false,
		},
		TOC: TOCConfig{
			MinHeadings: 3,
			Title:       "Contents",
		},
		Sidebar: SidebarConfig{
			DefaultArea: "default",
			Match:       MatchBasename,
		},
		Embeds: EmbedsConfig{
			Math:  MathKaTeX,
			Graph: GraphDesmos,
		},
		Build: BuildConfig{
			Cache:    true,
			CacheDir: ".wikikit",
		},
		Serve: ServeConfig{
			Port:       8080,
			LiveReload: true,
		},
	}
}
