package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentDirCandidates are directory names probed for existing articles.
var contentDirCandidates = []string{"content", "pages", "wiki", "docs", "articles"}

// detectContentDir returns the first candidate directory that exists in the
// working directory, or "content".
func detectContentDir() string {
	for _, dir := range contentDirCandidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "content"
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to wikikit! Let's configure your wiki.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site title.
	title := filepath.Base(mustGetwd())
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.Site.Title = strings.TrimSpace(title)

	// 2. Content directory.
	contentPrompt := promptui.Prompt{
		Label:   "Directory containing your articles",
		Default: detectContentDir(),
	}
	contentDir, err := contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	cfg.ContentDir = contentDir

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the built site",
		Default: cfg.OutputDir,
		Validate: func(s string) error {
			if filepath.Clean(s) == filepath.Clean(contentDir) {
				return fmt.Errorf("must differ from the content directory")
			}
			return nil
		},
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 4. Theme.
	themePrompt := promptui.Select{
		Label: "Default theme",
		Items: []string{string(ThemeLight), string(ThemeDark)},
	}
	_, theme, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.Site.DefaultTheme = Theme(theme)

	// 5. Embeds.
	embedPrompt := promptui.Select{
		Label: "Third-party embeds",
		Items: []string{
			"math + graphs (KaTeX, Desmos)",
			"math only (KaTeX)",
			"none",
		},
	}
	embedIdx, _, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embed selection: %w", err)
	}
	switch embedIdx {
	case 1:
		cfg.Embeds.Graph = EmbedNone
	case 2:
		cfg.Embeds.Math = EmbedNone
		cfg.Embeds.Graph = EmbedNone
	}

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
	}

	if cfg.Embeds.Graph == GraphDesmos && os.Getenv(EnvPrefix+"EMBEDS__DESMOS_API_KEY") == "" {
		fmt.Printf("\nNote: set embeds.desmos_api_key (or %sEMBEDS__DESMOS_API_KEY) to use your own Desmos key.\n", EnvPrefix)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "wiki"
	}
	return wd
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
