package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "wikikit",
	Short: "Static wiki builder with client-side search and page chrome",
	Long: `wikikit turns a directory of HTML and Markdown articles into a static
wiki: every page gets a header with live search, a navigation sidebar,
tables of contents with scroll-spy, a light/dark theme and optional math
and graph embeds. No server is needed to browse the result.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "wikikit.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
