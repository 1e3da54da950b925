package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/wikikit/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the built wiki's page catalog",
	Long: `Runs a query against search-index.json in the output directory, the same
catalog and matching the search box in the browser uses.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, err := loadEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	res := engine.Search(strings.Join(args, " "))

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"query":   res.Query,
			"state":   res.State.String(),
			"results": res.Pages,
		})
	}

	if err := search.NewTerminalRenderer().Render(os.Stdout, res); err != nil {
		return fmt.Errorf("rendering results: %w", err)
	}
	return nil
}
