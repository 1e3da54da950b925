package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/wikikit/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last build recorded in the build cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Build.Cache {
			fmt.Println("The build cache is disabled (build.cache: false).")
			return nil
		}

		path := cfg.CachePath()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			fmt.Println("No builds recorded yet. Run `wikikit build` first.")
			return nil
		}

		database, err := db.Open(path)
		if err != nil {
			return err
		}
		defer database.Close()

		run, ok, err := database.LastRun(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No builds recorded yet. Run `wikikit build` first.")
			return nil
		}

		fmt.Printf("Last build: %s\n", run.ID)
		fmt.Printf("  Finished: %s (%s ago)\n", run.FinishedAt.Local().Format(time.RFC1123), time.Since(run.FinishedAt).Round(time.Second))
		fmt.Printf("  Took:     %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
		fmt.Printf("  Pages:    %d (%d rebuilt)\n", run.Pages, run.Rebuilt)
		fmt.Printf("  Assets:   %d\n", run.Assets)
		fmt.Printf("  Cache:    %s\n", database.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
