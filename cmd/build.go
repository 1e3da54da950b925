package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/wikikit/internal/progress"
	"github.com/ziadkadry99/wikikit/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static wiki",
	Long: `Builds every article under the content directory into the output directory,
together with search-index.json and the runtime stylesheet and script.
Unchanged pages are skipped when the build cache is enabled.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Bool("watch", false, "rebuild whenever the content changes")
	buildCmd.Flags().String("output", "", "override the output directory")
	buildCmd.Flags().Bool("no-cache", false, "rebuild every page, ignoring the build cache")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.OutputDir = output
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Build.Cache = false
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	gen, err := site.New(cfg, logger, site.WithReporter(progress.NewReporter()))
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := gen.Build(ctx)
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}
	printBuild(res, cfg.OutputDir)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}

	fmt.Println("Watching for changes. Press Ctrl+C to stop.")
	return gen.Watch(ctx, site.DefaultDebounce, func(res site.Result, err error) {
		if err == nil {
			printBuild(res, cfg.OutputDir)
		}
	})
}

func printBuild(res site.Result, outputDir string) {
	fmt.Printf("Built %d page(s) into %s (%d rebuilt, %d asset(s)) in %s\n",
		res.Pages, outputDir, res.Rebuilt, res.Assets, res.Duration.Round(time.Millisecond))
	if len(res.Removed) > 0 {
		fmt.Printf("Removed %d stale page(s)\n", len(res.Removed))
	}
	if res.Graphs.Skipped > 0 {
		fmt.Printf("Warning: %d graph(s) skipped, see the log for details\n", res.Graphs.Skipped)
	}
}
