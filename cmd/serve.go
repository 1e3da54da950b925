package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/wikikit/internal/server"
	"github.com/ziadkadry99/wikikit/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the wiki and serve it locally with live reload",
	Long: `Builds the wiki, serves the output directory over HTTP and rebuilds on
every content change. Open pages reload themselves after each rebuild
unless --no-reload is given.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to serve.port)")
	serveCmd.Flags().Bool("open", false, "open the browser once the server is up")
	serveCmd.Flags().Bool("no-reload", false, "disable live reload")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}
	noReload, _ := cmd.Flags().GetBool("no-reload")
	liveReload := cfg.Serve.LiveReload && !noReload

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	gen, err := site.New(cfg, logger)
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

	srv := server.New(server.Config{
		Port:       cfg.Serve.Port,
		Dir:        cfg.OutputDir,
		AllowAll:   cfg.Serve.AllowAll,
		LiveReload: liveReload,
	}, site.NewEngine(cfg, res.Catalog, logger), logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving site: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return gen.Watch(ctx, site.DefaultDebounce, func(res site.Result, err error) {
			if err != nil {
				return
			}
			printBuild(res, cfg.OutputDir)
			srv.SetEngine(site.NewEngine(cfg, res.Catalog, logger))
			if liveReload {
				srv.Reload()
			}
		})
	})

	g.Go(func() error {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
		return nil
	})

	url := fmt.Sprintf("http://localhost:%d/", cfg.Serve.Port)
	fmt.Printf("Serving %s at %s. Press Ctrl+C to stop.\n", cfg.OutputDir, url)
	if open, _ := cmd.Flags().GetBool("open"); open {
		if err := server.OpenBrowser(url); err != nil {
			logger.Warn("could not open browser", zap.Error(err))
		}
	}

	return g.Wait()
}
