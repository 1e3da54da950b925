package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/wikikit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing search and page outline tools over the built wiki.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Stdout carries the protocol; the logger writes to stderr.
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

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "wikikit MCP server started on stdio (site=%s, pages=%d)\n", cfg.OutputDir, engine.Len())

		srv := mcpserver.NewServer(engine, cfg.OutputDir)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
