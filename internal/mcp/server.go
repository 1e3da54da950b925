// Package mcp exposes a built wiki to AI agents over the Model Context
// Protocol: catalog search, page outlines and page text.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/wikikit/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes wiki tools.
type Server struct {
	engine  *search.Engine
	siteDir string
	mcp     *server.MCPServer
}

// NewServer creates an MCP server over the catalog in engine and the built
// pages in siteDir.
func NewServer(engine *search.Engine, siteDir string) *Server {
	s := &Server{
		engine:  engine,
		siteDir: siteDir,
	}

	s.mcp = server.NewMCPServer(
		"wikikit",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchPagesTool, s.handleSearchPages)
	s.mcp.AddTool(listPagesTool, s.handleListPages)
	s.mcp.AddTool(getOutlineTool, s.handleGetOutline)
	s.mcp.AddTool(getPageTool, s.handleGetPage)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
