package mcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/wikikit/internal/catalog"
	"github.com/ziadkadry99/wikikit/internal/chrome"
	"github.com/ziadkadry99/wikikit/internal/dom"
	"github.com/ziadkadry99/wikikit/internal/search"
	"github.com/ziadkadry99/wikikit/internal/toc"
)

// handleSearchPages runs a catalog query.
func (s *Server) handleSearchPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	res := s.engine.Search(query)
	switch res.State {
	case search.StatePrompt:
		return mcp.NewToolResultError("query is empty"), nil
	case search.StateNoResults:
		return mcp.NewToolResultText(search.NoResultsText(query)), nil
	}
	return mcp.NewToolResultText(formatPages(fmt.Sprintf("Found %d page(s):\n", len(res.Pages)), res.Pages)), nil
}

// handleListPages returns the whole catalog.
func (s *Server) handleListPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages := s.engine.Pages()
	if len(pages) == 0 {
		return mcp.NewToolResultText("The catalog is empty. Run `wikikit build` first."), nil
	}
	return mcp.NewToolResultText(formatPages(fmt.Sprintf("%d page(s):\n", len(pages)), pages)), nil
}

// handleGetOutline returns the heading outline of a built page.
func (s *Server) handleGetOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}

	doc, errResult := s.loadPage(url)
	if errResult != nil {
		return errResult, nil
	}

	entries := toc.Extract(articleRoot(doc))
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no h2-h4 headings.", url)), nil
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(strings.Repeat("  ", e.Level-2))
		fmt.Fprintf(&sb, "- %s (#%s)\n", e.Text, e.ID)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetPage returns a page's descriptor and article text.
func (s *Server) handleGetPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}

	doc, errResult := s.loadPage(url)
	if errResult != nil {
		return errResult, nil
	}

	desc := catalog.Describe(doc, cleanURL(url))
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\nURL: %s\n", desc.Title, desc.URL)
	if desc.Desc != "" {
		fmt.Fprintf(&sb, "Description: %s\n", desc.Desc)
	}
	if len(desc.Tags) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(desc.Tags, ", "))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Join(strings.Fields(dom.Text(articleRoot(doc))), " "))
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// loadPage reads and parses a built page. Failures come back as tool
// errors so the agent sees them.
func (s *Server) loadPage(url string) (*html.Node, *mcp.CallToolResult) {
	rel := cleanURL(url)
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid page url %q", url))
	}

	src, err := os.ReadFile(filepath.Join(s.siteDir, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, mcp.NewToolResultError(fmt.Sprintf(
				"No built page at %q. Run `wikikit build` to build the site.", rel,
			))
		}
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to read page: %v", err))
	}

	doc, err := dom.Parse(src)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to parse page: %v", err))
	}
	return doc, nil
}

// cleanURL drops any query or fragment and resolves the path against the
// site root.
func cleanURL(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(url)), "/")
	if url == "" {
		return "index.html"
	}
	return url
}

// articleRoot returns the bootstrapped content column, or the body of a
// page that was never bootstrapped.
func articleRoot(doc *html.Node) *html.Node {
	if main := dom.ByID(doc, chrome.MainID); main != nil {
		return main
	}
	if body := dom.Body(doc); body != nil {
		return body
	}
	return doc
}

func formatPages(header string, pages []catalog.PageDescriptor) string {
	var sb strings.Builder
	sb.WriteString(header)
	for i, p := range pages {
		fmt.Fprintf(&sb, "\n%d. %s (%s)\n", i+1, p.Title, p.URL)
		if p.Desc != "" {
			fmt.Fprintf(&sb, "   %s\n", p.Desc)
		}
		if len(p.Tags) > 0 {
			fmt.Fprintf(&sb, "   Tags: %s\n", strings.Join(p.Tags, ", "))
		}
	}
	return sb.String()
}
