package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchPagesTool defines the search_pages MCP tool.
var searchPagesTool = mcp.NewTool("search_pages",
	mcp.WithDescription("Search the wiki catalog. Matches the query as a case-insensitive substring of each page's title, description and tags, in catalog order."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Text to look for"),
	),
)

// listPagesTool defines the list_pages MCP tool.
var listPagesTool = mcp.NewTool("list_pages",
	mcp.WithDescription("List every page in the wiki catalog with its URL."),
)

// getOutlineTool defines the get_outline MCP tool.
var getOutlineTool = mcp.NewTool("get_outline",
	mcp.WithDescription("Get the table of contents of a built page: its h2-h4 headings with their anchor ids."),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("Site-relative page URL, e.g. history/rome.html"),
	),
)

// getPageTool defines the get_page MCP tool.
var getPageTool = mcp.NewTool("get_page",
	mcp.WithDescription("Get the title, description, keywords and article text of a built page."),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("Site-relative page URL, e.g. history/rome.html"),
	),
)
