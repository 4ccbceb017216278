// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes asyncdocs capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/asyncdocs"
	"github.com/erraggy/asyncdocs/internal/envconfig"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `asyncdocs MCP server: parses AsyncAPI 2.x/3.x documents, lists their operations, plans documentation pages, and builds example messages.

Configuration: defaults come from ASYNCDOCS_* environment variables set in your MCP client config.

Key settings:
- ASYNCDOCS_CACHE_ENABLED (default: true): cache parsed documents for the session
- ASYNCDOCS_CACHE_MAX_SIZE (default: 10): maximum cached documents
- ASYNCDOCS_CACHE_TTL (default: 15m): cache entry lifetime
- ASYNCDOCS_HTTP_TIMEOUT (default: 30s): timeout for url inputs
- ASYNCDOCS_MAX_INLINE_SIZE (default: 10485760): maximum size of inline content in bytes
- ASYNCDOCS_ALLOW_PRIVATE_IPS (default: false): allow url inputs that resolve to private addresses
- ASYNCDOCS_PAGE_MODE (default: channel): default page mode for the pages tool
- ASYNCDOCS_GROUP_BY (default: none): default grouping for the pages tool

Caching: documents are keyed by the SHA-256 of their content, so an edited file is reparsed on the next call.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled. A nil c keeps the environment defaults.
func Run(ctx context.Context, c *envconfig.Config) error {
	configure(c)

	server := newServer()
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "asyncdocs", Version: asyncdocs.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse an AsyncAPI 2.x or 3.x document. Returns a structural summary: title, version, AsyncAPI version, channel/operation/server counts, servers, channels, tags, and warnings. Use full=true only for small documents; it returns the normalized channels and operations as JSON.",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "operations",
		Description: "List operations in an AsyncAPI document. Filter by channel name, direction (publish or subscribe), operation id, or tag. Channel and operation filters match either the exact name or its slug. Returns summaries (channel, direction, id, summary, tags, message names). Use offset/limit to paginate.",
	}, handleOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pages",
		Description: "Plan documentation pages for an AsyncAPI document. per selects one page per channel, operation, or tag; group_by nests pages under a server or tag folder. Returns each page's path, title, description, and the channel/direction/operation it renders. Defaults are configurable via ASYNCDOCS_PAGE_MODE and ASYNCDOCS_GROUP_BY.",
	}, handlePages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "example",
		Description: "Build example messages for one operation. Identify the operation by operation id or by channel plus direction. Returns one tab per message and reply message with its example payload, a draft payload to send, and the payload's top-level parameters, plus the WebSocket URLs of the operation's servers.",
	}, handleExample)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to defaultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit, len(items)-offset)
	return items[offset : offset+limit]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
