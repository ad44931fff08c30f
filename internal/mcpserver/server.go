// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes docmerge capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/erraggy/docmerge"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `docmerge MCP server: deep-merges YAML, JSON and TOML configuration documents and lists their leaves.

Configuration: defaults are configurable via DOCMERGE_* environment variables set in your MCP client config.

Key settings:
- DOCMERGE_COERCE (default: falsy) - how merge treats non-mapping intermediate values (falsy or absent)
- DOCMERGE_MAX_OVERLAYS (default: 32) - maximum overlays per merge call
- DOCMERGE_MAX_INPUT_SIZE (default: 10485760) - maximum bytes per input document
- DOCMERGE_FLATTEN_LIMIT (default: 100) - default result limit for flatten
- DOCMERGE_CACHE_ENABLED (default: true) - disable document caching entirely

Caching: Parsed documents are cached per session. File entries use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "docmerge", Version: docmerge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Deep-merge one or more overlay documents into a base document, in order. Every overlay leaf (scalar or whole array) is written at the same key path; later overlays win. Null overlay values are ignored and arrays are replaced, never concatenated. Use dry_run=true to get a unified diff instead of changing anything. Use output to write to a file instead of returning inline.",
	}, handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "flatten",
		Description: "List every leaf of a document with its key path, sorted by path. Mappings are descended into, nulls are skipped and arrays are reported whole. Use prefix to restrict to a subtree and offset/limit to paginate.",
	}, handleFlatten)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.FlattenLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.FlattenLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
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

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
