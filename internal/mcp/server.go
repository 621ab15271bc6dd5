// Package mcp implements the Model Context Protocol server, exposing
// bundle extraction to LLMs. The bundle format is an LLM output format
// in the first place, so an agent that just produced one can hand it
// straight to sprout without shelling out.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio.
// Uses stdio transport for compatibility with Claude Desktop and other
// MCP clients.
func Serve() error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	s := server.NewMCPServer(
		"sprout",
		Version,
		server.WithToolCapabilities(true),
	)

	registerTools(s)

	slog.Info("sprout MCP server ready", "version", Version, "transport", "stdio")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// registerTools adds the bundle tools to the server.
func registerTools(s *server.MCPServer) {
	s.AddTool(
		mcp.NewTool("sprout_check",
			mcp.WithDescription("Parse a bundle and report its manifest, validation errors and collisions against an output directory, without writing anything"),
			mcp.WithString("bundle", mcp.Required(), mcp.Description("Bundle text to parse")),
			mcp.WithString("output_dir", mcp.Description("Directory to check collisions against (default: current directory)")),
		),
		checkBundle,
	)

	s.AddTool(
		mcp.NewTool("sprout_apply",
			mcp.WithDescription("Parse a bundle and write its files under an output directory"),
			mcp.WithString("bundle", mcp.Required(), mcp.Description("Bundle text to parse")),
			mcp.WithString("output_dir", mcp.Description("Directory to write files under (default: current directory)")),
			mcp.WithBoolean("force", mcp.Description("Write even when targets already exist")),
		),
		applyBundle,
	)
}
