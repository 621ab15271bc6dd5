// serve.go implements the "sprout serve" command for MCP server
// operation.
//
// Unlike other commands that run and exit, serve blocks indefinitely
// handling MCP requests over stdio.

package cmd

import (
	"github.com/jpl-au/sprout/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server",
	Long: `Start an MCP (Model Context Protocol) server over stdio for LLM
integration. Exposes sprout_check and sprout_apply tools.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
