// tools.go implements the MCP tool handlers for bundle operations.
//
// Design: sprout_check is the dry-run half (manifest + errors +
// collisions, nothing written) so an LLM can preview the effect of a
// bundle before committing to it with sprout_apply. Validation errors
// are returned as structured data, not error results - a malformed
// bundle is a normal outcome the LLM should read and fix, not a tool
// failure.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/log"
	"github.com/jpl-au/sprout/internal/materialise"
	"github.com/mark3labs/mcp-go/mcp"
)

// manifestEntry summarises one parsed entry for tool output.
type manifestEntry struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

// checkBundle handles sprout_check tool calls.
func checkBundle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("bundle")
	if err != nil {
		return mcp.NewToolResultError("bundle is required"), nil //nolint:nilerr
	}
	dir := getString(req, "output_dir", ".")

	result, err := bundle.Parse(text)

	log.Event("mcp:sprout_check", "check").Output(dir).Write(err)

	if err != nil {
		return errorsResult(err)
	}

	manifest := make([]manifestEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		manifest = append(manifest, manifestEntry{Path: e.Path, Size: len(e.Content)})
	}

	return jsonResult(map[string]any{
		"entries":    manifest,
		"warnings":   warningsOf(result),
		"collisions": materialise.CheckCollisions(result.Entries, dir),
	})
}

// applyBundle handles sprout_apply tool calls.
func applyBundle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("bundle")
	if err != nil {
		return mcp.NewToolResultError("bundle is required"), nil //nolint:nilerr
	}
	dir := getString(req, "output_dir", ".")
	force := getBool(req, "force", false)

	result, err := bundle.Parse(text)
	if err != nil {
		log.Event("mcp:sprout_apply", "apply").Output(dir).Write(err)
		return errorsResult(err)
	}

	if !force {
		if collisions := materialise.CheckCollisions(result.Entries, dir); len(collisions) > 0 {
			log.Event("mcp:sprout_apply", "apply").Output(dir).Detail("collisions", len(collisions)).Write(nil)
			return jsonResult(map[string]any{
				"written":    0,
				"collisions": collisions,
			})
		}
	}

	written, err := materialise.Write(io.Discard, result.Entries, dir, materialise.Options{Force: force})

	log.Event("mcp:sprout_apply", "apply").
		Output(dir).
		Files(len(written.Created) + len(written.Overwritten)).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"created":     written.Created,
		"overwritten": written.Overwritten,
		"warnings":    warningsOf(result),
	})
}

// errorsResult renders a parse failure as structured data. Non-parse
// errors fall back to a plain MCP error result.
func errorsResult(err error) (*mcp.CallToolResult, error) {
	var parseErr *bundle.ParseError
	if !errors.As(err, &parseErr) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"errors": parseErr.Errors,
	})
}

// warningsOf renders a result's warnings as display strings.
func warningsOf(r *bundle.Result) []string {
	warnings := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, w.String())
	}
	return warnings
}

// getString extracts a string parameter, returning the default if the
// parameter is missing or not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getBool extracts a boolean parameter from the raw argument map.
// JSON booleans decode as Go bool values, so a type assertion suffices.
func getBool(req mcp.CallToolRequest, name string, def bool) bool {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// jsonResult serialises v as indented JSON wrapped in an MCP text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
