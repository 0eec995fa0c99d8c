// Package tools implements the MCP tool handlers of mythos.
//
// Each tool is a struct that receives its dependencies through its
// constructor, exposes Definition() for registration and Handle() as the
// mcp-go handler. Domain failures (validation, not found) are reported as
// tool error results; the Go error return is reserved for protocol
// failures.
package tools

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/mythos/internal/state"
)

// floatArg extracts a numeric argument. JSON numbers arrive as float64.
func floatArg(req mcp.CallToolRequest, key string) (float64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	return v, ok
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// optionalString returns a pointer to the argument when it is present,
// so an empty string can be told apart from an absent one.
func optionalString(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// stringSliceArg extracts an array-of-strings argument. Non-string items
// are skipped. ok is false when the key is absent or not an array.
func stringSliceArg(req mcp.CallToolRequest, key string) ([]string, bool) {
	raw, ok := req.GetArguments()[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// positionArgs reads x and y, picking a random canvas point for any
// coordinate that is missing.
func positionArgs(req mcp.CallToolRequest) (float64, float64) {
	rx, ry := state.RandomPosition(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	x, ok := floatArg(req, "x")
	if !ok {
		x = rx
	}
	y, ok := floatArg(req, "y")
	if !ok {
		y = ry
	}
	return x, y
}

// jsonResult renders v as an indented JSON text result, prefixed by a
// one-line summary when summary is not empty.
func jsonResult(summary string, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	if summary == "" {
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(summary + "\n\n" + string(data)), nil
}
