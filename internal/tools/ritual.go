package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/mythos/internal/state"
)

type ritualStatus struct {
	Active   []state.Element      `json:"active"`
	Phase    state.Phase          `json:"phase"`
	Progress state.RitualProgress `json:"progress"`
}

func readRitual(r *state.Ritual) ritualStatus {
	p := r.Progress()
	return ritualStatus{Active: p.Active(), Phase: p.Phase(), Progress: p}
}

// RitualActivateTool handles the ritual_activate MCP tool.
type RitualActivateTool struct {
	ritual *state.Ritual
}

// NewRitualActivateTool creates a RitualActivateTool.
func NewRitualActivateTool(ritual *state.Ritual) *RitualActivateTool {
	return &RitualActivateTool{ritual: ritual}
}

// Definition returns the MCP tool definition for ritual_activate.
func (t *RitualActivateTool) Definition() mcp.Tool {
	return mcp.NewTool("ritual_activate",
		mcp.WithDescription(
			"Activate a ritual element. Three active elements begin the invocation; "+
				"all four reach manifestation, after which ritual_complete can close the ritual.",
		),
		mcp.WithString("element",
			mcp.Required(),
			mcp.Description("Element to activate"),
			mcp.Enum("earth", "fire", "water", "air"),
		),
	)
}

// Handle processes the ritual_activate tool call.
func (t *RitualActivateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	el := state.Element(req.GetString("element", ""))
	phase, err := t.ritual.Activate(el)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fmt.Sprintf("Element %s activated. Phase: %s", el, phase), readRitual(t.ritual))
}

// ─── RitualCompleteTool ─────────────────────────────────────────────────────

// RitualCompleteTool handles the ritual_complete MCP tool.
type RitualCompleteTool struct {
	ritual *state.Ritual
}

// NewRitualCompleteTool creates a RitualCompleteTool.
func NewRitualCompleteTool(ritual *state.Ritual) *RitualCompleteTool {
	return &RitualCompleteTool{ritual: ritual}
}

// Definition returns the MCP tool definition for ritual_complete.
func (t *RitualCompleteTool) Definition() mcp.Tool {
	return mcp.NewTool("ritual_complete",
		mcp.WithDescription("Complete a ritual in the manifestation phase. All elements are released together."),
		mcp.WithString("tool",
			mcp.Description("Symbolic tool the ritual was performed with"),
			mcp.Enum("compass", "torch", "mirror", "crystal", "glyph"),
		),
	)
}

// Handle processes the ritual_complete tool call.
func (t *RitualCompleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tool := state.ToolType(req.GetString("tool", ""))
	if tool != "" {
		if err := state.ValidateTool(tool); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	id, err := t.ritual.Complete(tool)
	if errors.Is(err, state.ErrRitualIncomplete) {
		s := readRitual(t.ritual)
		return mcp.NewToolResultError(fmt.Sprintf(
			"ritual is in the %s phase with %d of 4 elements active; activate all four before completing",
			s.Phase, len(s.Active),
		)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Ritual completed: %s", id)), nil
}

// ─── RitualStatusTool ───────────────────────────────────────────────────────

// RitualStatusTool handles the ritual_status MCP tool.
type RitualStatusTool struct {
	ritual *state.Ritual
}

// NewRitualStatusTool creates a RitualStatusTool.
func NewRitualStatusTool(ritual *state.Ritual) *RitualStatusTool {
	return &RitualStatusTool{ritual: ritual}
}

// Definition returns the MCP tool definition for ritual_status.
func (t *RitualStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("ritual_status",
		mcp.WithDescription("Show active ritual elements, the current phase and when the last ritual was completed."),
	)
}

// Handle processes the ritual_status tool call.
func (t *RitualStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s := readRitual(t.ritual)
	return jsonResult(fmt.Sprintf("Phase: %s", s.Phase), s)
}
