package tools

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/mythos/internal/state"
)

// LandformManifestTool handles the landform_manifest MCP tool.
type LandformManifestTool struct {
	landforms *state.Landforms
}

// NewLandformManifestTool creates a LandformManifestTool.
func NewLandformManifestTool(landforms *state.Landforms) *LandformManifestTool {
	return &LandformManifestTool{landforms: landforms}
}

// Definition returns the MCP tool definition for landform_manifest.
func (t *LandformManifestTool) Definition() mcp.Tool {
	return mcp.NewTool("landform_manifest",
		mcp.WithDescription("Place an archetypal landform in the inner landscape."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Archetype"),
			mcp.Enum("mountain", "river", "forest", "cave", "altar", "abyss", "crystal", "flame"),
		),
		mcp.WithNumber("intensity",
			mcp.Required(),
			mcp.Description("Intensity 0-10; out-of-range values are clamped"),
		),
		mcp.WithNumber("x", mcp.Description("Canvas x; random when omitted")),
		mcp.WithNumber("y", mcp.Description("Canvas y; random when omitted")),
	)
}

// Handle processes the landform_manifest tool call.
func (t *LandformManifestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intensity, ok := floatArg(req, "intensity")
	if !ok {
		return mcp.NewToolResultError("'intensity' is required"), nil
	}
	x, y := positionArgs(req)

	lf, err := t.landforms.Manifest(state.LandformType(req.GetString("type", "")), intensity, x, y)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fmt.Sprintf("%s manifested (resonance: %s)", lf.Name, lf.Resonance), lf)
}

// ─── LandformListTool ───────────────────────────────────────────────────────

// LandformListTool handles the landform_list MCP tool.
type LandformListTool struct {
	landforms *state.Landforms
}

// NewLandformListTool creates a LandformListTool.
func NewLandformListTool(landforms *state.Landforms) *LandformListTool {
	return &LandformListTool{landforms: landforms}
}

// Definition returns the MCP tool definition for landform_list.
func (t *LandformListTool) Definition() mcp.Tool {
	return mcp.NewTool("landform_list",
		mcp.WithDescription("List every landform in placement order."),
	)
}

// Handle processes the landform_list tool call.
func (t *LandformListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := t.landforms.All()
	if len(all) == 0 {
		return mcp.NewToolResultText("The landscape is empty. Carve a glyph to manifest the first landform."), nil
	}
	return jsonResult(fmt.Sprintf("%d landforms", len(all)), all)
}

// ─── GlyphCarveTool ─────────────────────────────────────────────────────────

// GlyphCarveTool handles the glyph_carve MCP tool.
type GlyphCarveTool struct {
	psyche    *state.Psyche
	landforms *state.Landforms
}

// NewGlyphCarveTool creates a GlyphCarveTool.
func NewGlyphCarveTool(psyche *state.Psyche, landforms *state.Landforms) *GlyphCarveTool {
	return &GlyphCarveTool{psyche: psyche, landforms: landforms}
}

// Definition returns the MCP tool definition for glyph_carve.
func (t *GlyphCarveTool) Definition() mcp.Tool {
	return mcp.NewTool("glyph_carve",
		mcp.WithDescription(
			"Carve a symbolic glyph with a tool. High intensity manifests a crystal, medium a flame, "+
				"low a river. The compass raises clarity and the mirror raises integration.",
		),
		mcp.WithString("tool",
			mcp.Required(),
			mcp.Description("Symbolic tool"),
			mcp.Enum("compass", "torch", "mirror", "crystal", "glyph"),
		),
		mcp.WithNumber("intensity", mcp.Description("Carving intensity 0-10; random when omitted")),
		mcp.WithNumber("x", mcp.Description("Canvas x; random when omitted")),
		mcp.WithNumber("y", mcp.Description("Canvas y; random when omitted")),
	)
}

// Handle processes the glyph_carve tool call.
func (t *GlyphCarveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intensity, ok := floatArg(req, "intensity")
	if !ok {
		intensity = rand.Float64() * state.MaxIntensity
	}
	x, y := positionArgs(req)

	c, err := state.CarveGlyph(t.psyche, t.landforms, state.ToolType(req.GetString("tool", "")), intensity, x, y)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c.Message, c)
}

// ─── DreamTuneTool ──────────────────────────────────────────────────────────

// DreamTuneTool handles the dream_tune MCP tool.
type DreamTuneTool struct {
	nav       *state.Navigator
	landforms *state.Landforms
}

// NewDreamTuneTool creates a DreamTuneTool.
func NewDreamTuneTool(nav *state.Navigator, landforms *state.Landforms) *DreamTuneTool {
	return &DreamTuneTool{nav: nav, landforms: landforms}
}

// Definition returns the MCP tool definition for dream_tune.
func (t *DreamTuneTool) Definition() mcp.Tool {
	return mcp.NewTool("dream_tune",
		mcp.WithDescription("Enter dream mode and let a Forest of Echoes manifest from the dream resonance."),
		mcp.WithNumber("x", mcp.Description("Canvas x; random when omitted")),
		mcp.WithNumber("y", mcp.Description("Canvas y; random when omitted")),
	)
}

// Handle processes the dream_tune tool call.
func (t *DreamTuneTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, y := positionArgs(req)
	lf, err := state.TuneDream(t.nav, t.landforms, x, y)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult("Dream echoes manifest in the Forest of Echoes...", lf)
}

// ─── NavigateTool ───────────────────────────────────────────────────────────

// NavigateTool handles the navigate MCP tool.
type NavigateTool struct {
	nav *state.Navigator
}

// NewNavigateTool creates a NavigateTool.
func NewNavigateTool(nav *state.Navigator) *NavigateTool {
	return &NavigateTool{nav: nav}
}

// Definition returns the MCP tool definition for navigate.
func (t *NavigateTool) Definition() mcp.Tool {
	return mcp.NewTool("navigate",
		mcp.WithDescription("Switch the active view."),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("View to enter"),
			mcp.Enum("overview", "ritual", "dream", "integration", "journal"),
		),
	)
}

// Handle processes the navigate tool call.
func (t *NavigateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := state.Mode(req.GetString("mode", ""))
	if err := t.nav.Navigate(mode); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Now in %s mode", mode)), nil
}
