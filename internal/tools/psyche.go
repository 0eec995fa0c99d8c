package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/mythos/internal/state"
)

type psycheReading struct {
	State                state.PsychicState `json:"psychicState"`
	Atmosphere           state.Atmosphere   `json:"atmosphere"`
	IntegrationReadiness float64            `json:"integrationReadiness"`
}

func readPsyche(p *state.Psyche) psycheReading {
	return psycheReading{
		State:                p.State(),
		Atmosphere:           p.Atmosphere(),
		IntegrationReadiness: p.IntegrationReadiness(),
	}
}

// PsycheGetTool handles the psyche_get MCP tool.
type PsycheGetTool struct {
	psyche *state.Psyche
}

// NewPsycheGetTool creates a PsycheGetTool.
func NewPsycheGetTool(psyche *state.Psyche) *PsycheGetTool {
	return &PsycheGetTool{psyche: psyche}
}

// Definition returns the MCP tool definition for psyche_get.
func (t *PsycheGetTool) Definition() mcp.Tool {
	return mcp.NewTool("psyche_get",
		mcp.WithDescription(
			"Read the psychic state (clarity, turbulence, growth, integration, each 1-10), "+
				"its atmosphere and integration readiness. The state drifts slowly on its own.",
		),
	)
}

// Handle processes the psyche_get tool call.
func (t *PsycheGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := readPsyche(t.psyche)
	return jsonResult(fmt.Sprintf("Atmosphere: %s", r.Atmosphere), r)
}

// ─── PsycheAdjustTool ───────────────────────────────────────────────────────

// PsycheAdjustTool handles the psyche_adjust MCP tool.
type PsycheAdjustTool struct {
	psyche *state.Psyche
}

// NewPsycheAdjustTool creates a PsycheAdjustTool.
func NewPsycheAdjustTool(psyche *state.Psyche) *PsycheAdjustTool {
	return &PsycheAdjustTool{psyche: psyche}
}

// Definition returns the MCP tool definition for psyche_adjust.
func (t *PsycheAdjustTool) Definition() mcp.Tool {
	return mcp.NewTool("psyche_adjust",
		mcp.WithDescription("Shift psychic state fields by signed deltas. Results are clamped into 1-10."),
		mcp.WithNumber("clarity", mcp.Description("Delta for clarity")),
		mcp.WithNumber("turbulence", mcp.Description("Delta for turbulence")),
		mcp.WithNumber("growth", mcp.Description("Delta for growth")),
		mcp.WithNumber("integration", mcp.Description("Delta for integration")),
	)
}

// Handle processes the psyche_adjust tool call.
func (t *PsycheAdjustTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var delta state.PsychicState
	var changed bool
	for key, field := range map[string]*float64{
		"clarity":     &delta.Clarity,
		"turbulence":  &delta.Turbulence,
		"growth":      &delta.Growth,
		"integration": &delta.Integration,
	} {
		if v, ok := floatArg(req, key); ok {
			*field = v
			changed = true
		}
	}
	if !changed {
		return mcp.NewToolResultError("pass at least one of clarity, turbulence, growth, integration"), nil
	}

	t.psyche.Adjust(delta)
	r := readPsyche(t.psyche)
	return jsonResult(fmt.Sprintf("Psychic state adjusted. Atmosphere: %s", r.Atmosphere), r)
}
