// Package prompts implements the MCP prompts of mythos.
//
// Prompts are user-triggered workflows (like slash commands). Unlike
// tools, which the AI calls, they are started by the user and expand into
// instructions for the AI.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/mythos/internal/journal"
	"github.com/HendryAvila/mythos/internal/state"
)

// ReflectPrompt handles the mythos-reflect MCP prompt.
// It seeds a guided journaling reflection with the current psychic state.
type ReflectPrompt struct {
	psyche *state.Psyche
}

// NewReflectPrompt creates a ReflectPrompt.
func NewReflectPrompt(psyche *state.Psyche) *ReflectPrompt {
	return &ReflectPrompt{psyche: psyche}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReflectPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("mythos-reflect",
		mcp.WithPromptDescription(
			"Reflect on your inner landscape and capture it as a journal entry. "+
				"The reflection is tuned to your current psychic state.",
		),
		mcp.WithArgument("type",
			mcp.ArgumentDescription("Kind of entry to write: dream, insight, ritual, integration or general. Default: general"),
		),
	)
}

// Handle processes the mythos-reflect prompt request.
func (p *ReflectPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	typ := journal.TypeGeneral
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["type"]; ok && v != "" {
			typ = journal.EntryType(v)
		}
	}
	if err := journal.ValidateType(typ); err != nil {
		return nil, err
	}

	s := p.psyche.State()
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Reflect and write a %s entry", typ),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to reflect and write a %s entry in my MythOS journal.\n\n"+
						"My psychic state right now: clarity %.1f, turbulence %.1f, growth %.1f, integration %.1f "+
						"(atmosphere: %s).\n\n"+
						"Please:\n"+
						"1. %s\n"+
						"2. Ask me two or three open questions, one at a time, and listen to my answers\n"+
						"3. Suggest a short title and a mood that fits what I shared\n"+
						"4. Once I agree, run `journal_create` with type='%s' and the content in my own words\n"+
						"5. If the entry relates to landforms in my landscape, look them up with `landform_list` "+
						"and pass their IDs as associated_landforms",
					typ, s.Clarity, s.Turbulence, s.Growth, s.Integration, p.psyche.Atmosphere(),
					openingFor(p.psyche.Atmosphere()), typ,
				)),
			},
		},
	}, nil
}

// openingFor picks the first step of the reflection for an atmosphere.
func openingFor(a state.Atmosphere) string {
	switch a {
	case state.AtmosphereTurbulent:
		return "Start with a grounding moment: help me name what feels unsettled before we go deeper"
	case state.AtmosphereClear:
		return "Start by asking what I am seeing clearly today that I could not see before"
	case state.AtmosphereGrowing:
		return "Start by asking what is growing in me and what it needs"
	default:
		return "Start by asking what is present for me right now"
	}
}
