package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the mythos-status MCP prompt.
// It instructs the AI to read and present the whole inner landscape.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("mythos-status",
		mcp.WithPromptDescription(
			"Survey your inner landscape: psychic state, landforms, ritual progress and recent journal entries.",
		),
	)
}

// Handle processes the mythos-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "MythOS landscape status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `psyche_get`, `landform_list`, `ritual_status` and `journal_stats`.\n\n" +
						"Then:\n" +
						"1. Describe my psychic state and its atmosphere in a few evocative sentences\n" +
						"2. Walk me through the landforms in my landscape, strongest resonance first\n" +
						"3. Tell me where my ritual stands and which elements are still missing\n" +
						"4. Suggest one next step: a glyph to carve, a ritual element, or a journal reflection",
				),
			},
		},
	}, nil
}
