package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/mythos/internal/kvstore"
	"github.com/HendryAvila/mythos/internal/state"
)

func newPsyche(t *testing.T) *state.Psyche {
	t.Helper()
	return state.NewPsyche(kvstore.NewAdapter(kvstore.NewMemoryBackend()))
}

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, r.Messages, 1)
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok, "content should be text")
	return tc.Text
}

func TestReflectPrompt_Defaults(t *testing.T) {
	p := NewReflectPrompt(newPsyche(t))
	assert.Equal(t, "mythos-reflect", p.Definition().Name)

	r, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	require.NoError(t, err)

	text := promptText(t, r)
	assert.Contains(t, text, "write a general entry")
	assert.Contains(t, text, "clarity 7.0, turbulence 3.0, growth 5.0, integration 4.0")
	assert.Contains(t, text, "atmosphere: balanced")
	assert.Contains(t, text, "type='general'")
}

func TestReflectPrompt_TurbulentState(t *testing.T) {
	psyche := newPsyche(t)
	psyche.Set(state.PsychicState{Clarity: 4, Turbulence: 9, Growth: 5, Integration: 4})

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"type": "dream"}
	r, err := NewReflectPrompt(psyche).Handle(context.Background(), req)
	require.NoError(t, err)

	text := promptText(t, r)
	assert.Contains(t, text, "grounding moment")
	assert.Contains(t, text, "type='dream'")
}

func TestReflectPrompt_RejectsUnknownType(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"type": "nightmare"}
	_, err := NewReflectPrompt(newPsyche(t)).Handle(context.Background(), req)
	require.Error(t, err)
}

func TestStatusPrompt(t *testing.T) {
	p := NewStatusPrompt()
	assert.Equal(t, "mythos-status", p.Definition().Name)

	r, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	require.NoError(t, err)
	text := promptText(t, r)
	for _, tool := range []string{"psyche_get", "landform_list", "ritual_status", "journal_stats"} {
		assert.True(t, strings.Contains(text, tool), "status prompt should mention %s", tool)
	}
}
