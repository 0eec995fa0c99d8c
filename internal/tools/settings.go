package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/mythos/internal/journal"
	"github.com/HendryAvila/mythos/internal/kvstore"
	"github.com/HendryAvila/mythos/internal/state"
)

// SoundscapeSetTool handles the soundscape_set MCP tool.
type SoundscapeSetTool struct {
	soundscape *state.Soundscape
}

// NewSoundscapeSetTool creates a SoundscapeSetTool.
func NewSoundscapeSetTool(soundscape *state.Soundscape) *SoundscapeSetTool {
	return &SoundscapeSetTool{soundscape: soundscape}
}

// Definition returns the MCP tool definition for soundscape_set.
func (t *SoundscapeSetTool) Definition() mcp.Tool {
	return mcp.NewTool("soundscape_set",
		mcp.WithDescription("Change the ambient soundscape preset and/or volume."),
		mcp.WithString("mode",
			mcp.Description("Preset"),
			mcp.Enum("focus", "calm", "flow"),
		),
		mcp.WithNumber("volume", mcp.Description("Volume 0-1; clamped")),
	)
}

// Handle processes the soundscape_set tool call.
func (t *SoundscapeSetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := optionalString(req, "mode")
	volume, hasVolume := floatArg(req, "volume")
	if mode == nil && !hasVolume {
		return mcp.NewToolResultError("pass 'mode', 'volume' or both"), nil
	}

	if mode != nil {
		if err := t.soundscape.SetMode(state.SoundscapeMode(*mode)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if hasVolume {
		t.soundscape.SetVolume(volume)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Soundscape: %s at volume %.2f", t.soundscape.Mode(), t.soundscape.Volume())), nil
}

// ─── StorageClearTool ───────────────────────────────────────────────────────

// StorageClearTool handles the storage_clear MCP tool.
type StorageClearTool struct {
	store   *kvstore.Adapter
	session *state.Session
	journal *journal.Repository
	logger  *zap.Logger
}

// NewStorageClearTool creates a StorageClearTool. After the keys are
// removed the in-memory session and journal are reset to match.
func NewStorageClearTool(store *kvstore.Adapter, session *state.Session, repo *journal.Repository, logger *zap.Logger) *StorageClearTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageClearTool{store: store, session: session, journal: repo, logger: logger}
}

// Definition returns the MCP tool definition for storage_clear.
func (t *StorageClearTool) Definition() mcp.Tool {
	return mcp.NewTool("storage_clear",
		mcp.WithDescription("Erase every persisted mythos value: psychic state, landforms, rituals, journal, settings and history. Cannot be undone."),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true"),
		),
	)
}

// Handle processes the storage_clear tool call.
func (t *StorageClearTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !boolArg(req, "confirm", false) {
		return mcp.NewToolResultError("storage_clear erases everything; pass confirm=true to proceed"), nil
	}

	failed := t.store.Clear()
	t.session.Reset()
	t.journal.Reset()
	t.logger.Info("storage cleared", zap.Int("failed", failed))

	if failed > 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Storage cleared with %d key(s) that could not be removed; they may reappear after a restart.", failed,
		)), nil
	}
	return mcp.NewToolResultText("Storage cleared. The landscape starts anew."), nil
}
