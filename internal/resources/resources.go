// Package resources implements the MCP resources of mythos.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (mythos://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/mythos/internal/journal"
	"github.com/HendryAvila/mythos/internal/state"
)

// Resource URIs.
const (
	StateURI   = "mythos://state"
	JournalURI = "mythos://journal"
)

// Handler serves the mythos resources.
type Handler struct {
	session *state.Session
	journal *journal.Repository
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(session *state.Session, repo *journal.Repository) *Handler {
	return &Handler{session: session, journal: repo}
}

// StateResource returns the MCP resource definition for the state snapshot.
func (h *Handler) StateResource() mcp.Resource {
	return mcp.NewResource(
		StateURI,
		"MythOS State",
		mcp.WithResourceDescription("Psychic state, landforms, navigation mode, ritual progress and soundscape settings"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleState returns the state snapshot as JSON.
func (h *Handler) HandleState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, h.session.Snapshot())
}

// JournalResource returns the MCP resource definition for the journal.
func (h *Handler) JournalResource() mcp.Resource {
	return mcp.NewResource(
		JournalURI,
		"MythOS Journal",
		mcp.WithResourceDescription("All journal entries, newest first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleJournal returns every journal entry as JSON.
func (h *Handler) HandleJournal(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, h.journal.Entries())
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
