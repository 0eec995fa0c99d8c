package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/mythos/internal/journal"
	"github.com/HendryAvila/mythos/internal/state"
)

// JournalCreateTool handles the journal_create MCP tool.
type JournalCreateTool struct {
	repo *journal.Repository
}

// NewJournalCreateTool creates a JournalCreateTool.
func NewJournalCreateTool(repo *journal.Repository) *JournalCreateTool {
	return &JournalCreateTool{repo: repo}
}

// Definition returns the MCP tool definition for journal_create.
func (t *JournalCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("journal_create",
		mcp.WithDescription("Write a new journal entry. Entries are listed newest first."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Entry type"),
			mcp.Enum("dream", "insight", "ritual", "integration", "general"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title of the entry"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Body of the entry"),
		),
		mcp.WithString("mood",
			mcp.Description("Optional mood: clarity, turbulence, growth, shadow, peace, conflict, breakthrough"),
		),
		mcp.WithArray("associated_landforms",
			mcp.Description("Optional landform IDs this entry refers to"),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the journal_create tool call.
func (t *JournalCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	content := req.GetString("content", "")
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	typ := journal.EntryType(req.GetString("type", ""))
	if err := journal.ValidateType(typ); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mood := journal.Mood(req.GetString("mood", ""))
	if err := journal.ValidateMood(mood); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	landforms, _ := stringSliceArg(req, "associated_landforms")

	e := t.repo.Create(journal.CreateParams{
		Type:                typ,
		Title:               title,
		Content:             content,
		Mood:                mood,
		AssociatedLandforms: landforms,
	})
	return jsonResult(fmt.Sprintf("Journal entry created: %q (%s)", e.Title, e.Type), e)
}

// ─── JournalUpdateTool ──────────────────────────────────────────────────────

// JournalUpdateTool handles the journal_update MCP tool.
type JournalUpdateTool struct {
	repo *journal.Repository
}

// NewJournalUpdateTool creates a JournalUpdateTool.
func NewJournalUpdateTool(repo *journal.Repository) *JournalUpdateTool {
	return &JournalUpdateTool{repo: repo}
}

// Definition returns the MCP tool definition for journal_update.
func (t *JournalUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("journal_update",
		mcp.WithDescription("Update fields of an existing journal entry. Only the fields you pass are changed; pass mood=\"\" to clear the mood."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry ID (journal-...)"),
		),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithString("mood", mcp.Description("New mood, or empty to clear")),
		mcp.WithArray("associated_landforms",
			mcp.Description("Replacement list of landform IDs"),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the journal_update tool call.
func (t *JournalUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	var p journal.UpdateParams
	if title := optionalString(req, "title"); title != nil {
		if strings.TrimSpace(*title) == "" {
			return mcp.NewToolResultError("'title' cannot be empty"), nil
		}
		p.Title = title
	}
	if content := optionalString(req, "content"); content != nil {
		if strings.TrimSpace(*content) == "" {
			return mcp.NewToolResultError("'content' cannot be empty"), nil
		}
		p.Content = content
	}
	if raw := optionalString(req, "mood"); raw != nil {
		mood := journal.Mood(*raw)
		if err := journal.ValidateMood(mood); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p.Mood = &mood
	}
	if landforms, ok := stringSliceArg(req, "associated_landforms"); ok {
		p.AssociatedLandforms = &landforms
	}
	if p.Empty() {
		return mcp.NewToolResultError("nothing to update: pass at least one of title, content, mood, associated_landforms"), nil
	}

	e, ok := t.repo.Update(id, p)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("journal entry %s not found", id)), nil
	}
	return jsonResult(fmt.Sprintf("Journal entry updated: %q", e.Title), e)
}

// ─── JournalDeleteTool ──────────────────────────────────────────────────────

// JournalDeleteTool handles the journal_delete MCP tool.
type JournalDeleteTool struct {
	repo *journal.Repository
}

// NewJournalDeleteTool creates a JournalDeleteTool.
func NewJournalDeleteTool(repo *journal.Repository) *JournalDeleteTool {
	return &JournalDeleteTool{repo: repo}
}

// Definition returns the MCP tool definition for journal_delete.
func (t *JournalDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("journal_delete",
		mcp.WithDescription("Delete a journal entry permanently."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry ID (journal-...)"),
		),
	)
}

// Handle processes the journal_delete tool call.
func (t *JournalDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	if !t.repo.Delete(id) {
		return mcp.NewToolResultError(fmt.Sprintf("journal entry %s not found", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Journal entry %s deleted", id)), nil
}

// ─── JournalGetTool ─────────────────────────────────────────────────────────

// JournalGetTool handles the journal_get MCP tool.
type JournalGetTool struct {
	repo      *journal.Repository
	landforms *state.Landforms
}

// NewJournalGetTool creates a JournalGetTool. Associated landform IDs are
// resolved through landforms.
func NewJournalGetTool(repo *journal.Repository, landforms *state.Landforms) *JournalGetTool {
	return &JournalGetTool{repo: repo, landforms: landforms}
}

// Definition returns the MCP tool definition for journal_get.
func (t *JournalGetTool) Definition() mcp.Tool {
	return mcp.NewTool("journal_get",
		mcp.WithDescription("Get one journal entry with its associated landforms resolved."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry ID (journal-...)"),
		),
	)
}

type entryDetail struct {
	journal.Entry
	Landforms []state.Landform `json:"landforms"`
}

// Handle processes the journal_get tool call.
func (t *JournalGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	e, ok := t.repo.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("journal entry %s not found", id)), nil
	}
	return jsonResult("", entryDetail{
		Entry:     e,
		Landforms: journal.ResolveLandforms(e, t.landforms.Get),
	})
}

// ─── JournalListTool ────────────────────────────────────────────────────────

// JournalListTool handles the journal_list MCP tool.
type JournalListTool struct {
	repo *journal.Repository
}

// NewJournalListTool creates a JournalListTool.
func NewJournalListTool(repo *journal.Repository) *JournalListTool {
	return &JournalListTool{repo: repo}
}

// Definition returns the MCP tool definition for journal_list.
func (t *JournalListTool) Definition() mcp.Tool {
	return mcp.NewTool("journal_list",
		mcp.WithDescription("List journal entries, newest first, optionally filtered by type."),
		mcp.WithString("type",
			mcp.Description("Only list entries of this type"),
			mcp.Enum("dream", "insight", "ritual", "integration", "general"),
		),
	)
}

// Handle processes the journal_list tool call.
func (t *JournalListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ := journal.EntryType(req.GetString("type", ""))
	if typ == "" {
		entries := t.repo.Entries()
		return jsonResult(fmt.Sprintf("%d journal entries", len(entries)), entries)
	}
	if err := journal.ValidateType(typ); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries := t.repo.ByType(typ)
	return jsonResult(fmt.Sprintf("%d %s entries", len(entries), typ), entries)
}

// ─── JournalSearchTool ──────────────────────────────────────────────────────

// JournalSearchTool handles the journal_search MCP tool.
type JournalSearchTool struct {
	repo *journal.Repository
}

// NewJournalSearchTool creates a JournalSearchTool.
func NewJournalSearchTool(repo *journal.Repository) *JournalSearchTool {
	return &JournalSearchTool{repo: repo}
}

// Definition returns the MCP tool definition for journal_search.
func (t *JournalSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("journal_search",
		mcp.WithDescription("Case-insensitive substring search over journal titles and contents."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for"),
		),
	)
}

// Handle processes the journal_search tool call.
func (t *JournalSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	entries := t.repo.Search(query)
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No journal entries match %q", query)), nil
	}
	return jsonResult(fmt.Sprintf("%d entries match %q", len(entries), query), entries)
}

// ─── JournalStatsTool ───────────────────────────────────────────────────────

// JournalStatsTool handles the journal_stats MCP tool.
type JournalStatsTool struct {
	repo *journal.Repository
}

// NewJournalStatsTool creates a JournalStatsTool.
func NewJournalStatsTool(repo *journal.Repository) *JournalStatsTool {
	return &JournalStatsTool{repo: repo}
}

// Definition returns the MCP tool definition for journal_stats.
func (t *JournalStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("journal_stats",
		mcp.WithDescription("Count journal entries, in total and per type."),
	)
}

// Handle processes the journal_stats tool call.
func (t *JournalStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts := t.repo.CountByType()

	var b strings.Builder
	fmt.Fprintf(&b, "Journal entries: %d\n", t.repo.Total())
	for _, typ := range []journal.EntryType{
		journal.TypeDream, journal.TypeInsight, journal.TypeRitual, journal.TypeIntegration, journal.TypeGeneral,
	} {
		fmt.Fprintf(&b, "- %s: %d\n", typ, counts[typ])
	}
	return mcp.NewToolResultText(b.String()), nil
}
