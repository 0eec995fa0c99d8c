// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens storage, rehydrates the journal
// and state slices, starts the drift task and injects them into the
// tools, prompts and resources. No domain logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/mythos/internal/config"
	"github.com/HendryAvila/mythos/internal/journal"
	"github.com/HendryAvila/mythos/internal/kvstore"
	"github.com/HendryAvila/mythos/internal/prompts"
	"github.com/HendryAvila/mythos/internal/resources"
	"github.com/HendryAvila/mythos/internal/state"
	"github.com/HendryAvila/mythos/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Store is an opened persistence layer.
type Store struct {
	Adapter *kvstore.Adapter
	// Path is the database file, or "" when running in memory.
	Path string

	failures atomic.Int64
	closer   func() error
}

// Failures returns how many storage operations have failed so far.
func (s *Store) Failures() int64 { return s.failures.Load() }

// Close releases the backend.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// OpenStore opens the configured backend. When the SQLite database cannot
// be opened it logs a warning and falls back to memory, so the server
// stays usable without persistence.
func OpenStore(cfg config.StorageConfig, logger *zap.Logger) *Store {
	st := &Store{}
	var backend kvstore.Backend

	if cfg.InMemory {
		logger.Info("storage running in memory")
		backend = kvstore.NewMemoryBackend()
	} else if db, err := kvstore.OpenSQLite(cfg.DataDir); err != nil {
		logger.Warn("persistence disabled, falling back to memory", zap.Error(err))
		backend = kvstore.NewMemoryBackend()
	} else {
		logger.Info("storage opened", zap.String("path", db.Path()))
		backend = db
		st.Path = db.Path()
		st.closer = db.Close
	}

	st.Adapter = kvstore.NewAdapter(backend,
		kvstore.WithLogger(logger.Named("kvstore")),
		kvstore.WithFailureObserver(func(f kvstore.Failure) {
			if st.failures.Add(1) == 1 && f.Op == kvstore.OpSet {
				logger.Error("writes are failing; changes may not survive a restart", zap.Error(f))
			}
		}),
	)
	return st
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup function stops the drift task, records the session
// in the history and closes the database. It is always non-nil and must
// be called on shutdown.
func New(cfg *config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if cfg == nil {
		return nil, noop, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Storage and state ---

	store := OpenStore(cfg.Storage, logger)
	repo := journal.New(store.Adapter)
	session := state.NewSession(store.Adapter)
	journalAtStart := repo.Total()

	if session.FirstVisit() {
		logger.Info("first visit")
	}

	drift := state.NewDrift(session.Psyche, cfg.Drift.Interval, state.WithDriftLogger(logger.Named("drift")))
	if cfg.Drift.Enabled() {
		if err := drift.Start(context.Background()); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("starting drift: %w", err)
		}
	}

	cleanup := func() {
		drift.Stop()
		rec := session.Close(repo.Total() - journalAtStart)
		logger.Info("session recorded",
			zap.String("id", rec.ID),
			zap.Float64("minutes", rec.Duration),
			zap.Int64("storage_failures", store.Failures()),
		)
		if err := store.Close(); err != nil {
			logger.Warn("closing storage", zap.Error(err))
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"mythos",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerJournalTools(s, repo, session.Landforms)
	registerStateTools(s, session)

	clearTool := tools.NewStorageClearTool(store.Adapter, session, repo, logger)
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	// --- Register prompts ---

	reflectPrompt := prompts.NewReflectPrompt(session.Psyche)
	s.AddPrompt(reflectPrompt.Definition(), reflectPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(session, repo)
	s.AddResource(resourceHandler.StateResource(), resourceHandler.HandleState)
	s.AddResource(resourceHandler.JournalResource(), resourceHandler.HandleJournal)

	return s, cleanup, nil
}

// noop is the cleanup returned when New fails.
func noop() {}

func registerJournalTools(s *server.MCPServer, repo *journal.Repository, landforms *state.Landforms) {
	create := tools.NewJournalCreateTool(repo)
	s.AddTool(create.Definition(), create.Handle)

	update := tools.NewJournalUpdateTool(repo)
	s.AddTool(update.Definition(), update.Handle)

	del := tools.NewJournalDeleteTool(repo)
	s.AddTool(del.Definition(), del.Handle)

	get := tools.NewJournalGetTool(repo, landforms)
	s.AddTool(get.Definition(), get.Handle)

	list := tools.NewJournalListTool(repo)
	s.AddTool(list.Definition(), list.Handle)

	search := tools.NewJournalSearchTool(repo)
	s.AddTool(search.Definition(), search.Handle)

	stats := tools.NewJournalStatsTool(repo)
	s.AddTool(stats.Definition(), stats.Handle)
}

func registerStateTools(s *server.MCPServer, session *state.Session) {
	// --- Psyche ---
	psycheGet := tools.NewPsycheGetTool(session.Psyche)
	s.AddTool(psycheGet.Definition(), psycheGet.Handle)

	psycheAdjust := tools.NewPsycheAdjustTool(session.Psyche)
	s.AddTool(psycheAdjust.Definition(), psycheAdjust.Handle)

	// --- Landscape ---
	manifest := tools.NewLandformManifestTool(session.Landforms)
	s.AddTool(manifest.Definition(), manifest.Handle)

	list := tools.NewLandformListTool(session.Landforms)
	s.AddTool(list.Definition(), list.Handle)

	carve := tools.NewGlyphCarveTool(session.Psyche, session.Landforms)
	s.AddTool(carve.Definition(), carve.Handle)

	dream := tools.NewDreamTuneTool(session.Navigator, session.Landforms)
	s.AddTool(dream.Definition(), dream.Handle)

	navigate := tools.NewNavigateTool(session.Navigator)
	s.AddTool(navigate.Definition(), navigate.Handle)

	// --- Ritual ---
	activate := tools.NewRitualActivateTool(session.Ritual)
	s.AddTool(activate.Definition(), activate.Handle)

	complete := tools.NewRitualCompleteTool(session.Ritual)
	s.AddTool(complete.Definition(), complete.Handle)

	status := tools.NewRitualStatusTool(session.Ritual)
	s.AddTool(status.Definition(), status.Handle)

	// --- Settings ---
	soundscape := tools.NewSoundscapeSetTool(session.Soundscape)
	s.AddTool(soundscape.Definition(), soundscape.Handle)
}

// serverInstructions tells the AI how to use mythos.
func serverInstructions() string {
	return `You have access to MythOS, a symbolic inner-landscape companion.

The user explores a psychic state (clarity, turbulence, growth, integration, each 1-10)
that drifts slowly on its own, places archetypal landforms in an inner landscape,
performs elemental rituals and keeps a reflective journal. Everything persists
between sessions.

## How to help
- Start with psyche_get or the mythos://state resource to sense the current atmosphere.
- glyph_carve and landform_manifest shape the landscape; dream_tune enters dream mode.
- Rituals: activate earth, fire, water and air with ritual_activate, then ritual_complete.
- Journal: write entries with journal_create in the user's own words. Never invent
  experiences the user did not share. Link entries to landforms when they relate.
- storage_clear erases everything. Only call it when the user explicitly asks.

Keep a calm, evocative tone. The landscape is a mirror, not a diagnosis.`
}
