package state

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// Session bundles every state slice of one running process.
type Session struct {
	Psyche     *Psyche
	Landforms  *Landforms
	Navigator  *Navigator
	Ritual     *Ritual
	Soundscape *Soundscape
	Visits     *Visits
	History    *History

	firstVisit       bool
	started          time.Time
	before           PsychicState
	landformsAtStart atomic.Int64
}

// NewSession rehydrates every slice from store and marks the user as
// visited. FirstVisit still reports the flag as it was before this call.
func NewSession(store *kvstore.Adapter) *Session {
	s := &Session{
		Psyche:     NewPsyche(store),
		Landforms:  NewLandforms(store),
		Navigator:  NewNavigator(store),
		Ritual:     NewRitual(store),
		Soundscape: NewSoundscape(store),
		Visits:     NewVisits(store),
		History:    NewHistory(store),
		started:    timeNow(),
	}
	s.firstVisit = s.Visits.IsFirstVisit()
	s.before = s.Psyche.State()
	s.landformsAtStart.Store(int64(s.Landforms.Count()))
	s.Visits.MarkVisited()
	return s
}

// FirstVisit reports whether this process started on a first visit.
func (s *Session) FirstVisit() bool { return s.firstVisit }

// Snapshot is a read-only view of every slice.
type Snapshot struct {
	PsychicState         PsychicState   `json:"psychicState"`
	Atmosphere           Atmosphere     `json:"atmosphere"`
	IntegrationReadiness float64        `json:"integrationReadiness"`
	Landforms            []Landform     `json:"landforms"`
	NavigationMode       Mode           `json:"navigationMode"`
	Ritual               RitualProgress `json:"ritualProgress"`
	RitualPhase          Phase          `json:"ritualPhase"`
	SoundscapeMode       SoundscapeMode `json:"soundscapeMode"`
	SoundscapeVolume     float64        `json:"soundscapeVolume"`
	FirstVisit           bool           `json:"firstVisit"`
	Sessions             int            `json:"sessions"`
}

// Snapshot reads every slice. Slices are read one at a time, so a
// concurrent writer may be observed between two reads.
func (s *Session) Snapshot() Snapshot {
	progress := s.Ritual.Progress()
	return Snapshot{
		PsychicState:         s.Psyche.State(),
		Atmosphere:           s.Psyche.Atmosphere(),
		IntegrationReadiness: s.Psyche.IntegrationReadiness(),
		Landforms:            s.Landforms.All(),
		NavigationMode:       s.Navigator.Mode(),
		Ritual:               progress,
		RitualPhase:          progress.Phase(),
		SoundscapeMode:       s.Soundscape.Mode(),
		SoundscapeVolume:     s.Soundscape.Volume(),
		FirstVisit:           s.firstVisit,
		Sessions:             len(s.History.All()),
	}
}

// Reset drops every slice back to its default in memory. Call it after
// the backing keys have been cleared. The per-process activity counters
// (visited modes, completed rituals) are kept: they describe what happened
// during this process, which the next history record still reports.
func (s *Session) Reset() {
	s.Psyche.Reset()
	s.Landforms.Reset()
	s.Navigator.Reset()
	s.Ritual.Reset()
	s.Soundscape.Reset()
	s.Visits.Reset()
	s.History.Reset()
	s.landformsAtStart.Store(0)
}

// Close summarises the session, appends it to the history and returns it.
// journalEntries is the number of entries written during the session.
func (s *Session) Close(journalEntries int) SessionRecord {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	now := timeNow()
	rec := SessionRecord{
		ID:                 "session-" + id.String(),
		Date:               s.started.UTC().Round(0),
		Duration:           now.Sub(s.started).Minutes(),
		NavigationModes:    s.Navigator.Visited(),
		LandformsCreated:   max(0, s.Landforms.Count()-int(s.landformsAtStart.Load())),
		RitualsCompleted:   s.Ritual.Completed(),
		JournalEntries:     max(0, journalEntries),
		PsychicStateBefore: s.before,
		PsychicStateAfter:  s.Psyche.State(),
	}
	s.History.Record(rec)
	return rec
}
