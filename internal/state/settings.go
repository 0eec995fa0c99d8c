package state

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// SoundscapeMode is the ambient soundscape preset.
type SoundscapeMode string

const (
	SoundscapeFocus SoundscapeMode = "focus"
	SoundscapeCalm  SoundscapeMode = "calm"
	SoundscapeFlow  SoundscapeMode = "flow"
)

// DefaultVolume is the soundscape volume of a first session.
const DefaultVolume = 0.5

// ErrInvalidSoundscape is returned for unknown soundscape modes.
var ErrInvalidSoundscape = errors.New("invalid soundscape mode")

// ValidateSoundscapeMode returns an error if m is not a soundscape preset.
func ValidateSoundscapeMode(m SoundscapeMode) error {
	switch m {
	case SoundscapeFocus, SoundscapeCalm, SoundscapeFlow:
		return nil
	}
	return fmt.Errorf("%w %q: must be one of: focus, calm, flow", ErrInvalidSoundscape, m)
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultVolume
	}
	return math.Max(0, math.Min(1, v))
}

// Soundscape holds the soundscape preferences. Mode and volume live
// under separate keys.
type Soundscape struct {
	mode   *Slot[SoundscapeMode]
	volume *Slot[float64]
}

// NewSoundscape rehydrates the soundscape preferences.
func NewSoundscape(store *kvstore.Adapter) *Soundscape {
	return &Soundscape{
		mode: NewSlot(store, kvstore.KeySoundscapeMode, SoundscapeFocus, func(m SoundscapeMode) SoundscapeMode {
			if ValidateSoundscapeMode(m) != nil {
				return SoundscapeFocus
			}
			return m
		}),
		volume: NewSlot(store, kvstore.KeySoundscapeVolume, DefaultVolume, clampVolume),
	}
}

// Mode returns the active preset.
func (s *Soundscape) Mode() SoundscapeMode { return s.mode.Value() }

// Volume returns the volume in [0, 1].
func (s *Soundscape) Volume() float64 { return s.volume.Value() }

// SetMode switches the preset.
func (s *Soundscape) SetMode(m SoundscapeMode) error {
	if err := ValidateSoundscapeMode(m); err != nil {
		return err
	}
	s.mode.Set(m)
	return nil
}

// SetVolume stores v clamped into [0, 1] and returns the stored value.
func (s *Soundscape) SetVolume(v float64) float64 {
	return s.volume.Set(v)
}

// Reset restores the defaults in memory without persisting.
func (s *Soundscape) Reset() {
	s.mode.Reset()
	s.volume.Reset()
}

// Visits tracks whether the user has been here before.
type Visits struct {
	slot *Slot[bool]
}

// NewVisits rehydrates the first-visit flag; it defaults to true.
func NewVisits(store *kvstore.Adapter) *Visits {
	return &Visits{slot: NewSlot(store, kvstore.KeyFirstVisit, true, nil)}
}

// IsFirstVisit reports whether MarkVisited has never been called.
func (v *Visits) IsFirstVisit() bool { return v.slot.Value() }

// MarkVisited clears the first-visit flag.
func (v *Visits) MarkVisited() { v.slot.Set(false) }

// Reset restores the first-visit flag in memory without persisting.
func (v *Visits) Reset() { v.slot.Reset() }

// MaxSessionHistory is the number of session records kept.
const MaxSessionHistory = 50

// SessionRecord summarises one completed session.
type SessionRecord struct {
	ID                 string       `json:"id"`
	Date               time.Time    `json:"date"`
	Duration           float64      `json:"duration"` // minutes
	NavigationModes    []Mode       `json:"navigationModes"`
	LandformsCreated   int          `json:"landformsCreated"`
	RitualsCompleted   int          `json:"ritualsCompleted"`
	JournalEntries     int          `json:"journalEntries"`
	PsychicStateBefore PsychicState `json:"psychicStateBefore"`
	PsychicStateAfter  PsychicState `json:"psychicStateAfter"`
}

// History is the bounded list of past sessions, oldest first.
type History struct {
	slot *Slot[[]SessionRecord]
}

// NewHistory rehydrates the session history, trimming it to the cap.
func NewHistory(store *kvstore.Adapter) *History {
	return &History{slot: NewSlot(store, kvstore.KeySessionHistory, []SessionRecord{}, trimHistory)}
}

func trimHistory(h []SessionRecord) []SessionRecord {
	if len(h) <= MaxSessionHistory {
		return h
	}
	return h[len(h)-MaxSessionHistory:]
}

// Record appends rec, dropping the oldest records beyond the cap.
func (h *History) Record(rec SessionRecord) {
	h.slot.Update(func(prev []SessionRecord) []SessionRecord {
		next := make([]SessionRecord, len(prev), len(prev)+1)
		copy(next, prev)
		return append(next, rec)
	})
}

// Reset empties the history in memory without persisting.
func (h *History) Reset() { h.slot.Reset() }

// All returns the session records, oldest first.
func (h *History) All() []SessionRecord {
	cur := h.slot.Value()
	out := make([]SessionRecord, len(cur))
	copy(out, cur)
	return out
}
