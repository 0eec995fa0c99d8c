// Package journal owns the user's journal entries.
//
// The Repository keeps the authoritative in-memory list for the session
// and re-serializes the whole list through the kvstore Adapter after every
// mutation. Entries are kept newest-created first.
package journal

import (
	"errors"
	"fmt"
	"time"
)

// --- Entry type enum ---

// EntryType categorizes a journal entry. It is fixed at creation.
type EntryType string

const (
	TypeDream       EntryType = "dream"
	TypeInsight     EntryType = "insight"
	TypeRitual      EntryType = "ritual"
	TypeIntegration EntryType = "integration"
	TypeGeneral     EntryType = "general"
)

// ErrInvalidType is returned by ValidateType for unknown entry types.
var ErrInvalidType = errors.New("invalid entry type")

var validTypes = map[EntryType]bool{
	TypeDream:       true,
	TypeInsight:     true,
	TypeRitual:      true,
	TypeIntegration: true,
	TypeGeneral:     true,
}

// ValidateType returns an error if the type is not recognized.
func ValidateType(t EntryType) error {
	if !validTypes[t] {
		return fmt.Errorf("%w %q: must be one of: dream, insight, ritual, integration, general", ErrInvalidType, t)
	}
	return nil
}

// --- Mood enum ---

// Mood is the optional emotional tag of an entry.
type Mood string

const (
	MoodClarity      Mood = "clarity"
	MoodTurbulence   Mood = "turbulence"
	MoodGrowth       Mood = "growth"
	MoodShadow       Mood = "shadow"
	MoodPeace        Mood = "peace"
	MoodConflict     Mood = "conflict"
	MoodBreakthrough Mood = "breakthrough"
)

// ErrInvalidMood is returned by ValidateMood for unknown moods.
var ErrInvalidMood = errors.New("invalid mood")

var validMoods = map[Mood]bool{
	MoodClarity:      true,
	MoodTurbulence:   true,
	MoodGrowth:       true,
	MoodShadow:       true,
	MoodPeace:        true,
	MoodConflict:     true,
	MoodBreakthrough: true,
}

// ValidateMood returns an error if the mood is not recognized.
// The empty mood means "no mood" and is valid.
func ValidateMood(m Mood) error {
	if m != "" && !validMoods[m] {
		return fmt.Errorf("%w %q: must be one of: clarity, turbulence, growth, shadow, peace, conflict, breakthrough", ErrInvalidMood, m)
	}
	return nil
}

// --- Core data structures ---

// Entry is a single journal entry as persisted.
type Entry struct {
	ID                  string    `json:"id"`
	Type                EntryType `json:"type"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	Mood                Mood      `json:"mood,omitempty"`
	AssociatedLandforms []string  `json:"associatedLandforms,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// CreateParams holds the input for a new entry. Title and content are not
// validated here; hosts check them before calling Create.
type CreateParams struct {
	Type                EntryType
	Title               string
	Content             string
	Mood                Mood
	AssociatedLandforms []string
}

// UpdateParams holds partial update fields. Nil fields are left alone.
// A pointer to the empty Mood clears the mood.
type UpdateParams struct {
	Title               *string
	Content             *string
	Mood                *Mood
	AssociatedLandforms *[]string
}

// Empty reports whether p carries no changes.
func (p UpdateParams) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Mood == nil && p.AssociatedLandforms == nil
}

func (e Entry) clone() Entry {
	if e.AssociatedLandforms != nil {
		e.AssociatedLandforms = append([]string(nil), e.AssociatedLandforms...)
	}
	return e
}
