package kvstore

import "strings"

// KeyPrefix namespaces every physical key written by mythos.
const KeyPrefix = "mythos_"

// Logical key names. Each one maps to exactly one physical key and is
// written by exactly one component.
const (
	KeyPsychicState     = "psychic_state"
	KeyLandforms        = "landforms"
	KeyNavigationMode   = "navigation_mode"
	KeySoundscapeMode   = "soundscape_mode"
	KeySoundscapeVolume = "soundscape_volume"
	KeyRitualProgress   = "ritual_progress"
	KeyJournalEntries   = "journal_entries"
	KeySessionHistory   = "session_history"
	KeyFirstVisit       = "first_visit"
)

// knownKeys is the set of logical keys removed by Clear.
var knownKeys = []string{
	KeyPsychicState,
	KeyLandforms,
	KeyNavigationMode,
	KeySoundscapeMode,
	KeySoundscapeVolume,
	KeyRitualProgress,
	KeyJournalEntries,
	KeySessionHistory,
	KeyFirstVisit,
}

// KnownKeys returns the logical keys owned by the application.
func KnownKeys() []string {
	out := make([]string, len(knownKeys))
	copy(out, knownKeys)
	return out
}

// Resolve maps a logical key to its physical storage key.
// Already-physical keys are returned unchanged, so Resolve(Resolve(k)) == Resolve(k).
func Resolve(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, KeyPrefix) {
		return key
	}
	return KeyPrefix + key
}
