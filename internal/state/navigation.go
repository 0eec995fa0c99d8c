package state

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// Mode selects the single active top-level view.
type Mode string

const (
	ModeOverview    Mode = "overview"
	ModeRitual      Mode = "ritual"
	ModeDream       Mode = "dream"
	ModeIntegration Mode = "integration"
	ModeJournal     Mode = "journal"
)

// ErrInvalidMode is returned for unknown navigation modes.
var ErrInvalidMode = errors.New("invalid navigation mode")

var validModes = map[Mode]bool{
	ModeOverview:    true,
	ModeRitual:      true,
	ModeDream:       true,
	ModeIntegration: true,
	ModeJournal:     true,
}

// ValidateMode returns an error if m is not a navigation mode.
func ValidateMode(m Mode) error {
	if !validModes[m] {
		return fmt.Errorf("%w %q: must be one of: overview, ritual, dream, integration, journal", ErrInvalidMode, m)
	}
	return nil
}

// Navigator persists the active mode so a restart resumes it. It also
// remembers, in memory only, which modes this process has visited.
type Navigator struct {
	slot *Slot[Mode]

	mu      sync.Mutex
	visited []Mode
}

// NewNavigator rehydrates the active mode. A stored value that is not a
// valid mode falls back to overview.
func NewNavigator(store *kvstore.Adapter) *Navigator {
	n := &Navigator{
		slot: NewSlot(store, kvstore.KeyNavigationMode, ModeOverview, func(m Mode) Mode {
			if !validModes[m] {
				return ModeOverview
			}
			return m
		}),
	}
	n.visited = []Mode{n.slot.Value()}
	return n
}

// Mode returns the active mode.
func (n *Navigator) Mode() Mode {
	return n.slot.Value()
}

// Navigate switches to m.
func (n *Navigator) Navigate(m Mode) error {
	if err := ValidateMode(m); err != nil {
		return err
	}
	n.slot.Set(m)

	n.mu.Lock()
	if !slices.Contains(n.visited, m) {
		n.visited = append(n.visited, m)
	}
	n.mu.Unlock()
	return nil
}

// Visited returns the distinct modes entered since creation, in order.
func (n *Navigator) Visited() []Mode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.visited)
}

// Reset returns to overview without persisting.
func (n *Navigator) Reset() { n.slot.Reset() }
