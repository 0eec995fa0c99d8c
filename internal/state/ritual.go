package state

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// Element is one of the four ritual elements.
type Element string

const (
	ElementEarth Element = "earth"
	ElementFire  Element = "fire"
	ElementWater Element = "water"
	ElementAir   Element = "air"
)

// elementOrder is the canonical order used by Active.
var elementOrder = []Element{ElementEarth, ElementFire, ElementWater, ElementAir}

// Phase is the stage of the current ritual, derived from how many
// elements are active.
type Phase string

const (
	PhasePreparation   Phase = "preparation"
	PhaseInvocation    Phase = "invocation"
	PhaseManifestation Phase = "manifestation"
)

var (
	// ErrInvalidElement is returned for unknown ritual elements.
	ErrInvalidElement = errors.New("invalid ritual element")
	// ErrRitualIncomplete is returned by Complete before all elements are active.
	ErrRitualIncomplete = errors.New("ritual not in manifestation phase")
)

// ValidateElement returns an error if e is not a ritual element.
func ValidateElement(e Element) error {
	switch e {
	case ElementEarth, ElementFire, ElementWater, ElementAir:
		return nil
	}
	return fmt.Errorf("%w %q: must be one of: earth, fire, water, air", ErrInvalidElement, e)
}

// RitualProgress is the persisted ritual record and the only source of
// truth for which elements are active in the current ritual.
type RitualProgress struct {
	Earth         bool       `json:"earth"`
	Fire          bool       `json:"fire"`
	Water         bool       `json:"water"`
	Air           bool       `json:"air"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
}

func (p RitualProgress) has(e Element) bool {
	switch e {
	case ElementEarth:
		return p.Earth
	case ElementFire:
		return p.Fire
	case ElementWater:
		return p.Water
	case ElementAir:
		return p.Air
	}
	return false
}

func (p RitualProgress) with(e Element) RitualProgress {
	switch e {
	case ElementEarth:
		p.Earth = true
	case ElementFire:
		p.Fire = true
	case ElementWater:
		p.Water = true
	case ElementAir:
		p.Air = true
	}
	return p
}

// Active returns the active elements in canonical order.
func (p RitualProgress) Active() []Element {
	out := make([]Element, 0, len(elementOrder))
	for _, e := range elementOrder {
		if p.has(e) {
			out = append(out, e)
		}
	}
	return out
}

// Phase derives the ritual phase: three active elements begin the
// invocation, all four the manifestation.
func (p RitualProgress) Phase() Phase {
	switch len(p.Active()) {
	case 4:
		return PhaseManifestation
	case 3:
		return PhaseInvocation
	default:
		return PhasePreparation
	}
}

// Ritual drives the elemental ritual flow.
type Ritual struct {
	slot      *Slot[RitualProgress]
	completed atomic.Int64
}

// NewRitual rehydrates ritual progress from store.
func NewRitual(store *kvstore.Adapter) *Ritual {
	return &Ritual{slot: NewSlot(store, kvstore.KeyRitualProgress, RitualProgress{}, nil)}
}

// Progress returns the persisted record.
func (r *Ritual) Progress() RitualProgress {
	p := r.slot.Value()
	if p.LastCompleted != nil {
		t := *p.LastCompleted
		p.LastCompleted = &t
	}
	return p
}

// Active returns the active elements in canonical order.
func (r *Ritual) Active() []Element {
	return r.slot.Value().Active()
}

// Phase returns the current phase.
func (r *Ritual) Phase() Phase {
	return r.slot.Value().Phase()
}

// Activate marks e active and returns the resulting phase. Activating an
// already-active element changes nothing.
func (r *Ritual) Activate(e Element) (Phase, error) {
	if err := ValidateElement(e); err != nil {
		return "", err
	}
	next := r.slot.Update(func(prev RitualProgress) RitualProgress {
		return prev.with(e)
	})
	return next.Phase(), nil
}

// Complete closes a ritual in the manifestation phase: every element is
// reset together and LastCompleted is stamped. It returns the ritual ID
// "<tool>-ritual-<unix ms>", with "general" for an empty tool.
func (r *Ritual) Complete(tool ToolType) (string, error) {
	now := timeNow().UTC().Round(0)
	var incomplete bool
	r.slot.Update(func(prev RitualProgress) RitualProgress {
		if prev.Phase() != PhaseManifestation {
			incomplete = true
			return prev
		}
		return RitualProgress{LastCompleted: &now}
	})
	if incomplete {
		return "", ErrRitualIncomplete
	}
	r.completed.Add(1)

	prefix := string(tool)
	if prefix == "" {
		prefix = "general"
	}
	return fmt.Sprintf("%s-ritual-%d", prefix, now.UnixMilli()), nil
}

// Completed returns how many rituals this process has completed.
func (r *Ritual) Completed() int { return int(r.completed.Load()) }

// Reset clears the in-memory progress without persisting.
func (r *Ritual) Reset() { r.slot.Reset() }
