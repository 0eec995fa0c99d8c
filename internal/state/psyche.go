package state

import (
	"math"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// Psychic state bounds. Every field stays inside [MinLevel, MaxLevel].
const (
	MinLevel = 1.0
	MaxLevel = 10.0
)

// PsychicState is the four-dimensional mood vector.
type PsychicState struct {
	Clarity     float64 `json:"clarity"`
	Turbulence  float64 `json:"turbulence"`
	Growth      float64 `json:"growth"`
	Integration float64 `json:"integration"`
}

// DefaultPsychicState is the state of a first session.
var DefaultPsychicState = PsychicState{Clarity: 7, Turbulence: 3, Growth: 5, Integration: 4}

// Clamp returns s with every field forced into [MinLevel, MaxLevel].
// NaN fields, which only corrupted storage can produce, become MinLevel.
func (s PsychicState) Clamp() PsychicState {
	return PsychicState{
		Clarity:     clampLevel(s.Clarity),
		Turbulence:  clampLevel(s.Turbulence),
		Growth:      clampLevel(s.Growth),
		Integration: clampLevel(s.Integration),
	}
}

// Add returns s shifted by d, unclamped.
func (s PsychicState) Add(d PsychicState) PsychicState {
	return PsychicState{
		Clarity:     s.Clarity + d.Clarity,
		Turbulence:  s.Turbulence + d.Turbulence,
		Growth:      s.Growth + d.Growth,
		Integration: s.Integration + d.Integration,
	}
}

func clampLevel(v float64) float64 {
	if math.IsNaN(v) {
		return MinLevel
	}
	return math.Max(MinLevel, math.Min(MaxLevel, v))
}

// Atmosphere is a coarse reading of the psychic state used for guidance text.
type Atmosphere string

const (
	AtmosphereTurbulent Atmosphere = "turbulent"
	AtmosphereClear     Atmosphere = "clear"
	AtmosphereGrowing   Atmosphere = "growing"
	AtmosphereBalanced  Atmosphere = "balanced"
)

// Psyche owns the persisted psychic state.
type Psyche struct {
	slot *Slot[PsychicState]
}

// NewPsyche rehydrates the psychic state from store.
func NewPsyche(store *kvstore.Adapter) *Psyche {
	return &Psyche{
		slot: NewSlot(store, kvstore.KeyPsychicState, DefaultPsychicState, PsychicState.Clamp),
	}
}

// State returns the current psychic state.
func (p *Psyche) State() PsychicState {
	return p.slot.Value()
}

// Set replaces the state; out-of-range fields are clamped.
func (p *Psyche) Set(s PsychicState) PsychicState {
	return p.slot.Set(s)
}

// Update applies fn to the previous state; the result is clamped.
func (p *Psyche) Update(fn func(prev PsychicState) PsychicState) PsychicState {
	return p.slot.Update(fn)
}

// Reset restores DefaultPsychicState in memory without persisting.
func (p *Psyche) Reset() { p.slot.Reset() }

// Adjust shifts the state by delta.
func (p *Psyche) Adjust(delta PsychicState) PsychicState {
	return p.slot.Update(func(prev PsychicState) PsychicState {
		return prev.Add(delta)
	})
}

// ApplyTool applies the effect of carving with tool: the compass raises
// clarity, the mirror raises integration, other tools leave the state as is.
func (p *Psyche) ApplyTool(tool ToolType) PsychicState {
	return p.slot.Update(func(prev PsychicState) PsychicState {
		switch tool {
		case ToolCompass:
			prev.Clarity++
		case ToolMirror:
			prev.Integration++
		}
		return prev
	})
}

// IntegrationReadiness is the mean of clarity, growth and integration.
func (p *Psyche) IntegrationReadiness() float64 {
	s := p.State()
	return (s.Clarity + s.Growth + s.Integration) / 3
}

// Atmosphere classifies the current state. Turbulence takes precedence,
// then clarity, then growth.
func (p *Psyche) Atmosphere() Atmosphere {
	s := p.State()
	switch {
	case s.Turbulence > 7:
		return AtmosphereTurbulent
	case s.Clarity > 8:
		return AtmosphereClear
	case s.Growth > 8:
		return AtmosphereGrowing
	default:
		return AtmosphereBalanced
	}
}
