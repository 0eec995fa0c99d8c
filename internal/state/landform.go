package state

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// LandformType is one of the eight archetypes.
type LandformType string

const (
	LandformMountain LandformType = "mountain"
	LandformRiver    LandformType = "river"
	LandformForest   LandformType = "forest"
	LandformCave     LandformType = "cave"
	LandformAltar    LandformType = "altar"
	LandformAbyss    LandformType = "abyss"
	LandformCrystal  LandformType = "crystal"
	LandformFlame    LandformType = "flame"
)

// archetypeNames maps each landform type to its display name.
var archetypeNames = map[LandformType]string{
	LandformMountain: "Mountain of Resistance",
	LandformRiver:    "River of Flow",
	LandformForest:   "Forest of Echoes",
	LandformCave:     "Shadow Cave",
	LandformAltar:    "Sacred Altar",
	LandformAbyss:    "Abyss of Doubt",
	LandformCrystal:  "Crystal of Clarity",
	LandformFlame:    "Flame of Transformation",
}

// ErrInvalidLandformType is returned for unknown archetypes.
var ErrInvalidLandformType = errors.New("invalid landform type")

// ValidateLandformType returns an error if t is not an archetype.
func ValidateLandformType(t LandformType) error {
	if _, ok := archetypeNames[t]; !ok {
		return fmt.Errorf("%w %q: must be one of: mountain, river, forest, cave, altar, abyss, crystal, flame", ErrInvalidLandformType, t)
	}
	return nil
}

// ArchetypeName returns the display name of t, or "" for unknown types.
func ArchetypeName(t LandformType) string {
	return archetypeNames[t]
}

// Resonance is the qualitative bucket of a landform's intensity.
type Resonance string

const (
	ResonanceCalm         Resonance = "calm"
	ResonanceTurbulent    Resonance = "turbulent" // valid when stored, never derived
	ResonanceGrowth       Resonance = "growth"
	ResonanceShadow       Resonance = "shadow"
	ResonanceBreakthrough Resonance = "breakthrough"
)

// Intensity bounds.
const (
	MinIntensity = 0.0
	MaxIntensity = 10.0
)

// ResonanceFor buckets an intensity: >8 breakthrough, >6 growth,
// <3 shadow, otherwise calm.
func ResonanceFor(intensity float64) Resonance {
	switch {
	case intensity > 8:
		return ResonanceBreakthrough
	case intensity > 6:
		return ResonanceGrowth
	case intensity < 3:
		return ResonanceShadow
	default:
		return ResonanceCalm
	}
}

// Position places a landform on the canvas. Z is derived from intensity
// and only drives visual depth.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Canvas extent used by RandomPosition.
const (
	canvasMinX  = 100.0
	canvasSpanX = 600.0
	canvasMinY  = 100.0
	canvasSpanY = 400.0
)

// RandomPosition picks a point inside the canvas area.
func RandomPosition(r *rand.Rand) (x, y float64) {
	return r.Float64()*canvasSpanX + canvasMinX, r.Float64()*canvasSpanY + canvasMinY
}

// Landform is a user-placed symbolic marker.
type Landform struct {
	ID           string       `json:"id"`
	Type         LandformType `json:"type"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Position     Position     `json:"position"`
	Intensity    float64      `json:"intensity"`
	Resonance    Resonance    `json:"resonance"`
	Interactions []string     `json:"interactions"`
	Timestamp    time.Time    `json:"timestamp"`
}

// Landforms is the append-only list of landforms placed so far.
type Landforms struct {
	slot *Slot[[]Landform]
}

// NewLandforms rehydrates the landform list from store.
func NewLandforms(store *kvstore.Adapter) *Landforms {
	return &Landforms{slot: NewSlot(store, kvstore.KeyLandforms, []Landform{}, nil)}
}

// Manifest creates a landform of type t at (x, y) and appends it.
// Intensity is clamped into [MinIntensity, MaxIntensity].
func (l *Landforms) Manifest(t LandformType, intensity, x, y float64) (Landform, error) {
	if err := ValidateLandformType(t); err != nil {
		return Landform{}, err
	}
	if math.IsNaN(intensity) {
		intensity = MinIntensity
	}
	intensity = math.Max(MinIntensity, math.Min(MaxIntensity, intensity))

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	name := archetypeNames[t]
	lf := Landform{
		ID:           string(t) + "-" + id.String(),
		Type:         t,
		Name:         name,
		Description:  fmt.Sprintf("A %s has emerged in your inner landscape", strings.ToLower(name)),
		Position:     Position{X: x, Y: y, Z: intensity * 10},
		Intensity:    intensity,
		Resonance:    ResonanceFor(intensity),
		Interactions: []string{},
		Timestamp:    timeNow().UTC().Round(0),
	}

	l.slot.Update(func(prev []Landform) []Landform {
		next := make([]Landform, len(prev), len(prev)+1)
		copy(next, prev)
		return append(next, lf)
	})
	return lf, nil
}

// Reset empties the list in memory without persisting.
func (l *Landforms) Reset() { l.slot.Reset() }

// All returns every landform in placement order.
func (l *Landforms) All() []Landform {
	cur := l.slot.Value()
	out := make([]Landform, len(cur))
	copy(out, cur)
	return out
}

// Count returns the number of landforms.
func (l *Landforms) Count() int {
	return len(l.slot.Value())
}

// Get returns the landform with the given ID.
func (l *Landforms) Get(id string) (Landform, bool) {
	for _, lf := range l.slot.Value() {
		if lf.ID == id {
			return lf, true
		}
	}
	return Landform{}, false
}

// Resolve returns the landforms for ids in order, skipping unknown IDs.
func (l *Landforms) Resolve(ids []string) []Landform {
	out := make([]Landform, 0, len(ids))
	for _, id := range ids {
		if lf, ok := l.Get(id); ok {
			out = append(out, lf)
		}
	}
	return out
}
