package state

import (
	"errors"
	"fmt"
)

// ToolType is a symbolic tool used to carve glyphs.
type ToolType string

const (
	ToolCompass ToolType = "compass"
	ToolTorch   ToolType = "torch"
	ToolMirror  ToolType = "mirror"
	ToolCrystal ToolType = "crystal"
	ToolGlyph   ToolType = "glyph"
)

// ErrInvalidTool is returned for unknown symbolic tools.
var ErrInvalidTool = errors.New("invalid tool")

// ValidateTool returns an error if t is not a symbolic tool.
func ValidateTool(t ToolType) error {
	switch t {
	case ToolCompass, ToolTorch, ToolMirror, ToolCrystal, ToolGlyph:
		return nil
	}
	return fmt.Errorf("%w %q: must be one of: compass, torch, mirror, crystal, glyph", ErrInvalidTool, t)
}

// DreamIntensity is the intensity of the forest manifested by TuneDream.
const DreamIntensity = 8.0

// Carving is the outcome of a glyph carving.
type Carving struct {
	Landform Landform     `json:"landform"`
	State    PsychicState `json:"psychicState"`
	Message  string       `json:"message"`
}

// carvedType picks the archetype a carving manifests at intensity.
func carvedType(intensity float64) (LandformType, string) {
	switch {
	case intensity > 7:
		return LandformCrystal, "A crystal of clarity manifests from your carved intention..."
	case intensity > 5:
		return LandformFlame, "The flame of transformation ignites from your symbolic gesture..."
	default:
		return LandformRiver, "A river of flow emerges from your carved symbol..."
	}
}

// CarveGlyph manifests a landform chosen by intensity at (x, y) and then
// applies the tool's effect to the psychic state.
func CarveGlyph(psyche *Psyche, landforms *Landforms, tool ToolType, intensity, x, y float64) (Carving, error) {
	if err := ValidateTool(tool); err != nil {
		return Carving{}, err
	}
	t, msg := carvedType(intensity)
	lf, err := landforms.Manifest(t, intensity, x, y)
	if err != nil {
		return Carving{}, err
	}
	return Carving{Landform: lf, State: psyche.ApplyTool(tool), Message: msg}, nil
}

// TuneDream switches navigation to dream mode and manifests a forest of
// echoes at (x, y).
func TuneDream(nav *Navigator, landforms *Landforms, x, y float64) (Landform, error) {
	if err := nav.Navigate(ModeDream); err != nil {
		return Landform{}, err
	}
	return landforms.Manifest(LandformForest, DreamIntensity, x, y)
}
