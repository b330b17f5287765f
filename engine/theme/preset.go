package theme

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-flock/config"
	"github.com/Carmen-Shannon/oxy-flock/engine/game_object"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorRuleKind selects how a preset colors flock instances.
type ColorRuleKind int

const (
	// ColorRulePaletteKind restores each instance's own palette color.
	ColorRulePaletteKind ColorRuleKind = iota

	// ColorRuleFixedKind paints every instance the same color.
	ColorRuleFixedKind
)

// ColorRule decides the color of a flock instance under a theme.
type ColorRule struct {
	Kind  ColorRuleKind
	Fixed colorful.Color
}

// ColorRulePalette returns the rule that restores each instance's palette color.
func ColorRulePalette() ColorRule {
	return ColorRule{Kind: ColorRulePaletteKind}
}

// ColorRuleFixed returns the rule that paints every instance c.
func ColorRuleFixed(c colorful.Color) ColorRule {
	return ColorRule{Kind: ColorRuleFixedKind, Fixed: c}
}

// Resolve returns the color obj should take under this rule.
func (r ColorRule) Resolve(obj game_object.GameObject) colorful.Color {
	if r.Kind == ColorRuleFixedKind {
		return r.Fixed
	}
	return obj.PaletteColor()
}

// Preset bundles everything a theme changes in the scene.
type Preset struct {
	ModelColor   ColorRule
	ParticleTint colorful.Color
	LabelColor   colorful.Color
	Background   colorful.Color

	// DriftSign is +1 or -1: the direction instances drift along X every tick.
	DriftSign float32
}

// DefaultPresets returns the built-in Light and Dark presets.
func DefaultPresets() (light, dark Preset) {
	light, dark, _ = PresetsFromConfig(config.Default().Theme)
	return light, dark
}

// PresetsFromConfig builds the Light and Dark presets from hex colors. An empty model color selects
// the palette rule.
//
// Parameters:
//   - cfg: the theme configuration
//
// Returns:
//   - Preset: the Light preset
//   - Preset: the Dark preset
//   - error: error if any color does not parse
func PresetsFromConfig(cfg config.ThemeConfig) (Preset, Preset, error) {
	light, err := presetFromColors(cfg.Light, 1)
	if err != nil {
		return Preset{}, Preset{}, fmt.Errorf("light theme: %w", err)
	}
	dark, err := presetFromColors(cfg.Dark, -1)
	if err != nil {
		return Preset{}, Preset{}, fmt.Errorf("dark theme: %w", err)
	}
	return light, dark, nil
}

func presetFromColors(c config.ThemeColors, driftSign float32) (Preset, error) {
	p := Preset{ModelColor: ColorRulePalette(), DriftSign: driftSign}

	if c.Model != "" {
		fixed, err := colorful.Hex(c.Model)
		if err != nil {
			return p, fmt.Errorf("model color: %w", err)
		}
		p.ModelColor = ColorRuleFixed(fixed)
	}

	var err error
	if p.ParticleTint, err = colorful.Hex(c.Particle); err != nil {
		return p, fmt.Errorf("particle color: %w", err)
	}
	if p.LabelColor, err = colorful.Hex(c.Label); err != nil {
		return p, fmt.Errorf("label color: %w", err)
	}
	if p.Background, err = colorful.Hex(c.Background); err != nil {
		return p, fmt.Errorf("background color: %w", err)
	}
	return p, nil
}
