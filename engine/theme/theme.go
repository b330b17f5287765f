// Package theme maps the scroll offset to a Light or Dark theme and applies the theme to the live
// scene every tick.
package theme

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-flock/engine/flock"
	"github.com/Carmen-Shannon/oxy-flock/engine/particle"
	"github.com/go-gl/mathgl/mgl32"
)

// Theme is the discrete visual theme. Values double as instance theme tags, so zero is never a theme.
type Theme uint8

const (
	Light Theme = iota + 1
	Dark
)

func (t Theme) String() string {
	switch t {
	case Light:
		return "light"
	case Dark:
		return "dark"
	}
	return "none"
}

// Evaluate returns Light while the scroll offset is above the first viewport height and Dark from
// there on. There is no deadband: the result depends on the current offset only.
//
// Parameters:
//   - scroll: the scroll offset in pixels
//   - viewportHeight: the viewport height in pixels
//
// Returns:
//   - Theme: the theme for this offset
func Evaluate(scroll, viewportHeight float32) Theme {
	if scroll < viewportHeight {
		return Light
	}
	return Dark
}

type machine struct {
	logger *slog.Logger

	light, dark    Preset
	driftStep      float32
	rotationJitter float32
	draw           func() float32

	current Theme
}

// Machine applies a theme to the flock group and particle field. The status label color comes from
// Preset(t).LabelColor and is set by the caller together with the label text.
type Machine interface {
	// Apply runs once per tick. Instances whose theme tag differs from t are recolored by the preset's
	// color rule and re-tagged; every instance drifts along X and turns a little about Y and Z.
	// The particle tint is set every call. Nil collaborators are skipped.
	//
	// Parameters:
	//   - t: the theme to apply
	//   - group: the live flock group
	//   - field: the particle field
	Apply(t Theme, group *flock.Group, field particle.Field)

	// Current returns the theme of the last Apply, or zero before the first.
	Current() Theme

	// Preset returns the preset of a theme.
	Preset(t Theme) Preset
}

var _ Machine = &machine{}

// NewMachine creates a theme machine with the built-in presets.
//
// Parameters:
//   - options: a variadic list of MachineBuilderOption functions
//
// Returns:
//   - Machine: the new theme machine
func NewMachine(options ...MachineBuilderOption) Machine {
	light, dark := DefaultPresets()
	m := &machine{
		logger:         slog.Default(),
		light:          light,
		dark:           dark,
		driftStep:      0.02,
		rotationJitter: 0.01,
		draw:           rand.Float32,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *machine) Preset(t Theme) Preset {
	if t == Dark {
		return m.dark
	}
	return m.light
}

func (m *machine) Current() Theme {
	return m.current
}

func (m *machine) Apply(t Theme, group *flock.Group, field particle.Field) {
	if t != m.current {
		m.logger.Info("theme changed", "from", m.current, "to", t)
		m.current = t
	}
	p := m.Preset(t)

	if group != nil {
		drift := mgl32.Vec3{m.driftStep * p.DriftSign, 0, 0}
		for _, obj := range group.Instances {
			if Theme(obj.ThemeTag()) != t {
				obj.SetColor(p.ModelColor.Resolve(obj))
				obj.SetThemeTag(uint8(t))
			}
			obj.SetPosition(obj.Position().Add(drift))
			r := obj.Rotation()
			r[1] += m.draw() * m.rotationJitter
			r[2] += m.draw() * m.rotationJitter
			obj.SetRotation(r)
		}
	}

	if field != nil {
		field.SetTint(p.ParticleTint)
	}
}
