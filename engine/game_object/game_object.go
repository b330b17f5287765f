package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Untagged is the theme tag of an instance no theme has colored yet.
const Untagged uint8 = 0

type gameObject struct {
	id         uint64
	enabled    atomic.Bool
	mdl        model.Model
	generation uint64

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	color        colorful.Color
	paletteIndex int
	paletteColor colorful.Color
	themeTag     uint8
}

// GameObject defines the interface for one flock instance: a shared, read-only model template
// plus the instance's own transform and material color. It holds no geometry of its own.
// Instances are mutated only from the frame loop.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the shared template this object was cloned from.
	//
	// Returns:
	//   - model.Model: the template
	Model() model.Model

	// Generation returns the flock generation that produced this object.
	//
	// Returns:
	//   - uint64: the generation token
	Generation() uint64

	// Position returns the world position.
	Position() mgl32.Vec3

	// SetPosition sets the world position.
	SetPosition(p mgl32.Vec3)

	// Rotation returns the Euler rotation in radians.
	Rotation() mgl32.Vec3

	// SetRotation sets the Euler rotation in radians.
	SetRotation(r mgl32.Vec3)

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale.
	SetScale(s mgl32.Vec3)

	// BoundingRadius returns the template's bounding radius multiplied by the largest scale component.
	//
	// Returns:
	//   - float32: the world-space bounding radius
	BoundingRadius() float32

	// Color returns the current material color.
	Color() colorful.Color

	// SetColor sets the current material color.
	SetColor(c colorful.Color)

	// PaletteIndex returns the palette slot chosen for this object at creation.
	//
	// Returns:
	//   - int: an index in [0, 3]
	PaletteIndex() int

	// PaletteColor returns the palette color assigned at creation. It never changes.
	PaletteColor() colorful.Color

	// ThemeTag returns the theme whose color rule was last applied, or Untagged.
	//
	// Returns:
	//   - uint8: the theme tag
	ThemeTag() uint8

	// SetThemeTag records the theme whose color rule was just applied.
	//
	// Parameters:
	//   - tag: the theme tag
	SetThemeTag(tag uint8)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled, untagged, with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Generation() uint64 {
	return g.generation
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.position = p
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	return g.rotation
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.rotation = r
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.scale = s
}

func (g *gameObject) BoundingRadius() float32 {
	if g.mdl == nil {
		return 0
	}
	s := max(g.scale.X(), g.scale.Y(), g.scale.Z())
	return g.mdl.BoundingRadius() * s
}

func (g *gameObject) Color() colorful.Color {
	return g.color
}

func (g *gameObject) SetColor(c colorful.Color) {
	g.color = c
}

func (g *gameObject) PaletteIndex() int {
	return g.paletteIndex
}

func (g *gameObject) PaletteColor() colorful.Color {
	return g.paletteColor
}

func (g *gameObject) ThemeTag() uint8 {
	return g.themeTag
}

func (g *gameObject) SetThemeTag(tag uint8) {
	g.themeTag = tag
}
