package game_object

import (
	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the shared template for this GameObject.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithGeneration records the flock generation that produced the GameObject.
func WithGeneration(generation uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.generation = generation
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = p
	}
}

// WithRotation sets the initial Euler rotation in radians.
func WithRotation(r mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = r
	}
}

// WithScale sets the same scale on all three axes.
//
// Parameters:
//   - s: the isotropic scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(s float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{s, s, s}
	}
}

// WithPaletteColor sets the palette slot and its color, which is also the initial material color.
//
// Parameters:
//   - index: the palette index
//   - c: the palette color at that index
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the palette color
func WithPaletteColor(index int, c colorful.Color) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.paletteIndex = index
		obj.paletteColor = c
		obj.color = c
	}
}
