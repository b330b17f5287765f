// Package light holds the directional key light that drives the toon ramp shading of flock instances.
package light

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction mgl32.Vec3
	color     colorful.Color
	intensity float32
	enabled   bool
}

// Light defines the interface for the scene's directional key light.
//
// The light has no position and no attenuation. The billboard shader compares each fragment's
// impostor normal against its direction and looks the result up in the gradient ramp, which gives
// instances their banded toon look. A disabled light leaves instances flat-shaded.
type Light interface {
	// Direction returns the normalized direction the light travels in.
	//
	// Returns:
	//   - mgl32.Vec3: the unit direction
	Direction() mgl32.Vec3

	// Color returns the light color.
	Color() colorful.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether the light shades instances.
	Enabled() bool

	// Radiance returns the color scaled by intensity, or black when disabled.
	//
	// Returns:
	//   - [3]float32: linear RGB radiance
	Radiance() [3]float32

	// SetDirection sets the direction of the light and normalizes it.
	// A zero vector is ignored.
	//
	// Parameters:
	//   - d: the direction
	SetDirection(d mgl32.Vec3)

	// SetColor sets the light color.
	SetColor(c colorful.Color)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light.
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a white key light shining down and away from the viewer.
//
// Parameters:
//   - options: a variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the new light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: mgl32.Vec3{-1, -1, -1}.Normalize(),
		color:     colorful.Color{R: 1, G: 1, B: 1},
		intensity: 1,
		enabled:   true,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() colorful.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) Radiance() [3]float32 {
	if !l.enabled {
		return [3]float32{}
	}
	r, g, b := l.color.LinearRgb()
	return [3]float32{float32(r) * l.intensity, float32(g) * l.intensity, float32(b) * l.intensity}
}

func (l *lightImpl) SetDirection(d mgl32.Vec3) {
	if d.Len() == 0 {
		return
	}
	l.direction = d.Normalize()
}

func (l *lightImpl) SetColor(c colorful.Color) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
