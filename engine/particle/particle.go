// Package particle holds the static sprite field drawn behind the flocks.
package particle

import (
	"math/rand/v2"
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Size bounds of the pulsing sprite size.
const (
	MinSize float32 = 0.5
	MaxSize float32 = 2.5
)

// field is the implementation of the Field interface.
type field struct {
	positions []mgl32.Vec3
	size      float32
	tint      colorful.Color

	count          int
	spread         float32
	objectDistance float32
	sections       int
	rng            *rand.Rand
}

// Field is a fixed set of sprite positions with a shared pulsing size and a theme tint.
// Positions are chosen once at construction and never change.
type Field interface {
	// Update sets the sprite size from the elapsed scene time: |sin(elapsed) + 1.5|.
	//
	// Parameters:
	//   - elapsed: seconds since the scene started
	Update(elapsed float32)

	// Size returns the current sprite size, always within [MinSize, MaxSize].
	Size() float32

	// Tint returns the sprite color.
	Tint() colorful.Color

	// SetTint sets the sprite color.
	SetTint(c colorful.Color)

	// Positions returns a copy of the sprite positions.
	//
	// Returns:
	//   - []mgl32.Vec3: the world-space positions, safe for the caller to modify
	Positions() []mgl32.Vec3

	// Count returns the number of sprites.
	Count() int
}

var _ Field = &field{}

// NewField scatters the sprite positions. X and Z fall in [-Spread/2, Spread/2); Y runs from
// half an object distance above the first section down through every section below it.
//
// Parameters:
//   - options: a variadic list of FieldBuilderOption functions
//
// Returns:
//   - Field: the new particle field
func NewField(options ...FieldBuilderOption) Field {
	f := &field{
		count:          200,
		spread:         10,
		objectDistance: 4,
		sections:       3,
		size:           MinSize,
		tint:           colorful.Color{R: 1, G: 1, B: 1},
	}
	for _, opt := range options {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	f.positions = make([]mgl32.Vec3, f.count)
	depth := f.objectDistance * float32(f.sections)
	for i := range f.positions {
		f.positions[i] = mgl32.Vec3{
			(f.rng.Float32() - 0.5) * f.spread,
			f.objectDistance*0.5 - f.rng.Float32()*depth,
			(f.rng.Float32() - 0.5) * f.spread,
		}
	}
	return f
}

func (f *field) Update(elapsed float32) {
	f.size = math32.Abs(math32.Sin(elapsed) + 1.5)
}

func (f *field) Size() float32 {
	return f.size
}

func (f *field) Tint() colorful.Color {
	return f.tint
}

func (f *field) SetTint(c colorful.Color) {
	f.tint = c
}

func (f *field) Positions() []mgl32.Vec3 {
	return slices.Clone(f.positions)
}

func (f *field) Count() int {
	return len(f.positions)
}
