package particle

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// FieldBuilderOption is a functional option for configuring a Field via NewField.
type FieldBuilderOption func(*field)

// WithCount sets the number of sprites. Negative counts are treated as zero.
//
// Parameters:
//   - n: the sprite count
//
// Returns:
//   - FieldBuilderOption: a function that applies the count option to a field
func WithCount(n int) FieldBuilderOption {
	return func(f *field) {
		f.count = max(n, 0)
	}
}

// WithSpread sets the full X and Z extent of the field.
func WithSpread(spread float32) FieldBuilderOption {
	return func(f *field) {
		f.spread = spread
	}
}

// WithLayout sets the vertical layout: the distance between scroll sections and the number of sections.
//
// Parameters:
//   - objectDistance: the world-space height of one section
//   - sections: the number of sections
//
// Returns:
//   - FieldBuilderOption: a function that applies the layout option to a field
func WithLayout(objectDistance float32, sections int) FieldBuilderOption {
	return func(f *field) {
		f.objectDistance = objectDistance
		f.sections = sections
	}
}

// WithTint sets the initial sprite color.
func WithTint(c colorful.Color) FieldBuilderOption {
	return func(f *field) {
		f.tint = c
	}
}

// WithRand sets the random source for the scatter.
func WithRand(rng *rand.Rand) FieldBuilderOption {
	return func(f *field) {
		f.rng = rng
	}
}
