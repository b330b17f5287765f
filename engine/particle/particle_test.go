package particle

import (
	"math/rand/v2"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldBounds(t *testing.T) {
	f := NewField(
		WithCount(300),
		WithSpread(10),
		WithLayout(4, 3),
		WithRand(rand.New(rand.NewPCG(5, 6))),
	)
	require.Equal(t, 300, f.Count())

	for _, p := range f.Positions() {
		assert.GreaterOrEqual(t, p.X(), float32(-5))
		assert.Less(t, p.X(), float32(5))
		assert.GreaterOrEqual(t, p.Z(), float32(-5))
		assert.Less(t, p.Z(), float32(5))
		assert.LessOrEqual(t, p.Y(), float32(2))
		assert.Greater(t, p.Y(), float32(2-12))
	}
}

func TestSizeStaysInBounds(t *testing.T) {
	f := NewField(WithCount(1))
	for elapsed := float32(-20); elapsed < 20; elapsed += 0.013 {
		f.Update(elapsed)
		assert.GreaterOrEqual(t, f.Size(), MinSize-1e-6)
		assert.LessOrEqual(t, f.Size(), MaxSize+1e-6)
	}

	f.Update(0)
	assert.InDelta(t, 1.5, f.Size(), 1e-6)
}

func TestPositionsAreFixed(t *testing.T) {
	f := NewField(WithCount(20))
	before := f.Positions()

	mutated := f.Positions()
	mutated[0][0] = 9999

	f.Update(3)
	f.SetTint(colorful.Color{R: 0.2})
	assert.Equal(t, before, f.Positions())
}

func TestTint(t *testing.T) {
	c := colorful.Color{R: 1, G: 0.9, B: 0.5}
	f := NewField(WithTint(c), WithCount(0))
	assert.Equal(t, c, f.Tint())
	assert.Zero(t, f.Count())

	f.SetTint(colorful.Color{})
	assert.Equal(t, colorful.Color{}, f.Tint())
}
