package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func TestDirectionIsNormalized(t *testing.T) {
	l := NewLight(WithDirection(mgl32.Vec3{0, -3, 0}))
	assert.True(t, l.Direction().ApproxEqual(mgl32.Vec3{0, -1, 0}))

	l.SetDirection(mgl32.Vec3{})
	assert.True(t, l.Direction().ApproxEqual(mgl32.Vec3{0, -1, 0}), "zero direction is ignored")

	l.SetDirection(mgl32.Vec3{2, 0, 0})
	assert.InDelta(t, 1, l.Direction().Len(), 1e-6)
}

func TestRadiance(t *testing.T) {
	l := NewLight(WithColor(colorful.Color{R: 1, G: 1, B: 1}), WithIntensity(2))
	assert.Equal(t, [3]float32{2, 2, 2}, l.Radiance())

	l.SetEnabled(false)
	assert.Equal(t, [3]float32{}, l.Radiance())
	assert.False(t, l.Enabled())

	l = NewLight(WithEnabled(true), WithColor(colorful.Color{}))
	l.SetIntensity(5)
	assert.Equal(t, [3]float32{}, l.Radiance())
	assert.Equal(t, float32(5), l.Intensity())
}
