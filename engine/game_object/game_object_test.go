package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.True(t, obj.Enabled())
	assert.Equal(t, Untagged, obj.ThemeTag())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Zero(t, obj.BoundingRadius())
}

func TestGameObjectOptionsAndSetters(t *testing.T) {
	tmpl := model.NewModel(model.WithName("star"), model.WithBoundingRadius(2))
	pink := colorful.Color{R: 1, G: 0.7, B: 0.76}

	obj := NewGameObject(
		WithID(7),
		WithModel(tmpl),
		WithGeneration(3),
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithRotation(mgl32.Vec3{0.1, 0.2, 0.3}),
		WithScale(0.25),
		WithPaletteColor(2, pink),
	)

	assert.Equal(t, uint64(7), obj.ID())
	assert.Same(t, tmpl, obj.Model())
	assert.Equal(t, uint64(3), obj.Generation())
	assert.Equal(t, 2, obj.PaletteIndex())
	assert.Equal(t, pink, obj.Color())
	assert.InDelta(t, 0.5, obj.BoundingRadius(), 1e-6)

	obj.SetPosition(obj.Position().Add(mgl32.Vec3{0.5, 0, 0}))
	assert.InDelta(t, 1.5, obj.Position().X(), 1e-6)

	obj.SetColor(colorful.Color{})
	assert.Equal(t, pink, obj.PaletteColor())

	obj.SetThemeTag(2)
	assert.Equal(t, uint8(2), obj.ThemeTag())

	obj.SetEnabled(false)
	assert.False(t, obj.Enabled())
}
