package theme

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/config"
	"github.com/Carmen-Shannon/oxy-flock/engine/flock"
	"github.com/Carmen-Shannon/oxy-flock/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flock/engine/particle"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingObject counts color writes so tests can tell edge-triggered updates from per-tick ones.
type countingObject struct {
	game_object.GameObject
	colorWrites int
}

func (c *countingObject) SetColor(col colorful.Color) {
	c.colorWrites++
	c.GameObject.SetColor(col)
}

var (
	pink   = colorful.Color{R: 1, G: 0.71, B: 0.76}
	violet = colorful.Color{R: 0.42, G: 0.36, B: 0.82}
)

func testPresets() (Preset, Preset) {
	light := Preset{
		ModelColor:   ColorRulePalette(),
		ParticleTint: colorful.Color{R: 1, G: 0.93, B: 0.93},
		LabelColor:   colorful.Color{R: 0.1, G: 0.1, B: 0.1},
		DriftSign:    1,
	}
	dark := Preset{
		ModelColor:   ColorRuleFixed(violet),
		ParticleTint: colorful.Color{R: 1, G: 0.8, B: 0.5},
		LabelColor:   colorful.Color{R: 0.96, G: 0.96, B: 0.96},
		DriftSign:    -1,
	}
	return light, dark
}

func newTestMachine(draw func() float32) Machine {
	light, dark := testPresets()
	return NewMachine(
		WithPresets(light, dark),
		WithDriftStep(0.02),
		WithRotationJitter(0.01),
		WithDraw(draw),
		WithLogger(common.DiscardLogger()),
	)
}

func newGroup(n int) (*flock.Group, []*countingObject) {
	objs := make([]*countingObject, n)
	g := &flock.Group{Generation: 1}
	for i := range objs {
		objs[i] = &countingObject{GameObject: game_object.NewGameObject(
			game_object.WithID(uint64(i+1)),
			game_object.WithPaletteColor(i%flock.PaletteSize, pink),
		)}
		g.Instances = append(g.Instances, objs[i])
	}
	return g, objs
}

func TestEvaluateIsPure(t *testing.T) {
	const vh = 800
	for _, s := range []float32{0, 1, 400, 799, 799.999} {
		assert.Equal(t, Light, Evaluate(s, vh), "scroll %v", s)
	}
	for _, s := range []float32{800, 800.001, 1200, 1e6} {
		assert.Equal(t, Dark, Evaluate(s, vh), "scroll %v", s)
	}
	for range 5 {
		assert.Equal(t, Light, Evaluate(799, vh))
		assert.Equal(t, Dark, Evaluate(800, vh))
	}
}

func TestColorChangesAreEdgeTriggered(t *testing.T) {
	m := newTestMachine(func() float32 { return 0 })
	group, objs := newGroup(4)

	for range 10 {
		m.Apply(Dark, group, nil)
	}
	for _, o := range objs {
		assert.Equal(t, 1, o.colorWrites)
		assert.Equal(t, violet, o.Color())
		assert.Equal(t, uint8(Dark), o.ThemeTag())
	}

	for range 10 {
		m.Apply(Light, group, nil)
	}
	for _, o := range objs {
		assert.Equal(t, 2, o.colorWrites)
		assert.Equal(t, pink, o.Color(), "light restores the palette color")
	}
}

func TestUntaggedInstanceIsColoredOnFirstApply(t *testing.T) {
	m := newTestMachine(func() float32 { return 0 })
	group, objs := newGroup(1)
	objs[0].GameObject.SetColor(colorful.Color{})

	m.Apply(Light, group, nil)
	assert.Equal(t, 1, objs[0].colorWrites)
	assert.Equal(t, pink, objs[0].Color())
}

func TestDriftDirection(t *testing.T) {
	m := newTestMachine(func() float32 { return 0 })
	group, objs := newGroup(2)

	for range 50 {
		m.Apply(Light, group, nil)
	}
	assert.InDelta(t, 1.0, objs[0].Position().X(), 1e-4)

	for range 100 {
		m.Apply(Dark, group, nil)
	}
	assert.InDelta(t, -1.0, objs[1].Position().X(), 1e-4)
	assert.Zero(t, objs[1].Position().Y())
	assert.Zero(t, objs[1].Position().Z())
}

func TestRotationJitterPerTick(t *testing.T) {
	draws := []float32{0.5, 0.25}
	i := 0
	m := newTestMachine(func() float32 {
		v := draws[i%len(draws)]
		i++
		return v
	})
	group, objs := newGroup(1)
	objs[0].SetRotation(mgl32.Vec3{1, 1, 1})

	m.Apply(Light, group, nil)
	r := objs[0].Rotation()
	assert.Equal(t, float32(1), r.X())
	assert.InDelta(t, 1.005, r.Y(), 1e-6)
	assert.InDelta(t, 1.0025, r.Z(), 1e-6)
}

func TestDefaultRotationIncrementsStayBelowJitter(t *testing.T) {
	light, dark := testPresets()
	m := NewMachine(WithPresets(light, dark), WithLogger(common.DiscardLogger()))
	group, objs := newGroup(3)

	for range 100 {
		before := objs[0].Rotation()
		m.Apply(Light, group, nil)
		delta := objs[0].Rotation().Sub(before)
		assert.GreaterOrEqual(t, delta.Y(), float32(0))
		assert.Less(t, delta.Y(), float32(0.01))
		assert.GreaterOrEqual(t, delta.Z(), float32(0))
		assert.Less(t, delta.Z(), float32(0.01))
	}
}

func TestTintSetEveryTick(t *testing.T) {
	m := newTestMachine(func() float32 { return 0 })
	field := particle.NewField(particle.WithCount(5))
	light, dark := testPresets()

	m.Apply(Light, nil, field)
	m.Apply(Light, nil, field)
	assert.Equal(t, light.ParticleTint, field.Tint())

	m.Apply(Dark, nil, field)
	assert.Equal(t, dark.ParticleTint, field.Tint())
	assert.Equal(t, Dark, m.Current())
	assert.Equal(t, dark.LabelColor, m.Preset(Dark).LabelColor)
}

func TestCurrentAndPreset(t *testing.T) {
	m := newTestMachine(nil)
	assert.Equal(t, Theme(0), m.Current())
	assert.Equal(t, "none", m.Current().String())

	m.Apply(Light, nil, nil)
	assert.Equal(t, Light, m.Current())
	assert.Equal(t, float32(1), m.Preset(Light).DriftSign)
	assert.Equal(t, float32(-1), m.Preset(Dark).DriftSign)
}

func TestPresetsFromConfig(t *testing.T) {
	light, dark, err := PresetsFromConfig(config.Default().Theme)
	require.NoError(t, err)
	assert.Equal(t, ColorRulePaletteKind, light.ModelColor.Kind)
	assert.Equal(t, ColorRuleFixedKind, dark.ModelColor.Kind)
	assert.Equal(t, "#6b5bd2", dark.ModelColor.Fixed.Hex())
	assert.Equal(t, float32(1), light.DriftSign)
	assert.Equal(t, float32(-1), dark.DriftSign)

	bad := config.Default().Theme
	bad.Dark.Background = "not-a-color"
	_, _, err = PresetsFromConfig(bad)
	assert.ErrorContains(t, err, "dark theme")
}
