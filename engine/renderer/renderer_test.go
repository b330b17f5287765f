package renderer

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedLayout(t *testing.T) {
	assert.Equal(t, uintptr(InstanceStride), unsafe.Sizeof(InstanceGPU{}))
	assert.Equal(t, uintptr(16*4+4*16), unsafe.Sizeof(FrameUniform{}))
	assert.Equal(t, uintptr(12), unsafe.Offsetof(InstanceGPU{}.Size))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(InstanceGPU{}.Color))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(InstanceGPU{}.Kind))
}

func TestPackOrderAndValues(t *testing.T) {
	f := Frame{
		Particles: []Billboard{
			{Position: mgl32.Vec3{1, 2, 3}, Size: 2, Color: colorful.Color{R: 1, G: 1, B: 1}, Alpha: 0.5, Kind: KindParticle},
		},
		Instances: []Billboard{
			{Position: mgl32.Vec3{4, 5, 6}, Size: 0.25, Color: colorful.Color{R: 1}, Alpha: 1, Kind: KindModel, Rotation: 0.5},
			{Position: mgl32.Vec3{7, 8, 9}, Size: 0.1, Alpha: 1},
		},
	}
	require.Equal(t, 3, f.Count())

	packed, raw := f.PackBytes(nil)
	require.Len(t, packed, 3)
	assert.Len(t, raw, 3*InstanceStride)

	assert.Equal(t, uint32(KindParticle), packed[0].Kind)
	assert.Equal(t, [4]float32{1, 1, 1, 0.5}, packed[0].Color)
	assert.Equal(t, [3]float32{4, 5, 6}, packed[1].Position)
	assert.Equal(t, float32(0.5), packed[1].Rotation)
	assert.InDelta(t, 1, packed[1].Color[0], 1e-6)
	assert.Zero(t, packed[1].Color[1])

	// reuse keeps the backing array
	again := f.Pack(packed)
	assert.Same(t, &packed[0], &again[0])
}

func TestUniform(t *testing.T) {
	f := Frame{
		ViewProjection: mgl32.Ident4(),
		CameraRight:    mgl32.Vec3{1, 0, 0},
		CameraUp:       mgl32.Vec3{0, 1, 0},
		LightDirection: mgl32.Vec3{0, -1, 0},
		LightRadiance:  [3]float32{2, 2, 2},
		Background:     colorful.Color{R: 1, G: 1, B: 1},
	}
	u := f.Uniform()
	assert.Equal(t, [16]float32(mgl32.Ident4()), u.ViewProjection)
	assert.Equal(t, [4]float32{0, 1, 0, 0}, u.CameraUp)
	assert.Equal(t, [4]float32{2, 2, 2, 1}, u.LightRadiance)

	c := f.ClearColor()
	assert.InDelta(t, 1, c[0], 1e-9)
	assert.Equal(t, 1.0, c[3])
}

func TestSurfaceSettings(t *testing.T) {
	assert.Equal(t, PresentModeVSync, PresentModeFor(true))
	assert.Equal(t, PresentModeUncapped, PresentModeFor(false))
	assert.Equal(t, "uncapped", PresentModeUncapped.String())
	assert.Equal(t, MSAA4x, MSAAFor(true))
	assert.Equal(t, MSAAOff, MSAAFor(false))
}
