package renderer

import (
	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind selects how the billboard shader draws an instance.
type Kind uint32

const (
	// KindModel draws a toon-shaded impostor of a flock instance.
	KindModel Kind = iota

	// KindParticle draws a sprite masked by the particle alpha map.
	KindParticle
)

// Billboard is one camera-facing quad.
type Billboard struct {
	Position mgl32.Vec3
	Size     float32
	Color    colorful.Color
	Alpha    float32
	Kind     Kind

	// Rotation spins the quad about the view axis, in radians.
	Rotation float32
}

// Frame is everything the renderer needs to draw one tick.
type Frame struct {
	ViewProjection mgl32.Mat4
	CameraRight    mgl32.Vec3
	CameraUp       mgl32.Vec3
	Background     colorful.Color

	LightDirection mgl32.Vec3
	LightRadiance  [3]float32

	Instances []Billboard
	Particles []Billboard

	// Culled counts instances dropped by frustum culling.
	Culled int
}

// Count returns the number of billboards in the frame.
func (f *Frame) Count() int {
	return len(f.Instances) + len(f.Particles)
}

// InstanceStride is the size in bytes of one packed billboard.
const InstanceStride = 48

// InstanceGPU is the packed layout of a billboard in the instance storage buffer.
// It must match BillboardInstance in billboard.wgsl.
type InstanceGPU struct {
	Position [3]float32
	Size     float32
	Color    [4]float32
	Kind     uint32
	Rotation float32
	_        [2]float32
}

// FrameUniform is the per-frame uniform block. It must match FrameUniform in billboard.wgsl.
type FrameUniform struct {
	ViewProjection [16]float32
	CameraRight    [4]float32
	CameraUp       [4]float32
	LightDirection [4]float32
	LightRadiance  [4]float32
}

// Uniform builds the uniform block of the frame.
func (f *Frame) Uniform() FrameUniform {
	return FrameUniform{
		ViewProjection: f.ViewProjection,
		CameraRight:    [4]float32{f.CameraRight[0], f.CameraRight[1], f.CameraRight[2], 0},
		CameraUp:       [4]float32{f.CameraUp[0], f.CameraUp[1], f.CameraUp[2], 0},
		LightDirection: [4]float32{f.LightDirection[0], f.LightDirection[1], f.LightDirection[2], 0},
		LightRadiance:  [4]float32{f.LightRadiance[0], f.LightRadiance[1], f.LightRadiance[2], 1},
	}
}

// Pack appends the frame's billboards to dst in draw order: particles first, then instances, so the
// opaque impostors are drawn over the translucent sprites.
//
// Parameters:
//   - dst: the slice to append to, may be nil
//
// Returns:
//   - []InstanceGPU: dst with one entry per billboard
func (f *Frame) Pack(dst []InstanceGPU) []InstanceGPU {
	dst = dst[:0]
	for _, b := range f.Particles {
		dst = append(dst, packBillboard(b))
	}
	for _, b := range f.Instances {
		dst = append(dst, packBillboard(b))
	}
	return dst
}

// PackBytes packs the frame's billboards and returns a byte view ready for upload.
func (f *Frame) PackBytes(dst []InstanceGPU) ([]InstanceGPU, []byte) {
	dst = f.Pack(dst)
	return dst, common.SliceToBytes(dst)
}

// ClearColor returns the background as linear RGBA for the render pass clear value.
func (f *Frame) ClearColor() [4]float64 {
	r, g, b := f.Background.LinearRgb()
	return [4]float64{r, g, b, 1}
}

func packBillboard(b Billboard) InstanceGPU {
	r, g, bl := b.Color.LinearRgb()
	return InstanceGPU{
		Position: b.Position,
		Size:     b.Size,
		Color:    [4]float32{float32(r), float32(g), float32(bl), b.Alpha},
		Kind:     uint32(b.Kind),
		Rotation: b.Rotation,
	}
}
