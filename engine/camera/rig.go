package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Offset is the camera displacement produced by the rig for one frame.
type Offset struct {
	// Parallax is the smoothed pointer-driven offset in world units.
	Parallax mgl32.Vec2

	// Vertical is the scroll-driven Y translation in world units.
	Vertical float32
}

// rigImpl is the implementation of the Rig interface.
type rigImpl struct {
	parallaxGain   float32
	smoothing      float32
	maxDelta       float32
	objectDistance float32

	offset   mgl32.Vec2
	target   mgl32.Vec2
	vertical float32
}

// Rig turns pointer and scroll input into a camera offset. The parallax offset eases toward the
// pointer target at a rate independent of the frame rate; the vertical translation follows the
// scroll offset directly.
//
// A Rig is owned by the frame loop and is not safe for concurrent use.
type Rig interface {
	// Update advances the rig by dt seconds.
	//
	// dt is clamped to [0, MaxDelta] and kept below 1/Smoothing, so one step never passes the target.
	// A non-positive viewport height yields no vertical translation.
	//
	// Parameters:
	//   - pointer: the normalized pointer position
	//   - scroll: the scroll offset in pixels
	//   - viewportHeight: the viewport height in pixels
	//   - dt: seconds since the previous update
	//
	// Returns:
	//   - Offset: the new camera offset
	Update(pointer mgl32.Vec2, scroll, viewportHeight, dt float32) Offset

	// Offset returns the offset of the last Update.
	Offset() Offset
}

var _ Rig = &rigImpl{}

// NewRig creates a camera rig resting at zero offset.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the new rig
func NewRig(options ...RigBuilderOption) Rig {
	r := &rigImpl{
		parallaxGain:   0.5,
		smoothing:      5,
		maxDelta:       0.1,
		objectDistance: 4,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *rigImpl) Update(pointer mgl32.Vec2, scroll, viewportHeight, dt float32) Offset {
	r.target = pointer.Mul(r.parallaxGain)

	step := r.clampDelta(dt) * r.smoothing
	r.offset = r.offset.Add(r.target.Sub(r.offset).Mul(step))

	r.vertical = 0
	if viewportHeight > 0 {
		r.vertical = -scroll / viewportHeight * r.objectDistance
	}
	return r.Offset()
}

func (r *rigImpl) Offset() Offset {
	return Offset{Parallax: r.offset, Vertical: r.vertical}
}

// clampDelta limits dt so that smoothing*dt stays below 1.
func (r *rigImpl) clampDelta(dt float32) float32 {
	dt = min(max(dt, 0), r.maxDelta)
	if r.smoothing > 0 {
		dt = min(dt, 0.999/r.smoothing)
	}
	return dt
}
