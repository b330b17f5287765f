// Package input holds the host input the frame loop reads: viewport, pointer and scroll.
// Host adapters write it from event callbacks; the loop reads one Snapshot per tick.
package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot is an immutable copy of the input state taken at the start of a tick.
type Snapshot struct {
	Width, Height int
	PixelRatio    float32

	// Pointer is the cursor position normalized to [-0.5, 0.5] on both axes, +Y up.
	Pointer mgl32.Vec2

	// Scroll is the scroll offset in pixels, within [0, MaxScroll].
	Scroll float32

	MaxScroll float32
}

// ViewportHeight returns the viewport height as a float.
func (s Snapshot) ViewportHeight() float32 {
	return float32(s.Height)
}

// Aspect returns width / height, or 1 for an empty viewport.
func (s Snapshot) Aspect() float32 {
	if s.Height <= 0 || s.Width <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

type state struct {
	mu *sync.Mutex

	width, height int
	pixelRatio    float32
	pointer       mgl32.Vec2
	scroll        float32
	sections      int
	scrollSpeed   float32
}

// State is the shared input state. It is safe for concurrent use.
type State interface {
	// SetViewport records a new viewport size. The scroll offset is re-clamped to the new range.
	//
	// Parameters:
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	SetViewport(width, height int)

	// SetPixelRatio records the device pixel ratio (content scale).
	SetPixelRatio(ratio float32)

	// SetPointer records a pointer position in pixels and stores it normalized to the viewport.
	// Positions outside the viewport are clamped to its edges.
	//
	// Parameters:
	//   - x: the pointer x in pixels from the left edge
	//   - y: the pointer y in pixels from the top edge
	SetPointer(x, y float64)

	// ScrollBy adds a scroll-wheel delta. Each wheel unit moves the page by the scroll speed in pixels,
	// and a positive delta scrolls down. The offset is clamped to [0, height*(sections-1)].
	//
	// Parameters:
	//   - delta: the wheel delta
	ScrollBy(delta float64)

	// SetScroll sets the scroll offset in pixels, clamped like ScrollBy.
	SetScroll(offset float32)

	// Snapshot returns a consistent copy of the current state.
	Snapshot() Snapshot
}

var _ State = &state{}

// NewState creates an input state.
//
// Parameters:
//   - options: a variadic list of StateBuilderOption functions
//
// Returns:
//   - State: the new input state
func NewState(options ...StateBuilderOption) State {
	s := &state{
		mu:          &sync.Mutex{},
		pixelRatio:  1,
		sections:    3,
		scrollSpeed: 60,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *state) SetViewport(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(width, 0)
	s.height = max(height, 0)
	s.scroll = common.Clamp(s.scroll, 0, s.maxScroll())
}

func (s *state) SetPixelRatio(ratio float32) {
	if ratio <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pixelRatio = ratio
}

func (s *state) SetPointer(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width <= 0 || s.height <= 0 {
		return
	}
	nx := common.Clamp(float32(x)/float32(s.width), 0, 1) - 0.5
	ny := common.Clamp(float32(y)/float32(s.height), 0, 1) - 0.5
	s.pointer = mgl32.Vec2{nx, -ny}
}

func (s *state) ScrollBy(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = common.Clamp(s.scroll+float32(delta)*s.scrollSpeed, 0, s.maxScroll())
}

func (s *state) SetScroll(offset float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = common.Clamp(offset, 0, s.maxScroll())
}

func (s *state) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Width:      s.width,
		Height:     s.height,
		PixelRatio: s.pixelRatio,
		Pointer:    s.pointer,
		Scroll:     s.scroll,
		MaxScroll:  s.maxScroll(),
	}
}

// maxScroll must be called with mu held.
func (s *state) maxScroll() float32 {
	return float32(s.height) * float32(max(s.sections-1, 0))
}
