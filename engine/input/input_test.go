package input

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestScrollClamping(t *testing.T) {
	s := NewState(WithViewport(800, 600), WithSections(3), WithScrollSpeed(100))

	s.ScrollBy(-5)
	assert.Equal(t, float32(0), s.Snapshot().Scroll)

	s.ScrollBy(4)
	assert.Equal(t, float32(400), s.Snapshot().Scroll)

	s.ScrollBy(100)
	snap := s.Snapshot()
	assert.Equal(t, float32(1200), snap.Scroll)
	assert.Equal(t, float32(1200), snap.MaxScroll)

	s.SetScroll(-1)
	assert.Equal(t, float32(0), s.Snapshot().Scroll)
	s.SetScroll(700)
	assert.Equal(t, float32(700), s.Snapshot().Scroll)
}

func TestShrinkingViewportReclampsScroll(t *testing.T) {
	s := NewState(WithViewport(800, 600), WithSections(3))
	s.SetScroll(1200)

	s.SetViewport(800, 300)
	assert.Equal(t, float32(600), s.Snapshot().Scroll)
	assert.Equal(t, 300, s.Snapshot().Height)
}

func TestSingleSectionCannotScroll(t *testing.T) {
	s := NewState(WithViewport(800, 600), WithSections(1))
	s.ScrollBy(10)
	assert.Zero(t, s.Snapshot().Scroll)
}

func TestPointerNormalization(t *testing.T) {
	s := NewState(WithViewport(800, 600))

	s.SetPointer(400, 300)
	assert.True(t, s.Snapshot().Pointer.ApproxEqual(mgl32.Vec2{0, 0}))

	s.SetPointer(0, 0)
	assert.True(t, s.Snapshot().Pointer.ApproxEqual(mgl32.Vec2{-0.5, 0.5}))

	s.SetPointer(800, 600)
	assert.True(t, s.Snapshot().Pointer.ApproxEqual(mgl32.Vec2{0.5, -0.5}))

	s.SetPointer(-100, 5000)
	assert.True(t, s.Snapshot().Pointer.ApproxEqual(mgl32.Vec2{-0.5, -0.5}))
}

func TestPointerIgnoredWithoutViewport(t *testing.T) {
	s := NewState()
	s.SetPointer(10, 10)
	assert.Equal(t, mgl32.Vec2{}, s.Snapshot().Pointer)
}

func TestSnapshotAspectAndRatio(t *testing.T) {
	s := NewState(WithViewport(1280, 720), WithPixelRatio(2))
	snap := s.Snapshot()
	assert.InDelta(t, 1280.0/720.0, snap.Aspect(), 1e-6)
	assert.Equal(t, float32(2), snap.PixelRatio)
	assert.Equal(t, float32(720), snap.ViewportHeight())

	s.SetPixelRatio(-1)
	assert.Equal(t, float32(2), s.Snapshot().PixelRatio)

	assert.Equal(t, float32(1), Snapshot{}.Aspect())
}

func TestConcurrentWriters(t *testing.T) {
	s := NewState(WithViewport(800, 600), WithSections(3), WithScrollSpeed(1))
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.ScrollBy(1)
				s.SetPointer(float64(i*50), 10)
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, float32(800), s.Snapshot().Scroll)
}
