package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	w := &hostWindow{width: 1280, height: 720, resizable: true}
	for _, opt := range []WindowBuilderOption{
		WithTitle("flock"),
		WithSize(0, 400),
		WithMinSize(480, 320),
		WithResizable(false),
	} {
		opt(w)
	}

	assert.Equal(t, "flock", w.title)
	assert.Equal(t, 1280, w.width, "a non-positive size keeps the default")
	assert.Equal(t, 720, w.height)
	assert.Equal(t, 480, w.minWidth)
	assert.Equal(t, 320, w.minHeight)
	assert.False(t, w.resizable)

	WithSize(800, 600)(w)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 600, w.height)
}

func TestFramebufferResizedForwardsSize(t *testing.T) {
	w := &hostWindow{}
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })

	w.framebufferResized(1024, 768)

	assert.Equal(t, [2]int{1024, 768}, got)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestClosedWindow(t *testing.T) {
	w := &hostWindow{}
	called := false
	w.SetUpdateCallback(func() { called = true })

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	w.ProcessMessages()
	assert.False(t, called, "no updates without a platform window")
	assert.Error(t, w.Close())
}
