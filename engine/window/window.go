// Package window opens the host window the flock scene draws into and forwards its pointer, wheel,
// key and resize events.
package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a host window with a message loop and input callbacks.
// All callbacks run on the thread that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration, after events
	// have been dispatched.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called with the new framebuffer size in pixels.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for wheel events.
	//
	// Parameters:
	//   - callback: function receiving the wheel delta in notches, positive when the wheel moves up
	SetScrollCallback(callback func(delta float64))

	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseMoveCallback sets the callback for pointer movement.
	//
	// Parameters:
	//   - callback: function receiving the pointer position in framebuffer pixels, origin top-left
	SetMouseMoveCallback(callback func(x, y float64))

	// SurfaceDescriptor returns the platform surface descriptor for creating a WebGPU surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil once the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and has not been asked to close.
	IsRunning() bool

	// Close destroys the window. Closing twice returns an error.
	Close() error

	// ProcessMessages polls events and calls the update callback until the window closes.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// PixelRatio returns the content scale, 1 on standard displays.
	PixelRatio() float32
}

// callbacks holds the event handlers. A nil handler drops its event.
type callbacks struct {
	update    func()
	resize    func(width, height int)
	scroll    func(delta float64)
	keyDown   func(keyCode uint32)
	keyUp     func(keyCode uint32)
	mouseMove func(x, y float64)
}

// hostWindow implements Window on top of a platform window.
type hostWindow struct {
	title     string
	resizable bool

	// minWidth and minHeight bound user resizes. Zero leaves a dimension unbounded.
	minWidth  int
	minHeight int

	// width, height and pixelRatio track the framebuffer, not the requested size.
	width      int
	height     int
	pixelRatio float32

	platform *glfwWindow
	on       callbacks
}

var _ Window = &hostWindow{}

// NewWindow opens a window. Sizes are requested in screen coordinates; after creation Width and
// Height report the framebuffer, which is larger on high-DPI displays.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &hostWindow{
		title:      "oxy-flock",
		resizable:  true,
		width:      1280,
		height:     720,
		pixelRatio: 1,
	}
	for _, opt := range options {
		opt(w)
	}

	platform, err := openGLFWWindow(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	w.platform = platform
	return w, nil
}

func (w *hostWindow) SetUpdateCallback(callback func()) {
	w.on.update = callback
}

func (w *hostWindow) SetResizeCallback(callback func(width, height int)) {
	w.on.resize = callback
}

func (w *hostWindow) SetScrollCallback(callback func(delta float64)) {
	w.on.scroll = callback
}

func (w *hostWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.on.keyDown = callback
}

func (w *hostWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.on.keyUp = callback
}

func (w *hostWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.on.mouseMove = callback
}

func (w *hostWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.platform == nil {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *hostWindow) IsRunning() bool {
	return w.platform != nil && w.platform.isRunning()
}

func (w *hostWindow) Close() error {
	if w.platform == nil {
		return fmt.Errorf("window is not open")
	}
	w.platform.destroy()
	w.platform = nil
	return nil
}

func (w *hostWindow) ProcessMessages() {
	for w.IsRunning() {
		w.platform.pollEvents()
		if !w.IsRunning() {
			return
		}
		if w.on.update != nil {
			w.on.update()
		}
		runtime.Gosched()
	}
}

func (w *hostWindow) Width() int {
	return w.width
}

func (w *hostWindow) Height() int {
	return w.height
}

func (w *hostWindow) PixelRatio() float32 {
	return w.pixelRatio
}

// framebufferResized records a new framebuffer size and forwards it.
func (w *hostWindow) framebufferResized(width, height int) {
	w.width, w.height = width, height
	if w.on.resize != nil {
		w.on.resize(width, height)
	}
}
