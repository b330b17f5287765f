// Package renderer defines what the scene hands to a graphics backend each tick. It holds no GPU
// state; the WebGPU implementation lives in the wgpu_renderer subpackage.
package renderer

// Renderer draws frames to a surface.
type Renderer interface {
	// Render draws one frame and presents it.
	//
	// Parameters:
	//   - frame: the frame to draw
	//
	// Returns:
	//   - error: an error if the frame could not be drawn; the caller may keep rendering
	Render(frame Frame) error

	// Resize configures the surface for a new size in pixels. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Release frees every GPU resource. The renderer must not be used afterwards.
	Release()
}

// PresentMode selects how finished frames reach the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank, capping the frame rate at the display refresh.
	PresentModeVSync PresentMode = iota
	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped
)

// PresentModeFor maps the vsync setting to a present mode.
func PresentModeFor(vsync bool) PresentMode {
	if vsync {
		return PresentModeVSync
	}
	return PresentModeUncapped
}

func (m PresentMode) String() string {
	if m == PresentModeUncapped {
		return "uncapped"
	}
	return "vsync"
}

// MSAASampleCount is the multisample count of the color target. WebGPU guarantees 1 and 4 only.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
)

// MSAAFor maps the antialias setting to a sample count.
func MSAAFor(antialias bool) MSAASampleCount {
	if antialias {
		return MSAA4x
	}
	return MSAAOff
}
