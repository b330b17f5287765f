package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW side of a hostWindow.
type glfwWindow struct {
	host    *hostWindow
	window  *glfw.Window
	running bool
}

// openGLFWWindow initializes GLFW and creates a window without a client API, since WebGPU owns the
// surface. GLFW must stay on the thread that created it, so the calling goroutine is locked.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func openGLFWWindow(host *hostWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfwBool(host.resizable))

	win, err := glfw.CreateWindow(host.width, host.height, host.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	if host.minWidth > 0 || host.minHeight > 0 {
		win.SetSizeLimits(dontCareIfZero(host.minWidth), dontCareIfZero(host.minHeight), glfw.DontCare, glfw.DontCare)
	}

	gw := &glfwWindow{host: host, window: win, running: true}
	gw.installCallbacks()

	// The requested size is in screen coordinates; the renderer needs framebuffer pixels.
	host.width, host.height = win.GetFramebufferSize()
	if sx, sy := win.GetContentScale(); sx > 0 {
		host.pixelRatio = max(sx, sy)
	}
	return gw, nil
}

func (gw *glfwWindow) installCallbacks() {
	host := gw.host

	gw.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.requestClose()
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if host.on.keyDown != nil {
				host.on.keyDown(uint32(key))
			}
		case glfw.Release:
			if host.on.keyUp != nil {
				host.on.keyUp(uint32(key))
			}
		}
	})

	gw.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if host.on.scroll != nil {
			host.on.scroll(yoff)
		}
	})

	gw.window.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if host.on.mouseMove != nil {
			sx, sy := gw.cursorScale()
			host.on.mouseMove(xpos*sx, ypos*sy)
		}
	})

	gw.window.SetContentScaleCallback(func(_ *glfw.Window, x, y float32) {
		host.pixelRatio = max(x, y)
	})

	gw.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		host.framebufferResized(width, height)
	})
}

// cursorScale converts screen coordinates to framebuffer pixels on each axis.
func (gw *glfwWindow) cursorScale() (float64, float64) {
	ww, wh := gw.window.GetSize()
	if ww <= 0 || wh <= 0 {
		return 1, 1
	}
	return float64(gw.host.width) / float64(ww), float64(gw.host.height) / float64(wh)
}

// surfaceDescriptor bridges the GLFW window to a platform surface (Win32, X11, Wayland or Metal).
func (gw *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func (gw *glfwWindow) isRunning() bool {
	return gw.running && !gw.window.ShouldClose()
}

func (gw *glfwWindow) pollEvents() {
	glfw.PollEvents()
}

func (gw *glfwWindow) requestClose() {
	gw.running = false
	gw.window.SetShouldClose(true)
}

func (gw *glfwWindow) destroy() {
	gw.requestClose()
	gw.window.Destroy()
	glfw.Terminate()
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func dontCareIfZero(n int) int {
	if n <= 0 {
		return glfw.DontCare
	}
	return n
}
