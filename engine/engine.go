// Package engine runs the frame scheduler: one tick per host frame that drains regeneration
// results, moves the camera, applies the theme and renders the scene.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/camera"
	"github.com/Carmen-Shannon/oxy-flock/engine/flock"
	"github.com/Carmen-Shannon/oxy-flock/engine/input"
	"github.com/Carmen-Shannon/oxy-flock/engine/label"
	"github.com/Carmen-Shannon/oxy-flock/engine/panel"
	"github.com/Carmen-Shannon/oxy-flock/engine/profiler"
	"github.com/Carmen-Shannon/oxy-flock/engine/scene"
	"github.com/Carmen-Shannon/oxy-flock/engine/theme"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	errNoWindow    = errors.New("engine has no window")
	errNoGenerator = errors.New("engine has no flock generator")
)

// Window is the part of the host window the engine drives. window.Window satisfies it.
type Window interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	SetScrollCallback(callback func(delta float64))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetMouseMoveCallback(callback func(x, y float64))
	ProcessMessages()
	Width() int
	Height() int
	PixelRatio() float32
	Close() error
}

// engine implements the Engine interface.
type engine struct {
	logger *slog.Logger

	tickRateChannel chan time.Duration

	quitChannel chan struct{}
	quitOnce    sync.Once
	closeOnce   sync.Once

	window    Window
	scene     scene.Scene
	generator flock.Generator
	templates []string
	input     input.State
	rig       camera.Rig
	machine   theme.Machine
	panel     panel.Panel
	keyboard  panel.KeyboardAdapter
	label     label.Label

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	clock          func() time.Time
	maxDelta       float32
	cameraBase     mgl32.Vec3

	// commitMu guards pendingParams, which the panel's commit subscribers may fill from any goroutine.
	commitMu      *sync.Mutex
	pendingParams *panel.Params

	started  bool
	start    time.Time
	lastTick time.Time
}

// Engine is the main entry point for the flock scene.
type Engine interface {
	// Run wires the window callbacks, ticks once per host frame and blocks until the window
	// closes or Quit is called.
	//
	// Returns:
	//   - error: errNoWindow if the engine was built without a window
	Run() error

	// RunHeadless ticks at the configured tick rate without a window until ctx is done or Quit
	// is called.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() if the context ended the loop, nil after Quit
	RunHeadless(ctx context.Context) error

	// Quit stops the loop. Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Scene returns the scene the engine renders.
	Scene() scene.Scene

	// Input returns the shared input state. Hosts other than the window write into it.
	Input() input.State

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the headless tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)
}

var _ Engine = &engine{}

// NewEngine creates an Engine. The scene, input state, rig, theme machine and panel default to
// fresh instances when not supplied; the flock generator is required.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: errNoGenerator if no generator was supplied
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		logger:          slog.Default(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
		clock:           time.Now,
		maxDelta:        0.1,
		commitMu:        &sync.Mutex{},
	}
	for _, opt := range options {
		opt(e)
	}

	if e.generator == nil {
		return nil, errNoGenerator
	}
	if e.scene == nil {
		e.scene = scene.NewScene(scene.WithLogger(e.logger))
	}
	if e.input == nil {
		e.input = input.NewState()
	}
	if e.rig == nil {
		e.rig = camera.NewRig()
	}
	if e.machine == nil {
		e.machine = theme.NewMachine(theme.WithLogger(e.logger))
	}
	if e.panel == nil {
		e.panel = panel.NewPanel(panel.Params{Count: 100, Spread: [3]int{500, 30, 30}})
	}
	if e.keyboard == nil {
		e.keyboard = panel.NewKeyboardAdapter(e.panel)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.logger, time.Second)
	}
	e.cameraBase = e.scene.Camera().Position()

	// The initial parameters count as the first commit.
	initial := e.panel.Params()
	e.pendingParams = &initial
	e.panel.OnCommit(e.queueCommit)

	return e, nil
}

// queueCommit records committed parameters for the next tick. Only the latest commit is kept,
// since a regeneration supersedes any earlier one anyway.
func (e *engine) queueCommit(p panel.Params) {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()
	e.pendingParams = &p
}

func (e *engine) takeCommit() (panel.Params, bool) {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()
	if e.pendingParams == nil {
		return panel.Params{}, false
	}
	p := *e.pendingParams
	e.pendingParams = nil
	return p, true
}

func (e *engine) Run() error {
	if e.window == nil {
		return errNoWindow
	}

	e.input.SetViewport(e.window.Width(), e.window.Height())
	e.input.SetPixelRatio(e.window.PixelRatio())
	e.scene.Camera().SetAspect(aspect(e.window.Width(), e.window.Height()))

	e.window.SetResizeCallback(e.resize)
	e.window.SetMouseMoveCallback(e.input.SetPointer)
	e.window.SetScrollCallback(func(delta float64) {
		// Wheel up scrolls the page back toward the top.
		e.input.ScrollBy(-delta)
	})
	e.window.SetKeyDownCallback(e.keyDown)
	e.window.SetKeyUpCallback(e.keyboard.KeyUp)
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.closeWindow()
			return
		default:
		}
		e.tick()
	})

	e.window.ProcessMessages()
	e.Quit()
	e.closeWindow()
	return nil
}

func (e *engine) closeWindow() {
	e.closeOnce.Do(func() {
		if err := e.window.Close(); err != nil {
			e.logger.Warn("failed to close window", "error", err)
		}
	})
}

func (e *engine) RunHeadless(ctx context.Context) error {
	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.Quit()
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case <-ticker.C:
			e.tick()
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// Quit signals the loop to stop. Uses sync.Once so the channel is only closed once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// keyDown sends R to the scroll state and every other key to the panel keyboard.
func (e *engine) keyDown(keyCode uint32) {
	if keyCode == common.KeyR {
		e.input.SetScroll(0)
		return
	}
	e.keyboard.KeyDown(keyCode)
}

// resize is the window resize callback.
func (e *engine) resize(width, height int) {
	e.input.SetViewport(width, height)
	if r := e.scene.Renderer(); r != nil {
		r.Resize(width, height)
	}
	e.scene.Camera().SetAspect(aspect(width, height))
}

// tick runs one frame. A panic is recovered and logged, and the engine quits.
func (e *engine) tick() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick recovered from panic", "panic", r)
			e.Quit()
		}
	}()

	// 1. Input is read once; the rest of the tick sees this copy.
	snap := e.input.Snapshot()

	// 2. Pending commits start a new generation.
	if p, ok := e.takeCommit(); ok {
		gen := e.generator.Regenerate(e.templates, p.Count, flock.Jitter{
			Spread: mgl32.Vec3{float32(p.Spread[0]), float32(p.Spread[1]), float32(p.Spread[2])},
		})
		e.logger.Info("regenerating flock", "generation", gen, "params", p.String())
	}

	// 3. A finished generation replaces the live group in this tick.
	if g, ok := e.generator.Poll(); ok {
		old := e.scene.SwapGroup(g)
		e.logger.Info("flock swapped", "generation", g.Generation, "instances", g.Count(), "previous", old.Count())
	}

	// 4.
	now := e.clock()
	if !e.started {
		e.started = true
		e.start = now
		e.lastTick = now
	}
	elapsed := float32(now.Sub(e.start).Seconds())
	dt := min(max(float32(now.Sub(e.lastTick).Seconds()), 0), e.maxDelta)
	e.lastTick = now

	// 5.
	vh := snap.ViewportHeight()
	offset := e.rig.Update(snap.Pointer, snap.Scroll, vh, dt)
	e.scene.Camera().ApplyOffset(e.cameraBase, offset)

	// 6.
	t := theme.Evaluate(snap.Scroll, vh)
	group := e.scene.Group()
	e.machine.Apply(t, group, e.scene.Field())
	preset := e.machine.Preset(t)
	e.scene.SetBackground(preset.Background)
	if e.label != nil {
		e.label.Set(preset.LabelColor, e.statusText(t, snap, group))
	}

	// 7.
	if f := e.scene.Field(); f != nil {
		f.Update(elapsed)
	}

	// 8. A failed frame is logged; the next tick tries again.
	if err := e.scene.Render(); err != nil {
		e.logger.Error("render failed", "error", err)
	}

	// 9.
	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

// statusText changes only when the theme, section, generation, instance count or loading state does.
func (e *engine) statusText(t theme.Theme, snap input.Snapshot, group *flock.Group) string {
	section := 0
	if vh := snap.ViewportHeight(); vh > 0 {
		section = int(max(snap.Scroll, 0) / vh)
	}
	text := fmt.Sprintf("theme=%s section=%d generation=%d instances=%d", t, section, group.Generation, group.Count())
	if e.generator.Pending() {
		text += " loading"
	}
	return text
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Input() input.State {
	return e.input
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the headless tick rate. A running loop picks the change up on its next select.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	// Non-blocking send; a pending update is replaced.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return float32(width) / float32(height)
}
