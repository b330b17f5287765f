package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-flock/engine/camera"
	"github.com/Carmen-Shannon/oxy-flock/engine/flock"
	"github.com/Carmen-Shannon/oxy-flock/engine/input"
	"github.com/Carmen-Shannon/oxy-flock/engine/label"
	"github.com/Carmen-Shannon/oxy-flock/engine/panel"
	"github.com/Carmen-Shannon/oxy-flock/engine/profiler"
	"github.com/Carmen-Shannon/oxy-flock/engine/scene"
	"github.com/Carmen-Shannon/oxy-flock/engine/theme"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the headless tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the host window Run drives.
//
// Parameters:
//   - w: a created window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene sets the scene the engine renders.
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithGenerator sets the flock generator and the template names every regeneration requests.
//
// Parameters:
//   - g: the generator
//   - templates: the template names
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGenerator(g flock.Generator, templates ...string) EngineBuilderOption {
	return func(e *engine) {
		e.generator = g
		e.templates = templates
	}
}

// WithInput sets the shared input state.
func WithInput(s input.State) EngineBuilderOption {
	return func(e *engine) {
		e.input = s
	}
}

// WithRig sets the camera rig.
func WithRig(r camera.Rig) EngineBuilderOption {
	return func(e *engine) {
		e.rig = r
	}
}

// WithThemeMachine sets the theme machine.
func WithThemeMachine(m theme.Machine) EngineBuilderOption {
	return func(e *engine) {
		e.machine = m
	}
}

// WithPanel sets the parameter panel. Its committed parameters drive regeneration, and its
// parameters at construction start the first generation.
func WithPanel(p panel.Panel) EngineBuilderOption {
	return func(e *engine) {
		e.panel = p
	}
}

// WithKeyboard sets the adapter that turns window keys into panel edits.
func WithKeyboard(k panel.KeyboardAdapter) EngineBuilderOption {
	return func(e *engine) {
		e.keyboard = k
	}
}

// WithLabel sets the status label.
func WithLabel(l label.Label) EngineBuilderOption {
	return func(e *engine) {
		e.label = l
	}
}

// WithClock sets the time source of the tick. Defaults to time.Now.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(clock func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithMaxDelta sets the largest tick delta in seconds. Longer gaps (a stalled window, a
// debugger) are clamped so the camera does not jump.
func WithMaxDelta(seconds float32) EngineBuilderOption {
	return func(e *engine) {
		if seconds > 0 {
			e.maxDelta = seconds
		}
	}
}

// WithLogger sets the logger of the engine.
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
