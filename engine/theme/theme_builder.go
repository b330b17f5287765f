package theme

import "log/slog"

// MachineBuilderOption is a functional option for configuring a Machine via NewMachine.
type MachineBuilderOption func(*machine)

// WithPresets sets the Light and Dark presets.
//
// Parameters:
//   - light: the preset applied while the scroll offset is within the first viewport
//   - dark: the preset applied past it
//
// Returns:
//   - MachineBuilderOption: a function that applies the presets option to a machine
func WithPresets(light, dark Preset) MachineBuilderOption {
	return func(m *machine) {
		m.light = light
		m.dark = dark
	}
}

// WithDriftStep sets the X distance an instance drifts per tick.
func WithDriftStep(step float32) MachineBuilderOption {
	return func(m *machine) {
		m.driftStep = step
	}
}

// WithRotationJitter sets the exclusive upper bound of the per-tick Y and Z rotation increments.
func WithRotationJitter(jitter float32) MachineBuilderOption {
	return func(m *machine) {
		m.rotationJitter = jitter
	}
}

// WithDraw replaces the uniform [0, 1) source of the rotation increments.
//
// Parameters:
//   - draw: returns a uniform value in [0, 1)
//
// Returns:
//   - MachineBuilderOption: a function that applies the draw option to a machine
func WithDraw(draw func() float32) MachineBuilderOption {
	return func(m *machine) {
		if draw != nil {
			m.draw = draw
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) MachineBuilderOption {
	return func(m *machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}
