package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-flock/engine/camera"
	"github.com/Carmen-Shannon/oxy-flock/engine/light"
	"github.com/Carmen-Shannon/oxy-flock/engine/particle"
	"github.com/Carmen-Shannon/oxy-flock/engine/renderer"
	"github.com/lucasb-eyer/go-colorful"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the scene camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithLight sets the key light used to shade the flock.
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.key = l
	}
}

// WithField sets the particle field.
func WithField(f particle.Field) SceneBuilderOption {
	return func(s *scene) {
		s.field = f
	}
}

// WithRenderer attaches a renderer at construction.
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.r = r
	}
}

// WithBackground sets the initial clear color.
func WithBackground(c colorful.Color) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
	}
}

// WithParticleScale sets the world size of a particle sprite per unit of field size.
// The field pulses between particle.MinSize and particle.MaxSize, so the drawn size spans
// scale*MinSize to scale*MaxSize.
//
// Parameters:
//   - scale: world units per unit of field size
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticleScale(scale float32) SceneBuilderOption {
	return func(s *scene) {
		if scale > 0 {
			s.particleScale = scale
		}
	}
}

// WithParticleAlpha sets the opacity of the particle sprites.
func WithParticleAlpha(alpha float32) SceneBuilderOption {
	return func(s *scene) {
		s.particleAlpha = alpha
	}
}

// WithCullWorkers sets the number of goroutines that frustum-test the flock. Defaults to 2.
//
// Parameters:
//   - n: the number of cull workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.cullWorkers = n
	}
}

// WithCullChunkSize sets how many instances one cull task tests.
func WithCullChunkSize(n int) SceneBuilderOption {
	return func(s *scene) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithLogger sets the logger of the scene.
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
