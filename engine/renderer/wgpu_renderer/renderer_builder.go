package wgpu_renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/renderer"
)

// RendererBuilderOption is a functional option for configuring a Renderer via NewRenderer.
type RendererBuilderOption func(*wgpuRenderer)

// WithPresentMode is an option builder that sets how frames are presented.
//
// Parameters:
//   - mode: the present mode (PresentModeVSync or PresentModeUncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode renderer.PresentMode) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.presentMode = mode
	}
}

// WithMSAA is an option builder that sets the MSAA sample count of the main pass.
func WithMSAA(count renderer.MSAASampleCount) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		if count == renderer.MSAAOff || count == renderer.MSAA4x {
			r.sampleCount = count
		}
	}
}

// WithForceSoftwareRenderer is an option builder that requests the fallback (software) adapter.
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.forceFallbackAdapter = force
	}
}

// WithSpriteTexture is an option builder that sets the alpha map of the particle sprites.
// Only the red channel is read. Empty staging data leaves the sprite white.
func WithSpriteTexture(tex common.TextureStagingData) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.spriteTexture = tex
	}
}

// WithRampTexture is an option builder that sets the toon ramp sampled by the flock impostors.
func WithRampTexture(tex common.TextureStagingData) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		r.rampTexture = tex
	}
}

// WithLogger is an option builder that sets the logger of the renderer.
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *wgpuRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
