// Package wgpu_renderer draws renderer frames with WebGPU. Every billboard of a frame goes through
// one instanced draw call in a single render pass.
package wgpu_renderer

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed billboard.wgsl
var billboardSource string

const (
	billboardGroup       = 0
	quadVertexCount      = 6
	minInstanceCapacity  = 256
	billboardPipelineKey = "Billboard"
)

// binding names declared in billboard.wgsl
const (
	frameBindingName    = "frame"
	instanceBindingName = "instances"
	spriteBindingName   = "sprite_texture"
	rampBindingName     = "ramp_texture"
	samplerBindingName  = "billboard_sampler"
)

type wgpuRenderer struct {
	mu      *sync.Mutex
	logger  *slog.Logger
	backend *backend

	presentMode          renderer.PresentMode
	sampleCount          renderer.MSAASampleCount
	forceFallbackAdapter bool
	spriteTexture        common.TextureStagingData
	rampTexture          common.TextureStagingData

	reflection shaderReflection
	pipeline   *wgpu.RenderPipeline
	group      *bindGroup

	frameBinding    int
	instanceBinding int

	// packed is reused between frames.
	packed []renderer.InstanceGPU
}

var _ renderer.Renderer = &wgpuRenderer{}

// NewRenderer creates a WebGPU renderer for a surface and configures it for the initial size.
// Missing textures are replaced with a white one.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to draw to
//   - width: the initial width of the surface in pixels
//   - height: the initial height of the surface in pixels
//   - options: functional options to configure the renderer
//
// Returns:
//   - renderer.Renderer: the created renderer
//   - error: an error if the device, the surface or the pipeline could not be created
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (renderer.Renderer, error) {
	r := &wgpuRenderer{
		mu:          &sync.Mutex{},
		logger:      slog.Default(),
		presentMode: renderer.PresentModeVSync,
		sampleCount: renderer.MSAA4x,
		group:       newBindGroup(billboardPipelineKey),
	}
	for _, opt := range options {
		opt(r)
	}

	r.reflection = reflectShader(billboardSource)
	r.frameBinding = r.reflection.binding(billboardGroup, frameBindingName)
	r.instanceBinding = r.reflection.binding(billboardGroup, instanceBindingName)
	if r.frameBinding < 0 || r.instanceBinding < 0 {
		return nil, fmt.Errorf("billboard shader is missing the %q or %q binding", frameBindingName, instanceBindingName)
	}

	b, err := newBackend(surfaceDescriptor, r.forceFallbackAdapter, r.sampleCount)
	if err != nil {
		return nil, err
	}
	r.backend = b
	b.setPresentMode(r.presentMode)

	if err := b.configureSurface(max(width, 1), max(height, 1)); err != nil {
		b.release()
		return nil, err
	}
	if err := r.initPipeline(); err != nil {
		r.Release()
		return nil, err
	}

	r.logger.Info("renderer ready", "width", width, "height", height, "msaa", uint32(r.sampleCount), "software", r.forceFallbackAdapter)
	return r, nil
}

// initPipeline builds the billboard pipeline and every resource of its bind group.
func (r *wgpuRenderer) initPipeline() error {
	pipeline, layouts, err := r.backend.createPipeline(billboardPipelineKey, billboardSource, r.reflection)
	if err != nil {
		return err
	}
	r.pipeline = pipeline
	r.group.layout = layouts[billboardGroup]
	for i, l := range layouts {
		if i != billboardGroup && l != nil {
			l.Release()
		}
	}

	descriptor := r.reflection.layouts[billboardGroup]
	for _, entry := range descriptor.Entries {
		if int(entry.Binding) == r.frameBinding {
			if _, err := r.backend.ensureBuffer(r.group, r.frameBinding, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, entry.Buffer.MinBindingSize); err != nil {
				return err
			}
		}
	}
	if _, err := r.backend.ensureBuffer(r.group, r.instanceBinding, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, minInstanceCapacity*renderer.InstanceStride); err != nil {
		return err
	}

	textures := map[string]common.TextureStagingData{
		spriteBindingName: r.spriteTexture,
		rampBindingName:   r.rampTexture,
	}
	for name, tex := range textures {
		binding := r.reflection.binding(billboardGroup, name)
		if binding < 0 {
			continue
		}
		if err := r.backend.initTextureView(r.group, binding, textureOrWhite(tex)); err != nil {
			return fmt.Errorf("failed to upload %s: %w", name, err)
		}
	}

	if binding := r.reflection.binding(billboardGroup, samplerBindingName); binding >= 0 {
		if err := r.backend.initSampler(r.group, binding, billboardSampler()); err != nil {
			return err
		}
	}

	return r.backend.buildBindGroup(r.group, descriptor)
}

// textureOrWhite substitutes a 1x1 white texture for staging data without pixels.
func textureOrWhite(tex common.TextureStagingData) common.TextureStagingData {
	if tex.Empty() {
		return common.WhiteTexture()
	}
	return tex
}

func (r *wgpuRenderer) Render(frame renderer.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend == nil {
		return fmt.Errorf("renderer released")
	}

	var data []byte
	r.packed, data = frame.PackBytes(r.packed)
	count := len(r.packed)

	if count > 0 {
		grown, err := r.backend.ensureBuffer(r.group, r.instanceBinding, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, instanceCapacity(count)*renderer.InstanceStride)
		if err != nil {
			return err
		}
		if grown {
			r.logger.Debug("instance buffer grown", "instances", count)
			if err := r.backend.buildBindGroup(r.group, r.reflection.layouts[billboardGroup]); err != nil {
				return err
			}
		}
		r.backend.writeBuffer(r.group.buffers[r.instanceBinding], data)
	}

	uniform := frame.Uniform()
	r.backend.writeBuffer(r.group.buffers[r.frameBinding], common.StructToBytes(&uniform))

	if err := r.backend.beginFrame(frame.ClearColor()); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	r.backend.draw(r.pipeline, []*bindGroup{r.group}, quadVertexCount, uint32(count))
	if err := r.backend.endFrame(); err != nil {
		return err
	}
	r.backend.present()
	return nil
}

func (r *wgpuRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 || r.backend == nil {
		return
	}
	if err := r.backend.configureSurface(width, height); err != nil {
		r.logger.Error("failed to resize surface", "width", width, "height", height, "error", err)
	}
}

func (r *wgpuRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend == nil {
		return
	}
	r.group.release()
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	r.backend.release()
	r.backend = nil
}

// instanceCapacity rounds n up to a power of two, never below the initial capacity.
func instanceCapacity(n int) uint64 {
	c := minInstanceCapacity
	for c < n {
		c *= 2
	}
	return uint64(c)
}
