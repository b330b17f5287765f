package wgpu_renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

var errFrameInFlight = errors.New("previous frame surface not yet presented")

// backend owns the WebGPU device, the surface and the per-frame encoder state.
type backend struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount renderer.MSAASampleCount

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

// newBackend creates the instance, adapter and device for a surface.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to draw to
//   - forceFallbackAdapter: request the software adapter
//   - sampleCount: the MSAA sample count of the main pass
//
// Returns:
//   - *backend: the initialized backend
//   - error: an error if no adapter or device could be acquired
func newBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount renderer.MSAASampleCount) (*backend, error) {
	runtime.LockOSThread()
	b := &backend{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	return b, nil
}

// configureSurface (re)configures the swapchain and rebuilds the MSAA and depth attachments.
func (b *backend) configureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if count > 1 {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create MSAA texture: %w", err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return fmt.Errorf("failed to create MSAA view: %w", err)
		}
		b.msaaTexture, b.msaaTextureView = tex, view
	}

	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	depthView, err := depth.CreateView(nil)
	if err != nil {
		depth.Release()
		return fmt.Errorf("failed to create depth view: %w", err)
	}
	b.depthTexture, b.depthTextureView = depth, depthView

	// With MSAA the pass draws into the MSAA view and resolves into the swapchain view set per
	// frame. Without it the swapchain view is the attachment itself.
	storeOp := wgpu.StoreOpStore
	if count > 1 {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (b *backend) setPresentMode(mode renderer.PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case renderer.PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

// createPipeline compiles a WGSL module and builds a render pipeline for it. The module draws
// from storage buffers only, so the pipeline has no vertex buffers.
//
// Parameters:
//   - label: the debug label of the pipeline
//   - source: the WGSL source
//   - reflection: the reflected entry points and bind group layouts of source
//
// Returns:
//   - *wgpu.RenderPipeline: the created pipeline
//   - []*wgpu.BindGroupLayout: the layouts, indexed by group
//   - error: an error if compilation or pipeline creation failed
func (b *backend) createPipeline(label, source string, reflection shaderReflection) (*wgpu.RenderPipeline, []*wgpu.BindGroupLayout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if reflection.vertexEntry == "" || reflection.fragmentEntry == "" {
		return nil, nil, errors.New("both vertex and fragment entry points must be declared to create a render pipeline")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile %s: %w", label, err)
	}
	defer module.Release()

	maxGroup := -1
	for g := range reflection.layouts {
		maxGroup = max(maxGroup, g)
	}
	layouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, desc := range reflection.layouts {
		desc.Label = fmt.Sprintf("%s Group %d", label, g)
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return nil, nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		layouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, nil, err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: reflection.vertexEntry,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: reflection.fragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return created, layouts, nil
}

// ensureBuffer makes sure the buffer at a binding holds at least size bytes.
//
// Returns:
//   - bool: true if a new buffer was created and the bind group must be rebuilt
//   - error: an error if the buffer could not be created
func (b *backend) ensureBuffer(g *bindGroup, binding int, usage wgpu.BufferUsage, size uint64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if g.buffers[binding] != nil && g.bufferSizes[binding] >= size {
		return false, nil
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: g.label + " Buffer",
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create %s buffer %d: %w", g.label, binding, err)
	}
	g.setBuffer(binding, buf, size)
	return true, nil
}

// buildBindGroup creates the bind group from the resources already set on g. Every entry of the
// descriptor must have a resource.
func (b *backend) buildBindGroup(g *bindGroup, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := g.textureViews[binding]
			if tv == nil {
				return fmt.Errorf("texture binding %d has no texture view", binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := g.samplers[binding]
			if s == nil {
				return fmt.Errorf("sampler binding %d has no sampler", binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: s}
		default:
			buf := g.buffers[binding]
			if buf == nil {
				return fmt.Errorf("buffer binding %d has no buffer", binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Buffer: buf, Size: wgpu.WholeSize}
		}
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   g.label + " Bind Group",
		Layout:  g.layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	g.setGroup(group)
	return nil
}

// initTextureView uploads RGBA pixels and stores the view at a binding.
func (b *backend) initTextureView(g *bindGroup, binding int, staging common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	extent := wgpu.Extent3D{Width: staging.Width, Height: staging.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         g.label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	defer tex.Release()

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture: tex,
			Aspect:  wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&extent,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		return err
	}
	g.setTextureView(binding, view)
	return nil
}

func (b *backend) initSampler(g *bindGroup, binding int, staging SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         g.label + " Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   staging.LodMinClamp,
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	})
	if err != nil {
		return err
	}
	g.setSampler(binding, s)
	return nil
}

func (b *backend) writeBuffer(buf *wgpu.Buffer, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(buf, 0, data)
}

// beginFrame acquires the next surface texture and opens the main render pass, cleared to clear.
func (b *backend) beginFrame(clear [4]float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return errFrameInFlight
	}
	if b.renderPassDescriptor == nil {
		return errors.New("surface is not configured")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	attachment.ClearValue = wgpu.Color{R: clear[0], G: clear[1], B: clear[2], A: clear[3]}
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

// draw issues one non-indexed draw in the open pass.
func (b *backend) draw(pipeline *wgpu.RenderPipeline, groups []*bindGroup, vertexCount, instanceCount uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if instanceCount == 0 {
		return
	}
	b.framePass.SetPipeline(pipeline)
	for i, g := range groups {
		b.framePass.SetBindGroup(uint32(i), g.group, nil)
	}
	b.framePass.Draw(vertexCount, instanceCount, 0, 0)
}

// endFrame closes the pass and submits it. On failure the surface texture is dropped without
// presenting.
func (b *backend) endFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseFrameSurface()
		return fmt.Errorf("failed to finish frame: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

func (b *backend) present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

func (b *backend) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *backend) releaseAttachments() {
	for _, v := range []*wgpu.TextureView{b.msaaTextureView, b.depthTextureView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{b.msaaTexture, b.depthTexture} {
		if t != nil {
			t.Release()
		}
	}
	b.msaaTexture, b.msaaTextureView = nil, nil
	b.depthTexture, b.depthTextureView = nil, nil
}

// release frees the device and everything created from the instance.
func (b *backend) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrameSurface()
	b.releaseAttachments()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
