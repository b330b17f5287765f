package wgpu_renderer

import "github.com/cogentcore/webgpu/wgpu"

// bindGroup owns the GPU resources behind one bind group, keyed by binding index.
type bindGroup struct {
	label string

	layout       *wgpu.BindGroupLayout
	group        *wgpu.BindGroup
	buffers      map[int]*wgpu.Buffer
	bufferSizes  map[int]uint64
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler
}

func newBindGroup(label string) *bindGroup {
	return &bindGroup{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		bufferSizes:  make(map[int]uint64),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
}

// setBuffer replaces the buffer at a binding, releasing the old one. The bind group must be rebuilt
// before the next draw.
func (g *bindGroup) setBuffer(binding int, buf *wgpu.Buffer, size uint64) {
	if old := g.buffers[binding]; old != nil && old != buf {
		old.Release()
	}
	g.buffers[binding] = buf
	g.bufferSizes[binding] = size
}

func (g *bindGroup) setTextureView(binding int, view *wgpu.TextureView) {
	if old := g.textureViews[binding]; old != nil && old != view {
		old.Release()
	}
	g.textureViews[binding] = view
}

func (g *bindGroup) setSampler(binding int, s *wgpu.Sampler) {
	if old := g.samplers[binding]; old != nil && old != s {
		old.Release()
	}
	g.samplers[binding] = s
}

// setGroup replaces the created bind group.
func (g *bindGroup) setGroup(group *wgpu.BindGroup) {
	if g.group != nil && g.group != group {
		g.group.Release()
	}
	g.group = group
}

// release frees every resource the bind group holds.
func (g *bindGroup) release() {
	if g.group != nil {
		g.group.Release()
		g.group = nil
	}
	for k, b := range g.buffers {
		b.Release()
		delete(g.buffers, k)
	}
	for k, v := range g.textureViews {
		v.Release()
		delete(g.textureViews, k)
	}
	for k, s := range g.samplers {
		s.Release()
		delete(g.samplers, k)
	}
	if g.layout != nil {
		g.layout.Release()
		g.layout = nil
	}
}
