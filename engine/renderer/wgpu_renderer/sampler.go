package wgpu_renderer

import "github.com/cogentcore/webgpu/wgpu"

// SamplerStagingData describes a sampler pending creation. Zero fields fall back to clamped
// linear filtering.
type SamplerStagingData struct {
	AddressModeU  wgpu.AddressMode
	AddressModeV  wgpu.AddressMode
	AddressModeW  wgpu.AddressMode
	MagFilter     wgpu.FilterMode
	MinFilter     wgpu.FilterMode
	MipmapFilter  wgpu.MipmapFilterMode
	LodMinClamp   float32
	LodMaxClamp   float32
	MaxAnisotropy uint16
}

// billboardSampler clamps at the edges so the ramp lookup never wraps from the lit end to the dark end.
func billboardSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
	}
}
