package resources

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/light"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

// MaterialLayout describes a material bind group: a filterable 2D diffuse texture and its
// sampler followed by the normal map and its sampler.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the material layout
func MaterialLayout() wgpu.BindGroupLayoutDescriptor {
	texture := func(binding int) wgpu.BindGroupLayoutEntry {
		e := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageFragment,
		}
		e.Texture.SampleType = wgpu.TextureSampleTypeFloat
		e.Texture.ViewDimension = wgpu.TextureViewDimension2D
		return e
	}
	sampler := func(binding int) wgpu.BindGroupLayoutEntry {
		e := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageFragment,
		}
		e.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		return e
	}

	return wgpu.BindGroupLayoutDescriptor{
		Label: "Material Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			texture(model.DiffuseTextureBinding),
			sampler(model.DiffuseSamplerBinding),
			texture(model.NormalTextureBinding),
			sampler(model.NormalSamplerBinding),
		},
	}
}

// CameraLayout describes the camera bind group: one uniform buffer at binding 0.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the camera layout
func CameraLayout() wgpu.BindGroupLayoutDescriptor {
	return uniformLayout("Camera Bind Group Layout", camera.GPUCameraUniformSize)
}

// LightLayout describes the light bind group: one uniform buffer at binding 0.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the light layout
func LightLayout() wgpu.BindGroupLayoutDescriptor {
	return uniformLayout("Light Bind Group Layout", light.GPULightUniformSize)
}

func uniformLayout(label string, size int) wgpu.BindGroupLayoutDescriptor {
	e := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	e.Buffer.Type = wgpu.BufferBindingTypeUniform
	e.Buffer.MinBindingSize = uint64(size)
	return wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: []wgpu.BindGroupLayoutEntry{e},
	}
}
