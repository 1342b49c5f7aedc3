package model

import (
	"context"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// Names of the models the stock scene expects a Loader to provide.
const (
	LightModel       = "cube"
	CenterpieceModel = "centerpiece"
	PlaneModel       = "plane"
)

// Mesh is one indexed draw: its provider holds the vertex buffer, index buffer and index count.
type Mesh struct {
	Name          string
	Provider      bind_group_provider.BindGroupProvider
	MaterialIndex int
}

// Material is a diffuse and normal texture pair; its provider holds the bind group
// built against the material layout.
type Material struct {
	Name     string
	Provider bind_group_provider.BindGroupProvider
}

// Model is a drawable built by a Loader. The render state treats it as opaque beyond
// iterating meshes and looking up their materials.
type Model struct {
	Name      string
	Meshes    []Mesh
	Materials []Material
}

// MaterialFor returns the material a mesh is drawn with.
//
// Parameters:
//   - mesh: a mesh of this model
//
// Returns:
//   - Material: the mesh's material
//   - bool: false when the mesh references a material the model does not have
func (m *Model) MaterialFor(mesh Mesh) (Material, bool) {
	if mesh.MaterialIndex < 0 || mesh.MaterialIndex >= len(m.Materials) {
		return Material{}, false
	}
	return m.Materials[mesh.MaterialIndex], true
}

// Release frees every GPU resource held by the model.
func (m *Model) Release() {
	for _, mesh := range m.Meshes {
		if mesh.Provider != nil {
			mesh.Provider.Release()
		}
	}
	for _, mat := range m.Materials {
		if mat.Provider != nil {
			mat.Provider.Release()
		}
	}
}

// Uploader is the subset of the renderer a Loader needs to move CPU data onto the GPU.
type Uploader interface {
	// InitMeshBuffers uploads vertex and index data onto provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitTextureView uploads a texture and stores its view on provider at bindingKey.
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on provider at bindingKey.
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// InitBindGroup builds the bind group described by descriptor from the resources on provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
}

// Loader produces the named models the scene draws. Material bind groups must be built
// against materialLayout: diffuse texture at binding 0, its sampler at 1, normal texture
// at 2 and its sampler at 3.
type Loader interface {
	Load(ctx context.Context, up Uploader, materialLayout wgpu.BindGroupLayoutDescriptor) (map[string]*Model, error)
}
