// Package resources owns the GPU-visible state shared by every frame: the camera and light
// uniform bind groups, the instance buffer and the two compiled render pipelines.
package resources

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/light"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

//go:embed assets/scene.wgsl
var sceneShaderSource string

//go:embed assets/light.wgsl
var lightShaderSource string

const (
	// LightPipelineKey draws the light marker model at the light position.
	LightPipelineKey = "light"

	// ScenePipelineKey draws textured, normal-mapped instances lit by the light.
	ScenePipelineKey = "scene"

	// sceneMaterialGroup is the group the scene shader declares its textures in.
	sceneMaterialGroup = 0
)

// Device is the part of the GPU context the resource set builds on.
type Device interface {
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte, size uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite) error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
}

// resourceSet is the implementation of the ResourceSet interface.
type resourceSet struct {
	mu  *sync.Mutex
	log *zap.Logger
	dev Device

	cameraProvider   bind_group_provider.BindGroupProvider
	lightProvider    bind_group_provider.BindGroupProvider
	instanceProvider bind_group_provider.BindGroupProvider

	instanceCount    int
	instanceCapacity int

	// bind groups in group order, the material slot of scene is filled per draw
	sceneGroups []bind_group_provider.BindGroupProvider
	lightGroups []bind_group_provider.BindGroupProvider

	pipelines []pipeline.Pipeline
}

// ResourceSet owns and mutates the per-frame GPU state. Uploads are write-through: the
// caller keeps the authoritative CPU copy and the set only forwards it to the GPU.
type ResourceSet interface {
	// UploadCamera writes the camera uniform to its GPU buffer.
	//
	// Parameters:
	//   - u: the camera uniform to upload
	//
	// Returns:
	//   - error: an error if the queue write fails
	UploadCamera(u camera.GPUCameraUniform) error

	// UploadLight writes the light uniform to its GPU buffer.
	//
	// Parameters:
	//   - u: the light uniform to upload
	//
	// Returns:
	//   - error: an error if the queue write fails
	UploadLight(u light.GPULightUniform) error

	// UploadInstances writes every instance transform to the instance buffer, growing the
	// buffer when instances no longer fit.
	//
	// Parameters:
	//   - instances: the full instance array
	//
	// Returns:
	//   - error: an error if the buffer could not be grown or written
	UploadInstances(instances []model.Instance) error

	// InstanceCount returns the number of instances last uploaded.
	InstanceCount() int

	// CameraProvider returns the provider of the camera bind group.
	CameraProvider() bind_group_provider.BindGroupProvider

	// LightProvider returns the provider of the light bind group.
	LightProvider() bind_group_provider.BindGroupProvider

	// InstanceProvider returns the provider of the instance vertex buffer.
	InstanceProvider() bind_group_provider.BindGroupProvider

	// LightBindGroups returns the bind groups of the light pipeline in group order.
	LightBindGroups() []bind_group_provider.BindGroupProvider

	// SceneBindGroups returns the bind groups of the scene pipeline in group order with
	// material in the material slot.
	//
	// Parameters:
	//   - material: the material bind group of the model being drawn
	//
	// Returns:
	//   - []bind_group_provider.BindGroupProvider: a fresh slice safe to hand to DrawCall
	SceneBindGroups(material bind_group_provider.BindGroupProvider) []bind_group_provider.BindGroupProvider

	// Release releases the uniform and instance providers. Pipelines belong to the Renderer's
	// cache and are released with it.
	Release()
}

var _ ResourceSet = &resourceSet{}

// NewResourceSet creates the uniform bind groups and the instance buffer, uploads their
// initial contents and compiles the light and scene pipelines.
//
// Parameters:
//   - dev: the GPU context to create resources on
//   - cameraUniform: the initial camera uniform
//   - lightUniform: the initial light uniform
//   - instances: the initial instance array
//   - options: variadic list of ResourceSetOption functions
//
// Returns:
//   - ResourceSet: the ready resource set
//   - error: an error wrapping common.ErrPipelineCompile for pipeline failures, or a
//     resource creation error
func NewResourceSet(dev Device, cameraUniform camera.GPUCameraUniform, lightUniform light.GPULightUniform, instances []model.Instance, options ...ResourceSetOption) (ResourceSet, error) {
	rs := &resourceSet{
		mu:               &sync.Mutex{},
		log:              zap.NewNop(),
		dev:              dev,
		cameraProvider:   bind_group_provider.NewBindGroupProvider("Camera"),
		lightProvider:    bind_group_provider.NewBindGroupProvider("Light"),
		instanceProvider: bind_group_provider.NewBindGroupProvider("Instances"),
	}
	for _, opt := range options {
		opt(rs)
	}

	if err := rs.init(cameraUniform, lightUniform, instances); err != nil {
		rs.Release()
		return nil, err
	}
	return rs, nil
}

func (rs *resourceSet) init(cameraUniform camera.GPUCameraUniform, lightUniform light.GPULightUniform, instances []model.Instance) error {
	if err := rs.dev.InitBindGroup(rs.cameraProvider, CameraLayout(), nil, nil); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}
	if err := rs.dev.InitBindGroup(rs.lightProvider, LightLayout(), nil, nil); err != nil {
		return fmt.Errorf("light bind group: %w", err)
	}

	rs.instanceCapacity = max(len(instances), 1)
	data := model.MarshalInstances(instances)
	if err := rs.dev.InitVertexBuffer(rs.instanceProvider, data, uint64(rs.instanceCapacity*model.GPUInstanceRawSize)); err != nil {
		return fmt.Errorf("instance buffer: %w", err)
	}
	rs.instanceCount = len(instances)

	if err := rs.UploadCamera(cameraUniform); err != nil {
		return err
	}
	if err := rs.UploadLight(lightUniform); err != nil {
		return err
	}

	scene, err := rs.scenePipeline()
	if err != nil {
		return err
	}
	lightPipeline, err := rs.lightPipeline()
	if err != nil {
		return err
	}
	if err := rs.dev.RegisterPipelines(lightPipeline, scene); err != nil {
		return err
	}
	rs.pipelines = []pipeline.Pipeline{lightPipeline, scene}

	rs.log.Info("resource set ready",
		zap.Int("instances", rs.instanceCount),
		zap.Int("sceneGroups", len(rs.sceneGroups)),
		zap.Int("lightGroups", len(rs.lightGroups)),
	)
	return nil
}

// includes registers the WGSL structs both pipelines share.
func includes() []shader.ShaderBuilderOption {
	return []shader.ShaderBuilderOption{
		shader.WithInclude("vertex", shader.StructEntry{Source: model.GPUVertexSource, Type: "VertexInput"}),
		shader.WithInclude("camera", shader.StructEntry{Source: camera.GPUCameraUniformSource, Type: "CameraUniform"}),
		shader.WithInclude("light", shader.StructEntry{Source: light.GPULightUniformSource, Type: "LightUniform"}),
	}
}

// buildStages builds the vertex and fragment stage of one WGSL module. The module's group
// annotations decide where the camera and light bind groups go; layouts holds every group
// the module uses.
func buildStages(key, source string, layouts func(cameraGroup, lightGroup int) map[int]wgpu.BindGroupLayoutDescriptor, vertexLayouts ...wgpu.VertexBufferLayout) (vs, fs shader.Shader, cameraGroup, lightGroup int, err error) {
	// a first pass resolves the group indices from the annotations
	probe, err := shader.NewShader(key, shader.ShaderTypeVertex, source, includes()...)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	var okCamera, okLight bool
	cameraGroup, okCamera = probe.GroupOf("camera")
	lightGroup, okLight = probe.GroupOf("light")
	if !okCamera || !okLight {
		return nil, nil, 0, 0, fmt.Errorf("shader %q must declare camera and light bindings: %w", key, common.ErrPipelineCompile)
	}

	groupOpts := make([]shader.ShaderBuilderOption, 0)
	for g, desc := range layouts(cameraGroup, lightGroup) {
		groupOpts = append(groupOpts, shader.WithBindGroupLayout(g, desc))
	}

	vsOpts := append(includes(), groupOpts...)
	vsOpts = append(vsOpts, shader.WithVertexLayouts(vertexLayouts...))
	vs, err = shader.NewShader(key+"_vs", shader.ShaderTypeVertex, source, vsOpts...)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	fs, err = shader.NewShader(key+"_fs", shader.ShaderTypeFragment, source, append(includes(), groupOpts...)...)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	return vs, fs, cameraGroup, lightGroup, nil
}

func (rs *resourceSet) scenePipeline() (pipeline.Pipeline, error) {
	vs, fs, cameraGroup, lightGroup, err := buildStages(ScenePipelineKey, sceneShaderSource,
		func(cameraGroup, lightGroup int) map[int]wgpu.BindGroupLayoutDescriptor {
			return map[int]wgpu.BindGroupLayoutDescriptor{
				sceneMaterialGroup: MaterialLayout(),
				cameraGroup:        CameraLayout(),
				lightGroup:         LightLayout(),
			}
		},
		model.VertexLayout(), model.InstanceLayout(),
	)
	if err != nil {
		return nil, err
	}
	if cameraGroup == sceneMaterialGroup || lightGroup == sceneMaterialGroup || cameraGroup == lightGroup ||
		max(cameraGroup, lightGroup) > 2 {
		return nil, fmt.Errorf("scene shader groups overlap (material %d, camera %d, light %d): %w",
			sceneMaterialGroup, cameraGroup, lightGroup, common.ErrPipelineCompile)
	}

	rs.sceneGroups = make([]bind_group_provider.BindGroupProvider, 3)
	rs.sceneGroups[cameraGroup] = rs.cameraProvider
	rs.sceneGroups[lightGroup] = rs.lightProvider

	return pipeline.NewPipeline(ScenePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeBack),
	), nil
}

func (rs *resourceSet) lightPipeline() (pipeline.Pipeline, error) {
	vs, fs, cameraGroup, lightGroup, err := buildStages(LightPipelineKey, lightShaderSource,
		func(cameraGroup, lightGroup int) map[int]wgpu.BindGroupLayoutDescriptor {
			return map[int]wgpu.BindGroupLayoutDescriptor{
				cameraGroup: CameraLayout(),
				lightGroup:  LightLayout(),
			}
		},
		model.VertexLayout(),
	)
	if err != nil {
		return nil, err
	}
	if cameraGroup == lightGroup || max(cameraGroup, lightGroup) > 1 {
		return nil, fmt.Errorf("light shader groups must be 0 and 1 (camera %d, light %d): %w",
			cameraGroup, lightGroup, common.ErrPipelineCompile)
	}

	rs.lightGroups = make([]bind_group_provider.BindGroupProvider, 2)
	rs.lightGroups[cameraGroup] = rs.cameraProvider
	rs.lightGroups[lightGroup] = rs.lightProvider

	return pipeline.NewPipeline(LightPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeBack),
	), nil
}

func (rs *resourceSet) UploadCamera(u camera.GPUCameraUniform) error {
	if err := rs.dev.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: rs.cameraProvider, Binding: 0, Data: u.Marshal()},
	}); err != nil {
		return fmt.Errorf("upload camera: %w", err)
	}
	return nil
}

func (rs *resourceSet) UploadLight(u light.GPULightUniform) error {
	if err := rs.dev.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: rs.lightProvider, Binding: 0, Data: u.Marshal()},
	}); err != nil {
		return fmt.Errorf("upload light: %w", err)
	}
	return nil
}

func (rs *resourceSet) UploadInstances(instances []model.Instance) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	data := model.MarshalInstances(instances)
	if len(instances) > rs.instanceCapacity {
		capacity := max(len(instances), rs.instanceCapacity*2)
		if err := rs.dev.InitVertexBuffer(rs.instanceProvider, data, uint64(capacity*model.GPUInstanceRawSize)); err != nil {
			return fmt.Errorf("grow instance buffer to %d: %w", capacity, err)
		}
		rs.log.Debug("instance buffer grown", zap.Int("capacity", capacity))
		rs.instanceCapacity = capacity
		rs.instanceCount = len(instances)
		return nil
	}

	if len(data) > 0 {
		if err := rs.dev.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: rs.instanceProvider, Binding: -1, Data: data},
		}); err != nil {
			return fmt.Errorf("upload instances: %w", err)
		}
	}
	rs.instanceCount = len(instances)
	return nil
}

func (rs *resourceSet) InstanceCount() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.instanceCount
}

func (rs *resourceSet) CameraProvider() bind_group_provider.BindGroupProvider {
	return rs.cameraProvider
}

func (rs *resourceSet) LightProvider() bind_group_provider.BindGroupProvider {
	return rs.lightProvider
}

func (rs *resourceSet) InstanceProvider() bind_group_provider.BindGroupProvider {
	return rs.instanceProvider
}

func (rs *resourceSet) LightBindGroups() []bind_group_provider.BindGroupProvider {
	return rs.lightGroups
}

func (rs *resourceSet) SceneBindGroups(material bind_group_provider.BindGroupProvider) []bind_group_provider.BindGroupProvider {
	groups := make([]bind_group_provider.BindGroupProvider, len(rs.sceneGroups))
	copy(groups, rs.sceneGroups)
	groups[sceneMaterialGroup] = material
	return groups
}

func (rs *resourceSet) Release() {
	rs.cameraProvider.Release()
	rs.lightProvider.Release()
	rs.instanceProvider.Release()
}
