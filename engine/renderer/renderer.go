package renderer

import (
	"context"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu  *sync.Mutex
	log *zap.Logger

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	width  int
	height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
}

// Renderer defines the interface for the GPU context.
//
// The Renderer owns the device, queue and surface configuration, caches the render pipelines
// it has compiled, and exposes the resource creation and frame protocol the rest of the engine
// is built on. All failures are returned as errors wrapping the sentinels in package common.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines compiles one or more pipelines via the backend, then caches them by
	// PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error wrapping common.ErrPipelineCompile if compilation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize stores the new surface size, reconfigures the surface and recreates the depth
	// texture so it matches the color target exactly.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: common.ErrInvalidDimensions for a non-positive size, or a configuration error
	Resize(width, height int) error

	// Width returns the configured surface width in pixels.
	Width() int

	// Height returns the configured surface height in pixels.
	Height() int

	// SurfaceFormat returns the color format chosen for the surface.
	SurfaceFormat() wgpu.TextureFormat

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitVertexBuffer creates a writable vertex buffer of size bytes on provider, seeded with data.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffer on
	//   - data: the initial buffer contents
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte, size uint64) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be initialized via InitTextureView
	// and InitSampler before calling this method. Buffer usage and size can be overridden per binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags to OR into the derived usage, keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes to use instead of MinBindingSize, keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture from staging data and stores the resulting texture view
	// on the given BindGroupProvider at the specified binding index. Must be called before InitBindGroup
	// for any texture bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	//
	// Returns:
	//   - error: the first failed write
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame, or DiscardFrame on failure.
	//
	// Returns:
	//   - error: common.ErrSurfaceOutdated, common.ErrFrameAcquire or common.ErrDepthMismatch
	BeginFrame() error

	// SetVertexBuffer binds the provider's vertex buffer at slot for the rest of the pass.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//   - provider: the BindGroupProvider holding the vertex buffer
	//
	// Returns:
	//   - error: an error if no frame is open or the buffer is missing
	SetVertexBuffer(slot uint32, provider bind_group_provider.BindGroupProvider) error

	// DrawCall encodes a single instanced draw command within the current render pass.
	// Multiple DrawCall invocations can be made between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the registered Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instances: the contiguous instance range to draw
	//   - bindGroups: the BindGroupProviders bound at groups 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not found or a resource is missing
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instances common.InstanceRange, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface, call Present after EndFrame to display the frame.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the current surface texture to the screen.
	Present()

	// DiscardFrame abandons the current frame without submitting or presenting it.
	DiscardFrame()

	// Release releases the cached pipelines and every GPU object owned by the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer negotiates an adapter and device compatible with the surface described by
// surfaceDescriptor and configures the surface for the initial size.
//
// Parameters:
//   - ctx: checked before and after negotiation
//   - surfaceDescriptor: the platform surface to render into
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: functional options applied before negotiation
//
// Returns:
//   - Renderer: the ready Renderer
//   - error: an error wrapping common.ErrDeviceUnavailable or common.ErrInvalidDimensions
func NewRenderer(ctx context.Context, surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer %dx%d: %w", width, height, common.ErrInvalidDimensions)
	}

	r := &renderer{
		mu:            &sync.Mutex{},
		log:           zap.NewNop(),
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   BackendTypeWGPU,
		presentMode:   PresentModeVSync,
	}
	for _, opt := range options {
		opt(r)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch r.backendType {
	case BackendTypeWGPU:
		backend, err := newWGPURendererBackend(surfaceDescriptor, r.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	default:
		return nil, fmt.Errorf("unsupported renderer backend type %d: %w", r.backendType, common.ErrDeviceUnavailable)
	}

	if err := ctx.Err(); err != nil {
		r.backend.Release()
		return nil, err
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.Resize(width, height); err != nil {
		r.backend.Release()
		return nil, err
	}

	r.log.Info("renderer ready",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("software", r.forceFallbackAdapter),
		zap.Uint32("surfaceFormat", uint32(r.backend.SurfaceFormat())),
	)
	return r, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("pipeline %q: %w: %w", key, common.ErrPipelineCompile, err)
		}
		r.pipelineCache[key] = p
		r.log.Debug("pipeline registered", zap.String("key", key))
	}
	return nil
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize %dx%d: %w", width, height, common.ErrInvalidDimensions)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("configure surface %dx%d: %w", width, height, err)
	}
	r.width, r.height = width, height
	r.log.Debug("surface configured", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (r *renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

func (r *renderer) Height() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.height
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte, size uint64) error {
	return r.backend.InitVertexBuffer(provider, data, size)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	return r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) SetVertexBuffer(slot uint32, provider bind_group_provider.BindGroupProvider) error {
	return r.backend.SetVertexBuffer(slot, provider)
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instances common.InstanceRange, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("pipeline %q not found in cache", pipelineKey)
	}
	if instances.Count == 0 {
		return nil
	}
	return r.backend.DrawCall(p, meshProvider, instances, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) DiscardFrame() {
	r.backend.DiscardFrame()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
