package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeGPU records the frame protocol instead of talking to a device.
type fakeGPU struct {
	mu sync.Mutex

	width, height int
	resizes       [][2]int
	pipelines     map[string]pipeline.Pipeline
	writes        []bind_group_provider.BufferWrite
	calls         []string

	// beginErrs are returned by successive BeginFrame calls, nil entries succeed
	beginErrs []error
	drawErr   error
	endErr    error
	resizeErr error
	// writeErr fails every buffer write while set
	writeErr error
	released bool
}

var _ renderer.Renderer = &fakeGPU{}

func newFakeGPU(width, height int) *fakeGPU {
	return &fakeGPU{
		width:     width,
		height:    height,
		pipelines: make(map[string]pipeline.Pipeline),
	}
}

func (g *fakeGPU) record(call string) {
	g.calls = append(g.calls, call)
}

func (g *fakeGPU) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGPU) count(call string) int {
	n := 0
	for _, c := range g.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (g *fakeGPU) Pipeline(key string) pipeline.Pipeline {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pipelines[key]
}

func (g *fakeGPU) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range pipelines {
		g.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (g *fakeGPU) Resize(width, height int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if width <= 0 || height <= 0 {
		return common.ErrInvalidDimensions
	}
	if g.resizeErr != nil {
		return g.resizeErr
	}
	g.resizes = append(g.resizes, [2]int{width, height})
	g.width, g.height = width, height
	g.record("resize")
	return nil
}

func (g *fakeGPU) Width() int                        { return g.width }
func (g *fakeGPU) Height() int                       { return g.height }
func (g *fakeGPU) SurfaceFormat() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8UnormSrgb }

func (g *fakeGPU) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	provider.SetIndexBuffer(nil, indexCount)
	return nil
}

func (g *fakeGPU) InitVertexBuffer(bind_group_provider.BindGroupProvider, []byte, uint64) error {
	return nil
}

func (g *fakeGPU) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (g *fakeGPU) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (g *fakeGPU) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (g *fakeGPU) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}
	g.writes = append(g.writes, writes...)
	return nil
}

func (g *fakeGPU) lastWrite(provider bind_group_provider.BindGroupProvider) []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.writes) - 1; i >= 0; i-- {
		if g.writes[i].Provider == provider {
			return g.writes[i].Data
		}
	}
	return nil
}

func (g *fakeGPU) BeginFrame() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("begin")
	if len(g.beginErrs) > 0 {
		err := g.beginErrs[0]
		g.beginErrs = g.beginErrs[1:]
		return err
	}
	return nil
}

func (g *fakeGPU) SetVertexBuffer(slot uint32, provider bind_group_provider.BindGroupProvider) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record(fmt.Sprintf("vb:%d:%s", slot, provider.Label()))
	return nil
}

func (g *fakeGPU) DrawCall(pipelineKey string, mesh bind_group_provider.BindGroupProvider, r common.InstanceRange, bindGroups []bind_group_provider.BindGroupProvider) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.drawErr != nil {
		return g.drawErr
	}
	if _, ok := g.pipelines[pipelineKey]; !ok {
		return fmt.Errorf("pipeline %q not registered", pipelineKey)
	}
	labels := ""
	for i, bg := range bindGroups {
		if i > 0 {
			labels += ","
		}
		labels += bg.Label()
	}
	g.record(fmt.Sprintf("draw:%s:%s:[%d,%d):%s", pipelineKey, mesh.Label(), r.First, r.End(), labels))
	return nil
}

func (g *fakeGPU) EndFrame() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("end")
	return g.endErr
}

func (g *fakeGPU) Present() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("present")
}

func (g *fakeGPU) DiscardFrame() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("discard")
}

func (g *fakeGPU) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released = true
}

// fakeLoader hands out one-mesh models without touching the GPU.
type fakeLoader struct {
	names []string
	err   error
	loads int
}

func newFakeLoader(names ...string) *fakeLoader {
	if len(names) == 0 {
		names = []string{model.LightModel, model.CenterpieceModel, model.PlaneModel}
	}
	return &fakeLoader{names: names}
}

func (l *fakeLoader) Load(_ context.Context, up model.Uploader, _ wgpu.BindGroupLayoutDescriptor) (map[string]*model.Model, error) {
	l.loads++
	if l.err != nil {
		return nil, l.err
	}
	models := make(map[string]*model.Model, len(l.names))
	for _, name := range l.names {
		mesh := bind_group_provider.NewBindGroupProvider(name + "-mesh")
		if err := up.InitMeshBuffers(mesh, nil, nil, 36); err != nil {
			return nil, err
		}
		models[name] = &model.Model{
			Name:      name,
			Meshes:    []model.Mesh{{Name: name, Provider: mesh}},
			Materials: []model.Material{{Name: name, Provider: bind_group_provider.NewBindGroupProvider(name + "-material")}},
		}
	}
	return models, nil
}

// fakeSurface satisfies Surface for holder tests.
type fakeSurface struct {
	width, height int
}

func (s fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fakeSurface) Width() int                                 { return s.width }
func (s fakeSurface) Height() int                                { return s.height }
