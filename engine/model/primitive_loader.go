package model

import (
	"context"
	"fmt"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// Material bind group binding indices.
const (
	DiffuseTextureBinding = 0
	DiffuseSamplerBinding = 1
	NormalTextureBinding  = 2
	NormalSamplerBinding  = 3
)

// PrimitiveKind selects the procedural mesh a PrimitiveSpec generates.
type PrimitiveKind int

const (
	PrimitiveCube PrimitiveKind = iota
	PrimitivePlane
	PrimitiveSphere
)

// PrimitiveSpec describes one procedurally generated model.
type PrimitiveSpec struct {
	// Name is the key the model is returned under.
	Name string
	// Kind selects the generator.
	Kind PrimitiveKind
	// Size is the edge length of a cube or plane, or the radius of a sphere.
	Size float32
	// Rings and Segments subdivide a sphere. Ignored by the other kinds.
	Rings, Segments int
	// Tiles repeats the plane texture across each edge. Ignored by the other kinds.
	Tiles float32
	// TextureSize is the edge length in pixels of the generated textures.
	TextureSize int
	// Cells is the number of checker squares along each texture edge.
	Cells int
	// Primary and Secondary are the checker colors.
	Primary, Secondary color.RGBA
	// Bumped tiles the normal map; otherwise the normal map is flat.
	Bumped bool
}

// DefaultPrimitiveSpecs returns the stock scene's models: a unit light cube, a sphere
// centerpiece and a ground plane.
func DefaultPrimitiveSpecs() []PrimitiveSpec {
	return []PrimitiveSpec{
		{
			Name: LightModel, Kind: PrimitiveCube, Size: 1,
			TextureSize: 64, Cells: 1, Primary: colornames.White, Secondary: colornames.White,
		},
		{
			Name: CenterpieceModel, Kind: PrimitiveSphere, Size: 8, Rings: 32, Segments: 64,
			TextureSize: 256, Cells: 8, Primary: colornames.Goldenrod, Secondary: colornames.Darkslateblue,
			Bumped: true,
		},
		{
			Name: PlaneModel, Kind: PrimitivePlane, Size: 60, Tiles: 6,
			TextureSize: 256, Cells: 4, Primary: colornames.Lightgray, Secondary: colornames.Dimgray,
			Bumped: true,
		},
	}
}

// primitiveLoader is the implementation of the Loader interface for procedural models.
type primitiveLoader struct {
	specs   []PrimitiveSpec
	workers int
	logger  *zap.Logger
}

var _ Loader = &primitiveLoader{}

// NewPrimitiveLoader creates a Loader that generates meshes and textures on the CPU.
// Generation of each model runs on a worker pool; uploads run serially on the caller.
//
// Parameters:
//   - options: variadic list of PrimitiveLoaderOption functions
//
// Returns:
//   - Loader: the configured loader
func NewPrimitiveLoader(options ...PrimitiveLoaderOption) Loader {
	l := &primitiveLoader{
		specs:   DefaultPrimitiveSpecs(),
		workers: runtime.NumCPU(),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// primitiveData is the CPU output of one spec, produced on a worker.
type primitiveData struct {
	mesh    MeshData
	diffuse common.TextureStagingData
	normal  common.TextureStagingData
}

func (l *primitiveLoader) Load(ctx context.Context, up Uploader, materialLayout wgpu.BindGroupLayoutDescriptor) (map[string]*Model, error) {
	generated, err := l.generate(ctx)
	if err != nil {
		return nil, err
	}

	models := make(map[string]*Model, len(l.specs))
	release := func() {
		for _, m := range models {
			m.Release()
		}
	}

	for i, spec := range l.specs {
		if err := ctx.Err(); err != nil {
			release()
			return nil, err
		}
		m, err := upload(up, spec.Name, generated[i], materialLayout)
		if err != nil {
			release()
			return nil, fmt.Errorf("upload model %q: %w", spec.Name, err)
		}
		models[spec.Name] = m
		l.logger.Debug("model uploaded",
			zap.String("model", spec.Name),
			zap.Int("vertices", len(generated[i].mesh.Vertices)),
			zap.Int("indices", len(generated[i].mesh.Indices)),
		)
	}
	return models, nil
}

// generate builds every spec's CPU data in parallel and waits for all of them.
func (l *primitiveLoader) generate(ctx context.Context) ([]primitiveData, error) {
	out := make([]primitiveData, len(l.specs))
	pool := worker.NewDynamicWorkerPool(l.workers, 256, time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, spec := range l.specs {
		wg.Add(1)
		idx, s := i, spec
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				out[idx] = generatePrimitive(s)
				return nil, nil
			},
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return out, ctx.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// generatePrimitive runs the CPU side of one spec.
func generatePrimitive(spec PrimitiveSpec) primitiveData {
	var mesh MeshData
	switch spec.Kind {
	case PrimitivePlane:
		mesh = GeneratePlane(spec.Size, spec.Tiles)
	case PrimitiveSphere:
		mesh = GenerateSphere(spec.Size, spec.Rings, spec.Segments)
	default:
		mesh = GenerateCube(spec.Size)
	}

	normal := FlatNormalMap(spec.TextureSize)
	if spec.Bumped {
		normal = BumpNormalMap(spec.TextureSize, spec.Cells)
	}
	return primitiveData{
		mesh:    mesh,
		diffuse: CheckerTexture(spec.TextureSize, spec.Cells, spec.Primary, spec.Secondary),
		normal:  normal,
	}
}

// upload moves one model's generated data onto the GPU through up.
func upload(up Uploader, name string, data primitiveData, materialLayout wgpu.BindGroupLayoutDescriptor) (*Model, error) {
	meshProvider := bind_group_provider.NewBindGroupProvider(name + "-mesh")
	matProvider := bind_group_provider.NewBindGroupProvider(name + "-material")
	m := &Model{
		Name:      name,
		Meshes:    []Mesh{{Name: name, Provider: meshProvider, MaterialIndex: 0}},
		Materials: []Material{{Name: name, Provider: matProvider}},
	}

	err := up.InitMeshBuffers(meshProvider, data.mesh.VertexBytes(), data.mesh.IndexBytes(), len(data.mesh.Indices))
	if err == nil {
		err = up.InitTextureView(matProvider, DiffuseTextureBinding, data.diffuse)
	}
	if err == nil {
		err = up.InitSampler(matProvider, DiffuseSamplerBinding, common.SamplerStagingData{})
	}
	if err == nil {
		err = up.InitTextureView(matProvider, NormalTextureBinding, data.normal)
	}
	if err == nil {
		err = up.InitSampler(matProvider, NormalSamplerBinding, common.SamplerStagingData{})
	}
	if err == nil {
		err = up.InitBindGroup(matProvider, materialLayout, nil, nil)
	}
	if err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}
