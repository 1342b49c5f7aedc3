package shader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader serves.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

// String returns the stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	declarations               []Annotation
	includes                   map[string]StructEntry
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a pre-processed WGSL stage together with the bind group layouts and vertex
// buffer layouts a render pipeline needs to use it.
type Shader interface {
	// Key returns the unique identifier of the shader.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Source returns the expanded WGSL source.
	//
	// Returns:
	//   - string: the WGSL source with every annotation expanded
	Source() string

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the WGSL entry point function name.
	//
	// Returns:
	//   - string: the entry point, "vs_main" or "fs_main" unless overridden
	EntryPoint() string

	// BindGroupLayoutDescriptors returns the bind group layouts the stage uses, keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts returns the vertex buffer layouts in slot order. Empty for fragment shaders.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// Declarations returns the bindings generated from @oxy:group annotations, in source order.
	//
	// Returns:
	//   - []Annotation: the generated binding declarations
	Declarations() []Annotation

	// GroupOf returns the group index of the binding declared with varName.
	//
	// Parameters:
	//   - varName: the WGSL variable name of a generated binding
	//
	// Returns:
	//   - int: the group index
	//   - bool: false if no generated binding has that name
	GroupOf(varName string) (int, bool)

	// Module returns the shader module descriptor built from the expanded source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor labelled with the shader key
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes source and builds a Shader for one pipeline stage.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the module label
//   - shaderType: the pipeline stage the shader serves
//   - source: WGSL source, possibly containing @oxy: annotations
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the built shader
//   - error: wraps common.ErrPipelineCompile if the source cannot be pre-processed
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:                        key,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	switch shaderType {
	case ShaderTypeFragment:
		s.entryPoint = "fs_main"
	default:
		s.entryPoint = "vs_main"
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.parseSource(source); err != nil {
		return nil, fmt.Errorf("shader %q: %w: %w", key, common.ErrPipelineCompile, err)
	}
	return s, nil
}

// parseSource expands annotations and builds the module descriptor.
func (s *shader) parseSource(source string) error {
	pp := NewPreProcessor(s.includes)
	expanded, err := pp.Process(source)
	if err != nil {
		return err
	}
	s.source = expanded
	s.declarations = slices.Clone(pp.Declarations())
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return maps.Clone(s.bindGroupLayoutDescriptors)
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) GroupOf(varName string) (int, bool) {
	for _, d := range s.declarations {
		if string(d.Args[1]) == varName {
			return *d.Group, true
		}
	}
	return -1, false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
