package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithInclude registers a struct the source may pull in with //@oxy:include and reference
// from //@oxy:group annotations.
//
// Parameters:
//   - key: the struct type key used in annotations
//   - entry: the WGSL struct source and its type name
//
// Returns:
//   - ShaderBuilderOption: a function that registers the struct
func WithInclude(key string, entry StructEntry) ShaderBuilderOption {
	return func(s *shader) {
		if s.includes == nil {
			s.includes = make(map[string]StructEntry)
		}
		s.includes[key] = entry
	}
}

// WithBindGroupLayout declares the layout of one bind group the stage uses.
//
// Parameters:
//   - group: the bind group index
//   - descriptor: the layout of the group
//
// Returns:
//   - ShaderBuilderOption: a function that records the layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayouts sets the vertex buffer layouts, one per slot in slot order.
//
// Parameters:
//   - layouts: the vertex buffer layouts
//
// Returns:
//   - ShaderBuilderOption: a function that sets the layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}
