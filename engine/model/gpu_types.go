package model

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput and InstanceInput structs.
// Matches GPUVertex and GPUInstanceRaw layouts exactly.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

const (
	// GPUVertexSize is the marshaled size of GPUVertex in bytes.
	GPUVertexSize = 56

	// GPUInstanceRawSize is the marshaled size of GPUInstanceRaw in bytes.
	GPUInstanceRawSize = 100

	// InstanceSlot is the vertex buffer slot the instance buffer is bound to.
	InstanceSlot = 1
)

// GPUVertex is a single mesh vertex with the tangent frame needed for normal mapping.
type GPUVertex struct {
	Position  [3]float32 // offset  0, location 0
	TexCoord  [2]float32 // offset 12, location 1
	Normal    [3]float32 // offset 20, location 2
	Tangent   [3]float32 // offset 32, location 3
	Bitangent [3]float32 // offset 44, location 4
}

// Size returns the size of the GPUVertex struct in bytes.
func (g *GPUVertex) Size() int {
	return GPUVertexSize
}

// MarshalTo writes the vertex into buf, which must hold at least GPUVertexSize bytes.
func (g *GPUVertex) MarshalTo(buf []byte) {
	put := func(off int, vs ...float32) {
		for i, v := range vs {
			binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(v))
		}
	}
	put(0, g.Position[:]...)
	put(12, g.TexCoord[:]...)
	put(20, g.Normal[:]...)
	put(32, g.Tangent[:]...)
	put(44, g.Bitangent[:]...)
}

// VertexLayout describes GPUVertex to the render pipeline at slot 0.
//
// Returns:
//   - wgpu.VertexBufferLayout: per-vertex layout with locations 0 through 4
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 32, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 44, ShaderLocation: 4},
		},
	}
}

// GPUInstanceRaw is the per-instance data consumed by the scene pipeline at InstanceSlot.
type GPUInstanceRaw struct {
	Model  [16]float32 // offset  0: model matrix, column-major (locations 5-8)
	Normal [9]float32  // offset 64: normal matrix, column-major (locations 9-11)
}

// Size returns the size of the GPUInstanceRaw struct in bytes.
func (g *GPUInstanceRaw) Size() int {
	return GPUInstanceRawSize
}

// MarshalTo writes the instance into buf, which must hold at least GPUInstanceRawSize bytes.
func (g *GPUInstanceRaw) MarshalTo(buf []byte) {
	for i, v := range g.Model {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Normal {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
}

// InstanceLayout describes GPUInstanceRaw to the render pipeline at InstanceSlot.
//
// Returns:
//   - wgpu.VertexBufferLayout: per-instance layout with locations 5 through 11
func InstanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: GPUInstanceRawSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 5},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 6},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 7},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 8},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 64, ShaderLocation: 9},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 76, ShaderLocation: 10},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 88, ShaderLocation: 11},
		},
	}
}

// MarshalInstances packs instances back to back for upload into the instance buffer.
//
// Parameters:
//   - instances: the instances to pack, in draw order
//
// Returns:
//   - []byte: len(instances)*GPUInstanceRawSize bytes
func MarshalInstances(instances []Instance) []byte {
	buf := make([]byte, len(instances)*GPUInstanceRawSize)
	for i, inst := range instances {
		raw := inst.ToRaw()
		raw.MarshalTo(buf[i*GPUInstanceRawSize:])
	}
	return buf
}
