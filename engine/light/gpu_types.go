package light

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPULightUniformSource is the canonical WGSL definition of the LightUniform struct.
//
//go:embed assets/light_uniform.wgsl
var GPULightUniformSource string

// GPULightUniformSize is the size of GPULightUniform in bytes once marshaled.
const GPULightUniformSize = 32

// GPULightUniform is the GPU-aligned representation of the single point light.
// Each vec3 is padded to 16 bytes to match WGSL uniform alignment.
type GPULightUniform struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	_pad0    float32    // offset 12
	Color    [3]float32 // offset 16: linear RGB color (vec3<f32>)
	_pad1    float32    // offset 28
}

// Size returns the size of the GPULightUniform struct in bytes.
func (g *GPULightUniform) Size() int {
	return GPULightUniformSize
}

// Marshal serializes the GPULightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, GPULightUniformSize)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Color[i]))
	}
	return buf
}
