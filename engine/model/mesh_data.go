package model

import (
	"github.com/Carmen-Shannon/oxy-orbit/common"
)

// MeshData is CPU-side indexed triangle geometry awaiting upload.
type MeshData struct {
	Vertices []GPUVertex
	Indices  []uint32
}

// VertexBytes packs the vertices for upload.
func (d *MeshData) VertexBytes() []byte {
	buf := make([]byte, len(d.Vertices)*GPUVertexSize)
	for i := range d.Vertices {
		d.Vertices[i].MarshalTo(buf[i*GPUVertexSize:])
	}
	return buf
}

// IndexBytes packs the indices for upload as uint32.
func (d *MeshData) IndexBytes() []byte {
	return common.Uint32sToBytes(d.Indices)
}

// ComputeTangents fills Tangent and Bitangent of every vertex from the triangle
// positions and texture coordinates, averaging over the triangles sharing a vertex.
// Triangles with degenerate texture coordinates contribute nothing.
func (d *MeshData) ComputeTangents() {
	tangents := make([][3]float32, len(d.Vertices))
	bitangents := make([][3]float32, len(d.Vertices))

	for t := 0; t+2 < len(d.Indices); t += 3 {
		i0, i1, i2 := d.Indices[t], d.Indices[t+1], d.Indices[t+2]
		v0, v1, v2 := d.Vertices[i0], d.Vertices[i1], d.Vertices[i2]

		dp1 := common.Sub3(v1.Position, v0.Position)
		dp2 := common.Sub3(v2.Position, v0.Position)
		du1, dv1 := v1.TexCoord[0]-v0.TexCoord[0], v1.TexCoord[1]-v0.TexCoord[1]
		du2, dv2 := v2.TexCoord[0]-v0.TexCoord[0], v2.TexCoord[1]-v0.TexCoord[1]

		denom := du1*dv2 - dv1*du2
		if denom == 0 {
			continue
		}
		r := 1 / denom
		tangent := [3]float32{
			(dp1[0]*dv2 - dp2[0]*dv1) * r,
			(dp1[1]*dv2 - dp2[1]*dv1) * r,
			(dp1[2]*dv2 - dp2[2]*dv1) * r,
		}
		// flipped so the bitangent follows +v in a texture whose origin is the top-left corner
		bitangent := [3]float32{
			(dp2[0]*du1 - dp1[0]*du2) * -r,
			(dp2[1]*du1 - dp1[1]*du2) * -r,
			(dp2[2]*du1 - dp1[2]*du2) * -r,
		}

		for _, idx := range []uint32{i0, i1, i2} {
			tangents[idx] = common.Add3(tangents[idx], tangent)
			bitangents[idx] = common.Add3(bitangents[idx], bitangent)
		}
	}

	for i := range d.Vertices {
		d.Vertices[i].Tangent = common.Normalize3(tangents[i])
		d.Vertices[i].Bitangent = common.Normalize3(bitangents[i])
	}
}
