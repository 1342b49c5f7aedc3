package model

import (
	"github.com/chewxy/math32"
)

// cubeFaces lists each face as its outward normal and the in-plane u and v axes, with
// u x v equal to the normal so the quads wind counter-clockwise seen from outside.
var cubeFaces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// quadCorners are the (u, v) signs and texture coordinates of a face's four corners.
var quadCorners = [4]struct {
	su, sv float32
	uv     [2]float32
}{
	{-1, -1, [2]float32{0, 1}},
	{1, -1, [2]float32{1, 1}},
	{1, 1, [2]float32{1, 0}},
	{-1, 1, [2]float32{0, 0}},
}

// appendQuad adds a quad centered at center spanning halfU along u and halfV along v.
func appendQuad(d *MeshData, center, normal, u, v [3]float32, halfU, halfV, uvScale float32) {
	base := uint32(len(d.Vertices))
	for _, c := range quadCorners {
		var pos [3]float32
		for k := range 3 {
			pos[k] = center[k] + u[k]*c.su*halfU + v[k]*c.sv*halfV
		}
		d.Vertices = append(d.Vertices, GPUVertex{
			Position: pos,
			TexCoord: [2]float32{c.uv[0] * uvScale, c.uv[1] * uvScale},
			Normal:   normal,
		})
	}
	d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
}

// GenerateCube builds an axis-aligned cube of edge length size centered on the origin,
// with four vertices per face so each face has its own normal and full texture.
func GenerateCube(size float32) MeshData {
	half := size / 2
	d := MeshData{
		Vertices: make([]GPUVertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		center := [3]float32{n[0] * half, n[1] * half, n[2] * half}
		appendQuad(&d, center, n, u, v, half, half, 1)
	}
	d.ComputeTangents()
	return d
}

// GeneratePlane builds a square in the XZ plane facing +Y, of edge length size, whose
// texture repeats tiles times across each edge.
func GeneratePlane(size float32, tiles float32) MeshData {
	half := size / 2
	d := MeshData{
		Vertices: make([]GPUVertex, 0, 4),
		Indices:  make([]uint32, 0, 6),
	}
	appendQuad(&d, [3]float32{}, [3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}, half, half, max(tiles, 1))
	d.ComputeTangents()
	return d
}

// GenerateSphere builds a UV sphere of the given radius centered on the origin with
// rings latitude bands and segments longitude slices. The seam column is duplicated so
// texture coordinates wrap cleanly.
func GenerateSphere(radius float32, rings, segments int) MeshData {
	rings = max(rings, 2)
	segments = max(segments, 3)

	d := MeshData{
		Vertices: make([]GPUVertex, 0, (rings+1)*(segments+1)),
		Indices:  make([]uint32, 0, rings*segments*6),
	}
	for i := 0; i <= rings; i++ {
		v := float32(i) / float32(rings)
		theta := v * math32.Pi
		st, ct := math32.Sincos(theta)
		for j := 0; j <= segments; j++ {
			u := float32(j) / float32(segments)
			sp, cp := math32.Sincos(u * 2 * math32.Pi)
			n := [3]float32{st * cp, ct, st * sp}
			d.Vertices = append(d.Vertices, GPUVertex{
				Position: [3]float32{n[0] * radius, n[1] * radius, n[2] * radius},
				TexCoord: [2]float32{u, v},
				Normal:   n,
			})
		}
	}

	stride := uint32(segments + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			d.Indices = append(d.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	d.ComputeTangents()
	return d
}
