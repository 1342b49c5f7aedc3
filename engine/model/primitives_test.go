package model

import (
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertWellFormed(t *testing.T, d MeshData) {
	t.Helper()
	require.Zero(t, len(d.Indices)%3)
	for _, idx := range d.Indices {
		require.Less(t, int(idx), len(d.Vertices))
	}
	for i, v := range d.Vertices {
		assert.InDelta(t, 1, common.Length3(v.Normal), 1e-4, "normal %d", i)
	}
}

func TestGenerateCube(t *testing.T) {
	d := GenerateCube(2)
	assert.Len(t, d.Vertices, 24)
	assert.Len(t, d.Indices, 36)
	assertWellFormed(t, d)

	for _, v := range d.Vertices {
		for k := range 3 {
			assert.InDelta(t, 1, abs(v.Position[k]), 1e-6, "corner on the cube surface")
		}
		assert.InDelta(t, 1, common.Length3(v.Tangent), 1e-4)
		assert.InDelta(t, 0, common.Dot3(v.Tangent, v.Normal), 1e-4)
	}
}

func TestGenerateCubeWindsOutward(t *testing.T) {
	d := GenerateCube(1)
	for tri := 0; tri < len(d.Indices); tri += 3 {
		a := d.Vertices[d.Indices[tri]]
		b := d.Vertices[d.Indices[tri+1]]
		c := d.Vertices[d.Indices[tri+2]]
		n := common.Cross3(common.Sub3(b.Position, a.Position), common.Sub3(c.Position, a.Position))
		assert.Greater(t, common.Dot3(n, a.Normal), float32(0), "triangle %d", tri/3)
	}
}

func TestGeneratePlane(t *testing.T) {
	d := GeneratePlane(60, 6)
	assert.Len(t, d.Vertices, 4)
	assert.Len(t, d.Indices, 6)
	assertWellFormed(t, d)

	for _, v := range d.Vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
		assert.Equal(t, float32(0), v.Position[1])
		assert.InDelta(t, 30, abs(v.Position[0]), 1e-6)
		assert.LessOrEqual(t, v.TexCoord[0], float32(6))
	}
}

func TestGenerateSphere(t *testing.T) {
	const rings, segments = 8, 16
	d := GenerateSphere(5, rings, segments)
	assert.Len(t, d.Vertices, (rings+1)*(segments+1))
	assert.Len(t, d.Indices, rings*segments*6)
	assertWellFormed(t, d)

	for _, v := range d.Vertices {
		assert.InDelta(t, 5, common.Length3(v.Position), 1e-4)
	}
}

func TestGenerateSphereClampsSubdivision(t *testing.T) {
	d := GenerateSphere(1, 0, 0)
	assert.Len(t, d.Vertices, 3*4)
	assertWellFormed(t, d)
}

func TestMeshDataBytes(t *testing.T) {
	d := GenerateCube(1)
	assert.Len(t, d.VertexBytes(), 24*GPUVertexSize)
	assert.Len(t, d.IndexBytes(), 36*4)
}

func TestTextures(t *testing.T) {
	c := CheckerTexture(4, 2, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
	require.Len(t, c.Pixels, 4*4*4)
	assert.False(t, c.Linear)
	assert.Equal(t, []byte{255, 255, 255, 255}, c.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 0, 255}, c.Pixels[2*4:3*4])

	n := FlatNormalMap(2)
	assert.True(t, n.Linear)
	assert.Equal(t, []byte{128, 128, 255, 255}, n.Pixels[0:4])

	b := BumpNormalMap(16, 2)
	assert.True(t, b.Linear)
	assert.Len(t, b.Pixels, 16*16*4)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
