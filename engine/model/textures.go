package model

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-orbit/common"
)

// CheckerTexture builds a size x size sRGB checkerboard with cells squares per edge.
//
// Parameters:
//   - size: edge length in pixels, clamped to at least 1
//   - cells: number of squares along each edge, clamped to at least 1
//   - a: color of the even squares
//   - b: color of the odd squares
//
// Returns:
//   - common.TextureStagingData: RGBA pixel data ready for upload
func CheckerTexture(size, cells int, a, b color.RGBA) common.TextureStagingData {
	size = max(size, 1)
	cells = max(cells, 1)
	cell := max(size/cells, 1)

	pixels := make([]byte, size*size*4)
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			o := (y*size + x) * 4
			pixels[o], pixels[o+1], pixels[o+2], pixels[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return common.TextureStagingData{Pixels: pixels, Width: uint32(size), Height: uint32(size)}
}

// FlatNormalMap builds a size x size linear normal map whose every texel encodes the
// unperturbed tangent-space normal (0, 0, 1).
func FlatNormalMap(size int) common.TextureStagingData {
	size = max(size, 1)
	pixels := make([]byte, size*size*4)
	for o := 0; o < len(pixels); o += 4 {
		pixels[o], pixels[o+1], pixels[o+2], pixels[o+3] = 128, 128, 255, 255
	}
	return common.TextureStagingData{Pixels: pixels, Width: uint32(size), Height: uint32(size), Linear: true}
}

// BumpNormalMap builds a size x size linear normal map of raised tiles, cells per edge.
// Texels on a tile border tilt toward the border so the lighting picks out the grid.
func BumpNormalMap(size, cells int) common.TextureStagingData {
	data := FlatNormalMap(size)
	size = int(data.Width)
	cell := max(size/max(cells, 1), 1)
	edge := max(cell/8, 1)

	for y := range size {
		for x := range size {
			cx, cy := x%cell, y%cell
			var nx, ny byte = 128, 128
			switch {
			case cx < edge:
				nx = 64
			case cx >= cell-edge:
				nx = 192
			}
			switch {
			case cy < edge:
				ny = 192
			case cy >= cell-edge:
				ny = 64
			}
			o := (y*size + x) * 4
			data.Pixels[o], data.Pixels[o+1] = nx, ny
			if nx != 128 || ny != 128 {
				data.Pixels[o+2] = 221
			}
		}
	}
	return data
}
