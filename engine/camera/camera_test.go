package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, [3]float32{100, 0, 0}, c.Eye)
	assert.Equal(t, [3]float32{0, 1, 0}, c.Up)
	assert.InDelta(t, 0.349066, c.FovY, 1e-5)
	require.NoError(t, c.Validate())
}

func TestCameraValidate(t *testing.T) {
	tests := []struct {
		name string
		opts []CameraBuilderOption
	}{
		{"zero near", []CameraBuilderOption{WithClipPlanes(0, 10)}},
		{"near past far", []CameraBuilderOption{WithClipPlanes(10, 1)}},
		{"zero aspect", []CameraBuilderOption{WithAspect(0)}},
		{"flat fov", []CameraBuilderOption{WithFovYDegrees(0)}},
		{"fov too wide", []CameraBuilderOption{WithFovYDegrees(180)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewCamera(tt.opts...).Validate())
		})
	}
	assert.ErrorIs(t, NewCamera(WithAspect(-1)).Validate(), common.ErrInvalidDimensions)
}

func TestUniformProjectsTargetToCenter(t *testing.T) {
	c := NewCamera(WithAspect(16.0 / 9.0))
	u := c.Uniform()
	assert.Equal(t, c.Eye, u.CameraPosition)

	// the origin is the target, so it lands in the middle of clip space
	m := u.ViewProj
	x, y, z, w := m[12], m[13], m[14], m[15]
	require.NotZero(t, w)
	assert.InDelta(t, 0, x/w, 1e-5)
	assert.InDelta(t, 0, y/w, 1e-5)
	assert.Greater(t, z/w, float32(0))
	assert.Less(t, z/w, float32(1))
}

func TestUniformMarshalLayout(t *testing.T) {
	u := GPUCameraUniform{CameraPosition: [3]float32{1, 2, 3}}
	u.ViewProj[0] = 1
	buf := u.Marshal()
	require.Len(t, buf, u.Size())
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[64:68])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[76:80])
	assert.Contains(t, GPUCameraUniformSource, "view_proj")
}
