package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	assert.Equal(t, [3]float32{20, 25, 20}, l.Position)
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color)

	l = NewLight(WithPosition([3]float32{0, 10, 0}), WithColor([3]float32{1, 0.5, 0}))
	assert.Equal(t, [3]float32{0, 10, 0}, l.Uniform().Position)
	assert.Equal(t, [3]float32{1, 0.5, 0}, l.Uniform().Color)
}

func TestUniformMarshalPadsVec3(t *testing.T) {
	u := NewLight(WithColor([3]float32{1, 0, 0})).Uniform()
	buf := u.Marshal()
	require.Len(t, buf, u.Size())

	assert.Equal(t, []byte{0, 0, 0, 0}, buf[12:16], "position padding")
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[16:20], "color starts at 16")
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[28:32], "color padding")
	assert.Contains(t, GPULightUniformSource, "LightUniform")
}
