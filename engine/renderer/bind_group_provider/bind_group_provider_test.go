package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider_Label(t *testing.T) {
	p := NewBindGroupProvider("camera")
	assert.Equal(t, "camera", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Zero(t, p.IndexCount())
}

func TestSetIndexBuffer_RecordsCount(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetIndexBuffer(nil, 36)
	assert.Equal(t, 36, p.IndexCount())
	assert.Nil(t, p.IndexBuffer())
}

func TestRelease_EmptyProviderIsIdempotent(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetIndexBuffer(nil, 6)
	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
	assert.Zero(t, p.IndexCount())
}
