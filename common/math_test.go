package common

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transformPoint(m [16]float32, p [3]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]
	}
	return out
}

func TestMul4Identity(t *testing.T) {
	m := [16]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	assert.Equal(t, m, Mul4(Identity(), m))
	assert.Equal(t, m, Mul4(m, Identity()))
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := [3]float32{100, 0, 0}
	view := LookAt(eye, [3]float32{}, [3]float32{0, 1, 0})

	p := transformPoint(view, eye)
	assert.InDelta(t, 0, p[0], 1e-4)
	assert.InDelta(t, 0, p[1], 1e-4)
	assert.InDelta(t, 0, p[2], 1e-4)

	// the target sits straight ahead on -Z in view space
	target := transformPoint(view, [3]float32{})
	assert.InDelta(t, -100, target[2], 1e-3)
}

func TestLookAtDegenerateHasNoNaN(t *testing.T) {
	view := LookAt([3]float32{0, 5, 0}, [3]float32{}, [3]float32{0, 1, 0})
	for i, v := range view {
		assert.False(t, math.IsNaN(float64(v)), "element %d is NaN", i)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := Perspective(float32(math.Pi/4), 16.0/9.0, near, far)

	n := transformPoint(proj, [3]float32{0, 0, -near})
	f := transformPoint(proj, [3]float32{0, 0, -far})
	assert.InDelta(t, 0, n[2]/n[3], 1e-5)
	assert.InDelta(t, 1, f[2]/f[3], 1e-5)
}

func TestVectorHelpers(t *testing.T) {
	assert.Equal(t, [3]float32{0, 0, 1}, Cross3([3]float32{1, 0, 0}, [3]float32{0, 1, 0}))
	assert.Equal(t, float32(5), Length3([3]float32{3, 4, 0}))
	assert.Equal(t, [3]float32{}, Normalize3([3]float32{}))
	assert.True(t, IsFinite(1, 2, 3))
	assert.False(t, IsFinite(1, float32(math.NaN())))
	assert.False(t, IsFinite(float32(math.Inf(-1))))
}

func TestPacking(t *testing.T) {
	b := Float32sToBytes([]float32{1})
	require.Len(t, b, 4)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b)
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0}, Uint32sToBytes([]uint32{1, 2}))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindUnknown},
		{errors.New("boom"), KindUnknown},
		{fmt.Errorf("negotiate: %w", ErrDeviceUnavailable), KindFatal},
		{ErrDepthMismatch, KindFatal},
		{fmt.Errorf("%w: timeout", ErrFrameAcquire), KindRecoverable},
		{ErrSurfaceOutdated, KindRecoverable},
		{ErrNotInitialized, KindStateMisuse},
		{fmt.Errorf("resize: %w", ErrInvalidDimensions), KindDegenerateInput},
		{ErrInvalidInstanceRange, KindDegenerateInput},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
	assert.Equal(t, "fatal", KindFatal.String())
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
}
