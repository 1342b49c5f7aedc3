package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDragRequiresBegin(t *testing.T) {
	oc := NewOrbitController()
	assert.False(t, oc.DragTo(10, 10))
	assert.Equal(t, Orientation{}, oc.Orientation())
}

func TestDragMovesOrientation(t *testing.T) {
	oc := NewOrbitController(WithSensitivity(0.001))
	oc.BeginDrag(100, 100)
	assert.True(t, oc.Dragging())
	assert.True(t, oc.DragTo(300, 50))

	o := oc.Orientation()
	assert.InDelta(t, 0.2, o.Azimuth, 1e-5)
	assert.InDelta(t, -0.05, o.Elevation, 1e-5)

	assert.False(t, oc.DragTo(300, 50), "no movement, no change")

	oc.EndDrag()
	assert.False(t, oc.DragTo(500, 500))
}

func TestAzimuthWraps(t *testing.T) {
	oc := NewOrbitController(WithOrientation(Orientation{Azimuth: 0.9}), WithKeyStep(0.2))
	oc.Step(1, 0)
	assert.InDelta(t, -0.9, oc.Orientation().Azimuth, 1e-5)

	oc.Step(-1, 0)
	assert.InDelta(t, 0.9, oc.Orientation().Azimuth, 1e-5)
}

func TestElevationClamped(t *testing.T) {
	oc := NewOrbitController(WithKeyStep(0.3))
	oc.Step(0, 5)
	assert.InDelta(t, 0.49, oc.Orientation().Elevation, 1e-6)
	oc.Step(0, -10)
	assert.InDelta(t, -0.49, oc.Orientation().Elevation, 1e-6)
}

func TestZoomClamped(t *testing.T) {
	oc := NewOrbitController(WithRadius(100), WithRadiusBounds(50, 150), WithZoomSpeed(10))
	assert.True(t, oc.Zoom(2))
	assert.Equal(t, float32(80), oc.Radius())

	oc.Zoom(100)
	assert.Equal(t, float32(50), oc.Radius())
	assert.False(t, oc.Zoom(1), "already at the minimum")

	oc.Zoom(-100)
	assert.Equal(t, float32(150), oc.Radius())
}

func TestReset(t *testing.T) {
	start := Orientation{Azimuth: -1, Elevation: 0.25}
	oc := NewOrbitController(WithOrientation(start), WithRadius(120))
	oc.Step(3, -3)
	oc.Zoom(2)
	oc.Reset()
	assert.Equal(t, start, oc.Orientation())
	assert.Equal(t, float32(120), oc.Radius())
}
