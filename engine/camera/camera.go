package camera

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/chewxy/math32"
)

// Camera is a perspective camera described by plain values. It is cheap to copy; every
// derived matrix is recomputed from the fields on demand.
type Camera struct {
	// Eye is the world-space camera position.
	Eye [3]float32
	// Target is the world-space point the camera looks at.
	Target [3]float32
	// Up is the approximate up direction used to orient the view.
	Up [3]float32
	// Aspect is the viewport width divided by its height.
	Aspect float32
	// FovY is the vertical field of view in radians.
	FovY float32
	// ZNear and ZFar are the clipping plane distances, 0 < ZNear < ZFar.
	ZNear, ZFar float32
}

// NewCamera creates a Camera looking at the origin from (100, 0, 0) with a 20 degree
// vertical field of view, then applies options.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the configured camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := Camera{
		Eye:    [3]float32{100, 0, 0},
		Target: [3]float32{0, 0, 0},
		Up:     [3]float32{0, 1, 0},
		Aspect: 1,
		FovY:   Radians(20),
		ZNear:  0.1,
		ZFar:   10000,
	}
	for _, opt := range options {
		opt(&c)
	}
	return c
}

// Validate reports whether the camera can produce a finite projection.
//
// Returns:
//   - error: nil when the camera is usable
func (c Camera) Validate() error {
	if !common.IsFinite(c.Aspect, c.FovY, c.ZNear, c.ZFar) {
		return fmt.Errorf("camera parameters must be finite")
	}
	if c.ZNear <= 0 || c.ZNear >= c.ZFar {
		return fmt.Errorf("camera planes znear=%v zfar=%v must satisfy 0 < znear < zfar", c.ZNear, c.ZFar)
	}
	if c.Aspect <= 0 {
		return fmt.Errorf("camera aspect %v must be positive: %w", c.Aspect, common.ErrInvalidDimensions)
	}
	if c.FovY <= 0 || c.FovY >= math32.Pi {
		return fmt.Errorf("camera fov %v must be in (0, pi)", c.FovY)
	}
	return nil
}

// ViewMatrix returns the world-to-view matrix (column-major).
func (c Camera) ViewMatrix() [16]float32 {
	return common.LookAt(c.Eye, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection matrix (column-major, depth in [0, 1]).
func (c Camera) ProjectionMatrix() [16]float32 {
	return common.Perspective(c.FovY, c.Aspect, c.ZNear, c.ZFar)
}

// ViewProjectionMatrix returns projection * view.
func (c Camera) ViewProjectionMatrix() [16]float32 {
	return common.Mul4(c.ProjectionMatrix(), c.ViewMatrix())
}

// Uniform derives the GPU camera uniform from the current fields.
//
// Returns:
//   - GPUCameraUniform: view-projection matrix and eye position ready for upload
func (c Camera) Uniform() GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:       c.ViewProjectionMatrix(),
		CameraPosition: c.Eye,
	}
}

// Orbit returns a copy of the camera with Eye placed on the sphere of the given radius
// around Target.
//
// Parameters:
//   - o: the normalized orbit orientation
//   - radius: distance from Target
//
// Returns:
//   - Camera: the repositioned camera
func (c Camera) Orbit(o Orientation, radius float32) Camera {
	c.Eye = common.Add3(c.Target, OrbitEye(o, radius))
	return c
}

// Radians converts degrees to radians.
func Radians(degrees float32) float32 {
	return degrees * math32.Pi / 180
}
