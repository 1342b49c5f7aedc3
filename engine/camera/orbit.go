package camera

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/chewxy/math32"
)

// Orientation is a normalized orbit direction. Multiplying either component by pi yields
// radians. Azimuth turns around the Y axis starting at +X; Elevation lifts the eye above
// the XZ plane.
type Orientation struct {
	Azimuth   float32
	Elevation float32
}

// OrbitEye maps an orientation and radius to an eye offset from the orbit target:
//
//	y = sin(el)*r, x = cos(az)*cos(el)*r, z = sin(az)*cos(el)*r
//
// The result always lies on the sphere of radius r.
//
// Parameters:
//   - o: the normalized orientation
//   - radius: the orbit radius
//
// Returns:
//   - [3]float32: the eye offset from the target
func OrbitEye(o Orientation, radius float32) [3]float32 {
	az := o.Azimuth * math32.Pi
	el := o.Elevation * math32.Pi

	rxz := math32.Cos(el) * radius
	return [3]float32{
		math32.Cos(az) * rxz,
		math32.Sin(el) * radius,
		math32.Sin(az) * rxz,
	}
}

// AspectRatio returns width/height, rejecting sizes that cannot be rendered.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - float32: the aspect ratio
//   - error: wraps common.ErrInvalidDimensions when either size is not positive
func AspectRatio(width, height int) (float32, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("surface %dx%d: %w", width, height, common.ErrInvalidDimensions)
	}
	return float32(width) / float32(height), nil
}

// ValidateRadius rejects orbit radii that are not positive and finite.
func ValidateRadius(radius float32) error {
	if !common.IsFinite(radius) || radius <= 0 {
		return fmt.Errorf("radius %v: %w", radius, common.ErrInvalidRadius)
	}
	return nil
}
