package camera

// CameraBuilderOption is a functional option applied to a Camera during construction via NewCamera.
type CameraBuilderOption func(*Camera)

// WithEye sets the camera position.
func WithEye(eye [3]float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Eye = eye
	}
}

// WithTarget sets the point the camera looks at.
func WithTarget(target [3]float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Target = target
	}
}

// WithUp sets the up vector.
func WithUp(up [3]float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Up = up
	}
}

// WithAspect sets the aspect ratio (width / height).
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Aspect = aspect
	}
}

// WithFovYDegrees sets the vertical field of view in degrees.
func WithFovYDegrees(degrees float32) CameraBuilderOption {
	return func(c *Camera) {
		c.FovY = Radians(degrees)
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *Camera) {
		c.ZNear = near
		c.ZFar = far
	}
}
