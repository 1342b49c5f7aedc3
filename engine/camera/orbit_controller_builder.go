package camera

// OrbitControllerOption is a functional option applied to an OrbitController via NewOrbitController.
type OrbitControllerOption func(*OrbitController)

// WithOrientation sets the starting orientation.
func WithOrientation(o Orientation) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.orientation = o
	}
}

// WithRadius sets the starting orbit radius.
func WithRadius(radius float32) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.radius = radius
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius reachable by zooming.
func WithRadiusBounds(minRadius, maxRadius float32) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.minRadius = minRadius
		oc.maxRadius = maxRadius
	}
}

// WithSensitivity sets the normalized orientation change per pixel of drag.
func WithSensitivity(sensitivity float32) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.sensitivity = sensitivity
	}
}

// WithZoomSpeed sets the radius change per unit of wheel delta.
func WithZoomSpeed(speed float32) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.zoomSpeed = speed
	}
}

// WithKeyStep sets the normalized orientation change per key press.
func WithKeyStep(step float32) OrbitControllerOption {
	return func(oc *OrbitController) {
		oc.keyStep = step
	}
}
