package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// OrbitController turns pointer, wheel and key input into an absolute Orientation and
// radius. It holds no camera; the caller forwards Orientation and Radius to the render state.
type OrbitController struct {
	mu *sync.Mutex

	orientation Orientation
	radius      float32

	initialOrientation Orientation
	initialRadius      float32

	minRadius    float32
	maxRadius    float32
	maxElevation float32

	sensitivity float32
	zoomSpeed   float32
	keyStep     float32

	dragging   bool
	lastCursor [2]float32
}

// NewOrbitController creates a controller starting at orientation (0, 0) and radius 100,
// then applies options. The applied orientation and radius become the Reset state.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - *OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) *OrbitController {
	oc := &OrbitController{
		mu:           &sync.Mutex{},
		radius:       100,
		minRadius:    1,
		maxRadius:    1000,
		maxElevation: 0.49,
		sensitivity:  0.001,
		zoomSpeed:    5,
		keyStep:      0.02,
	}
	for _, opt := range options {
		opt(oc)
	}
	oc.orientation = oc.clamp(oc.orientation)
	oc.radius = oc.clampRadius(oc.radius)
	oc.initialOrientation = oc.orientation
	oc.initialRadius = oc.radius
	return oc
}

// Orientation returns the current orientation.
func (oc *OrbitController) Orientation() Orientation {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.orientation
}

// Radius returns the current orbit radius.
func (oc *OrbitController) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

// BeginDrag records the cursor position where a drag starts.
func (oc *OrbitController) BeginDrag(x, y float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.dragging = true
	oc.lastCursor = [2]float32{x, y}
}

// EndDrag stops tracking cursor movement.
func (oc *OrbitController) EndDrag() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.dragging = false
}

// Dragging reports whether a drag is in progress.
func (oc *OrbitController) Dragging() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.dragging
}

// DragTo moves the orientation by the cursor delta since the previous position.
// Horizontal motion turns the azimuth, vertical motion the elevation.
//
// Parameters:
//   - x, y: the new cursor position in pixels
//
// Returns:
//   - bool: true when a drag is active and the orientation changed
func (oc *OrbitController) DragTo(x, y float32) bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if !oc.dragging {
		return false
	}
	dx := x - oc.lastCursor[0]
	dy := y - oc.lastCursor[1]
	oc.lastCursor = [2]float32{x, y}
	if dx == 0 && dy == 0 {
		return false
	}
	oc.orientation = oc.clamp(Orientation{
		Azimuth:   oc.orientation.Azimuth + dx*oc.sensitivity,
		Elevation: oc.orientation.Elevation + dy*oc.sensitivity,
	})
	return true
}

// Step moves the orientation by whole key steps, e.g. Step(1, 0) for one step of azimuth.
func (oc *OrbitController) Step(azimuthSteps, elevationSteps float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.orientation = oc.clamp(Orientation{
		Azimuth:   oc.orientation.Azimuth + azimuthSteps*oc.keyStep,
		Elevation: oc.orientation.Elevation + elevationSteps*oc.keyStep,
	})
}

// Zoom moves the eye towards the target for positive delta, clamped to the radius bounds.
//
// Parameters:
//   - delta: wheel or key zoom amount
//
// Returns:
//   - bool: true when the radius changed
func (oc *OrbitController) Zoom(delta float32) bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	r := oc.clampRadius(oc.radius - delta*oc.zoomSpeed)
	if r == oc.radius {
		return false
	}
	oc.radius = r
	return true
}

// Reset restores the orientation and radius the controller was created with.
func (oc *OrbitController) Reset() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.orientation = oc.initialOrientation
	oc.radius = oc.initialRadius
	oc.dragging = false
}

// clamp wraps the azimuth into [-1, 1) and limits the elevation short of the poles,
// where the fixed up vector would flip the view. Caller must hold the mutex.
func (oc *OrbitController) clamp(o Orientation) Orientation {
	az := math32.Mod(o.Azimuth+1, 2)
	if az < 0 {
		az += 2
	}
	o.Azimuth = az - 1
	o.Elevation = max(-oc.maxElevation, min(oc.maxElevation, o.Elevation))
	return o
}

// clampRadius limits r to the configured bounds. Caller must hold the mutex.
func (oc *OrbitController) clampRadius(r float32) float32 {
	return max(oc.minRadius, min(oc.maxRadius, r))
}
