package common

import "errors"

// Sentinel errors shared by every engine component. Callers match them with errors.Is;
// components wrap them with fmt.Errorf("...: %w", err) to attach context.
var (
	// ErrDeviceUnavailable is returned when no compatible adapter or device could be negotiated.
	ErrDeviceUnavailable = errors.New("no compatible graphics adapter or device")

	// ErrPipelineCompile is returned when a shader module or render pipeline fails to build.
	ErrPipelineCompile = errors.New("render pipeline compilation failed")

	// ErrAssetMissing is returned when a model required by the scene was not produced by the loader.
	ErrAssetMissing = errors.New("required asset missing")

	// ErrDepthMismatch is returned when the depth attachment no longer matches the color target size.
	ErrDepthMismatch = errors.New("depth buffer size does not match color target")

	// ErrSurfaceOutdated is returned when the surface was lost or no longer matches the window.
	ErrSurfaceOutdated = errors.New("surface lost or outdated")

	// ErrFrameAcquire is returned for any other failure to acquire the next surface texture.
	ErrFrameAcquire = errors.New("surface texture acquisition failed")

	// ErrFrameSkipped wraps a per-frame failure after it has been logged; state is unchanged.
	ErrFrameSkipped = errors.New("frame skipped")

	// ErrNotInitialized is returned when the render state is read before initialization finished.
	ErrNotInitialized = errors.New("render state not initialized")

	// ErrInitInFlight is returned when an operation conflicts with a running initialization.
	ErrInitInFlight = errors.New("render state initialization in progress")

	// ErrInvalidDimensions is returned for a surface width or height that is not positive.
	ErrInvalidDimensions = errors.New("invalid surface dimensions")

	// ErrInvalidRadius is returned for an orbit radius that is not a positive finite number.
	ErrInvalidRadius = errors.New("invalid orbit radius")

	// ErrInvalidOrientation is returned for an orbit orientation with a non-finite component.
	ErrInvalidOrientation = errors.New("invalid orbit orientation")

	// ErrInvalidInstanceRange is returned when instance groups overlap or fall outside the instance array.
	ErrInvalidInstanceRange = errors.New("invalid instance range")
)

// ErrorKind classifies an error by how the caller is expected to react to it.
type ErrorKind int

const (
	// KindUnknown is any error not produced by the engine.
	KindUnknown ErrorKind = iota

	// KindFatal errors abort initialization; the caller may retry from scratch.
	KindFatal

	// KindRecoverable errors affect a single frame and heal on a later tick.
	KindRecoverable

	// KindStateMisuse errors mean an operation was attempted in the wrong lifecycle state.
	KindStateMisuse

	// KindDegenerateInput errors mean the caller supplied values that cannot be rendered.
	KindDegenerateInput
)

// String returns the human readable name of the ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindRecoverable:
		return "recoverable"
	case KindStateMisuse:
		return "state-misuse"
	case KindDegenerateInput:
		return "degenerate-input"
	default:
		return "unknown"
	}
}

// KindOf reports the ErrorKind of err by inspecting its wrapped sentinel.
//
// Parameters:
//   - err: the error to classify
//
// Returns:
//   - ErrorKind: the classification, KindUnknown for nil or foreign errors
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrDeviceUnavailable),
		errors.Is(err, ErrPipelineCompile),
		errors.Is(err, ErrAssetMissing),
		errors.Is(err, ErrDepthMismatch):
		return KindFatal
	case errors.Is(err, ErrSurfaceOutdated),
		errors.Is(err, ErrFrameAcquire),
		errors.Is(err, ErrFrameSkipped):
		return KindRecoverable
	case errors.Is(err, ErrNotInitialized),
		errors.Is(err, ErrInitInFlight):
		return KindStateMisuse
	case errors.Is(err, ErrInvalidDimensions),
		errors.Is(err, ErrInvalidRadius),
		errors.Is(err, ErrInvalidOrientation),
		errors.Is(err, ErrInvalidInstanceRange):
		return KindDegenerateInput
	default:
		return KindUnknown
	}
}
