package engine

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/animation"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/config"
	"github.com/Carmen-Shannon/oxy-orbit/engine/light"
	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/Carmen-Shannon/oxy-orbit/engine/profiler"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer"
	"github.com/Carmen-Shannon/oxy-orbit/engine/state"
	"github.com/Carmen-Shannon/oxy-orbit/engine/window"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window the engine renders into and reads input from.
//
// Parameters:
//   - w: an open Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithBuilder sets the function that builds the render state for the window, replacing
// the one WithConfig derives.
//
// Parameters:
//   - build: the state builder, typically state.NewGPUBuilder
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBuilder(build state.BuildFunc) EngineBuilderOption {
	return func(e *engine) {
		e.build = build
	}
}

// WithController sets the orbit controller input is mapped through.
func WithController(c *camera.OrbitController) EngineBuilderOption {
	return func(e *engine) {
		e.controller = c
	}
}

// WithAnimation registers cb under label on the render state once it is built.
//
// Parameters:
//   - label: the animation key, a later option with the same label replaces it
//   - cb: the callback run every animation tick
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAnimation(label string, cb animation.Callback[*state.State]) EngineBuilderOption {
	return func(e *engine) {
		e.animations = append(e.animations, namedAnimation{label: label, cb: cb})
	}
}

// WithLogger sets the logger shared by the engine and everything it builds.
func WithLogger(log *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.log = logger.OrNop(log)
	}
}

// WithConfig derives the state builder, orbit controller and spin animation from cfg.
// Explicit WithBuilder and WithController options take precedence.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg *config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// applyConfig fills in whatever the explicit options left unset.
func (e *engine) applyConfig(cfg *config.Config) {
	if e.controller == nil {
		e.controller = camera.NewOrbitController(controllerOptions(cfg)...)
	}
	if e.build == nil {
		e.build = state.NewGPUBuilder(
			model.NewPrimitiveLoader(model.WithLogger(e.log)),
			rendererOptions(cfg, e.log),
			stateOptions(cfg, e.log)...,
		)
	}
	if cfg.Animation.SpinSpeed != 0 {
		e.animations = append(e.animations, namedAnimation{
			label: SpinAnimation,
			cb:    Spin[*state.State](0, cfg.Animation.SpinSpeed, e.log),
		})
	}
}

func controllerOptions(cfg *config.Config) []camera.OrbitControllerOption {
	c := cfg.Camera
	return []camera.OrbitControllerOption{
		camera.WithOrientation(camera.Orientation{Azimuth: c.Azimuth, Elevation: c.Elevation}),
		camera.WithRadiusBounds(c.MinRadius, c.MaxRadius),
		camera.WithRadius(c.Radius),
		camera.WithSensitivity(c.DragSensitivity),
		camera.WithZoomSpeed(c.ZoomSpeed),
		camera.WithKeyStep(c.KeyStep),
	}
}

func rendererOptions(cfg *config.Config, log *zap.Logger) []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithLogger(log),
	}
}

func stateOptions(cfg *config.Config, log *zap.Logger) []state.Option {
	c := cfg.Camera
	options := []state.Option{
		state.WithCamera(camera.NewCamera(
			camera.WithFovYDegrees(c.FovYDegrees),
			camera.WithClipPlanes(c.ZNear, c.ZFar),
		)),
		state.WithOrientation(camera.Orientation{Azimuth: c.Azimuth, Elevation: c.Elevation}),
		state.WithRadius(c.Radius),
		state.WithLight(light.NewLight(
			light.WithPosition(cfg.Light.Position),
			light.WithColor(cfg.Light.Color),
		)),
		state.WithLogger(log),
	}
	if cfg.Profiling {
		options = append(options, state.WithProfiler(profiler.NewProfiler(log)))
	}
	return options
}
