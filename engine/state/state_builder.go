package state

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/animation"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/light"
	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/Carmen-Shannon/oxy-orbit/engine/profiler"
	"go.uber.org/zap"
)

// DefaultRadius is the initial orbit radius; with the default orientation it puts the eye
// at (100, 0, 0).
const DefaultRadius float32 = 100

type config struct {
	camera           camera.Camera
	light            light.Light
	instances        []model.Instance
	groups           []model.InstanceGroup
	lightModel       string
	orientation      camera.Orientation
	radius           float32
	log              *zap.Logger
	prof             *profiler.Profiler
	schedulerOptions []animation.SchedulerOption
}

func defaultConfig() config {
	return config{
		camera:     camera.NewCamera(),
		light:      light.NewLight(),
		instances:  model.DefaultInstances(),
		lightModel: model.LightModel,
		radius:     DefaultRadius,
		log:        zap.NewNop(),
	}
}

// Option is a functional option applied during New.
type Option func(*config)

// WithCamera sets the projection parameters. Eye and Aspect are recomputed from the orbit
// and the surface size.
//
// Parameters:
//   - c: the camera template
//
// Returns:
//   - Option: a function that applies the camera option
func WithCamera(c camera.Camera) Option {
	return func(cfg *config) {
		cfg.camera = c
	}
}

// WithLight sets the initial light.
func WithLight(l light.Light) Option {
	return func(cfg *config) {
		cfg.light = l
	}
}

// WithInstances sets the initial instance array.
//
// Parameters:
//   - instances: the instances, copied
//
// Returns:
//   - Option: a function that applies the instances option
func WithInstances(instances []model.Instance) Option {
	return func(cfg *config) {
		cfg.instances = instances
	}
}

// WithGroups sets which model draws which instance range. Without it the first instance
// draws the centerpiece and the rest draw the plane.
//
// Parameters:
//   - groups: the groups in draw order; they must not overlap
//
// Returns:
//   - Option: a function that applies the groups option
func WithGroups(groups []model.InstanceGroup) Option {
	return func(cfg *config) {
		cfg.groups = groups
	}
}

// WithLightModel names the model the light pass draws at the light position.
func WithLightModel(name string) Option {
	return func(cfg *config) {
		cfg.lightModel = name
	}
}

// WithOrientation sets the initial orbit orientation.
func WithOrientation(o camera.Orientation) Option {
	return func(cfg *config) {
		cfg.orientation = o
	}
}

// WithRadius sets the initial orbit radius.
func WithRadius(radius float32) Option {
	return func(cfg *config) {
		cfg.radius = radius
	}
}

// WithLogger sets the logger shared by the state, its resource set and its scheduler.
//
// Parameters:
//   - log: the logger to use, nil keeps the no-op logger
//
// Returns:
//   - Option: a function that applies the logger option
func WithLogger(log *zap.Logger) Option {
	return func(cfg *config) {
		cfg.log = logger.OrNop(log).Named("state")
	}
}

// WithProfiler sets the profiler ticked for every presented frame.
func WithProfiler(p *profiler.Profiler) Option {
	return func(cfg *config) {
		cfg.prof = p
	}
}

// WithSchedulerOptions forwards options to the animation scheduler.
func WithSchedulerOptions(options ...animation.SchedulerOption) Option {
	return func(cfg *config) {
		cfg.schedulerOptions = append(cfg.schedulerOptions, options...)
	}
}
