// Package state composes the GPU context, resource set, orbit camera and animation
// scheduler into the render state the viewer drives every frame.
package state

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/animation"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/light"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/Carmen-Shannon/oxy-orbit/engine/profiler"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer"
	"github.com/Carmen-Shannon/oxy-orbit/engine/resources"
	"go.uber.org/zap"
)

// State is the render state. Every field is owned by the State and mutated only through
// its methods; one mutex serialises the input thread and the tick loop.
type State struct {
	mu   *sync.Mutex
	log  *zap.Logger
	prof *profiler.Profiler

	gpu       renderer.Renderer
	resources resources.ResourceSet
	scheduler *animation.Scheduler[*State]

	camera        camera.Camera
	cameraUniform camera.GPUCameraUniform
	orientation   camera.Orientation
	radius        float32
	light         light.Light

	width  int
	height int

	instances  []model.Instance
	groups     []model.InstanceGroup
	models     map[string]*model.Model
	lightModel string

	released bool
}

// New builds the render state on an already negotiated GPU context: it derives the camera
// from the surface size and orbit, creates the resource set, loads the models and creates
// the animation scheduler. On success the State owns r and releases it in Release.
//
// Parameters:
//   - ctx: passed to the loader
//   - r: the GPU context
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//   - loader: produces the models the scene draws
//   - options: variadic list of Option functions
//
// Returns:
//   - *State: the ready state
//   - error: common.ErrInvalidDimensions, common.ErrInvalidRadius, common.ErrInvalidOrientation,
//     common.ErrInvalidInstanceRange, common.ErrPipelineCompile or common.ErrAssetMissing
func New(ctx context.Context, r renderer.Renderer, width, height int, loader model.Loader, options ...Option) (*State, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		opt(&cfg)
	}

	aspect, err := camera.AspectRatio(width, height)
	if err != nil {
		return nil, err
	}
	if err := camera.ValidateRadius(cfg.radius); err != nil {
		return nil, err
	}
	if !common.IsFinite(cfg.orientation.Azimuth, cfg.orientation.Elevation) {
		return nil, fmt.Errorf("orientation %+v must be finite: %w", cfg.orientation, common.ErrInvalidOrientation)
	}
	cam := cfg.camera
	cam.Aspect = aspect
	cam = cam.Orbit(cfg.orientation, cfg.radius)
	if err := cam.Validate(); err != nil {
		return nil, err
	}

	instances := slices.Clone(cfg.instances)
	groups := cfg.groups
	if groups == nil {
		groups = model.DefaultGroups(len(instances))
	}
	if err := model.ValidateGroups(groups, len(instances)); err != nil {
		return nil, err
	}

	s := &State{
		mu:          &sync.Mutex{},
		log:         cfg.log,
		prof:        cfg.prof,
		gpu:         r,
		camera:      cam,
		orientation: cfg.orientation,
		radius:      cfg.radius,
		light:       cfg.light,
		width:       width,
		height:      height,
		instances:   instances,
		groups:      slices.Clone(groups),
		lightModel:  cfg.lightModel,
	}
	if s.prof == nil {
		s.prof = profiler.NewProfiler(nil)
	}
	s.cameraUniform = cam.Uniform()

	s.resources, err = resources.NewResourceSet(r, s.cameraUniform, s.light.Uniform(), s.instances,
		resources.WithLogger(cfg.log))
	if err != nil {
		return nil, err
	}

	s.models, err = loader.Load(ctx, r, resources.MaterialLayout())
	if err != nil {
		s.resources.Release()
		return nil, fmt.Errorf("load models: %w", err)
	}
	if err := s.checkModels(); err != nil {
		s.releaseModels()
		s.resources.Release()
		return nil, err
	}

	schedulerOptions := append([]animation.SchedulerOption{animation.WithLogger(cfg.log)}, cfg.schedulerOptions...)
	s.scheduler = animation.NewScheduler(s, s.Render, schedulerOptions...)

	s.log.Info("render state ready",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32s("eye", s.camera.Eye[:]),
		zap.Int("instances", len(s.instances)),
		zap.Int("models", len(s.models)),
	)
	return s, nil
}

// checkModels ensures every model the frame draws was produced by the loader.
func (s *State) checkModels() error {
	required := []string{s.lightModel}
	for _, g := range s.groups {
		required = append(required, g.Model)
	}
	for _, name := range required {
		m, ok := s.models[name]
		if !ok || m == nil || len(m.Meshes) == 0 {
			return fmt.Errorf("model %q: %w", name, common.ErrAssetMissing)
		}
	}
	return nil
}

func (s *State) releaseModels() {
	for _, m := range s.models {
		if m != nil {
			m.Release()
		}
	}
	s.models = nil
}

// DisplayChange applies a new surface size and orbit, uploads the camera and renders a
// frame. Invalid input is rejected before any state changes.
//
// Parameters:
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//   - o: the absolute orbit orientation
//   - radius: the orbit radius
//
// Returns:
//   - error: a validation error, an upload error, or the render error
func (s *State) DisplayChange(width, height int, o camera.Orientation, radius float32) error {
	if err := camera.ValidateRadius(radius); err != nil {
		return err
	}
	if !common.IsFinite(o.Azimuth, o.Elevation) {
		return fmt.Errorf("orientation %+v must be finite: %w", o, common.ErrInvalidOrientation)
	}

	s.mu.Lock()
	err := s.applyLocked(width, height, o, radius)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Render()
}

// Resize reconfigures the surface for a new size and updates the camera aspect. It does
// not render.
//
// Parameters:
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//
// Returns:
//   - error: common.ErrInvalidDimensions for a non-positive size, or a configuration error
func (s *State) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(width, height, s.orientation, s.radius)
}

// applyLocked uploads the camera for the new orbit and aspect, then reconfigures the
// surface when the size changed. A failed resize restores the previous camera uniform so
// the surface and the camera never disagree on the aspect.
func (s *State) applyLocked(width, height int, o camera.Orientation, radius float32) error {
	if s.released {
		return common.ErrNotInitialized
	}
	aspect, err := camera.AspectRatio(width, height)
	if err != nil {
		return err
	}

	cam := s.camera
	cam.Aspect = aspect
	cam = cam.Orbit(o, radius)
	uniform := cam.Uniform()
	if err := s.resources.UploadCamera(uniform); err != nil {
		return err
	}

	if width != s.width || height != s.height {
		if err := s.gpu.Resize(width, height); err != nil {
			if restoreErr := s.resources.UploadCamera(s.cameraUniform); restoreErr != nil {
				s.log.Warn("restore camera uniform", zap.Error(restoreErr))
			}
			return err
		}
		s.width, s.height = width, height
		s.log.Debug("surface resized", zap.Int("width", width), zap.Int("height", height))
	}

	s.camera, s.cameraUniform = cam, uniform
	s.orientation, s.radius = o, radius
	return nil
}

// AnimationInsert registers cb under label on the scheduler. The first insert starts the
// single tick timer; inserting an existing label replaces its callback.
//
// Parameters:
//   - label: the key of the callback
//   - cb: the callback run every tick with the state
func (s *State) AnimationInsert(label string, cb animation.Callback[*State]) {
	s.scheduler.Register(label, cb)
}

// AnimationClear removes every registered callback. The timer keeps running.
func (s *State) AnimationClear() {
	s.scheduler.Clear()
}

// SetInstance replaces the instance at index and uploads the instance array.
//
// Parameters:
//   - index: the instance index
//   - inst: the new instance
//
// Returns:
//   - error: common.ErrInvalidInstanceRange for an out of range index, or an upload error
func (s *State) SetInstance(index int, inst model.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.instances) {
		return fmt.Errorf("instance %d of %d: %w", index, len(s.instances), common.ErrInvalidInstanceRange)
	}
	prev := s.instances[index]
	s.instances[index] = inst
	if err := s.resources.UploadInstances(s.instances); err != nil {
		s.instances[index] = prev
		return err
	}
	return nil
}

// Instance returns the instance at index.
func (s *State) Instance(index int) (model.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.instances) {
		return model.Instance{}, false
	}
	return s.instances[index], true
}

// SetLight replaces the light and uploads its uniform.
//
// Parameters:
//   - l: the new light
//
// Returns:
//   - error: an upload error
func (s *State) SetLight(l light.Light) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resources.UploadLight(l.Uniform()); err != nil {
		return err
	}
	s.light = l
	return nil
}

// Light returns the current light.
func (s *State) Light() light.Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.light
}

// Camera returns the last committed camera.
func (s *State) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// CameraUniform returns the uniform last uploaded for the camera.
func (s *State) CameraUniform() camera.GPUCameraUniform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cameraUniform
}

// Orbit returns the last committed orientation and radius.
func (s *State) Orbit() (camera.Orientation, float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation, s.radius
}

// Size returns the configured surface size.
func (s *State) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Scheduler returns the animation scheduler so the caller can deliver its ticks.
func (s *State) Scheduler() *animation.Scheduler[*State] {
	return s.scheduler
}

// Release stops the animation timer and releases every GPU resource, the GPU context
// included. Safe to call more than once.
func (s *State) Release() {
	s.scheduler.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true

	s.releaseModels()
	s.resources.Release()
	s.gpu.Release()
	s.log.Info("render state released")
}
