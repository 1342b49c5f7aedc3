package state

import (
	"context"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/Carmen-Shannon/oxy-orbit/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle stage of a Holder.
type Status int

const (
	// StatusUninitialized means no State exists; Get fails with common.ErrNotInitialized.
	StatusUninitialized Status = iota
	// StatusInitializing means a build is running.
	StatusInitializing
	// StatusReady means the State is built and Get returns it.
	StatusReady
)

// String returns the stage name.
func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Surface is the display surface a State renders into.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// BuildFunc constructs a State for surface.
type BuildFunc func(ctx context.Context, surface Surface) (*State, error)

const initKey = "state"

// Holder hands out the one State per display surface. Concurrent first callers share a
// single in-flight build; after it succeeds every call takes the fast path.
type Holder struct {
	mu     *sync.Mutex
	group  singleflight.Group
	build  BuildFunc
	log    *zap.Logger
	state  *State
	status Status
	// settled is closed when the running build returns, nil while none runs
	settled chan struct{}
}

// NewHolder creates an uninitialized Holder that builds its State with build.
//
// Parameters:
//   - build: constructs the State on first use
//   - log: the logger lifecycle transitions are reported to, nil discards them
//
// Returns:
//   - *Holder: the holder
func NewHolder(build BuildFunc, log *zap.Logger) *Holder {
	return &Holder{
		mu:    &sync.Mutex{},
		build: build,
		log:   logger.OrNop(log).Named("holder"),
	}
}

// Get returns the ready State.
//
// Returns:
//   - *State: the state
//   - error: common.ErrNotInitialized until a GetOrInit has completed
func (h *Holder) Get() (*State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != StatusReady {
		return nil, common.ErrNotInitialized
	}
	return h.state, nil
}

// Status returns the current lifecycle stage.
func (h *Holder) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// GetOrInit returns the ready State, building it first if needed. Callers arriving while a
// build runs wait for that build instead of starting another. The build is detached from
// ctx so one caller giving up does not fail the others; a failed build leaves the holder
// uninitialized and the next call retries.
//
// Parameters:
//   - ctx: bounds how long this caller waits
//   - surface: the display surface to build for
//
// Returns:
//   - *State: the state
//   - error: the build error or ctx's error
func (h *Holder) GetOrInit(ctx context.Context, surface Surface) (*State, error) {
	h.mu.Lock()
	if h.status == StatusReady {
		s := h.state
		h.mu.Unlock()
		return s, nil
	}
	if h.settled == nil {
		h.settled = make(chan struct{})
	}
	h.mu.Unlock()

	buildCtx := context.WithoutCancel(ctx)
	ch := h.group.DoChan(initKey, func() (any, error) {
		h.mu.Lock()
		if h.settled == nil {
			h.settled = make(chan struct{})
		}
		settled := h.settled
		if h.status == StatusReady {
			h.settled = nil
			close(settled)
			s := h.state
			h.mu.Unlock()
			return s, nil
		}
		h.status = StatusInitializing
		h.mu.Unlock()
		h.log.Info("render state initializing")

		s, err := h.build(buildCtx, surface)

		h.mu.Lock()
		defer h.mu.Unlock()
		defer close(settled)
		h.settled = nil
		if err != nil {
			h.status = StatusUninitialized
			h.log.Error("render state initialization failed",
				zap.Error(err), zap.Stringer("kind", common.KindOf(err)))
			return nil, err
		}
		h.state, h.status = s, StatusReady
		h.log.Info("render state ready")
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*State), nil
	}
}

// Wait blocks until the running build, if any, has returned. A caller that gave up on
// GetOrInit uses it before tearing down the surface the build still holds.
func (h *Holder) Wait() {
	h.mu.Lock()
	settled := h.settled
	h.mu.Unlock()
	if settled != nil {
		<-settled
	}
}

// Reset releases the current State and returns the holder to uninitialized, e.g. when the
// display surface is replaced.
//
// Returns:
//   - error: common.ErrInitInFlight while a build is running
func (h *Holder) Reset() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.status {
	case StatusInitializing:
		return common.ErrInitInFlight
	case StatusReady:
		h.state.Release()
		h.state = nil
		h.status = StatusUninitialized
		h.log.Info("render state reset")
	}
	return nil
}

// NewGPUBuilder returns the production BuildFunc: it negotiates a Renderer for the surface
// and builds the State on it, releasing the Renderer if the State cannot be built.
//
// Parameters:
//   - loader: produces the models the scene draws
//   - rendererOptions: options for renderer.NewRenderer
//   - options: options for New
//
// Returns:
//   - BuildFunc: the builder
func NewGPUBuilder(loader model.Loader, rendererOptions []renderer.RendererBuilderOption, options ...Option) BuildFunc {
	return func(ctx context.Context, surface Surface) (*State, error) {
		width, height := surface.Width(), surface.Height()
		r, err := renderer.NewRenderer(ctx, surface.SurfaceDescriptor(), width, height, rendererOptions...)
		if err != nil {
			return nil, err
		}
		s, err := New(ctx, r, width, height, loader, options...)
		if err != nil {
			r.Release()
			return nil, err
		}
		return s, nil
	}
}
