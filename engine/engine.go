// Package engine runs the orbit viewer: it builds the render state for a window, forwards
// the window's input to the orbit camera and drives the animation scheduler from the main
// loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/engine/animation"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/config"
	"github.com/Carmen-Shannon/oxy-orbit/engine/state"
	"github.com/Carmen-Shannon/oxy-orbit/engine/window"
	"go.uber.org/zap"
)

// engine implements the Engine interface.
// Owns the window's main loop; everything it drives runs on that thread.
type engine struct {
	log *zap.Logger

	window     window.Window
	holder     *state.Holder
	build      state.BuildFunc
	controller *camera.OrbitController
	input      *orbitInput

	animations []namedAnimation
	cfg        *config.Config

	quitChannel chan struct{}
	quitOnce    sync.Once
}

type namedAnimation struct {
	label string
	cb    animation.Callback[*state.State]
}

// Engine is the main entry point for the viewer.
type Engine interface {
	// Window returns the window the engine renders into.
	Window() window.Window

	// Holder returns the render state holder, e.g. to read the state from another goroutine.
	Holder() *state.Holder

	// Controller returns the orbit controller input is mapped through.
	Controller() *camera.OrbitController

	// Run builds the render state, registers the configured animations and runs the
	// window loop until the window closes, Quit is called or ctx is done. Must be called
	// from the thread that created the window. The state is released and the window
	// closed before Run returns.
	//
	// Parameters:
	//   - ctx: bounds initialization and ends the loop when done
	//
	// Returns:
	//   - error: the initialization error, nil after a normal shutdown
	Run(ctx context.Context) error

	// Quit asks the loop to exit. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates an Engine with the provided options. A window and a state builder
// are required; WithConfig supplies the builder and controller from a config file.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine, not yet running
//   - error: error if the window or builder is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		log:         zap.NewNop(),
		quitChannel: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.cfg != nil {
		e.applyConfig(e.cfg)
	}
	if e.window == nil {
		return nil, errors.New("engine requires a window")
	}
	if e.build == nil {
		return nil, errors.New("engine requires a state builder")
	}
	if e.controller == nil {
		e.controller = camera.NewOrbitController()
	}

	e.holder = state.NewHolder(e.build, e.log)
	e.input = &orbitInput{
		log:        e.log.Named("input"),
		controller: e.controller,
		target:     e.target,
		size: func() (int, int) {
			return e.window.Width(), e.window.Height()
		},
	}
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Holder() *state.Holder {
	return e.holder
}

func (e *engine) Controller() *camera.OrbitController {
	return e.controller
}

// target returns the ready state as the input target.
func (e *engine) target() (displayTarget, error) {
	s, err := e.holder.Get()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (e *engine) Run(ctx context.Context) error {
	defer func() {
		if err := e.window.Close(); err != nil {
			e.log.Warn("close window", zap.Error(err))
		}
	}()

	e.input.bind(e.window)

	s, err := e.holder.GetOrInit(ctx, e.window)
	if err != nil {
		if ctx.Err() != nil {
			// the detached build still holds the window's surface
			e.holder.Wait()
			if err := e.holder.Reset(); err != nil {
				e.log.Warn("release render state", zap.Error(err))
			}
		}
		return fmt.Errorf("initialize render state: %w", err)
	}
	defer func() {
		if err := e.holder.Reset(); err != nil {
			e.log.Warn("release render state", zap.Error(err))
		}
	}()

	for _, a := range e.animations {
		s.AnimationInsert(a.label, a.cb)
	}

	// first frame with the controller's view
	e.input.apply()

	e.window.SetUpdateCallback(func() {
		select {
		case <-ctx.Done():
			e.window.RequestClose()
			return
		case <-e.quitChannel:
			e.window.RequestClose()
			return
		default:
		}
		if _, err := s.Scheduler().Poll(); err != nil {
			e.log.Warn("animation tick failed", zap.Error(err))
		}
	})

	e.log.Info("engine running")
	e.window.ProcessMessages()
	e.log.Info("engine stopped")
	return nil
}

// Quit signals the loop to exit on its next iteration.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
