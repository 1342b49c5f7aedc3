package engine

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/window"
	"go.uber.org/zap"
)

// displayTarget is the part of the render state input is forwarded to.
type displayTarget interface {
	DisplayChange(width, height int, o camera.Orientation, radius float32) error
	Resize(width, height int) error
}

// orbitInput maps window events through an OrbitController onto the render state.
type orbitInput struct {
	log        *zap.Logger
	controller *camera.OrbitController
	target     func() (displayTarget, error)
	size       func() (width, height int)
}

// bind registers the input callbacks on w.
func (in *orbitInput) bind(w window.Window) {
	w.SetMouseButtonCallback(in.onMouseButton)
	w.SetMouseMoveCallback(in.onMouseMove)
	w.SetScrollCallback(in.onScroll)
	w.SetKeyDownCallback(in.onKeyDown)
	w.SetResizeCallback(in.onResize)
}

func (in *orbitInput) onMouseButton(button window.MouseButton, pressed bool, x, y float32) {
	if button != window.MouseButtonLeft {
		return
	}
	if pressed {
		in.controller.BeginDrag(x, y)
		return
	}
	in.controller.EndDrag()
}

func (in *orbitInput) onMouseMove(x, y float32) {
	if in.controller.DragTo(x, y) {
		in.apply()
	}
}

func (in *orbitInput) onScroll(delta float32) {
	if in.controller.Zoom(delta) {
		in.apply()
	}
}

func (in *orbitInput) onKeyDown(key uint32) {
	switch key {
	case common.KeyLeft, common.KeyA:
		in.controller.Step(-1, 0)
	case common.KeyRight, common.KeyD:
		in.controller.Step(1, 0)
	case common.KeyUp, common.KeyW:
		in.controller.Step(0, 1)
	case common.KeyDown, common.KeyS:
		in.controller.Step(0, -1)
	case common.KeyEqual:
		if !in.controller.Zoom(1) {
			return
		}
	case common.KeyMinus:
		if !in.controller.Zoom(-1) {
			return
		}
	case common.KeyR:
		in.controller.Reset()
	default:
		return
	}
	in.apply()
}

func (in *orbitInput) onResize(width, height int) {
	s, err := in.target()
	if err != nil {
		in.report("resize", err)
		return
	}
	in.report("resize", s.Resize(width, height))
}

// apply forwards the controller's orientation and radius with the current surface size.
func (in *orbitInput) apply() {
	s, err := in.target()
	if err != nil {
		in.report("display change", err)
		return
	}
	width, height := in.size()
	o, radius := in.controller.Orientation(), in.controller.Radius()
	in.log.Debug("orbit",
		zap.Float32("azimuth", o.Azimuth),
		zap.Float32("elevation", o.Elevation),
		zap.Float32("radius", radius),
	)
	in.report("display change", s.DisplayChange(width, height, o, radius))
}

// report logs err at a level matching its kind. Input arriving before initialization, a
// minimised window and skipped frames are expected and stay at debug.
func (in *orbitInput) report(op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNotInitialized),
		errors.Is(err, common.ErrInvalidDimensions),
		errors.Is(err, common.ErrFrameSkipped):
		in.log.Debug(op+" ignored", zap.Error(err))
	default:
		in.log.Warn(op+" failed", zap.Error(err), zap.Stringer("kind", common.KindOf(err)))
	}
}
