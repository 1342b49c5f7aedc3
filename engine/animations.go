package engine

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/animation"
	"github.com/Carmen-Shannon/oxy-orbit/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// SpinAnimation is the label the config-driven spin is registered under.
const SpinAnimation = "spin"

// instanceEditor is the part of the render state an instance animation needs.
type instanceEditor interface {
	Instance(index int) (model.Instance, bool)
	SetInstance(index int, inst model.Instance) error
}

// Spin returns a callback turning the instance at index about the world Y axis by
// radiansPerTick every tick. An index past the instance array is a no-op.
//
// Parameters:
//   - index: the instance to turn
//   - radiansPerTick: the rotation applied per tick, negative turns clockwise seen from above
//   - log: receives upload failures, nil discards them
//
// Returns:
//   - animation.Callback[T]: the callback to register
func Spin[T instanceEditor](index int, radiansPerTick float32, log *zap.Logger) animation.Callback[T] {
	step := mgl32.QuatRotate(radiansPerTick, mgl32.Vec3{0, 1, 0})
	return func(target T) {
		inst, ok := target.Instance(index)
		if !ok {
			return
		}
		inst.Rotation = step.Mul(inst.Rotation).Normalize()
		if err := target.SetInstance(index, inst); err != nil && log != nil {
			log.Warn("spin upload failed", zap.Int("instance", index), zap.Error(err))
		}
	}
}
