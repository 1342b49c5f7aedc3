package model

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"go.uber.org/zap"
)

// PrimitiveLoaderOption is a functional option applied to a primitive loader during construction.
type PrimitiveLoaderOption func(*primitiveLoader)

// WithPrimitive adds a spec, replacing any default spec with the same name.
//
// Parameters:
//   - spec: the primitive to generate
//
// Returns:
//   - PrimitiveLoaderOption: a function that applies the spec to a loader
func WithPrimitive(spec PrimitiveSpec) PrimitiveLoaderOption {
	return func(l *primitiveLoader) {
		for i := range l.specs {
			if l.specs[i].Name == spec.Name {
				l.specs[i] = spec
				return
			}
		}
		l.specs = append(l.specs, spec)
	}
}

// WithPrimitives replaces the whole spec list.
func WithPrimitives(specs ...PrimitiveSpec) PrimitiveLoaderOption {
	return func(l *primitiveLoader) {
		l.specs = specs
	}
}

// WithWorkers sets the size of the generation worker pool. Values below 1 mean 1.
func WithWorkers(n int) PrimitiveLoaderOption {
	return func(l *primitiveLoader) {
		l.workers = max(n, 1)
	}
}

// WithLogger sets the logger used to report uploads.
func WithLogger(log *zap.Logger) PrimitiveLoaderOption {
	return func(l *primitiveLoader) {
		l.logger = logger.OrNop(log).Named("loader")
	}
}
