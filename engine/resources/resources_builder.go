package resources

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"go.uber.org/zap"
)

// ResourceSetOption is a functional option applied to a resource set during NewResourceSet.
type ResourceSetOption func(*resourceSet)

// WithLogger sets the logger the resource set reports to.
//
// Parameters:
//   - log: the logger to use, nil keeps the no-op logger
//
// Returns:
//   - ResourceSetOption: a function that applies the logger option
func WithLogger(log *zap.Logger) ResourceSetOption {
	return func(rs *resourceSet) {
		rs.log = logger.OrNop(log).Named("resources")
	}
}
