package animation

import (
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"go.uber.org/zap"
)

type schedulerConfig struct {
	period    time.Duration
	newTicker TickerFactory
	log       *zap.Logger
}

// SchedulerOption is a functional option applied during NewScheduler. Options are not
// generic so one option list can configure a Scheduler of any target type.
type SchedulerOption func(*schedulerConfig)

// WithPeriod sets the tick period. Non-positive periods keep DefaultPeriod.
//
// Parameters:
//   - period: the time between ticks
//
// Returns:
//   - SchedulerOption: a function that applies the period option
func WithPeriod(period time.Duration) SchedulerOption {
	return func(c *schedulerConfig) {
		c.period = period
	}
}

// WithTickerFactory replaces how the timer is created, e.g. with a ManualTicker in tests.
//
// Parameters:
//   - factory: creates the single timer on first Register
//
// Returns:
//   - SchedulerOption: a function that applies the factory option
func WithTickerFactory(factory TickerFactory) SchedulerOption {
	return func(c *schedulerConfig) {
		if factory != nil {
			c.newTicker = factory
		}
	}
}

// WithLogger sets the logger the scheduler reports timer lifecycle and tick failures to.
//
// Parameters:
//   - log: the logger to use, nil keeps the no-op logger
//
// Returns:
//   - SchedulerOption: a function that applies the logger option
func WithLogger(log *zap.Logger) SchedulerOption {
	return func(c *schedulerConfig) {
		c.log = logger.OrNop(log).Named("animation")
	}
}
