// Package animation runs labelled per-tick callbacks on a single fixed-period timer and
// renders once after each tick.
package animation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"go.uber.org/zap"
)

// DefaultPeriod is the tick period used unless WithPeriod overrides it, roughly 60 Hz.
const DefaultPeriod = 17 * time.Millisecond

// Scheduler owns a Registry of callbacks and at most one running Ticker. The ticker is
// created by the first Register and lives until Stop; clearing the registry leaves it
// running. How ticks are delivered is up to the caller: Poll from a frame loop, Run on a
// goroutine, or Tick directly.
type Scheduler[T any] struct {
	mu *sync.Mutex

	target T
	render func() error

	registry *Registry[T]
	ticker   Ticker
	wake     chan struct{}

	period    time.Duration
	newTicker TickerFactory
	log       *zap.Logger

	ticks   uint64
	started uint64
}

// NewScheduler creates a Scheduler invoking callbacks with target and calling render after
// each tick. No timer runs until the first Register.
//
// Parameters:
//   - target: the value handed to every callback
//   - render: called once per tick after the callbacks
//   - options: variadic list of SchedulerOption functions
//
// Returns:
//   - *Scheduler[T]: the idle scheduler
func NewScheduler[T any](target T, render func() error, options ...SchedulerOption) *Scheduler[T] {
	cfg := schedulerConfig{
		period:    DefaultPeriod,
		newTicker: NewTimeTicker,
		log:       zap.NewNop(),
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.period <= 0 {
		cfg.period = DefaultPeriod
	}

	return &Scheduler[T]{
		mu:        &sync.Mutex{},
		target:    target,
		render:    render,
		wake:      make(chan struct{}, 1),
		period:    cfg.period,
		newTicker: cfg.newTicker,
		log:       cfg.log,
	}
}

// Register stores cb under label. The first call creates the registry and starts the timer
// in the same step; later calls merge into the existing registry and never start a
// second timer. Registering after Stop starts a fresh timer.
//
// Parameters:
//   - label: the key of the callback, an existing label is replaced
//   - cb: the callback to run every tick
func (s *Scheduler[T]) Register(label string, cb Callback[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry == nil {
		s.registry = NewRegistry[T]()
	}
	replaced := s.registry.Insert(label, cb)

	if s.ticker == nil {
		s.ticker = s.newTicker(s.period)
		s.started++
		s.log.Info("animation timer started", zap.Duration("period", s.period))
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	s.log.Debug("animation registered", zap.String("label", label), zap.Bool("replaced", replaced))
}

// Unregister removes the callback stored under label. The timer keeps running.
//
// Returns:
//   - bool: true if a callback was removed
func (s *Scheduler[T]) Unregister(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		return false
	}
	return s.registry.Remove(label)
}

// Clear empties the registry without stopping the timer.
func (s *Scheduler[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry != nil {
		s.registry.Clear()
	}
}

// Tick invokes every registered callback in registration order, then renders once.
// Callbacks run without the scheduler lock held, so they may register or clear.
//
// Returns:
//   - error: the render error, nil if the frame was only skipped
func (s *Scheduler[T]) Tick() error {
	s.mu.Lock()
	var cbs []Callback[T]
	if s.registry != nil {
		cbs = s.registry.Snapshot()
	}
	s.ticks++
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(s.target)
	}

	if s.render == nil {
		return nil
	}
	err := s.render()
	if errors.Is(err, common.ErrFrameSkipped) {
		s.log.Debug("tick rendered no frame", zap.Error(err))
		return nil
	}
	return err
}

// Poll runs one tick if the timer has fired since the last poll. It never blocks.
//
// Returns:
//   - bool: true if a tick ran
//   - error: the error of the tick that ran
func (s *Scheduler[T]) Poll() (bool, error) {
	s.mu.Lock()
	t := s.ticker
	s.mu.Unlock()
	if t == nil {
		return false, nil
	}

	select {
	case <-t.C():
		return true, s.Tick()
	default:
		return false, nil
	}
}

// Run ticks every time the timer fires until ctx is done. It waits for the first Register
// if no timer is running and follows the timer across Stop and a later Register. Tick
// errors are logged and do not end the loop.
//
// Parameters:
//   - ctx: ends the loop
//
// Returns:
//   - error: ctx's error
func (s *Scheduler[T]) Run(ctx context.Context) error {
	for {
		s.mu.Lock()
		t := s.ticker
		s.mu.Unlock()

		var c <-chan time.Time
		if t != nil {
			c = t.C()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		case <-c:
			if err := s.Tick(); err != nil {
				s.log.Warn("animation tick failed", zap.Error(err))
			}
		}
	}
}

// Stop stops the timer. Registered callbacks are kept.
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.ticker = nil
	select {
	case s.wake <- struct{}{}:
	default:
	}
	s.log.Info("animation timer stopped", zap.Uint64("ticks", s.ticks))
}

// Active reports whether a timer is running.
func (s *Scheduler[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticker != nil
}

// Len returns the number of registered callbacks.
func (s *Scheduler[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		return 0
	}
	return s.registry.Len()
}

// Labels returns the registered labels in registration order.
func (s *Scheduler[T]) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		return nil
	}
	return s.registry.Labels()
}

// TimersStarted returns how many timers the scheduler has created over its lifetime.
func (s *Scheduler[T]) TimersStarted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Ticks returns the number of ticks run so far.
func (s *Scheduler[T]) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
