package animation

import (
	"sync/atomic"
	"time"
)

// Ticker delivers ticks on a channel until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every period.
type TickerFactory func(period time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker is the default TickerFactory, backed by time.Ticker.
func NewTimeTicker(period time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(period)}
}

func (t *timeTicker) C() <-chan time.Time {
	return t.t.C
}

func (t *timeTicker) Stop() {
	t.t.Stop()
}

// ManualTicker is a Ticker fired by calling Fire. Tests and headless drivers use it to
// deliver ticks without waiting on the clock.
type ManualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

// NewManualTicker creates a ManualTicker that buffers one pending tick.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time, 1)}
}

// Fire delivers a tick unless one is already pending or the ticker is stopped.
//
// Returns:
//   - bool: true if the tick was queued
func (m *ManualTicker) Fire() bool {
	if m.stopped.Load() {
		return false
	}
	select {
	case m.ch <- time.Now():
		return true
	default:
		return false
	}
}

// Stopped reports whether Stop was called.
func (m *ManualTicker) Stopped() bool {
	return m.stopped.Load()
}

func (m *ManualTicker) C() <-chan time.Time {
	return m.ch
}

func (m *ManualTicker) Stop() {
	m.stopped.Store(true)
}
