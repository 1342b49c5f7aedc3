package animation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCounter() *counter {
	return &counter{calls: make(map[string]int)}
}

func (c *counter) cb(label string) Callback[*counter] {
	return func(target *counter) {
		target.mu.Lock()
		defer target.mu.Unlock()
		target.calls[label]++
	}
}

func (c *counter) get(label string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[label]
}

type manualFactory struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

func (f *manualFactory) new(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := NewManualTicker()
	f.tickers = append(f.tickers, t)
	return t
}

func (f *manualFactory) last() *ManualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func (f *manualFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func newTestScheduler(t *testing.T) (*Scheduler[*counter], *counter, *manualFactory, *int) {
	t.Helper()
	target := newCounter()
	factory := &manualFactory{}
	renders := 0
	s := NewScheduler(target, func() error {
		renders++
		return nil
	}, WithTickerFactory(factory.new))
	t.Cleanup(s.Stop)
	return s, target, factory, &renders
}

func TestScheduler_IdleUntilFirstRegister(t *testing.T) {
	s, _, factory, _ := newTestScheduler(t)

	assert.False(t, s.Active())
	assert.Zero(t, s.Len())
	assert.Nil(t, s.Labels())
	ran, err := s.Poll()
	assert.False(t, ran)
	assert.NoError(t, err)
	assert.Zero(t, factory.count())
}

func TestScheduler_RegisterSameLabelReplaces(t *testing.T) {
	s, target, factory, _ := newTestScheduler(t)

	s.Register("x", target.cb("first"))
	s.Register("x", target.cb("second"))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"x"}, s.Labels())
	assert.Equal(t, 1, factory.count())
	assert.Equal(t, uint64(1), s.TimersStarted())

	require.NoError(t, s.Tick())
	assert.Zero(t, target.get("first"))
	assert.Equal(t, 1, target.get("second"))
}

func TestScheduler_ManyRegistersOneTimer(t *testing.T) {
	s, target, factory, _ := newTestScheduler(t)

	for i := range 10 {
		s.Register(fmt.Sprintf("cb%d", i), target.cb("any"))
	}
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 1, factory.count())
	assert.True(t, s.Active())
}

func TestScheduler_ClearThenRegister(t *testing.T) {
	s, target, factory, renders := newTestScheduler(t)

	s.Register("x", target.cb("A"))
	require.NoError(t, s.Tick())
	assert.Equal(t, 1, *renders)
	assert.Equal(t, 1, target.get("A"))

	s.Clear()
	assert.True(t, s.Active(), "clear must keep the timer running")
	s.Register("y", target.cb("B"))

	require.NoError(t, s.Tick())
	assert.Equal(t, 2, *renders)
	assert.Equal(t, 1, target.get("A"))
	assert.Equal(t, 1, target.get("B"))
	assert.Equal(t, 1, factory.count())
}

func TestScheduler_OrderFollowsFirstInsertion(t *testing.T) {
	var order []string
	s := NewScheduler(0, nil, WithTickerFactory(func(time.Duration) Ticker { return NewManualTicker() }))
	t.Cleanup(s.Stop)

	s.Register("b", func(int) { order = append(order, "b") })
	s.Register("a", func(int) { order = append(order, "a") })
	s.Register("b", func(int) { order = append(order, "b2") })

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"b2", "a"}, order)
}

func TestScheduler_PollRunsPendingTick(t *testing.T) {
	s, target, factory, renders := newTestScheduler(t)
	s.Register("x", target.cb("A"))

	ran, err := s.Poll()
	require.NoError(t, err)
	assert.False(t, ran)

	require.True(t, factory.last().Fire())
	ran, err = s.Poll()
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, *renders)

	ran, _ = s.Poll()
	assert.False(t, ran)
}

func TestScheduler_SkippedFramesAreTolerated(t *testing.T) {
	fatal := errors.New("device lost")
	var renderErr error
	s := NewScheduler(0, func() error { return renderErr })

	renderErr = fmt.Errorf("%w: %w", common.ErrFrameSkipped, common.ErrFrameAcquire)
	assert.NoError(t, s.Tick())

	renderErr = fatal
	assert.ErrorIs(t, s.Tick(), fatal)
	assert.Equal(t, uint64(2), s.Ticks())
}

func TestScheduler_CallbackMayClear(t *testing.T) {
	s, target, _, _ := newTestScheduler(t)
	s.Register("once", func(c *counter) {
		target.cb("once")(c)
		s.Clear()
	})

	require.NoError(t, s.Tick())
	require.NoError(t, s.Tick())
	assert.Equal(t, 1, target.get("once"))
	assert.Zero(t, s.Len())
}

func TestScheduler_StopAndRestart(t *testing.T) {
	s, target, factory, _ := newTestScheduler(t)
	s.Register("x", target.cb("A"))
	first := factory.last()

	s.Stop()
	assert.False(t, s.Active())
	assert.True(t, first.Stopped())
	assert.Equal(t, 1, s.Len())

	s.Register("y", target.cb("B"))
	assert.True(t, s.Active())
	assert.Equal(t, 2, factory.count())
	assert.Equal(t, uint64(2), s.TimersStarted())
}

func TestScheduler_RunTicksUntilCancelled(t *testing.T) {
	target := newCounter()
	factory := &manualFactory{}
	rendered := make(chan struct{}, 8)
	s := NewScheduler(target, func() error {
		rendered <- struct{}{}
		return nil
	}, WithTickerFactory(factory.new))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	s.Register("x", target.cb("A"))
	require.Eventually(t, func() bool { return factory.last().Fire() }, time.Second, time.Millisecond)

	select {
	case <-rendered:
	case <-time.After(time.Second):
		t.Fatal("tick was not delivered")
	}
	assert.Equal(t, 1, target.get("A"))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	s.Stop()
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry[int]()
	r.Insert("a", func(int) {})
	r.Insert("b", func(int) {})
	r.Insert("c", func(int) {})

	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, r.Labels())

	assert.True(t, r.Insert("c", func(int) {}))
	assert.Equal(t, 2, r.Len())

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Snapshot())
}

func TestRegistry_ClearDropsCallbacks(t *testing.T) {
	r := NewRegistry[int]()
	r.Insert("a", func(int) {})
	r.Insert("b", func(int) {})

	r.Clear()
	assert.Zero(t, r.Len())
	for _, e := range r.entries[:cap(r.entries)] {
		assert.Empty(t, e.label)
		assert.Nil(t, e.cb)
	}

	r.Insert("c", func(int) {})
	assert.Equal(t, []string{"c"}, r.Labels())
}

func TestNewScheduler_NonPositivePeriod(t *testing.T) {
	var got time.Duration
	s := NewScheduler(0, nil, WithPeriod(-time.Second), WithTickerFactory(func(d time.Duration) Ticker {
		got = d
		return NewManualTicker()
	}))
	s.Register("x", func(int) {})
	s.Stop()
	assert.Equal(t, DefaultPeriod, got)
}
