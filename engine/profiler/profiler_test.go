package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestProfiler_ReportsAfterInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewProfiler(zap.New(core))

	start := time.Now()
	p.lastTime = start
	p.now = func() time.Time { return start.Add(500 * time.Millisecond) }

	assert.False(t, p.Tick())
	p.Skip()
	assert.Zero(t, logs.Len())

	p.now = func() time.Time { return start.Add(time.Second) }
	assert.True(t, p.Tick())
	if assert.Equal(t, 1, logs.Len()) {
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, int64(1), fields["skipped"])
		assert.InDelta(t, 2.0, fields["fps"], 0.001)
	}

	frames, skipped := p.Totals()
	assert.Equal(t, uint64(2), frames)
	assert.Equal(t, uint64(1), skipped)
}
