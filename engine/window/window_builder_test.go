package window

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/config"
	"github.com/stretchr/testify/assert"
)

func TestWithConfig_AppliesWindowSection(t *testing.T) {
	c := config.Default().Window
	c.Title = "ring"
	c.MaxWidth, c.MaxHeight = 1920, 1080
	c.EventTimeout = 12 * time.Millisecond

	w := &engineWindow{}
	WithConfig(c)(w)

	assert.Equal(t, "ring", w.title)
	assert.Equal(t, 1280, w.width)
	assert.Equal(t, 720, w.height)
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 200, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 1080, w.maxHeight)
	assert.Equal(t, 12*time.Millisecond, w.eventTimeout)
}

func TestWithEventTimeout_ClampsNegative(t *testing.T) {
	w := &engineWindow{}
	WithEventTimeout(-time.Second)(w)
	assert.Zero(t, w.eventTimeout)
}
