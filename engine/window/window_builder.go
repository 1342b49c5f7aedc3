package window

import (
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/config"
	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"go.uber.org/zap"
)

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested initial window size. On high-DPI displays the framebuffer
// reported by Width and Height may be larger.
//
// Parameters:
//   - width: initial width in screen coordinates
//   - height: initial height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the smallest size the user can resize the window to.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize sets the largest size the user can resize the window to. Zero leaves the
// window unbounded.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}

// WithEventTimeout sets how long each message loop iteration waits for input before
// calling the update callback. Zero polls without waiting.
//
// Parameters:
//   - timeout: the wait, typically well below the animation tick period
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithEventTimeout(timeout time.Duration) WindowBuilderOption {
	return func(w *engineWindow) {
		w.eventTimeout = max(timeout, 0)
	}
}

// WithLogger sets the logger window lifecycle and resize events are reported to.
func WithLogger(log *zap.Logger) WindowBuilderOption {
	return func(w *engineWindow) {
		w.log = logger.OrNop(log).Named("window")
	}
}

// WithConfig applies the window section of a viewer configuration: title, initial size,
// size limits and the event wait.
//
// Parameters:
//   - c: a validated window configuration
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithConfig(c config.WindowConfig) WindowBuilderOption {
	return func(w *engineWindow) {
		for _, opt := range []WindowBuilderOption{
			WithTitle(c.Title),
			WithSize(c.Width, c.Height),
			WithMinSize(c.MinWidth, c.MinHeight),
			WithMaxSize(c.MaxWidth, c.MaxHeight),
			WithEventTimeout(c.EventTimeout),
		} {
			opt(w)
		}
	}
}
