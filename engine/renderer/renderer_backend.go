package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-orbit/common"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a configuration string to a PresentMode. Anything other than
// "uncapped" or "immediate" selects VSync.
func ParsePresentMode(s string) PresentMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uncapped", "immediate":
		return PresentModeUncapped
	default:
		return PresentModeVSync
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// classifyAcquireError maps a surface texture acquisition failure onto the engine's
// error kinds. The wgpu binding reports acquisition failures only as an error message, so
// the status is read from its text. Lost and outdated surfaces heal by reconfiguring;
// everything else, device loss included, only skips the frame.
func classifyAcquireError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrSurfaceOutdated) || errors.Is(err, common.ErrFrameAcquire) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "device"):
		return fmt.Errorf("%w: %w", common.ErrFrameAcquire, err)
	case strings.Contains(msg, "outdated"), strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %w", common.ErrSurfaceOutdated, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrFrameAcquire, err)
	}
}
