// Package config loads the viewer configuration from defaults, a YAML file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
)

// Config holds all viewer configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Light     LightConfig     `yaml:"light"`
	Animation AnimationConfig `yaml:"animation"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Logging   LoggingConfig   `yaml:"logging"`
	Profiling bool            `yaml:"profiling"`
}

// WindowConfig holds window settings.
// Zero max bounds leave the window unbounded; a zero event timeout polls without waiting.
type WindowConfig struct {
	Title        string        `yaml:"title"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	MinWidth     int           `yaml:"min_width"`
	MinHeight    int           `yaml:"min_height"`
	MaxWidth     int           `yaml:"max_width"`
	MaxHeight    int           `yaml:"max_height"`
	EventTimeout time.Duration `yaml:"event_timeout"`
}

// CameraConfig holds projection and orbit settings. Azimuth and elevation are normalized:
// multiplying by pi yields radians.
type CameraConfig struct {
	FovYDegrees     float32 `yaml:"fov_y_degrees"`
	ZNear           float32 `yaml:"znear"`
	ZFar            float32 `yaml:"zfar"`
	Radius          float32 `yaml:"radius"`
	MinRadius       float32 `yaml:"min_radius"`
	MaxRadius       float32 `yaml:"max_radius"`
	Azimuth         float32 `yaml:"azimuth"`
	Elevation       float32 `yaml:"elevation"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSpeed       float32 `yaml:"zoom_speed"`
	KeyStep         float32 `yaml:"key_step"`
}

// LightConfig holds the single point light.
type LightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

// AnimationConfig holds settings for the bundled animation callbacks.
type AnimationConfig struct {
	// SpinSpeed is the centerpiece rotation in radians per tick; 0 disables the spin.
	SpinSpeed float32 `yaml:"spin_speed"`
}

// RendererConfig holds adapter selection settings.
type RendererConfig struct {
	ForceSoftware bool `yaml:"force_software"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:        "oxy-orbit",
			Width:        1280,
			Height:       720,
			MinWidth:     320,
			MinHeight:    200,
			EventTimeout: 5 * time.Millisecond,
		},
		Camera: CameraConfig{
			FovYDegrees:     20,
			ZNear:           0.1,
			ZFar:            10000,
			Radius:          100,
			MinRadius:       20,
			MaxRadius:       400,
			Azimuth:         0,
			Elevation:       0.1,
			DragSensitivity: 0.001,
			ZoomSpeed:       5,
			KeyStep:         0.02,
		},
		Light: LightConfig{
			Position: [3]float32{20, 25, 20},
			Color:    [3]float32{1, 1, 1},
		},
		Animation: AnimationConfig{
			SpinSpeed: 0.01,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot produce a working viewer.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.MinWidth < 0 || c.Window.MinHeight < 0 {
		errs = append(errs, fmt.Errorf("window min size %dx%d must not be negative", c.Window.MinWidth, c.Window.MinHeight))
	}
	if (c.Window.MaxWidth != 0 && c.Window.MaxWidth < c.Window.MinWidth) ||
		(c.Window.MaxHeight != 0 && c.Window.MaxHeight < c.Window.MinHeight) {
		errs = append(errs, fmt.Errorf("window max size %dx%d is below the min size %dx%d",
			c.Window.MaxWidth, c.Window.MaxHeight, c.Window.MinWidth, c.Window.MinHeight))
	}
	if c.Window.EventTimeout < 0 {
		errs = append(errs, fmt.Errorf("window event_timeout %v must not be negative", c.Window.EventTimeout))
	}
	if c.Camera.FovYDegrees <= 0 || c.Camera.FovYDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov_y_degrees %v must be in (0, 180)", c.Camera.FovYDegrees))
	}
	if c.Camera.ZNear <= 0 || c.Camera.ZNear >= c.Camera.ZFar {
		errs = append(errs, fmt.Errorf("camera planes znear=%v zfar=%v must satisfy 0 < znear < zfar", c.Camera.ZNear, c.Camera.ZFar))
	}
	if c.Camera.MinRadius <= 0 || c.Camera.MinRadius > c.Camera.MaxRadius {
		errs = append(errs, fmt.Errorf("camera radius bounds [%v, %v] are invalid", c.Camera.MinRadius, c.Camera.MaxRadius))
	} else if c.Camera.Radius < c.Camera.MinRadius || c.Camera.Radius > c.Camera.MaxRadius {
		errs = append(errs, fmt.Errorf("camera radius %v outside [%v, %v]", c.Camera.Radius, c.Camera.MinRadius, c.Camera.MaxRadius))
	}
	if c.Camera.DragSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("camera drag_sensitivity %v must be positive", c.Camera.DragSensitivity))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}
