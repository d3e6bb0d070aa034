package config

import (
	"errors"
	"fmt"
)

// Projection modes accepted in DirectorConfig.Projection
const (
	Projection2D     = "2d"
	Projection3D     = "3d"
	ProjectionCustom = "custom"
)

var (
	// ErrInvalidProjection is returned for an unknown projection mode.
	ErrInvalidProjection = errors.New("invalid projection value")

	// ErrInvalidRate is returned for a non-positive frame rate.
	ErrInvalidRate = errors.New("frame rate must be positive")
)

// DirectorConfig is the root config for director.toml / director.json
type DirectorConfig struct {
	FPS                float64      `json:"fps" toml:"fps"`
	MinFPS             float64      `json:"min_fps" toml:"min_fps"`
	PauseFPS           float64      `json:"pause_fps" toml:"pause_fps"`
	DisplayStats       bool         `json:"display_stats" toml:"display_stats"`
	Projection         string       `json:"projection" toml:"projection"`
	SceneStackCapacity int          `json:"scene_stack_capacity" toml:"scene_stack_capacity"`
	Window             WindowConfig `json:"window" toml:"window"`
	Log                LogConfig    `json:"log" toml:"log"`
}

// WindowConfig configures the host window.
type WindowConfig struct {
	Width  int     `json:"width" toml:"width"`
	Height int     `json:"height" toml:"height"`
	Scale  float64 `json:"scale" toml:"scale"`
	Title  string  `json:"title" toml:"title"`
}

// LogConfig is the [log] table. Level is a zerolog level name.
type LogConfig struct {
	Level     string `json:"level" toml:"level"`
	Timestamp bool   `json:"timestamp" toml:"timestamp"`
	NoColor   bool   `json:"no_color" toml:"no_color"`
}

// Default returns the configuration used when no file overrides a key.
func Default() DirectorConfig {
	return DirectorConfig{
		FPS:                60,
		MinFPS:             10,
		PauseFPS:           4,
		DisplayStats:       false,
		Projection:         Projection2D,
		SceneStackCapacity: 15,
		Window: WindowConfig{
			Width:  640,
			Height: 480,
			Scale:  1,
			Title:  "stagehand",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// AnimationInterval returns the target seconds per frame.
func (c DirectorConfig) AnimationInterval() float64 {
	return 1.0 / c.FPS
}

// Validate reports the first invalid field.
func (c DirectorConfig) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("fps %v: %w", c.FPS, ErrInvalidRate)
	case c.MinFPS <= 0:
		return fmt.Errorf("min_fps %v: %w", c.MinFPS, ErrInvalidRate)
	case c.PauseFPS <= 0:
		return fmt.Errorf("pause_fps %v: %w", c.PauseFPS, ErrInvalidRate)
	}

	switch c.Projection {
	case Projection2D, Projection3D, ProjectionCustom:
	default:
		return fmt.Errorf("projection %q: %w", c.Projection, ErrInvalidProjection)
	}

	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size %dx%d must not be negative", c.Window.Width, c.Window.Height)
	}
	return nil
}
