// Package logging configures the process logger.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/younwookim/stagehand/internal/infrastructure/config"
)

const (
	EnvLogLevel     = "STAGEHAND_LOG_LEVEL"
	EnvLogTimestamp = "STAGEHAND_LOG_TIMESTAMP"
	EnvLogNoColor   = "STAGEHAND_LOG_NOCOLOR"
)

// Profile picks the defaults for a kind of process.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config selects level and console formatting.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Output    io.Writer
}

var (
	configureOnce sync.Once
	root          = zerolog.Nop()
)

// DefaultConfig returns the defaults for profile. The test profile logs
// plain text without timestamps.
func DefaultConfig(profile Profile) Config {
	cfg := Config{Output: os.Stderr}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
		cfg.NoColor = true
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

// FromSettings applies the [log] table of the director config on top of
// the profile defaults. Unknown levels keep the default.
func FromSettings(profile Profile, settings config.LogConfig) Config {
	cfg := DefaultConfig(profile)
	if lvl, ok := parseLevel(settings.Level); ok {
		cfg.Level = lvl
	}
	if profile == ProfileRuntime {
		cfg.Timestamp = settings.Timestamp
	}
	if settings.NoColor {
		cfg.NoColor = true
	}
	return cfg
}

// Configure builds the process logger once and returns it. Environment
// variables override cfg.
func Configure(cfg Config) zerolog.Logger {
	configureOnce.Do(func() {
		applyEnvOverrides(&cfg, os.Getenv)
		root = New(cfg)
	})
	return root
}

// Root returns the logger built by Configure, or a no-op logger.
func Root() zerolog.Logger {
	return root
}

// New builds a console logger without touching the process logger.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.TimeOnly,
	}

	ctx := zerolog.New(writer).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// Component tags l with the name of the subsystem logging through it.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if lvl, ok := parseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
