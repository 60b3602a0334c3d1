package testsupport

import (
	"path/filepath"
	"testing"

	"podbridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "podbridge.sock")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithTapTimeoutMs overrides the tap disambiguation window.
func WithTapTimeoutMs(ms int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Session.TapTimeoutMs = ms
	}
}

// WithControls overrides the advertised control selection.
func WithControls(items ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Controls.Items = items
	}
}

// WithDevice overrides the device class and manufacturer.
func WithDevice(class, manufacturer string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Device.Class = class
		cfg.Device.Manufacturer = manufacturer
	}
}
