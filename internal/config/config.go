package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	SocketPath string `toml:"socket_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Session contains tuning for the command sequencer, tap disambiguation, and
// descriptor publishing. These values are empirically tuned rather than
// contractual; changing them alters latency and overflow behavior only.
type Session struct {
	CommandQueueCapacity int `toml:"command_queue_capacity"`
	TapTimeoutMs         int `toml:"tap_timeout_ms"`
	PublishRetries       int `toml:"publish_retries"`
}

// Playback contains skip intervals applied by skip commands.
type Playback struct {
	SkipForwardSeconds int `toml:"skip_forward_seconds"`
	SkipBackSeconds    int `toml:"skip_back_seconds"`
}

// Controls configures which media controls are advertised to the session
// consumer and how headphone taps map to actions.
type Controls struct {
	HideNextPrevious        bool     `toml:"hide_next_previous"`
	ShowCustomActions       bool     `toml:"show_custom_actions"`
	Items                   []string `toml:"items"`
	LockScreenArtwork       bool     `toml:"lock_screen_artwork"`
	UseEpisodeArtwork       bool     `toml:"use_episode_artwork"`
	HeadphoneNextAction     string   `toml:"headphone_next_action"`
	HeadphonePreviousAction string   `toml:"headphone_previous_action"`
}

// Device describes the connected device class for capability projection.
type Device struct {
	Class                       string   `toml:"class"`
	Manufacturer                string   `toml:"manufacturer"`
	HideCustomSkipManufacturers []string `toml:"hide_custom_skip_manufacturers"`
}

// Config encapsulates all configuration values for podbridge.
//
// Configuration sections by subsystem:
//   - Paths: data directory, log directory, and control socket
//   - Logging: log format and level
//   - Session: command queue capacity, tap timeout, publish retries
//   - Playback: skip intervals
//   - Controls: advertised media controls and headphone tap actions
//   - Device: device class and manufacturer capability exceptions
type Config struct {
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
	Session  Session  `toml:"session"`
	Playback Playback `toml:"playback"`
	Controls Controls `toml:"controls"`
	Device   Device   `toml:"device"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/podbridge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("podbridge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CatalogPath returns the location of the catalog database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
