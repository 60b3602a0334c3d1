package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"podbridge/internal/config"
)

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	if cfg.Session.CommandQueueCapacity != 10 {
		t.Fatalf("CommandQueueCapacity = %d, want 10", cfg.Session.CommandQueueCapacity)
	}
	if cfg.Session.TapTimeoutMs != 400 {
		t.Fatalf("TapTimeoutMs = %d, want 400", cfg.Session.TapTimeoutMs)
	}
	if cfg.Session.PublishRetries != 3 {
		t.Fatalf("PublishRetries = %d, want 3", cfg.Session.PublishRetries)
	}
	if cfg.Controls.HeadphoneNextAction != config.ActionSkipForward {
		t.Fatalf("HeadphoneNextAction = %q", cfg.Controls.HeadphoneNextAction)
	}
	if cfg.Device.Class != config.DeviceStandard {
		t.Fatalf("Device.Class = %q", cfg.Device.Class)
	}
	if len(cfg.Device.HideCustomSkipManufacturers) != 1 || cfg.Device.HideCustomSkipManufacturers[0] != "mercedes-benz" {
		t.Fatalf("HideCustomSkipManufacturers = %v", cfg.Device.HideCustomSkipManufacturers)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("exists should be false for a missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("Logging.Level = %q, want default", cfg.Logging.Level)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
socket_path = "` + filepath.Join(dir, "pb.sock") + `"

[logging]
level = "DEBUG"

[session]
command_queue_capacity = 4
tap_timeout_ms = 250

[controls]
items = [" Star ", "star", "archive", ""]
headphone_next_action = "SKIP_BACK"

[device]
class = "Auto"
manufacturer = " Mercedes-Benz "
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatalf("exists should be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Session.CommandQueueCapacity != 4 || cfg.Session.TapTimeoutMs != 250 {
		t.Fatalf("session overrides not applied: %+v", cfg.Session)
	}
	if got := cfg.Controls.Items; len(got) != 2 || got[0] != "star" || got[1] != "archive" {
		t.Fatalf("Controls.Items = %v, want deduplicated lowercase [star archive]", got)
	}
	if cfg.Controls.HeadphoneNextAction != config.ActionSkipBack {
		t.Fatalf("HeadphoneNextAction = %q", cfg.Controls.HeadphoneNextAction)
	}
	if cfg.Device.Class != config.DeviceAuto {
		t.Fatalf("Device.Class = %q", cfg.Device.Class)
	}
	if cfg.Device.Manufacturer != "mercedes-benz" {
		t.Fatalf("Device.Manufacturer = %q", cfg.Device.Manufacturer)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := config.ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandPath = %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.SocketPath = filepath.Join(dir, "data", "pb.sock")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, p := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing: %v", p, err)
		}
	}
}
