package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSocketPathPrefersFlag(t *testing.T) {
	socket := "/tmp/override.sock"
	cfgPath := writeTestConfig(t)
	ctx := newCommandContext(&socket, &cfgPath)
	if got := ctx.socketPath(); got != socket {
		t.Fatalf("socketPath = %q, want %q", got, socket)
	}
}

func TestSocketPathFallsBackToConfig(t *testing.T) {
	empty := ""
	cfgPath := writeTestConfig(t)
	ctx := newCommandContext(&empty, &cfgPath)
	got := ctx.socketPath()
	if !strings.HasSuffix(got, "podbridged.sock") {
		t.Fatalf("socketPath = %q, want configured socket", got)
	}
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := "[paths]\n" +
		"data_dir = \"" + filepath.Join(dir, "data") + "\"\n" +
		"log_dir = \"" + filepath.Join(dir, "logs") + "\"\n" +
		"socket_path = \"" + filepath.Join(dir, "podbridged.sock") + "\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
