package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podbridge/internal/logging"
)

func TestJSONFormatEmitsStandardKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("session running",
		logging.String(logging.FieldComponent, "pipeline"),
		logging.Int("retries", 3),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log line: %v\n%s", err, buf.String())
	}
	if record["msg"] != "session running" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if record["component"] != "pipeline" {
		t.Fatalf("component = %v", record["component"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("record missing ts key: %v", record)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info record should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "emitted") {
		t.Fatalf("warn record missing:\n%s", out)
	}
}

func TestConsoleFormatIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("ready", logging.String(logging.FieldComponent, "sequencer"))
	if !strings.Contains(buf.String(), "sequencer") {
		t.Fatalf("console output missing component:\n%s", buf.String())
	}
}

func TestUnsupportedFormatFails(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatalf("unsupported format should fail")
	}
}

func TestNewWithFileAppendsToLogDir(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	logger, err := logging.NewWithFile(logging.Options{Level: "info", Format: "json", Output: &buf}, dir)
	if err != nil {
		t.Fatalf("NewWithFile: %v", err)
	}

	logger.Info("persisted")

	contents, err := os.ReadFile(filepath.Join(dir, "podbridge.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(contents), "persisted") {
		t.Fatalf("log file missing record:\n%s", contents)
	}
}
