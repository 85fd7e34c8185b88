package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSONWritesStructuredRecords(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "crate.log")

	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("enrichment complete", String("track_id", "t1"), Int("processed", 3))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("parse log record: %v", err)
	}
	if record["msg"] != "enrichment complete" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["track_id"] != "t1" {
		t.Errorf("track_id = %v", record["track_id"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v", record["level"])
	}
}

func TestNewConsoleRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "crate.log")

	logger, err := New(Options{Level: "warn", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("suppressed")
	logger.Warn("kept", String("key", "value"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "suppressed") {
		t.Error("info record should have been filtered")
	}
	if !strings.Contains(text, "kept") || !strings.Contains(text, "key=value") {
		t.Errorf("console output missing expected record: %q", text)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}
