package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"episplit/internal/services"
)

func TestNewWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("boundary selected", Float64("timestamp", 712.4), String("source", "a b.mkv"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "boundary selected") {
		t.Fatalf("unexpected log line: %q", out)
	}
	if !strings.Contains(out, `source="a b.mkv"`) {
		t.Fatalf("values with spaces should be quoted: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(Options{Level: "debug", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithItemID(context.Background(), 7)
	ctx = services.WithStage(ctx, "detect")
	ctx = services.WithRequestID(ctx, "req-1")

	WithContext(ctx, logger).Debug("scanning window")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"item_id=7", "stage=detect", "correlation_id=req-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestComponentPrefix(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	NewComponentLogger(logger, "assemble").Info("extract complete")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "assemble: extract complete") {
		t.Fatalf("component prefix missing: %q", string(data))
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Error("ignored")
	if logger.Enabled(context.Background(), 0) {
		t.Fatal("nop logger should be disabled")
	}
}
