// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/praxis-sdk/praxis/pkg/core"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHandlerAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSlogHandler(&buf, "info", "json"))

	ctx := core.WithRunID(context.Background(), "run-abc123")
	logger.InfoContext(ctx, "loop started", slog.String("agent", "test"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if record["run_id"] != "run-abc123" {
		t.Errorf("run_id = %v", record["run_id"])
	}
	if record["agent"] != "test" {
		t.Errorf("agent = %v", record["agent"])
	}
}

func TestHandlerWithoutContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSlogHandler(&buf, "info", "json"))

	logger.Info("plain message")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, present := record["run_id"]; present {
		t.Error("run_id should be absent without context value")
	}
	if _, present := record["trace_id"]; present {
		t.Error("trace_id should be absent without an active span")
	}
}

func TestTextFormatDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSlogHandler(&buf, "debug", "text"))
	logger.Debug("hello")
	if buf.Len() == 0 {
		t.Error("expected debug output at debug level")
	}
}
