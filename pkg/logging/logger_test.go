package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("test", "1.0.0", InfoLevel)
	logger.SetOutput(&buf)

	ctx := context.Background()
	logger.Debug(ctx, "[DEBUG] hidden", Fields{"k": 1})
	logger.Info(ctx, "[INFO] shown", Fields{"table": "Efficiency"})

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0]["message"] != "[INFO] shown" {
		t.Errorf("message = %v, want %v", entries[0]["message"], "[INFO] shown")
	}
	if entries[0]["table"] != "Efficiency" {
		t.Errorf("table = %v, want %v", entries[0]["table"], "Efficiency")
	}
	if entries[0]["service"] != "test" {
		t.Errorf("service = %v, want %v", entries[0]["service"], "test")
	}
}

func TestStructuredLogger_ContextAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("test", "1.0.0", DebugLevel)
	logger.SetOutput(&buf)

	ctx := WithRunID(context.Background(), "run-42")
	logger.WithFields(Fields{"family": "storage"}).Error(ctx, "[BUILD_ERROR] failed", Fields{"tech": "Battery_2HR"}, errors.New("boom"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry["run_id"] != "run-42" {
		t.Errorf("run_id = %v, want %v", entry["run_id"], "run-42")
	}
	if entry["family"] != "storage" || entry["tech"] != "Battery_2HR" {
		t.Errorf("merged fields missing: %v", entry)
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want %v", entry["error"], "boom")
	}
	if RunID(ctx) != "run-42" {
		t.Errorf("RunID() = %v, want %v", RunID(ctx), "run-42")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": DebugLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
		"":      InfoLevel,
		"info":  InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
