package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// TestNew tests logger construction and level selection.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(&buf, FormatJSON, false)

		logger.Info("hidden")
		logger.Warn("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("expected info record to be suppressed")
		}
		if !strings.Contains(out, "visible") {
			t.Error("expected warn record to be emitted")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(&buf, FormatJSON, true)

		logger.Debug("details", "url", "https://example.com")

		if !strings.Contains(buf.String(), "details") {
			t.Error("expected debug record to be emitted")
		}
	})

	t.Run("json format emits valid json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(&buf, FormatJSON, false)
		logger.Error("boom", slog.String("url", "https://example.com"))

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("expected valid JSON record: %v", err)
		}
		if record["url"] != "https://example.com" {
			t.Errorf("expected url attribute, got %v", record)
		}
	})

	t.Run("text format emits message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(&buf, FormatText, false)
		logger.Error("something failed")

		if !strings.Contains(buf.String(), "something failed") {
			t.Error("expected message in text output")
		}
	})
}
