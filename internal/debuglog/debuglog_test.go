package debuglog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
}

func newTestLogger(level, format string, out *bytes.Buffer) *Logger {
	l := New(Options{Level: level, Format: format, Writer: out})
	l.now = fixedClock
	return l
}

func TestLogger_LevelFiltering(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger("warn", "text", &out)

	l.Debug("node_enter", nil)
	l.Event("node_exit", nil)
	l.Warn("tool_failed", nil)

	got := out.String()
	if strings.Contains(got, "node_enter") || strings.Contains(got, "node_exit") {
		t.Errorf("entries below the configured level were written: %q", got)
	}
	if !strings.Contains(got, "tool_failed") {
		t.Errorf("warn entry missing from output: %q", got)
	}
}

func TestLogger_TextFormatSortedFields(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger("debug", "text", &out)

	l.Event("tool_executing", map[string]any{"tool": "calculate", "call_id": "c1"})

	got := out.String()
	if !strings.Contains(got, "call_id=c1 tool=calculate") {
		t.Errorf("fields not rendered in sorted key order: %q", got)
	}
	if !strings.Contains(got, "2026-07-31T12:00:00Z") {
		t.Errorf("timestamp missing: %q", got)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger("info", "json", &out)

	l.Event("server_connected", map[string]any{"server": "alpha"})

	var entry Entry
	if err := json.Unmarshal(out.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a JSON line: %v (%q)", err, out.String())
	}
	if entry.Event != "server_connected" {
		t.Errorf("Event = %q, want %q", entry.Event, "server_connected")
	}
	if entry.Level != "info" {
		t.Errorf("Level = %q, want %q", entry.Level, "info")
	}
	if entry.Fields["server"] != "alpha" {
		t.Errorf("Fields[server] = %v, want alpha", entry.Fields["server"])
	}
}

func TestLogger_NilIsSafe(t *testing.T) {
	var l *Logger
	l.Event("anything", nil) // must not panic
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil logger = %v, want nil", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
