package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 7, 31, 14, 30, 0, 0, time.UTC)
}

func dtArgs(t *testing.T, format, timezone string) []byte {
	t.Helper()
	data, err := json.Marshal(currentTimeArgs{Format: format, Timezone: timezone})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestCurrentTimeTool_Formats(t *testing.T) {
	tool := NewCurrentTimeTool(fixedNow)
	cases := []struct {
		format string
		want   string
	}{
		{"date", "2026-07-31"},
		{"time", "14:30:00"},
		{"iso", "2026-07-31T14:30:00Z"},
		{"datetime", "2026-07-31 14:30:00"},
		{"bogus", "2026-07-31 14:30:00"}, // unknown format coerces to default
	}
	for _, c := range cases {
		got, err := tool.Execute(context.Background(), dtArgs(t, c.format, "utc"))
		if err != nil {
			t.Fatalf("Execute(format=%q): %v", c.format, err)
		}
		if got != c.want {
			t.Errorf("Execute(format=%q) = %q, want %q", c.format, got, c.want)
		}
	}
}

func TestCurrentTimeTool_EmptyArgsDefaultsToDatetime(t *testing.T) {
	tool := NewCurrentTimeTool(fixedNow)
	got, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute(nil): %v", err)
	}
	if got == "" {
		t.Error("expected a non-empty default datetime")
	}
}

func TestCurrentTimeTool_RejectsShellMetacharacters(t *testing.T) {
	tool := NewCurrentTimeTool(fixedNow)
	_, err := tool.Execute(context.Background(), dtArgs(t, "date; rm -rf /", "utc"))
	if err == nil {
		t.Fatal("expected an error for a format argument containing a shell metacharacter")
	}
}

func TestCurrentTimeTool_RejectsOverlongArgument(t *testing.T) {
	tool := NewCurrentTimeTool(fixedNow)
	long := ""
	for i := 0; i < maxArgStringLength+1; i++ {
		long += "a"
	}
	_, err := tool.Execute(context.Background(), dtArgs(t, long, "utc"))
	if err == nil {
		t.Fatal("expected an error for an overlong format argument")
	}
}
