// Package debuglog is a small structured event logger for the agent: it
// records workflow node transitions, tool invocations, and remote-server
// lifecycle events, filtered by level and rendered as text or JSON lines.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Entry is one logged event.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Event     string         `json:"event"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Options configures a Logger. When FileEnabled is set and FilePath is
// non-empty, entries go to a size-rotated file at FilePath; otherwise they go
// to Writer (discarded when Writer is nil).
type Options struct {
	Level        string
	Format       string // "text" or "json"
	Writer       io.Writer
	FileEnabled  bool
	FilePath     string
	RotationMB   int
	RetentionDay int
	Compression  bool
}

// Logger writes leveled, structured entries. The zero value and a nil
// *Logger are both safe no-ops, so callers never need to guard log sites.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	level  Level
	format string
	now    func() time.Time
}

// New constructs a Logger from opts.
func New(opts Options) *Logger {
	l := &Logger{
		level:  ParseLevel(opts.Level),
		format: strings.ToLower(opts.Format),
		now:    time.Now,
	}
	switch {
	case opts.FileEnabled && opts.FilePath != "":
		rotating := &lumberjack.Logger{
			Filename: opts.FilePath,
			MaxSize:  opts.RotationMB,
			MaxAge:   opts.RetentionDay,
			Compress: opts.Compression,
		}
		l.w = rotating
		l.closer = rotating
	case opts.Writer != nil:
		l.w = opts.Writer
	default:
		l.w = io.Discard
	}
	return l
}

// Close releases the rotating file writer, if one is open.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Event logs at info level.
func (l *Logger) Event(event string, fields map[string]any) {
	l.log(LevelInfo, event, fields)
}

// Debug logs at debug level.
func (l *Logger) Debug(event string, fields map[string]any) {
	l.log(LevelDebug, event, fields)
}

// Warn logs at warn level.
func (l *Logger) Warn(event string, fields map[string]any) {
	l.log(LevelWarn, event, fields)
}

// Error logs at error level.
func (l *Logger) Error(event string, fields map[string]any) {
	l.log(LevelError, event, fields)
}

func (l *Logger) log(level Level, event string, fields map[string]any) {
	if l == nil || l.w == nil || level < l.level {
		return
	}
	entry := Entry{Timestamp: l.now().UTC(), Level: level.String(), Event: event, Fields: fields}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.format == "json" {
		data, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintf(l.w, "%s\n", data)
		return
	}
	fmt.Fprintf(l.w, "%s %-5s %s%s\n",
		entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Event, formatFields(fields))
}

// formatFields renders fields as " k=v" pairs in sorted key order, so text
// output is stable across runs.
func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
