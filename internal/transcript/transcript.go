// Package transcript writes the Markdown conversation record the session
// orchestrator accumulates when "chat --save PATH" is set.
package transcript

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Turn is one recorded user/AI exchange.
type Turn struct {
	User string
	AI   string
}

// Writer accumulates turns in memory and renders the Markdown document on
// Flush.
type Writer struct {
	turns []Turn
	now   func() time.Time
}

// New creates a transcript writer. now defaults to time.Now; tests may
// override it for a deterministic "생성일시" timestamp.
func New(now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{now: now}
}

// Record appends one user/AI exchange.
func (w *Writer) Record(user, ai string) {
	w.turns = append(w.turns, Turn{User: user, AI: ai})
}

// Render produces the Markdown document body.
func (w *Writer) Render() string {
	var b strings.Builder
	b.WriteString("# AI 대화 기록\n\n")
	fmt.Fprintf(&b, "**생성일시**: %s\n\n", w.now().Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n")
	for _, t := range w.turns {
		fmt.Fprintf(&b, "**사용자**: %s\n\n", t.User)
		fmt.Fprintf(&b, "**AI**: %s\n\n", t.AI)
	}
	return b.String()
}

// Flush writes Render()'s output to path, auto-suffixing ".md" when the
// caller's filename lacks it. A write failure is returned to the caller; it
// must not change the chat command's exit code.
func (w *Writer) Flush(path string) error {
	if !strings.HasSuffix(path, ".md") {
		path += ".md"
	}
	return os.WriteFile(path, []byte(w.Render()), 0o644)
}
