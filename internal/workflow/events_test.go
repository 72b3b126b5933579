package workflow

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jyje/pilot-agent/internal/catalog"
	"github.com/jyje/pilot-agent/internal/llm"
	"github.com/jyje/pilot-agent/internal/tools"
)

func collectChunks(formatted string) []Event {
	events := make(chan Event, 256)
	emitTextChunks(events, formatted)
	close(events)
	var out []Event
	for e := range events {
		out = append(out, e)
	}
	return out
}

func TestEmitTextChunks_ConcatenationReproducesInput(t *testing.T) {
	inputs := []string{
		"hello world",
		"line one\nline two",
		"a **bold run** and `code` and *italic* here",
		"",
	}
	for _, in := range inputs {
		var b strings.Builder
		for _, e := range collectChunks(in) {
			b.WriteString(e.Text)
		}
		if b.String() != in {
			t.Errorf("concatenated chunks = %q, want %q", b.String(), in)
		}
	}
}

func TestEmitTextChunks_PreservesMarkdownRunsAsSingleTokens(t *testing.T) {
	chunks := collectChunks("see **bold text** here")
	var sawBold bool
	for _, e := range chunks {
		if strings.TrimSpace(e.Text) == "**bold text**" {
			sawBold = true
		}
		if e.Text == "**bold" || e.Text == " **bold" {
			t.Errorf("bold run was split across tokens: %q", e.Text)
		}
	}
	if !sawBold {
		t.Error("expected the bold run to arrive as one token")
	}
}

func TestEmitTextChunks_NewlineSeparatesLines(t *testing.T) {
	chunks := collectChunks("one\ntwo")
	var sawNewline bool
	for _, e := range chunks {
		if e.Text == "\n" {
			sawNewline = true
		}
	}
	if !sawNewline {
		t.Error("expected a standalone \\n event between lines")
	}
}

func TestEngine_Run_EventStreamWellFormed(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewCalculateTool()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cat := catalog.Build(registry, nil)

	args, _ := json.Marshal(map[string]string{"expression": "2+2"})
	provider := &scriptedProvider{
		caps: llm.Capabilities{ToolCalls: true},
		script: [][]llm.Event{
			{{Kind: llm.EventToolCall, ToolCall: &llm.ToolCall{ID: "call_1", Name: "calculate", Arguments: args}}},
			{{Kind: llm.EventText, Text: "4"}},
		},
	}
	engine := NewEngine(provider, cat, "system", 0, false)

	events, _ := engine.Run(context.Background(), nil, "what is 2+2?")
	all := drain(events)

	terminals := 0
	pendings := 0
	pendingSeen := map[string]bool{}
	for _, e := range all {
		switch e.Kind {
		case EventStreamingComplete, EventError:
			terminals++
		case EventToolsPending:
			pendings++
			for _, c := range e.ToolCalls {
				pendingSeen[c.Name] = true
			}
		case EventToolExecuting:
			if !pendingSeen[e.ToolName] {
				t.Errorf("tool_executing for %q not preceded by a tools_pending naming it", e.ToolName)
			}
		}
	}
	if terminals != 1 {
		t.Errorf("terminal events = %d, want exactly 1", terminals)
	}
	if pendings != 1 {
		t.Errorf("tools_pending events = %d, want at most (and here exactly) 1", pendings)
	}
	if all[len(all)-1].Kind != EventStreamingComplete {
		t.Errorf("last event = %q, want %q", all[len(all)-1].Kind, EventStreamingComplete)
	}
}
