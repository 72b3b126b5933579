package workflow

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/jyje/pilot-agent/internal/catalog"
	"github.com/jyje/pilot-agent/internal/llm"
	"github.com/jyje/pilot-agent/internal/tools"
)

// sliceStream replays a fixed Event slice, terminating with io.EOF.
type sliceStream struct {
	events []llm.Event
	index  int
}

func (s *sliceStream) Recv() (llm.Event, error) {
	if s.index >= len(s.events) {
		return llm.Event{}, io.EOF
	}
	e := s.events[s.index]
	s.index++
	return e, nil
}

func (s *sliceStream) Close() error { return nil }

// scriptedProvider returns one Event slice per call to Stream, in order;
// calling it more times than scripted entries repeats the last entry.
type scriptedProvider struct {
	script [][]llm.Event
	calls  int
	caps   llm.Capabilities
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Capabilities() llm.Capabilities { return p.caps }

func (p *scriptedProvider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	idx := p.calls
	if idx >= len(p.script) {
		idx = len(p.script) - 1
	}
	p.calls++
	return &sliceStream{events: p.script[idx]}, nil
}

// failingProvider always fails to start a stream.
type failingProvider struct{}

func (failingProvider) Name() string                   { return "failing" }
func (failingProvider) Capabilities() llm.Capabilities { return llm.Capabilities{} }
func (failingProvider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	return nil, io.ErrClosedPipe
}

func drain(events <-chan Event) []Event {
	var out []Event
	for e := range events {
		out = append(out, e)
	}
	return out
}

func TestEngine_Run_SimpleTextTurn(t *testing.T) {
	provider := &scriptedProvider{script: [][]llm.Event{
		{{Kind: llm.EventText, Text: "hello there"}},
	}}
	engine := NewEngine(provider, catalog.Build(tools.NewRegistry(), nil), "system prompt", 0, false)

	events, result := engine.Run(context.Background(), nil, "hi")
	all := drain(events)

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Final != "hello there" {
		t.Errorf("Final = %q, want %q", result.Final, "hello there")
	}
	last := all[len(all)-1]
	if last.Kind != EventStreamingComplete {
		t.Errorf("last event kind = %q, want %q", last.Kind, EventStreamingComplete)
	}
	if len(result.Messages) != 3 {
		t.Errorf("len(Messages) = %d, want 3 (system + user + assistant)", len(result.Messages))
	}
}

func TestEngine_Run_ToolCallLoop(t *testing.T) {
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
			{{Kind: llm.EventText, Text: "the answer is 4"}},
		},
	}
	engine := NewEngine(provider, cat, "system prompt", 4, false)

	events, result := engine.Run(context.Background(), nil, "what is 2+2?")
	all := drain(events)

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Final != "the answer is 4" {
		t.Errorf("Final = %q, want %q", result.Final, "the answer is 4")
	}

	var sawToolExecuting, sawResponseReady bool
	for _, e := range all {
		if e.Kind == EventToolExecuting && e.ToolName == "calculate" {
			sawToolExecuting = true
		}
		if e.Kind == EventAIResponseReady {
			sawResponseReady = true
		}
	}
	if !sawToolExecuting {
		t.Error("expected a tool_executing event for calculate")
	}
	if !sawResponseReady {
		t.Error("expected an ai_response_ready event after the tool loop")
	}
}

func TestEngine_Run_LoopLimitExceeded(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewCalculateTool()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cat := catalog.Build(registry, nil)

	args, _ := json.Marshal(map[string]string{"expression": "1+1"})
	loopEvent := []llm.Event{{Kind: llm.EventToolCall, ToolCall: &llm.ToolCall{Name: "calculate", Arguments: args}}}
	provider := &scriptedProvider{
		caps:   llm.Capabilities{ToolCalls: true},
		script: [][]llm.Event{loopEvent}, // repeats forever: Stream always returns another tool call
	}
	engine := NewEngine(provider, cat, "system prompt", 2, false)

	events, result := engine.Run(context.Background(), nil, "loop forever")
	drain(events)

	if result.Err == nil {
		t.Fatal("expected a loop-limit error")
	}
	if result.Err.Kind != ErrLoopLimitExceeded {
		t.Errorf("Err.Kind = %q, want %q", result.Err.Kind, ErrLoopLimitExceeded)
	}
}

func TestEngine_Run_ProviderFailureYieldsApology(t *testing.T) {
	engine := NewEngine(failingProvider{}, catalog.Build(tools.NewRegistry(), nil), "system prompt", 0, false)

	events, result := engine.Run(context.Background(), nil, "hi")
	drain(events)

	if result.Err != nil {
		t.Fatalf("provider failure should not surface as a turn error, got %v", result.Err)
	}
	if result.Final == "" {
		t.Error("expected a non-empty apology message")
	}
}

func TestEngine_Run_DebugEmitsWorkflowSteps(t *testing.T) {
	provider := &scriptedProvider{script: [][]llm.Event{
		{{Kind: llm.EventText, Text: "ok"}},
	}}
	engine := NewEngine(provider, catalog.Build(tools.NewRegistry(), nil), "system prompt", 0, true)

	events, _ := engine.Run(context.Background(), nil, "hi")
	all := drain(events)

	var sawStep bool
	for _, e := range all {
		if e.Kind == EventWorkflowStep {
			sawStep = true
		}
	}
	if !sawStep {
		t.Error("expected workflow_step events when Debug is true")
	}
}
