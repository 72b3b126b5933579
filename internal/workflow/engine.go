package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jyje/pilot-agent/internal/catalog"
	"github.com/jyje/pilot-agent/internal/llm"
)

// DefaultMaxTurns is K, the default bound on generate_response <-> call_tools
// round trips per user turn.
const DefaultMaxTurns = 8

// Engine drives one user turn through the finite state machine
// process_input -> generate_response -> call_tools -> format_output, with
// call_tools elided whenever the catalog is empty.
type Engine struct {
	Provider     llm.Provider
	Catalog      *catalog.Catalog
	SystemPrompt string
	MaxTurns     int
	Debug        bool
}

// NewEngine constructs an engine. maxTurns <= 0 selects DefaultMaxTurns.
func NewEngine(provider llm.Provider, cat *catalog.Catalog, systemPrompt string, maxTurns int, debug bool) *Engine {
	return &Engine{Provider: provider, Catalog: cat, SystemPrompt: systemPrompt, MaxTurns: maxTurns, Debug: debug}
}

func (e *Engine) maxTurns() int {
	if e.MaxTurns <= 0 {
		return DefaultMaxTurns
	}
	return e.MaxTurns
}

func (e *Engine) hasTools() bool {
	return e.Catalog != nil && len(e.Catalog.List()) > 0
}

// TurnResult is the outcome of a turn, populated just before the event
// channel returned by Run is closed. Callers must drain the channel to
// completion before reading it (the close happens-after the write).
type TurnResult struct {
	Messages []llm.Message
	Final    string
	Err      *Error
}

// Run executes one user turn against the given history and emits a finite,
// ordered sequence of events on the returned channel. The channel is always
// closed, exactly once, after either a streaming_complete or an error event.
func (e *Engine) Run(ctx context.Context, history []llm.Message, userInput string) (<-chan Event, *TurnResult) {
	events := make(chan Event, 16)
	result := &TurnResult{}

	go func() {
		defer close(events)
		e.emitStep(events, "process_input", StepStarted)
		messages := e.processInput(history, userInput)
		e.emitStep(events, "process_input", StepCompleted)

		toolsPendingSent := false
		sawToolLoop := false
		loopCount := 0
		loopLimitHit := false

		for {
			e.emitStep(events, "generate_response", StepStarted)
			assistant, llmErr := e.generateResponse(ctx, messages)
			e.emitStep(events, "generate_response", StepCompleted)

			if llmErr != nil {
				if ctx.Err() != nil {
					result.Messages = messages
					result.Err = NewError(ErrCancelled, "turn cancelled", ctx.Err())
					events <- Event{Kind: EventError, ErrorMessage: result.Err.Error()}
					return
				}
				assistant = llm.NewAssistantTextMessage("I'm sorry, I couldn't process that request.")
				messages = append(messages, assistant)
				break
			}
			messages = append(messages, assistant)
			normalizeToolCallIDs(&messages[len(messages)-1])

			calls := messages[len(messages)-1].ToolCalls()
			if len(calls) == 0 || !e.hasTools() {
				break
			}

			loopCount++
			if loopCount > e.maxTurns() {
				loopLimitHit = true
				break
			}

			sawToolLoop = true
			if !toolsPendingSent {
				pending := make([]PendingToolCall, 0, len(calls))
				for _, c := range calls {
					pending = append(pending, PendingToolCall{Name: c.Name, ID: c.ID})
				}
				events <- Event{Kind: EventToolsPending, ToolCalls: pending, DebugMode: e.Debug}
				toolsPendingSent = true
			}

			e.emitStep(events, "call_tools", StepStarted)
			for _, call := range calls {
				events <- Event{Kind: EventToolExecuting, ToolName: call.Name}
				content, err := e.Catalog.Invoke(ctx, call.Name, call.Arguments)
				if err != nil && ctx.Err() != nil {
					result.Messages = messages
					result.Err = NewError(ErrCancelled, "turn cancelled", ctx.Err())
					events <- Event{Kind: EventError, ErrorMessage: result.Err.Error()}
					return
				}
				isError := err != nil
				if isError {
					content = err.Error()
				}
				messages = append(messages, llm.NewToolResultMessage(call.ID, call.Name, content, isError))
			}
			e.emitStep(events, "call_tools", StepCompleted)
		}

		final := lastAssistantText(messages)
		e.emitStep(events, "format_output", StepStarted)
		formatted := FormatOutput(final)
		e.emitStep(events, "format_output", StepCompleted)

		if loopLimitHit {
			result.Messages = messages
			result.Final = formatted
			result.Err = NewError(ErrLoopLimitExceeded, "maximum tool round trips exceeded", nil)
			events <- Event{Kind: EventError, ErrorMessage: result.Err.Error()}
			return
		}

		if sawToolLoop {
			events <- Event{Kind: EventAIResponseReady}
		}
		emitTextChunks(events, formatted)

		result.Messages = messages
		result.Final = formatted
		events <- Event{Kind: EventStreamingComplete, FinalResponse: formatted}
	}()

	return events, result
}

// processInput normalizes the message history for a new turn: a System
// message is inserted only when history is empty, then the user input is
// appended.
func (e *Engine) processInput(history []llm.Message, userInput string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	if len(history) == 0 {
		messages = append(messages, llm.NewSystemMessage(e.SystemPrompt))
	} else {
		messages = append(messages, history...)
	}
	messages = append(messages, llm.NewUserMessage(userInput))
	return messages
}

// generateResponse invokes the provider synchronously, draining its stream
// into a single Assistant message with normalized tool calls.
func (e *Engine) generateResponse(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	req := llm.Request{Messages: messages}
	if e.hasTools() {
		req.Tools = e.Catalog.Specs()
	}

	stream, err := e.Provider.Stream(ctx, req)
	if err != nil {
		return llm.Message{}, NewError(ErrLLMFailure, "provider stream failed to start", err)
	}
	defer stream.Close()

	var text string
	var calls []llm.ToolCall
	for {
		ev, err := stream.Recv()
		if err != nil {
			if llm.IsStreamDone(err) {
				break
			}
			return llm.Message{}, NewError(ErrLLMFailure, "provider stream failed", err)
		}
		switch ev.Kind {
		case llm.EventText:
			text += ev.Text
		case llm.EventToolCall:
			if ev.ToolCall != nil {
				calls = append(calls, *ev.ToolCall)
			}
		case llm.EventDone:
			if ev.FinalMessage != nil {
				return *ev.FinalMessage, nil
			}
		}
	}

	parts := []llm.Part{}
	if text != "" {
		parts = append(parts, llm.Part{Type: llm.PartText, Text: text})
	}
	for i := range calls {
		c := calls[i]
		parts = append(parts, llm.Part{Type: llm.PartToolCall, ToolCall: &c})
	}
	return llm.Message{Role: llm.RoleAssistant, Parts: parts}, nil
}

// normalizeToolCallIDs assigns a synthetic, position-derived ID to any call
// the provider left unidentified, editing the Assistant message in place so
// the recorded call and its eventual ToolResult agree.
func normalizeToolCallIDs(m *llm.Message) {
	pos := 0
	for i := range m.Parts {
		if m.Parts[i].Type != llm.PartToolCall || m.Parts[i].ToolCall == nil {
			continue
		}
		if m.Parts[i].ToolCall.ID == "" {
			m.Parts[i].ToolCall.ID = fmt.Sprintf("call_%d_%s", pos, uuid.NewString())
		}
		pos++
	}
}

func lastAssistantText(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleAssistant {
			return messages[i].Text()
		}
	}
	return ""
}

func (e *Engine) emitStep(events chan<- Event, step string, status StepStatus) {
	if !e.Debug {
		return
	}
	events <- Event{Kind: EventWorkflowStep, Step: step, Status: status}
}
