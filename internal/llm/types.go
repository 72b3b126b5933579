// Package llm defines the provider-agnostic message and streaming types the
// workflow engine drives: a Provider turns a Request into a Stream of Events,
// independent of which vendor SDK backs it.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstract LLM capability the workflow engine drives. The
// engine never sees a vendor-specific request or response type.
type Provider interface {
	// Name identifies the provider for logging and the info command.
	Name() string

	// Capabilities reports optional features this provider supports.
	Capabilities() Capabilities

	// Stream issues a single model turn and returns a lazy, finite,
	// non-restartable sequence of Events.
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Capabilities describe optional provider features.
type Capabilities struct {
	ToolCalls bool
	Streaming bool
}

// Stream yields Events until io.EOF.
type Stream interface {
	Recv() (Event, error)
	Close() error
}

// Request represents a single model turn. Sampling options live on the
// provider's own configuration; a request may override the model and token
// budget per call.
type Request struct {
	Model     string
	Messages  []Message
	Tools     []ToolSpec
	MaxTokens int
}

// Role identifies a message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartType identifies a message content part.
type PartType string

const (
	PartText       PartType = "text"
	PartToolCall   PartType = "tool_call"
	PartToolResult PartType = "tool_result"
)

// Message holds a role with structured parts, mirroring the tagged union in
// the data model: System{content}, User{content}, Assistant{content,
// tool_calls?}, ToolResult{tool_call_id, content}.
type Message struct {
	Role  Role
	Parts []Part
}

// Part is a single content part within a Message.
type Part struct {
	Type       PartType
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
}

// ToolCall is a structured intent emitted by the LLM naming a catalog tool
// and supplying a JSON argument object. ID is provider-assigned and unique
// within the turn; when a provider omits it, the engine synthesizes one.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is the response to a ToolCall, re-fed to the LLM. Name repeats
// the called tool's name for providers whose function-response shape
// requires it.
type ToolResult struct {
	ToolCallID string
	Name       string
	Content    string
	IsError    bool
}

// ToolSpec describes a callable tool in the provider's tool-declaration
// shape. Binding is opaque to the engine beyond Name/Description/Schema.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Text returns the concatenated text content of a message's text parts.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartText {
			out += p.Text
		}
	}
	return out
}

// ToolCalls returns the tool calls carried by an Assistant message, if any.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if p.Type == PartToolCall && p.ToolCall != nil {
			calls = append(calls, *p.ToolCall)
		}
	}
	return calls
}

// NewSystemMessage builds a System message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Parts: []Part{{Type: PartText, Text: content}}}
}

// NewUserMessage builds a User message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Parts: []Part{{Type: PartText, Text: content}}}
}

// NewAssistantTextMessage builds an Assistant message carrying only text.
func NewAssistantTextMessage(content string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{{Type: PartText, Text: content}}}
}

// NewToolResultMessage builds a ToolResult message.
func NewToolResultMessage(toolCallID, name, content string, isError bool) Message {
	return Message{
		Role: RoleTool,
		Parts: []Part{{
			Type:       PartToolResult,
			ToolResult: &ToolResult{ToolCallID: toolCallID, Name: name, Content: content, IsError: isError},
		}},
	}
}

// EventKind is the closed set of event kinds a Stream may emit mid-turn.
// These are internal provider-stream events, distinct from the workflow's
// outward-facing event kinds in package workflow.
type EventKind string

const (
	EventText     EventKind = "text"
	EventToolCall EventKind = "tool_call"
	EventDone     EventKind = "done"
)

// Event is a single chunk from a Provider Stream.
type Event struct {
	Kind     EventKind
	Text     string
	ToolCall *ToolCall
	// FinalMessage may be set on EventDone to carry the complete Assistant
	// message for this turn; the engine then uses it in place of the
	// streamed text and tool calls. The built-in providers leave it nil.
	FinalMessage *Message
}
