package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
)

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	cfg    ProviderConfig
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg ProviderConfig) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5"
	}
	return &AnthropicProvider{client: &client, cfg: cfg}
}

func (p *AnthropicProvider) Name() string { return fmt.Sprintf("Anthropic (%s)", p.cfg.Model) }

func (p *AnthropicProvider) Capabilities() Capabilities {
	return Capabilities{ToolCalls: true, Streaming: p.cfg.Streaming}
}

func (p *AnthropicProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		system, messages := buildAnthropicMessages(req.Messages)
		accumulator := newToolCallAccumulator()

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(chooseModel(req.Model, p.cfg.Model)),
			MaxTokens: maxTokens(req.MaxTokens, p.cfg.MaxTokens),
			Messages:  messages,
		}
		if p.cfg.Temperature > 0 {
			params.Temperature = anthropic.Float(float64(p.cfg.Temperature))
		}
		if system != "" {
			params.System = []anthropic.TextBlockParam{{Text: system}}
		}
		if len(req.Tools) > 0 {
			params.Tools = buildAnthropicTools(req.Tools)
		}

		stream := p.client.Messages.NewStreaming(ctx, params)
		for stream.Next() {
			event := stream.Current()
			switch variant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch delta := variant.Delta.AsAny().(type) {
				case anthropic.InputJSONDelta:
					if delta.PartialJSON != "" {
						accumulator.Append(variant.Index, delta.PartialJSON)
					}
				case anthropic.TextDelta:
					if delta.Text != "" {
						events <- Event{Kind: EventText, Text: delta.Text}
					}
				}
			case anthropic.ContentBlockStartEvent:
				if block, ok := variant.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
					accumulator.Start(variant.Index, ToolCall{
						ID:        block.ID,
						Name:      block.Name,
						Arguments: toolInputToRaw(block.Input),
					})
				}
			case anthropic.ContentBlockStopEvent:
				if call, ok := accumulator.Finish(variant.Index); ok {
					events <- Event{Kind: EventToolCall, ToolCall: &call}
				}
			}
		}
		if err := stream.Err(); err != nil {
			return fmt.Errorf("anthropic streaming error: %w", err)
		}
		events <- Event{Kind: EventDone}
		return nil
	}), nil
}

func buildAnthropicMessages(messages []Message) (string, []anthropic.MessageParam) {
	var system string
	var out []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = m.Text()
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text())))
		case RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			for _, part := range m.Parts {
				switch part.Type {
				case PartText:
					if part.Text != "" {
						blocks = append(blocks, anthropic.NewTextBlock(part.Text))
					}
				case PartToolCall:
					var input any
					_ = json.Unmarshal(part.ToolCall.Arguments, &input)
					blocks = append(blocks, anthropic.NewToolUseBlock(part.ToolCall.ID, input, part.ToolCall.Name))
				}
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		case RoleTool:
			for _, part := range m.Parts {
				if part.Type == PartToolResult {
					out = append(out, anthropic.NewUserMessage(
						anthropic.NewToolResultBlock(part.ToolResult.ToolCallID, part.ToolResult.Content, part.ToolResult.IsError),
					))
				}
			}
		}
	}
	return system, out
}

func buildAnthropicTools(specs []ToolSpec) []anthropic.ToolUnionParam {
	if len(specs) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, s := range specs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: s.Schema["properties"],
			Required:   schemaRequired(s.Schema),
		}
		tool := anthropic.ToolUnionParamOfTool(inputSchema, s.Name)
		if s.Description != "" {
			tool.OfTool.Description = anthropic.String(s.Description)
		}
		out = append(out, tool)
	}
	return out
}

// schemaRequired extracts the "required" property list from a JSON schema
// document, tolerating both []string and []any decodings.
func schemaRequired(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toolInputToRaw(input any) json.RawMessage {
	data, err := json.Marshal(input)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// toolCallAccumulator reassembles a streamed tool_use block's partial JSON
// arguments, which arrive as a sequence of InputJSONDelta fragments keyed by
// content-block index.
type toolCallAccumulator struct {
	pending map[int64]*pendingToolCall
}

type pendingToolCall struct {
	call ToolCall
	json string
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{pending: make(map[int64]*pendingToolCall)}
}

func (a *toolCallAccumulator) Start(index int64, call ToolCall) {
	a.pending[index] = &pendingToolCall{call: call}
}

func (a *toolCallAccumulator) Append(index int64, fragment string) {
	if p, ok := a.pending[index]; ok {
		p.json += fragment
	}
}

func (a *toolCallAccumulator) Finish(index int64) (ToolCall, bool) {
	p, ok := a.pending[index]
	if !ok {
		return ToolCall{}, false
	}
	delete(a.pending, index)
	if p.json != "" {
		p.call.Arguments = json.RawMessage(p.json)
	}
	if len(p.call.Arguments) == 0 {
		p.call.Arguments = json.RawMessage("{}")
	}
	return p.call, true
}
