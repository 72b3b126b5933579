package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider using the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	cfg    ProviderConfig
}

func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &OpenAIProvider{client: &client, cfg: cfg}
}

func (p *OpenAIProvider) Name() string { return fmt.Sprintf("OpenAI (%s)", p.cfg.Model) }

func (p *OpenAIProvider) Capabilities() Capabilities {
	return Capabilities{ToolCalls: true, Streaming: p.cfg.Streaming}
}

func (p *OpenAIProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		params := openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(chooseModel(req.Model, p.cfg.Model)),
			Messages: buildOpenAIMessages(req.Messages),
		}
		if p.cfg.Temperature > 0 {
			params.Temperature = openai.Float(float64(p.cfg.Temperature))
		}
		if p.cfg.MaxTokens > 0 {
			params.MaxCompletionTokens = openai.Int(int64(p.cfg.MaxTokens))
		}
		if len(req.Tools) > 0 {
			params.Tools = buildOpenAITools(req.Tools)
		}

		stream := p.client.Chat.Completions.NewStreaming(ctx, params)
		acc := openai.ChatCompletionAccumulator{}
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta
			if delta.Content != "" {
				events <- Event{Kind: EventText, Text: delta.Content}
			}
		}
		if err := stream.Err(); err != nil {
			return fmt.Errorf("openai streaming error: %w", err)
		}
		for _, choice := range acc.Choices {
			for _, tc := range choice.Message.ToolCalls {
				call := tc
				events <- Event{Kind: EventToolCall, ToolCall: &ToolCall{
					ID:        call.ID,
					Name:      call.Function.Name,
					Arguments: []byte(call.Function.Arguments),
				}}
			}
		}
		events <- Event{Kind: EventDone}
		return nil
	}), nil
}

func buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Text()))
		case RoleUser:
			out = append(out, openai.UserMessage(m.Text()))
		case RoleAssistant:
			calls := m.ToolCalls()
			if len(calls) == 0 {
				out = append(out, openai.AssistantMessage(m.Text()))
				break
			}
			// A replayed Assistant message that requested tool calls must
			// carry them again so the following ToolResult messages have a
			// matching tool_call_id the API will accept.
			param := openai.ChatCompletionAssistantMessageParam{}
			if text := m.Text(); text != "" {
				param.Content.OfString = openai.String(text)
			}
			for _, c := range calls {
				param.ToolCalls = append(param.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: c.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      c.Name,
						Arguments: string(c.Arguments),
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &param})
		case RoleTool:
			for _, part := range m.Parts {
				if part.Type == PartToolResult {
					out = append(out, openai.ToolMessage(part.ToolResult.Content, part.ToolResult.ToolCallID))
				}
			}
		}
	}
	return out
}

func buildOpenAITools(specs []ToolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        s.Name,
				Description: openai.String(s.Description),
				Parameters:  openai.FunctionParameters(s.Schema),
			},
		})
	}
	return out
}
