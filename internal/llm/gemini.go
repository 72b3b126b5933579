package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider using the Google Gemini API.
type GeminiProvider struct {
	cfg ProviderConfig
}

func NewGeminiProvider(cfg ProviderConfig) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}
	return &GeminiProvider{cfg: cfg}
}

func (p *GeminiProvider) Name() string { return fmt.Sprintf("Gemini (%s)", p.cfg.Model) }

func (p *GeminiProvider) Capabilities() Capabilities {
	return Capabilities{ToolCalls: true, Streaming: p.cfg.Streaming}
}

func (p *GeminiProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: p.cfg.APIKey})
		if err != nil {
			return fmt.Errorf("gemini client: %w", err)
		}

		system, contents := buildGeminiContents(req.Messages)
		config := &genai.GenerateContentConfig{}
		if system != "" {
			config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
		}
		if p.cfg.Temperature > 0 {
			config.Temperature = genai.Ptr(p.cfg.Temperature)
		}
		if p.cfg.MaxTokens > 0 {
			config.MaxOutputTokens = int32(p.cfg.MaxTokens)
		}
		if len(req.Tools) > 0 {
			config.Tools = buildGeminiTools(req.Tools)
		}

		for resp, err := range client.Models.GenerateContentStream(ctx, chooseModel(req.Model, p.cfg.Model), contents, config) {
			if err != nil {
				return fmt.Errorf("gemini streaming error: %w", err)
			}
			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if part.Text != "" {
						events <- Event{Kind: EventText, Text: part.Text}
					}
					if part.FunctionCall != nil {
						argsJSON, _ := json.Marshal(part.FunctionCall.Args)
						events <- Event{Kind: EventToolCall, ToolCall: &ToolCall{
							ID:        part.FunctionCall.ID,
							Name:      part.FunctionCall.Name,
							Arguments: argsJSON,
						}}
					}
				}
			}
		}
		events <- Event{Kind: EventDone}
		return nil
	}), nil
}

func buildGeminiContents(messages []Message) (string, []*genai.Content) {
	var system string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = m.Text()
			continue
		}
		contents = append(contents, buildGeminiContent(m))
	}
	return system, contents
}

func buildGeminiContent(m Message) *genai.Content {
	role := genai.RoleUser
	if m.Role == RoleAssistant {
		role = genai.RoleModel
	}
	content := &genai.Content{Role: role}
	for _, part := range m.Parts {
		switch part.Type {
		case PartText:
			if part.Text != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: part.Text})
			}
		case PartToolCall:
			var args map[string]any
			_ = json.Unmarshal(part.ToolCall.Arguments, &args)
			content.Parts = append(content.Parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   part.ToolCall.ID,
					Name: part.ToolCall.Name,
					Args: args,
				},
			})
		case PartToolResult:
			content.Parts = append(content.Parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       part.ToolResult.ToolCallID,
					Name:     part.ToolResult.Name,
					Response: map[string]any{"output": part.ToolResult.Content},
				},
			})
		}
	}
	return content
}

func buildGeminiTools(specs []ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:                 s.Name,
			Description:          s.Description,
			ParametersJsonSchema: s.Schema,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
