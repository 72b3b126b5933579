package llm

import "fmt"

// ProviderConfig is the subset of internal/config.Config needed to construct
// a Provider; kept separate from config.Config to avoid an import cycle.
type ProviderConfig struct {
	Name        string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Streaming   bool
}

// NewProvider constructs the concrete Provider named in cfg.Name.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic api_key not configured")
		}
		return NewAnthropicProvider(cfg), nil
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api_key not configured")
		}
		return NewOpenAIProvider(cfg), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini api_key not configured")
		}
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (valid: anthropic, openai, gemini)", cfg.Name)
	}
}

func chooseModel(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}

func maxTokens(requested, fallback int) int64 {
	if requested > 0 {
		return int64(requested)
	}
	if fallback > 0 {
		return int64(fallback)
	}
	return 4096
}
