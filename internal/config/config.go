// Package config is the configuration surface: it loads, validates,
// and exposes the LLM provider options, agent options, and remote
// tool-server list the rest of the module is wired from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jyje/pilot-agent/internal/mcp"
	"github.com/jyje/pilot-agent/internal/workflow"
	"github.com/spf13/viper"
)

// ProviderOptions is the shape shared by the openai/anthropic/gemini config
// blocks.
type ProviderOptions struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Streaming   bool    `mapstructure:"streaming"`
}

// ChatbotOptions configures the agent's persona and loop bound.
type ChatbotOptions struct {
	Name           string `mapstructure:"name"`
	WelcomeMessage string `mapstructure:"welcome_message"`
	SystemPrompt   string `mapstructure:"system_prompt"`
	MaxTurns       int    `mapstructure:"max_turns"`
	SessionStore   string `mapstructure:"session_store"`
}

// LoggingOptions configures the structured/debug logger, including the
// lumberjack-style rotating file writer.
type LoggingOptions struct {
	Level        string `mapstructure:"level"`
	Format       string `mapstructure:"format"`
	FileEnabled  bool   `mapstructure:"file_enabled"`
	FilePath     string `mapstructure:"file_path"`
	RotationMB   int    `mapstructure:"rotation"`
	RetentionDay int    `mapstructure:"retention"`
	Compression  bool   `mapstructure:"compression"`
}

// DevelopmentOptions controls the development-only flags.
type DevelopmentOptions struct {
	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`
}

// Config is the root configuration document (settings.yaml).
type Config struct {
	Provider    string             `mapstructure:"provider"`
	OpenAI      ProviderOptions    `mapstructure:"openai"`
	Anthropic   ProviderOptions    `mapstructure:"anthropic"`
	Gemini      ProviderOptions    `mapstructure:"gemini"`
	Chatbot     ChatbotOptions     `mapstructure:"chatbot"`
	MCPServers  []mcp.ServerConfig `mapstructure:"mcp_servers"`
	Logging     LoggingOptions     `mapstructure:"logging"`
	Development DevelopmentOptions `mapstructure:"development"`
}

const defaultConfigFileName = "settings.yaml"

// DefaultConfigPath returns <project_root>/settings.yaml relative to the
// current working directory, the default named in the external interfaces.
func DefaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return defaultConfigFileName
	}
	return filepath.Join(wd, defaultConfigFileName)
}

// defaults is the single source of truth for configuration defaults:
// every default lives here, set into viper before the file is
// read, so an absent key still resolves sensibly.
func defaults() map[string]any {
	return map[string]any{
		"provider":                "openai",
		"openai.model":            "gpt-4o-mini",
		"openai.temperature":      0.7,
		"openai.max_tokens":       4096,
		"openai.streaming":        true,
		"anthropic.model":         "claude-sonnet-4-5",
		"anthropic.temperature":   0.7,
		"anthropic.max_tokens":    4096,
		"anthropic.streaming":     true,
		"gemini.model":            "gemini-3-flash-preview",
		"gemini.temperature":      0.7,
		"gemini.max_tokens":       4096,
		"gemini.streaming":        true,
		"chatbot.name":            "pilot",
		"chatbot.welcome_message": "Hello! How can I help you today?",
		"chatbot.system_prompt":   "You are a helpful assistant with access to tools.",
		"chatbot.max_turns":       workflow.DefaultMaxTurns,
		"logging.level":           "info",
		"logging.format":          "text",
	}
}

// Load reads the YAML config at path (DefaultConfigPath() if empty),
// applying defaults() first so an absent or partial file still produces a
// usable Config. It does not call Validate; callers decide when validation
// is required.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, workflow.NewError(workflow.ErrConfigMissing, fmt.Sprintf("config file not found: %s", path), err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, workflow.NewError(workflow.ErrConfigMissing, fmt.Sprintf("config file not found: %s", path), err)
		}
		return nil, workflow.NewError(workflow.ErrConfigInvalid, "failed to parse config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, workflow.NewError(workflow.ErrConfigInvalid, "failed to unmarshal config", err)
	}
	return &cfg, nil
}

// placeholderAPIKeys are values the sample template ships with; a config
// still carrying one of these has not actually been configured.
var placeholderAPIKeys = map[string]bool{
	"":                  true,
	"YOUR_API_KEY_HERE": true,
	"sk-...":            true,
}

// ActiveProviderOptions returns the ProviderOptions block for cfg.Provider
// (defaulting to openai).
func (c *Config) ActiveProviderOptions() ProviderOptions {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic
	case "gemini":
		return c.Gemini
	default:
		return c.OpenAI
	}
}

// Validate implements check_settings(): it fails if the active provider's
// api_key is absent or still a placeholder value.
func (c *Config) Validate() error {
	opts := c.ActiveProviderOptions()
	if placeholderAPIKeys[strings.TrimSpace(opts.APIKey)] {
		provider := c.Provider
		if provider == "" {
			provider = "openai"
		}
		return workflow.NewError(workflow.ErrConfigInvalid,
			fmt.Sprintf("%s.api_key is missing or a placeholder; run 'pilot setup' and edit the config", provider), nil)
	}
	return nil
}

// MaxTurns returns chatbot.max_turns, falling back to the workflow
// package's default when unset or non-positive.
func (c *Config) MaxTurns() int {
	if c.Chatbot.MaxTurns > 0 {
		return c.Chatbot.MaxTurns
	}
	return workflow.DefaultMaxTurns
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	if path == "" {
		path = DefaultConfigPath()
	}
	_, err := os.Stat(path)
	return err == nil
}
