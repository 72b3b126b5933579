package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jyje/pilot-agent/internal/catalog"
	"github.com/jyje/pilot-agent/internal/config"
	"github.com/jyje/pilot-agent/internal/debuglog"
	"github.com/jyje/pilot-agent/internal/llm"
	"github.com/jyje/pilot-agent/internal/mcp"
	"github.com/jyje/pilot-agent/internal/tools"
	"github.com/jyje/pilot-agent/internal/workflow"
)

// appSession bundles everything a command needs to drive a turn: the loaded
// config, the constructed provider, the merged tool catalog, the remote
// manager (for info/reload), a structured logger, and a ready-to-run engine.
type appSession struct {
	Config   *config.Config
	Provider llm.Provider
	Registry *tools.Registry
	Manager  *mcp.Manager
	Catalog  *catalog.Catalog
	Engine   *workflow.Engine
	Log      *debuglog.Logger
}

// Close releases the session's remote connections and log writer.
func (s *appSession) Close() {
	s.Manager.Close()
	s.Log.Close()
}

// newLogger builds the structured logger from the logging config block.
// Entries go to the rotating file when file logging is enabled, to stderr
// under --verbose, and are discarded otherwise.
func newLogger(cfg *config.Config) *debuglog.Logger {
	opts := debuglog.Options{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		FileEnabled:  cfg.Logging.FileEnabled,
		FilePath:     cfg.Logging.FilePath,
		RotationMB:   cfg.Logging.RotationMB,
		RetentionDay: cfg.Logging.RetentionDay,
		Compression:  cfg.Logging.Compression,
	}
	if !opts.FileEnabled && (flagVerbose || cfg.Development.Verbose) {
		opts.Writer = os.Stderr
	}
	return debuglog.New(opts)
}

// bootstrap loads configuration, validates it, constructs the provider and
// local tool registry, configures and initializes the remote tool-provider
// client, and builds the merged catalog + engine. connectRemotes controls
// whether the remote-connection side effect runs (false skips it, for
// config-only paths).
func bootstrap(ctx context.Context, connectRemotes bool) (*appSession, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := cfg.ActiveProviderOptions()
	provider, err := llm.NewProvider(llm.ProviderConfig{
		Name:        cfg.Provider,
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Streaming:   opts.Streaming,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing provider: %w", err)
	}

	registry := tools.NewRegistry()
	for _, t := range []llm.Tool{
		tools.NewCurrentTimeTool(nil),
		tools.NewCalculateTool(),
		tools.NewListFilesTool(""),
	} {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("registering built-in tool: %w", err)
		}
	}

	logger := newLogger(cfg)

	manager := mcp.NewManager()
	if warnings := manager.Configure(cfg.MCPServers); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Println("warning:", w)
			logger.Warn("server_config_dropped", map[string]any{"reason": w})
		}
	}
	if connectRemotes && len(cfg.MCPServers) > 0 {
		manager.Initialize(ctx)
		for _, s := range manager.States() {
			if !s.Enabled {
				continue
			}
			if s.Connected {
				logger.Event("server_connected", map[string]any{"server": s.Name, "url": s.URL})
			} else {
				logger.Warn("server_connect_failed", map[string]any{"server": s.Name, "url": s.URL, "error": s.LastError})
			}
		}
	}

	cat := catalog.Build(registry, manager)
	for _, w := range cat.Warnings() {
		fmt.Println("warning:", w)
		logger.Warn("tool_name_collision", map[string]any{"detail": w})
	}
	engine := workflow.NewEngine(provider, cat, cfg.Chatbot.SystemPrompt, cfg.MaxTurns(), cfg.Development.Debug)

	return &appSession{
		Config:   cfg,
		Provider: provider,
		Registry: registry,
		Manager:  manager,
		Catalog:  cat,
		Engine:   engine,
		Log:      logger,
	}, nil
}
