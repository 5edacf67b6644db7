package app

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/bobmcallan/agentcore-mcp/internal/config"
	"github.com/bobmcallan/agentcore-mcp/internal/handlers"
	"github.com/bobmcallan/agentcore-mcp/internal/mcp"
	"github.com/bobmcallan/agentcore-mcp/internal/metrics"
	"github.com/bobmcallan/agentcore-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Metrics *metrics.Collector

	// MCP
	MCPServer *server.MCPServer
	Registry  *mcp.ToolRegistry
	Adapter   *mcp.Adapter
	Executor  *mcp.Executor

	// HTTP handlers
	PingHandler    *handlers.PingHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies and loads tools
// according to the configured mode.
func New(ctx context.Context, cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "" && env != "development" && env != "dev" && !cfg.IsProduction() {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value")
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.NewCollector(cfg.Metrics.Namespace, cfg.Metrics.ServiceName, logger)
	}

	a.MCPServer = mcp.NewServer(cfg.MCP.ServerName, config.GetVersion())
	a.Registry = mcp.NewToolRegistry(a.MCPServer, a.Metrics, logger)

	if err := mcp.RegisterVersionTool(a.Registry, cfg.MCP.ServerName); err != nil {
		return nil, err
	}
	if err := a.loadTools(ctx); err != nil {
		return nil, err
	}

	a.initHandlers()

	logger.Info().
		Str("server_name", cfg.MCP.ServerName).
		Str("mode", cfg.ToolsMode()).
		Int("tools", a.Registry.Len()).
		Msg("application initialization complete")

	return a, nil
}

// loadTools registers direct and synthesized tools per tools.mode. An
// unknown mode falls back to direct tools.
func (a *App) loadTools(ctx context.Context) error {
	mode := a.Config.ToolsMode()
	switch mode {
	case config.ModeDirect, config.ModeOpenAPI, config.ModeBoth:
	default:
		a.Logger.Error().Str("mode", a.Config.Tools.Mode).Msg("unknown tools mode, falling back to direct")
		mode = config.ModeDirect
	}

	if mode == config.ModeDirect || mode == config.ModeBoth {
		if _, err := tools.Register(a.Registry.ForSource(mcp.SourceDirect), a.Logger); err != nil {
			return err
		}
	}

	if mode == config.ModeOpenAPI || mode == config.ModeBoth {
		a.loadOpenAPITools(ctx)
	}
	return nil
}

// loadOpenAPITools synthesizes tools from each configured document. Failed
// documents contribute zero tools.
func (a *App) loadOpenAPITools(ctx context.Context) {
	oc := a.Config.Tools.OpenAPI
	a.Executor = mcp.NewExecutor(oc.Timeout(), a.Logger)
	a.Adapter = mcp.NewAdapter(a.Registry.ForSource(mcp.SourceOpenAPI), a.Executor, a.Logger)

	total := 0
	for _, spec := range oc.Specs {
		total += a.Adapter.RegisterSpec(ctx, mcp.SpecSource{
			Path:    spec.Path,
			BaseURL: spec.BaseURL,
			Headers: spec.Headers,
		})
	}

	if total == 0 {
		a.Logger.Warn().Int("specs", len(oc.Specs)).Msg("no OpenAPI tools registered")
	}
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PingHandler = handlers.NewPingHandler(a.Config.MCP.ServerName)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	// A nil *Adapter must not become a non-nil BindingLister.
	var bindings handlers.BindingLister
	if a.Adapter != nil {
		bindings = a.Adapter
	}
	a.ToolsHandler = handlers.NewToolsHandler(a.Logger, a.Registry, bindings)

	a.MCPHandler = mcp.NewHandler(a.MCPServer, a.Config.Server.Stateless, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close releases the executor's idle upstream connections.
func (a *App) Close() error {
	if a.Executor != nil {
		a.Executor.Close()
	}
	return nil
}
