package server

import (
	"net/http"

	"github.com/bobmcallan/agentcore-mcp/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	cfg := s.app.Config

	// MCP endpoint (JSON-RPC over streamable HTTP)
	mux.Handle(cfg.Server.MCPPath, s.app.MCPHandler)

	mux.HandleFunc("/ping", s.app.PingHandler.ServeHTTP)

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/tools", s.app.ToolsHandler.ServeHTTP)

	if s.app.Metrics != nil {
		mux.Handle(cfg.Metrics.Path, s.app.Metrics.Handler())
	}

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", handlers.NotFound)

	return mux
}
