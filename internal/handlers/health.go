package handlers

import (
	"net/http"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/bobmcallan/agentcore-mcp/internal/config"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// PingHandler answers liveness probes with the server identity.
type PingHandler struct {
	serverName string
}

// NewPingHandler creates a ping handler reporting serverName.
func NewPingHandler(serverName string) *PingHandler {
	return &PingHandler{serverName: serverName}
}

// ServeHTTP handles GET /ping.
func (h *PingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"server":  h.serverName,
		"version": config.GetVersion(),
	})
}
