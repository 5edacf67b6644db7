package handlers

import (
	"net/http"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/bobmcallan/agentcore-mcp/internal/config"
)

// VersionHandler handles version information requests.
type VersionHandler struct {
	logger *common.Logger
}

// NewVersionHandler creates a new version handler.
func NewVersionHandler(logger *common.Logger) *VersionHandler {
	return &VersionHandler{logger: logger}
}

// ServeHTTP handles GET /api/version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	info := config.GetVersionInfo()
	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    info.Version,
		"build":      info.Build,
		"git_commit": info.Commit,
	})
}
