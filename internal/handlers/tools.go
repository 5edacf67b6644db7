package handlers

import (
	"net/http"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/bobmcallan/agentcore-mcp/internal/mcp"
)

// ToolLister exposes the registered tools.
type ToolLister interface {
	Tools() []mcp.RegisteredTool
}

// BindingLister exposes the HTTP bindings of synthesized tools.
type BindingLister interface {
	Bindings() []mcp.Binding
}

// ToolInfo is one entry of the tool catalog.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
}

// ToolsHandler serves the catalog of registered tools.
type ToolsHandler struct {
	logger   *common.Logger
	tools    ToolLister
	bindings BindingLister
}

// NewToolsHandler creates a tools handler. bindings may be nil when no
// tools are synthesized.
func NewToolsHandler(logger *common.Logger, tools ToolLister, bindings BindingLister) *ToolsHandler {
	return &ToolsHandler{logger: logger, tools: tools, bindings: bindings}
}

// Catalog returns the registered tools in registration order, with the
// method and path of synthesized tools filled in.
func (h *ToolsHandler) Catalog() []ToolInfo {
	byName := map[string]mcp.Binding{}
	if h.bindings != nil {
		for _, b := range h.bindings.Bindings() {
			byName[b.Name] = b
		}
	}

	registered := h.tools.Tools()
	out := make([]ToolInfo, 0, len(registered))
	for _, t := range registered {
		info := ToolInfo{
			Name:        t.Tool.Name,
			Description: t.Tool.Description,
			Source:      t.Source,
		}
		if b, ok := byName[t.Tool.Name]; ok && t.Source == mcp.SourceOpenAPI {
			info.Method = b.Operation.Method
			info.Path = b.Operation.Path
			info.BaseURL = b.BaseURL
		}
		out = append(out, info)
	}
	return out
}

// ServeHTTP handles GET /api/tools.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	catalog := h.Catalog()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(catalog),
		"tools": catalog,
	})
}
