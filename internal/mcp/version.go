package mcp

import (
	"context"

	"github.com/bobmcallan/agentcore-mcp/internal/config"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// versionInfo is the get_version payload.
type versionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
	Tools   int    `json:"tools"`
}

// VersionTool returns the mcp.Tool definition for the get_version tool.
func VersionTool() mcpgo.Tool {
	return mcpgo.NewTool("get_version",
		mcpgo.WithDescription("Get the MCP server name, version and number of registered tools. Use this to verify connectivity."),
	)
}

// VersionToolHandler returns a handler reporting the server identity and
// the current tool count of registry.
func VersionToolHandler(name string, registry *ToolRegistry) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		info := config.GetVersionInfo()
		return jsonResult(versionInfo{
			Name:    name,
			Version: info.Version,
			Build:   info.Build,
			Commit:  info.Commit,
			Tools:   registry.Len(),
		}, false), nil
	}
}

// RegisterVersionTool registers get_version as a builtin tool.
func RegisterVersionTool(registry *ToolRegistry, name string) error {
	return registry.RegisterFrom(SourceBuiltin, VersionTool(), VersionToolHandler(name, registry))
}
