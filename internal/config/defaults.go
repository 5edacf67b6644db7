package config

import "github.com/bobmcallan/agentcore-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:      8000,
			Host:      "0.0.0.0",
			MCPPath:   "/mcp",
			Stateless: true,
		},
		MCP: MCPConfig{
			ServerName: "mcp-server",
		},
		Tools: ToolsConfig{
			Mode: ModeDirect,
			OpenAPI: OpenAPIConfig{
				TimeoutSeconds: 30,
			},
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Namespace:   "mcp_server",
			Path:        "/metrics",
			ServiceName: "mcp-server",
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
