package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// Tool loading modes.
const (
	ModeDirect  = "direct"
	ModeOpenAPI = "openapi"
	ModeBoth    = "both"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	MCP         MCPConfig            `toml:"mcp"`
	Tools       ToolsConfig          `toml:"tools"`
	Metrics     MetricsConfig        `toml:"metrics"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port      int    `toml:"port"`
	Host      string `toml:"host"`
	MCPPath   string `toml:"mcp_path"`
	Stateless bool   `toml:"stateless"`
}

// MCPConfig contains MCP protocol settings.
type MCPConfig struct {
	ServerName string `toml:"server_name"`
}

// ToolsConfig selects which tool families are registered.
type ToolsConfig struct {
	Mode    string        `toml:"mode"` // direct, openapi, both
	OpenAPI OpenAPIConfig `toml:"openapi"`
}

// OpenAPIConfig lists the specification documents turned into tools.
type OpenAPIConfig struct {
	TimeoutSeconds int          `toml:"timeout_seconds"`
	Specs          []SpecConfig `toml:"specs"`
}

// Timeout returns the per-call timeout for synthesized tools.
func (o OpenAPIConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// SpecConfig describes one specification document.
type SpecConfig struct {
	Path    string            `toml:"path"`
	BaseURL string            `toml:"base_url"` // overrides servers/host when set
	Headers map[string]string `toml:"headers"`  // sent on every outbound call
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Namespace   string `toml:"namespace"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IsProduction returns true when the environment is "prod" or "production".
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "prod" || env == "production"
}

// Address returns the host:port listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ToolsMode returns the normalised tool loading mode.
func (c *Config) ToolsMode() string {
	return strings.ToLower(strings.TrimSpace(c.Tools.Mode))
}

// Validate reports configuration problems. An empty result means the
// configuration is usable.
func (c *Config) Validate() []string {
	var problems []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range (1-65535)", c.Server.Port))
	}
	if !strings.HasPrefix(c.Server.MCPPath, "/") {
		problems = append(problems, fmt.Sprintf("server.mcp_path %q must start with /", c.Server.MCPPath))
	}
	mode := c.ToolsMode()
	switch mode {
	case ModeDirect, ModeOpenAPI, ModeBoth:
	default:
		problems = append(problems, fmt.Sprintf("tools.mode %q is not one of direct, openapi, both", c.Tools.Mode))
	}
	if (mode == ModeOpenAPI || mode == ModeBoth) && len(c.Tools.OpenAPI.Specs) == 0 {
		problems = append(problems, "tools.mode "+mode+" has no tools.openapi.specs configured")
	}
	for i, spec := range c.Tools.OpenAPI.Specs {
		if strings.TrimSpace(spec.Path) == "" {
			problems = append(problems, fmt.Sprintf("tools.openapi.specs[%d] has an empty path", i))
		}
	}
	if c.Tools.OpenAPI.TimeoutSeconds <= 0 {
		problems = append(problems, "tools.openapi.timeout_seconds must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, fmt.Sprintf("metrics.path %q must start with /", c.Metrics.Path))
	}
	return problems
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies ENVIRONMENT and MCP_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if host := os.Getenv("MCP_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("MCP_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if name := os.Getenv("MCP_SERVER_NAME"); name != "" {
		config.MCP.ServerName = name
	}
	if mode := os.Getenv("MCP_TOOLS_MODE"); mode != "" {
		config.Tools.Mode = mode
	}
	if specs := os.Getenv("MCP_OPENAPI_SPECS"); specs != "" {
		var list []SpecConfig
		for _, p := range strings.Split(specs, ",") {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, SpecConfig{Path: p})
			}
		}
		config.Tools.OpenAPI.Specs = list
	}
	if baseURL := os.Getenv("MCP_OPENAPI_BASE_URL"); baseURL != "" {
		for i := range config.Tools.OpenAPI.Specs {
			if config.Tools.OpenAPI.Specs[i].BaseURL == "" {
				config.Tools.OpenAPI.Specs[i].BaseURL = baseURL
			}
		}
	}
	if enabled := os.Getenv("MCP_OBSERVABILITY_ENABLED"); enabled != "" {
		config.Metrics.Enabled = strings.EqualFold(enabled, "true")
	}
	if service := os.Getenv("MCP_SERVICE_NAME"); service != "" {
		config.Metrics.ServiceName = service
	}
	if level := os.Getenv("MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
