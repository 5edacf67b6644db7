package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/bobmcallan/agentcore-mcp/internal/metrics"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool sources.
const (
	SourceDirect  = "direct"
	SourceOpenAPI = "openapi"
	SourceBuiltin = "builtin"
)

var (
	// ErrDuplicateTool is returned when a tool name is already registered.
	// The first registration is kept.
	ErrDuplicateTool = errors.New("duplicate tool name")
	// ErrToolNotFound is returned by Call for an unknown tool name.
	ErrToolNotFound = errors.New("tool not found")
)

// Registrar accepts tool registrations. The tool carries its name and
// documentation; the handler is invoked with keyword arguments.
type Registrar interface {
	Register(tool mcpgo.Tool, handler server.ToolHandlerFunc) error
}

// RegisteredTool is one entry of the registry.
type RegisteredTool struct {
	Tool    mcpgo.Tool
	Source  string
	handler server.ToolHandlerFunc
}

// ToolRegistry is the name-keyed tool table behind the MCP server.
type ToolRegistry struct {
	server  *server.MCPServer
	metrics *metrics.Collector
	logger  *common.Logger

	mu    sync.RWMutex
	tools map[string]*RegisteredTool
	order []string
}

// NewToolRegistry creates a registry adding tools to srv. srv may be nil for
// in-process use; collector may be nil to disable metrics.
func NewToolRegistry(srv *server.MCPServer, collector *metrics.Collector, logger *common.Logger) *ToolRegistry {
	return &ToolRegistry{
		server:  srv,
		metrics: collector,
		logger:  logger,
		tools:   make(map[string]*RegisteredTool),
	}
}

// Register registers a direct tool.
func (r *ToolRegistry) Register(tool mcpgo.Tool, handler server.ToolHandlerFunc) error {
	return r.RegisterFrom(SourceDirect, tool, handler)
}

// RegisterFrom registers a tool tagged with source.
func (r *ToolRegistry) RegisterFrom(source string, tool mcpgo.Tool, handler server.ToolHandlerFunc) error {
	if tool.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if handler == nil {
		return fmt.Errorf("tool %q has no handler", tool.Name)
	}

	r.mu.Lock()
	if _, exists := r.tools[tool.Name]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}
	entry := &RegisteredTool{
		Tool:    tool,
		Source:  source,
		handler: r.instrument(tool.Name, handler),
	}
	r.tools[tool.Name] = entry
	r.order = append(r.order, tool.Name)
	r.mu.Unlock()

	if r.server != nil {
		r.server.AddTool(tool, entry.handler)
	}
	r.metrics.IncToolsRegistered(source)
	return nil
}

// ForSource returns a Registrar that tags registrations with source.
func (r *ToolRegistry) ForSource(source string) Registrar {
	return sourceRegistrar{registry: r, source: source}
}

type sourceRegistrar struct {
	registry *ToolRegistry
	source   string
}

func (s sourceRegistrar) Register(tool mcpgo.Tool, handler server.ToolHandlerFunc) error {
	return s.registry.RegisterFrom(s.source, tool, handler)
}

// Tools returns the registered tools in registration order.
func (r *ToolRegistry) Tools() []RegisteredTool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RegisteredTool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Lookup returns the tool registered under name.
func (r *ToolRegistry) Lookup(name string) (RegisteredTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tools[name]
	if !ok {
		return RegisteredTool{}, false
	}
	return *entry, true
}

// Call invokes a registered tool in-process with the given arguments.
func (r *ToolRegistry) Call(ctx context.Context, name string, args map[string]any) (*mcpgo.CallToolResult, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return entry.handler(ctx, req)
}

// instrument wraps a handler with invocation logging and metrics.
func (r *ToolRegistry) instrument(name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		start := time.Now()
		result, err := next(ctx, req)
		duration := time.Since(start)

		failed := err != nil || (result != nil && result.IsError)
		r.metrics.RecordToolInvocation(name, failed, duration)

		if r.logger != nil {
			requestID, _ := RequestIDFromContext(ctx)
			evt := r.logger.Debug()
			if failed {
				evt = r.logger.Warn()
			}
			if err != nil {
				evt = evt.Err(err)
			}
			evt.Str("tool", name).
				Str("request_id", requestID).
				Bool("failed", failed).
				Int64("duration_ms", duration.Milliseconds()).
				Msg("tool invocation")
		}
		return result, err
	}
}
