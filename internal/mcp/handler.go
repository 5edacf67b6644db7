package mcp

import (
	"net/http"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates the MCP protocol server tools are registered on.
func NewServer(name, version string) *server.MCPServer {
	return server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *server.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates the MCP endpoint handler for mcpSrv.
func NewHandler(mcpSrv *server.MCPServer, stateless bool, logger *common.Logger) *Handler {
	streamable := server.NewStreamableHTTPServer(mcpSrv,
		server.WithStateLess(stateless),
	)

	logger.Debug().Bool("stateless", stateless).Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP attaches a request id to the context used by tool invocations
// and delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := RequestIDFromContext(r.Context()); !ok {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = r.Header.Get("X-Correlation-ID")
		}
		if id == "" {
			id = uuid.New().String()
		}
		r = r.WithContext(WithRequestID(r.Context(), id))
	}
	h.streamable.ServeHTTP(w, r)
}
