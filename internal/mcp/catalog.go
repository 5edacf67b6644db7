package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/agentcore-mcp/internal/openapi"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Binding ties a synthesized tool to the HTTP operation it proxies.
// Bindings are built once at synthesis and never modified.
type Binding struct {
	Name          string
	Documentation string
	BaseURL       string
	Operation     openapi.Operation
	Headers       map[string]string // static outbound headers
}

// NewBinding builds the binding for one operation.
func NewBinding(op openapi.Operation, baseURL string, headers map[string]string) Binding {
	var static map[string]string
	if len(headers) > 0 {
		static = make(map[string]string, len(headers))
		for k, v := range headers {
			static[k] = v
		}
	}
	return Binding{
		Name:          op.Name,
		Documentation: BuildDocumentation(op),
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		Operation:     op,
		Headers:       static,
	}
}

// BuildDocumentation renders the tool documentation: the operation
// description, one "name: description-or-type" line per parameter, and the
// return contract.
func BuildDocumentation(op openapi.Operation) string {
	var b strings.Builder
	b.WriteString(op.Description)
	b.WriteString("\n\nParameters:\n")

	listed := 0
	for _, p := range op.Parameters {
		if p.Name == "" {
			continue
		}
		detail := p.Description
		if detail == "" {
			detail = p.Type
		}
		fmt.Fprintf(&b, "  %s: %s\n", p.Name, detail)
		listed++
	}
	if listed == 0 {
		b.WriteString("  No parameters\n")
	}

	b.WriteString("\nReturns:\n  API response as a JSON object")
	return b.String()
}

// BuildMCPTool converts a Binding into an mcp.Tool. Each named parameter
// becomes one input property; when a name repeats, the first occurrence
// defines the property.
func BuildMCPTool(b Binding) mcpgo.Tool {
	opts := []mcpgo.ToolOption{mcpgo.WithDescription(b.Documentation)}
	seen := make(map[string]bool, len(b.Operation.Parameters))
	for _, p := range b.Operation.Parameters {
		if p.Name == "" || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		opts = append(opts, buildParamOption(p))
	}
	return mcpgo.NewTool(b.Name, opts...)
}

// buildParamOption maps a Parameter to the matching mcp-go tool option.
func buildParamOption(p openapi.Parameter) mcpgo.ToolOption {
	var opts []mcpgo.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcpgo.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcpgo.Required())
	}

	switch p.Type {
	case "integer", "number":
		return mcpgo.WithNumber(p.Name, opts...)
	case "boolean":
		return mcpgo.WithBoolean(p.Name, opts...)
	case "array":
		return mcpgo.WithArray(p.Name, opts...)
	case "object":
		return mcpgo.WithObject(p.Name, opts...)
	default:
		return mcpgo.WithString(p.Name, opts...)
	}
}

// GenericToolHandler creates the handler shared by every synthesized tool:
// it invokes the binding's operation and returns the outcome as JSON text.
func GenericToolHandler(exec *Executor, b Binding) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		outcome := exec.Invoke(ctx, b, r.GetArguments())
		return outcomeResult(outcome), nil
	}
}
