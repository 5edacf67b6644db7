package mcp

import (
	"encoding/json"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcpgo.CallToolResult {
	return &mcpgo.CallToolResult{
		Content: []mcpgo.Content{
			mcpgo.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult serialises v as the text content of a tool result.
func jsonResult(v any, isError bool) *mcpgo.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result: " + err.Error())
	}
	return &mcpgo.CallToolResult{
		Content: []mcpgo.Content{mcpgo.NewTextContent(string(out))},
		IsError: isError,
	}
}

// outcomeResult converts an executor Outcome into a tool result. Error
// objects are flagged with IsError.
func outcomeResult(o Outcome) *mcpgo.CallToolResult {
	return jsonResult(o.Value, o.Failed)
}
