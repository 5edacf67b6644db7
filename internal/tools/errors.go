package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Error codes returned in structured tool errors.
const (
	CodeValidation     = "validation_error"
	CodeDivisionByZero = "division_by_zero"
	CodeEmptyList      = "empty_list"
	CodeMath           = "math_error"
	CodeInternal       = "internal_error"
)

// ToolError is a failure reported back to the caller as a structured
// error object rather than a protocol error.
type ToolError struct {
	Message string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newToolError(code, message string, details map[string]any) *ToolError {
	return &ToolError{Message: message, Code: code, Details: details}
}

func validationError(format string, args ...any) *ToolError {
	return newToolError(CodeValidation, fmt.Sprintf(format, args...), nil)
}

// --- Results ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return failureResult(newToolError(CodeInternal, "failed to marshal result: "+err.Error(), nil))
	}
	return textResult(string(out))
}

// failureResult renders err as an error result. Errors that are not a
// ToolError are reported with the internal_error code.
func failureResult(err error) *mcp.CallToolResult {
	var te *ToolError
	if !errors.As(err, &te) {
		te = newToolError(CodeInternal, "An unexpected error occurred", map[string]any{"error": err.Error()})
	}
	out, mErr := json.Marshal(te)
	if mErr != nil {
		out = []byte(fmt.Sprintf(`{"error":%q,"code":%q}`, te.Message, te.Code))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(out)),
		},
		IsError: true,
	}
}
