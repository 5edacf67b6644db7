package tools

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	mcpx "github.com/bobmcallan/agentcore-mcp/internal/mcp"
)

// --- Helpers ---

func newTestServer(t *testing.T) (*server.MCPServer, *mcpx.ToolRegistry) {
	t.Helper()
	srv := mcpx.NewServer("test-server", "1.0.0")
	reg := mcpx.NewToolRegistry(srv, nil, common.NewSilentLogger())
	if _, err := Register(reg, common.NewSilentLogger()); err != nil {
		t.Fatalf("register direct tools: %v", err)
	}
	return srv, reg
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolResult mcp.CallToolResult
	if err := json.Unmarshal(resultJSON, &toolResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}
	return &toolResult
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	contentJSON, _ := json.Marshal(result.Content[0])
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(contentJSON, &tc)
	return tc.Text
}

func decodeError(t *testing.T, result *mcp.CallToolResult) ToolError {
	t.Helper()
	if !result.IsError {
		t.Fatalf("expected error result, got %s", resultText(t, result))
	}
	var te ToolError
	if err := json.Unmarshal([]byte(resultText(t, result)), &te); err != nil {
		t.Fatalf("error result is not a structured error: %v", err)
	}
	return te
}

// --- Registration ---

func TestRegister_AllTools(t *testing.T) {
	_, reg := newTestServer(t)

	want := []string{
		"add_numbers", "subtract_numbers", "multiply_numbers", "divide_numbers", "power",
		"calculate_average", "calculate_statistics",
		"process_text", "validate_data", "transform_json",
	}
	if reg.Len() != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), reg.Len())
	}
	for _, name := range want {
		entry, ok := reg.Lookup(name)
		if !ok {
			t.Errorf("tool %s not registered", name)
			continue
		}
		if entry.Source != mcpx.SourceDirect {
			t.Errorf("tool %s: expected source direct, got %s", name, entry.Source)
		}
		if entry.Tool.Description == "" {
			t.Errorf("tool %s has no description", name)
		}
	}
}

func TestRegister_DuplicateFails(t *testing.T) {
	_, reg := newTestServer(t)

	count, err := Register(reg, common.NewSilentLogger())
	if !errors.Is(err, mcpx.ErrDuplicateTool) {
		t.Errorf("expected ErrDuplicateTool, got %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 registered on second pass, got %d", count)
	}
}

// --- Calculator ---

func TestCalculator_BinaryOperations(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		tool string
		args map[string]interface{}
		want string
	}{
		{"add_numbers", map[string]interface{}{"a": 5, "b": 3}, "8"},
		{"subtract_numbers", map[string]interface{}{"a": 5, "b": 3}, "2"},
		{"multiply_numbers", map[string]interface{}{"a": 2.5, "b": 4}, "10"},
		{"divide_numbers", map[string]interface{}{"a": 7, "b": 2}, "3.5"},
		{"power", map[string]interface{}{"base": 2, "exponent": 10}, "1024"},
	}
	for _, tc := range cases {
		result := callTool(t, srv, tc.tool, tc.args)
		if result.IsError {
			t.Errorf("%s: unexpected error %s", tc.tool, resultText(t, result))
			continue
		}
		if got := resultText(t, result); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.tool, tc.want, got)
		}
	}
}

func TestCalculator_DivideByZero(t *testing.T) {
	srv, _ := newTestServer(t)

	te := decodeError(t, callTool(t, srv, "divide_numbers", map[string]interface{}{"a": 10, "b": 0}))
	if te.Code != CodeDivisionByZero {
		t.Errorf("expected code %s, got %s", CodeDivisionByZero, te.Code)
	}
	if te.Message != "Cannot divide by zero" {
		t.Errorf("unexpected message %q", te.Message)
	}
	if te.Details["numerator"] != float64(10) || te.Details["denominator"] != float64(0) {
		t.Errorf("unexpected details %v", te.Details)
	}
}

func TestCalculator_MissingOperand(t *testing.T) {
	srv, _ := newTestServer(t)

	te := decodeError(t, callTool(t, srv, "add_numbers", map[string]interface{}{"a": 1}))
	if te.Code != CodeValidation {
		t.Errorf("expected validation error, got %s", te.Code)
	}
	if !strings.HasPrefix(te.Message, "b ") {
		t.Errorf("expected message naming b, got %q", te.Message)
	}
}

func TestCalculator_NonFiniteResult(t *testing.T) {
	srv, _ := newTestServer(t)

	te := decodeError(t, callTool(t, srv, "power", map[string]interface{}{"base": 0, "exponent": -1}))
	if te.Code != CodeMath {
		t.Errorf("expected math error, got %s", te.Code)
	}
}

func TestCalculator_Average(t *testing.T) {
	srv, _ := newTestServer(t)

	result := callTool(t, srv, "calculate_average", map[string]interface{}{"numbers": []float64{1, 2, 3, 4}})
	if got := resultText(t, result); got != "2.5" {
		t.Errorf("expected 2.5, got %s", got)
	}

	te := decodeError(t, callTool(t, srv, "calculate_average", map[string]interface{}{"numbers": []float64{}}))
	if te.Code != CodeEmptyList {
		t.Errorf("expected empty_list, got %s", te.Code)
	}

	te = decodeError(t, callTool(t, srv, "calculate_average", map[string]interface{}{"numbers": []interface{}{1, "two"}}))
	if te.Code != CodeValidation {
		t.Errorf("expected validation error for non-number element, got %s", te.Code)
	}
}

func TestCalculator_Statistics(t *testing.T) {
	srv, _ := newTestServer(t)

	result := callTool(t, srv, "calculate_statistics", map[string]interface{}{"numbers": []float64{3, 1, 4, 1, 5, 9}})
	if result.IsError {
		t.Fatalf("unexpected error %s", resultText(t, result))
	}
	var stats Stats
	if err := json.Unmarshal([]byte(resultText(t, result)), &stats); err != nil {
		t.Fatalf("failed to unmarshal stats: %v", err)
	}
	if stats.Count != 6 || stats.Sum != 23 || stats.Min != 1 || stats.Max != 9 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.Median != 3.5 {
		t.Errorf("expected even-length median 3.5, got %v", stats.Median)
	}

	te := decodeError(t, callTool(t, srv, "calculate_statistics", map[string]interface{}{"numbers": []float64{}}))
	if te.Code != CodeEmptyList || te.Message != "Cannot calculate statistics of empty list" {
		t.Errorf("unexpected error %+v", te)
	}
}

func TestStatistics_OddMedian(t *testing.T) {
	stats, err := Statistics([]float64{5, 1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Median != 3 {
		t.Errorf("expected median 3, got %v", stats.Median)
	}
	if stats.Average != 3 {
		t.Errorf("expected average 3, got %v", stats.Average)
	}
}

func TestStatistics_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 2, 1}
	if _, err := Statistics(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in[0] != 3 || in[2] != 1 {
		t.Errorf("input was modified: %v", in)
	}
}
