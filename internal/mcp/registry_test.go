package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/agentcore-mcp/internal/metrics"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func echoHandler(text string) func(context.Context, mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return func(ctx context.Context, r mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		return &mcpgo.CallToolResult{Content: []mcpgo.Content{mcpgo.NewTextContent(text)}}, nil
	}
}

func TestRegistry_RegisterAndList(t *testing.T) {
	srv, reg := newTestRegistry()

	if err := reg.Register(mcpgo.NewTool("alpha"), echoHandler("a")); err != nil {
		t.Fatalf("register alpha: %v", err)
	}
	if err := reg.ForSource(SourceOpenAPI).Register(mcpgo.NewTool("beta"), echoHandler("b")); err != nil {
		t.Fatalf("register beta: %v", err)
	}

	tools := reg.Tools()
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if tools[0].Tool.Name != "alpha" || tools[1].Tool.Name != "beta" {
		t.Errorf("expected registration order alpha, beta; got %s, %s", tools[0].Tool.Name, tools[1].Tool.Name)
	}
	if tools[0].Source != SourceDirect {
		t.Errorf("expected alpha source direct, got %s", tools[0].Source)
	}
	if tools[1].Source != SourceOpenAPI {
		t.Errorf("expected beta source openapi, got %s", tools[1].Source)
	}

	names := toolNames(listTools(t, srv))
	if !names["alpha"] || !names["beta"] {
		t.Errorf("expected both tools on the MCP server, got %v", names)
	}
}

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	srv, reg := newTestRegistry()

	if err := reg.Register(mcpgo.NewTool("dup"), echoHandler("first")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := reg.Register(mcpgo.NewTool("dup"), echoHandler("second"))
	if !errors.Is(err, ErrDuplicateTool) {
		t.Fatalf("expected ErrDuplicateTool, got %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 tool, got %d", reg.Len())
	}

	result := callTool(t, srv, "dup", nil)
	if text := extractText(t, result.Content[0]); text != "first" {
		t.Errorf("expected first registration to win, got %q", text)
	}
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	_, reg := newTestRegistry()
	if err := reg.Register(mcpgo.NewTool(""), echoHandler("x")); err == nil {
		t.Error("expected error for empty tool name")
	}
	if err := reg.Register(mcpgo.NewTool("nohandler"), nil); err == nil {
		t.Error("expected error for nil handler")
	}
	if reg.Len() != 0 {
		t.Errorf("expected no tools, got %d", reg.Len())
	}
}

func TestRegistry_LookupAndCall(t *testing.T) {
	reg := NewToolRegistry(nil, nil, testLogger())
	if err := reg.Register(mcpgo.NewTool("echo"), func(ctx context.Context, r mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		return &mcpgo.CallToolResult{Content: []mcpgo.Content{mcpgo.NewTextContent(r.GetString("msg", ""))}}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, ok := reg.Lookup("echo"); !ok {
		t.Fatal("expected lookup to find echo")
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Fatal("expected lookup miss")
	}

	result, err := reg.Call(t.Context(), "echo", map[string]any{"msg": "hi"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if text := extractText(t, result.Content[0]); text != "hi" {
		t.Errorf("expected hi, got %q", text)
	}

	_, err = reg.Call(t.Context(), "missing", nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestRegistry_Metrics(t *testing.T) {
	collector := metrics.NewCollector("test", "", testLogger())
	reg := NewToolRegistry(nil, collector, testLogger())

	reg.Register(mcpgo.NewTool("ok"), echoHandler("fine"))
	reg.Register(mcpgo.NewTool("bad"), func(ctx context.Context, r mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		time.Sleep(time.Millisecond)
		return errorResult("boom"), nil
	})

	reg.Call(t.Context(), "ok", nil)
	reg.Call(t.Context(), "ok", nil)
	reg.Call(t.Context(), "bad", nil)

	expected := `
# HELP test_tools_registered Number of registered tools by source
# TYPE test_tools_registered gauge
test_tools_registered{source="direct"} 2
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "test_tools_registered"); err != nil {
		t.Errorf("unexpected tools_registered: %v", err)
	}

	expected = `
# HELP test_tool_invocations_total Total number of tool invocations
# TYPE test_tool_invocations_total counter
test_tool_invocations_total{outcome="error",tool="bad"} 1
test_tool_invocations_total{outcome="success",tool="ok"} 2
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "test_tool_invocations_total"); err != nil {
		t.Errorf("unexpected tool_invocations_total: %v", err)
	}
}
