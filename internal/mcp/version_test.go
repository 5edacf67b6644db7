package mcp

import (
	"encoding/json"
	"errors"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

func TestVersionToolHandler(t *testing.T) {
	srv, reg := newTestRegistry()
	reg.Register(mcpgo.NewTool("one"), echoHandler("1"))
	if err := RegisterVersionTool(reg, "test-server"); err != nil {
		t.Fatalf("register version tool: %v", err)
	}

	result := callTool(t, srv, "get_version", nil)
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var info versionInfo
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &info); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if info.Name != "test-server" {
		t.Errorf("expected name test-server, got %s", info.Name)
	}
	if info.Version != "dev" {
		t.Errorf("expected version dev, got %s", info.Version)
	}
	if info.Tools != 2 {
		t.Errorf("expected 2 tools (one + get_version), got %d", info.Tools)
	}

	entry, ok := reg.Lookup("get_version")
	if !ok || entry.Source != SourceBuiltin {
		t.Errorf("expected get_version registered as builtin, got %+v", entry)
	}
}

func TestRegisterVersionTool_Duplicate(t *testing.T) {
	_, reg := newTestRegistry()
	if err := RegisterVersionTool(reg, "a"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := RegisterVersionTool(reg, "a"); !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("expected ErrDuplicateTool, got %v", err)
	}
}
