package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestClient starts an in-memory MCP server exposing the named tools
// and returns a connected Client.
func setupTestClient(t *testing.T, serverName string, toolNames ...string) *Client {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: "1.0.0"},
		nil,
	)

	for _, name := range toolNames {
		server.AddTool(
			&mcp.Tool{
				Name:        name,
				Description: "Test tool: " + name,
				InputSchema: map[string]any{"type": "object"},
			},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: "ok"}},
				}, nil
			},
		)
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()
	go func() {
		_ = server.Run(ctx, serverTransport)
	}()

	client := NewClient(ServerConfig{Name: serverName})
	if err := client.ConnectWithTransport(ctx, clientTransport); err != nil {
		t.Fatalf("ConnectWithTransport: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestDiscoverTools(t *testing.T) {
	client := setupTestClient(t, "test-server", "get_weather", "get_time")

	tools, err := client.DiscoverTools(context.Background())
	if err != nil {
		t.Fatalf("DiscoverTools: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}

	names := map[string]bool{}
	for _, td := range tools {
		names[td.Name] = true
		if td.Description == "" {
			t.Errorf("tool %q has empty description", td.Name)
		}
		if len(td.Parameters) == 0 {
			t.Errorf("tool %q has no parameter schema", td.Name)
		}
	}
	if !names["get_weather"] || !names["get_time"] {
		t.Errorf("tool names = %v", names)
	}
}

func TestDiscoverTools_Cached(t *testing.T) {
	client := setupTestClient(t, "test-server", "get_weather")

	first, err := client.DiscoverTools(context.Background())
	if err != nil {
		t.Fatalf("DiscoverTools: %v", err)
	}
	second, err := client.DiscoverTools(context.Background())
	if err != nil {
		t.Fatalf("DiscoverTools (cached): %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("cached discovery returned %d tools, want %d", len(second), len(first))
	}
}

func TestDiscoverTools_NotConnected(t *testing.T) {
	client := NewClient(ServerConfig{Name: "offline"})
	if _, err := client.DiscoverTools(context.Background()); err == nil {
		t.Error("expected error for unconnected client")
	}
}

func TestSource_MergesServers(t *testing.T) {
	clientA := setupTestClient(t, "server-a", "tool_a")
	clientB := setupTestClient(t, "server-b", "tool_b")

	src := &Source{clients: []*Client{clientA, clientB}}

	tools, err := src.Tools(context.Background())
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 merged tools, got %d", len(tools))
	}
}

func TestSource_DuplicateNamesKeepFirst(t *testing.T) {
	clientA := setupTestClient(t, "server-a", "shared_tool")
	clientB := setupTestClient(t, "server-b", "shared_tool", "unique_tool")

	src := &Source{clients: []*Client{clientA, clientB}}

	tools, err := src.Tools(context.Background())
	if err != nil {
		t.Fatalf("Tools: %v", err)
	}

	count := 0
	for _, td := range tools {
		if td.Name == "shared_tool" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared_tool appears %d times, want 1", count)
	}
	if len(tools) != 2 {
		t.Errorf("merged tools = %d, want 2 (duplicate dropped)", len(tools))
	}
}

func TestConvertTool(t *testing.T) {
	tool := &mcp.Tool{
		Name:        "get_weather",
		Description: "Weather lookup",
		InputSchema: map[string]any{"type": "object"},
	}

	td, err := convertTool(tool)
	if err != nil {
		t.Fatalf("convertTool: %v", err)
	}
	if td.Name != "get_weather" || td.Description != "Weather lookup" {
		t.Errorf("tool = %+v", td)
	}
	if string(td.Parameters) != `{"type":"object"}` {
		t.Errorf("Parameters = %s", td.Parameters)
	}
}
