package anthropic

import (
	"testing"

	"github.com/einklang-dev/einklang/pkg/api"
)

func TestTranslateRequest_SystemOutOfBand(t *testing.T) {
	req := &api.GenerateRequest{
		Model:  "claude-3",
		System: "Be terse.",
		Messages: []api.Message{
			{Role: api.RoleUser, Content: "hi"},
		},
	}

	mr := translateRequest(req)

	if mr.System != "Be terse." {
		t.Errorf("System = %q", mr.System)
	}
	if len(mr.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mr.Messages))
	}
	if mr.Messages[0].Role != "user" {
		t.Errorf("message role = %q", mr.Messages[0].Role)
	}
}

func TestTranslateRequest_LeadingSystemMessageMapped(t *testing.T) {
	req := &api.GenerateRequest{
		Model: "claude-3",
		Messages: []api.Message{
			{Role: api.RoleSystem, Content: "You are a pirate."},
			{Role: api.RoleUser, Content: "hi"},
		},
	}

	mr := translateRequest(req)
	if mr.System != "You are a pirate." {
		t.Errorf("System = %q, want system message content", mr.System)
	}
	if len(mr.Messages) != 1 {
		t.Errorf("system message must not appear in the turn list, got %d turns", len(mr.Messages))
	}
}

func TestTranslateRequest_ExplicitSystemWins(t *testing.T) {
	req := &api.GenerateRequest{
		Model:  "claude-3",
		System: "explicit",
		Messages: []api.Message{
			{Role: api.RoleSystem, Content: "inline"},
			{Role: api.RoleUser, Content: "hi"},
		},
	}

	mr := translateRequest(req)
	if mr.System != "explicit" {
		t.Errorf("System = %q, want %q", mr.System, "explicit")
	}
}

func TestTranslateRequest_MaxTokensAlwaysSet(t *testing.T) {
	req := &api.GenerateRequest{
		Model:    "claude-3",
		Messages: []api.Message{{Role: api.RoleUser, Content: "hi"}},
	}

	mr := translateRequest(req)
	if mr.MaxTokens != api.DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want default %d (the field is required on the wire)", mr.MaxTokens, api.DefaultMaxTokens)
	}
}

func TestTranslateRequest_ToolResultBecomesUserTurn(t *testing.T) {
	req := &api.GenerateRequest{
		Model: "claude-3",
		Messages: []api.Message{
			{Role: api.RoleUser, Content: "weather?"},
			{Role: api.RoleAssistant, ToolCalls: []api.ToolCall{
				{ID: "toolu_1", Name: "get_weather", Arguments: []byte(`{"city":"Berlin"}`)},
			}},
			{Role: api.RoleTool, Content: "sunny", ToolCallID: "toolu_1"},
		},
	}

	mr := translateRequest(req)
	if len(mr.Messages) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(mr.Messages))
	}

	assistant := mr.Messages[1]
	if assistant.Role != "assistant" || len(assistant.Content) != 1 {
		t.Fatalf("assistant turn = %+v", assistant)
	}
	if assistant.Content[0].Type != "tool_use" || assistant.Content[0].Name != "get_weather" {
		t.Errorf("assistant block = %+v", assistant.Content[0])
	}

	result := mr.Messages[2]
	if result.Role != "user" {
		t.Errorf("tool result turn role = %q, want user", result.Role)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "tool_result" {
		t.Fatalf("tool result turn = %+v", result)
	}
	if result.Content[0].ToolUseID != "toolu_1" || result.Content[0].Content != "sunny" {
		t.Errorf("tool result block = %+v", result.Content[0])
	}
}

func TestTranslateRequest_ToolChoice(t *testing.T) {
	base := api.GenerateRequest{
		Model:    "claude-3",
		Messages: []api.Message{{Role: api.RoleUser, Content: "hi"}},
		Tools:    []api.Tool{{Name: "get_weather"}},
	}

	tests := []struct {
		name     string
		choice   *api.ToolChoice
		wantType string
		wantName string
	}{
		{"auto", &api.ToolChoice{Mode: "auto"}, "auto", ""},
		{"none", &api.ToolChoice{Mode: "none"}, "none", ""},
		{"required maps to any", &api.ToolChoice{Mode: "required"}, "any", ""},
		{"forced function", &api.ToolChoice{Function: &api.ToolFunctionChoice{Name: "get_weather"}}, "tool", "get_weather"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.ToolChoice = tt.choice
			mr := translateRequest(&req)
			if mr.ToolChoice == nil {
				t.Fatal("ToolChoice is nil")
			}
			if mr.ToolChoice.Type != tt.wantType || mr.ToolChoice.Name != tt.wantName {
				t.Errorf("ToolChoice = %+v, want type=%q name=%q", mr.ToolChoice, tt.wantType, tt.wantName)
			}
		})
	}
}

func TestTranslateRequest_ToolsMapped(t *testing.T) {
	req := &api.GenerateRequest{
		Model:    "claude-3",
		Messages: []api.Message{{Role: api.RoleUser, Content: "hi"}},
		Tools: []api.Tool{
			{Name: "get_weather", Description: "Weather lookup", Parameters: []byte(`{"type":"object"}`)},
		},
	}

	mr := translateRequest(req)
	if len(mr.Tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(mr.Tools))
	}
	tool := mr.Tools[0]
	if tool.Name != "get_weather" || tool.Description != "Weather lookup" {
		t.Errorf("tool = %+v", tool)
	}
	if string(tool.InputSchema) != `{"type":"object"}` {
		t.Errorf("InputSchema = %s", tool.InputSchema)
	}
}
