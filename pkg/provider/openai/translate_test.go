package openai

import (
	"testing"

	"github.com/einklang-dev/einklang/pkg/api"
)

func TestTranslateRequest_SystemBecomesLeadingMessage(t *testing.T) {
	req := &api.GenerateRequest{
		Model:  "gpt-4",
		System: "Be terse.",
		Messages: []api.Message{
			{Role: api.RoleUser, Content: "hi"},
		},
	}

	cr := translateRequest(req)

	if len(cr.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(cr.Messages))
	}
	if cr.Messages[0].Role != "system" || cr.Messages[0].Content != "Be terse." {
		t.Errorf("leading message = %+v", cr.Messages[0])
	}
	if cr.Messages[1].Role != "user" {
		t.Errorf("second message = %+v", cr.Messages[1])
	}
}

func TestTranslateRequest_MaxTokensDefault(t *testing.T) {
	req := &api.GenerateRequest{
		Model:    "gpt-4",
		Messages: []api.Message{{Role: api.RoleUser, Content: "hi"}},
	}

	cr := translateRequest(req)
	if cr.MaxTokens != api.DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want default %d", cr.MaxTokens, api.DefaultMaxTokens)
	}

	req.MaxTokens = 64
	cr = translateRequest(req)
	if cr.MaxTokens != 64 {
		t.Errorf("MaxTokens = %d, want 64", cr.MaxTokens)
	}
}

func TestTranslateRequest_ToolChoiceMode(t *testing.T) {
	req := &api.GenerateRequest{
		Model:      "gpt-4",
		Messages:   []api.Message{{Role: api.RoleUser, Content: "hi"}},
		Tools:      []api.Tool{{Name: "get_weather"}},
		ToolChoice: &api.ToolChoice{Mode: "auto"},
	}

	cr := translateRequest(req)
	if cr.ToolChoice != "auto" {
		t.Errorf("ToolChoice = %v, want auto", cr.ToolChoice)
	}
}

func TestTranslateRequest_ToolChoiceFunction(t *testing.T) {
	req := &api.GenerateRequest{
		Model:      "gpt-4",
		Messages:   []api.Message{{Role: api.RoleUser, Content: "hi"}},
		Tools:      []api.Tool{{Name: "get_weather"}},
		ToolChoice: &api.ToolChoice{Function: &api.ToolFunctionChoice{Name: "get_weather"}},
	}

	cr := translateRequest(req)
	m, ok := cr.ToolChoice.(map[string]any)
	if !ok {
		t.Fatalf("ToolChoice = %T, want structured map", cr.ToolChoice)
	}
	fn, ok := m["function"].(map[string]string)
	if !ok || fn["name"] != "get_weather" {
		t.Errorf("ToolChoice = %v", m)
	}
}

func TestTranslateRequest_ToolResultMessage(t *testing.T) {
	req := &api.GenerateRequest{
		Model: "gpt-4",
		Messages: []api.Message{
			{Role: api.RoleUser, Content: "weather?"},
			{Role: api.RoleAssistant, ToolCalls: []api.ToolCall{
				{ID: "call_1", Name: "get_weather", Arguments: []byte(`{"city":"Berlin"}`)},
			}},
			{Role: api.RoleTool, Content: "sunny", ToolCallID: "call_1"},
		},
	}

	cr := translateRequest(req)
	if len(cr.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(cr.Messages))
	}

	assistant := cr.Messages[1]
	if len(assistant.ToolCalls) != 1 || assistant.ToolCalls[0].Function.Name != "get_weather" {
		t.Errorf("assistant message = %+v", assistant)
	}
	if assistant.ToolCalls[0].Function.Arguments != `{"city":"Berlin"}` {
		t.Errorf("arguments = %q", assistant.ToolCalls[0].Function.Arguments)
	}

	tool := cr.Messages[2]
	if tool.Role != "tool" || tool.ToolCallID != "call_1" || tool.Content != "sunny" {
		t.Errorf("tool message = %+v", tool)
	}
}

func TestTranslateRequest_StreamFlagPreserved(t *testing.T) {
	req := &api.GenerateRequest{
		Model:    "gpt-4",
		Messages: []api.Message{{Role: api.RoleUser, Content: "hi"}},
		Stream:   true,
	}

	if cr := translateRequest(req); !cr.Stream {
		t.Error("Stream flag must be preserved")
	}
}
