package openai

import (
	"github.com/einklang-dev/einklang/pkg/api"
)

// translateRequest converts a GenerateRequest into a
// chatCompletionRequest suitable for the /v1/chat/completions endpoint.
// The system prompt becomes a leading system message.
func translateRequest(req *api.GenerateRequest) chatCompletionRequest {
	cr := chatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		N:           1,
		Stream:      req.Stream,
	}
	if cr.MaxTokens == 0 {
		cr.MaxTokens = api.DefaultMaxTokens
	}

	if req.System != "" {
		cr.Messages = append(cr.Messages, chatMessage{
			Role:    "system",
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		cm := chatMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, chatToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: chatFunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		cr.Messages = append(cr.Messages, cm)
	}

	for _, t := range req.Tools {
		cr.Tools = append(cr.Tools, chatTool{
			Type: "function",
			Function: chatFunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	// The wire tool_choice allows both string and structured values.
	if req.ToolChoice != nil {
		if req.ToolChoice.Mode != "" {
			cr.ToolChoice = req.ToolChoice.Mode
		} else if req.ToolChoice.Function != nil {
			cr.ToolChoice = map[string]any{
				"type":     "function",
				"function": map[string]string{"name": req.ToolChoice.Function.Name},
			}
		}
	}

	return cr
}
