package anthropic

import (
	"github.com/einklang-dev/einklang/pkg/api"
)

// translateRequest converts a GenerateRequest into a messagesRequest
// suitable for the /v1/messages endpoint. The system prompt travels
// out-of-band, assistant tool calls become tool_use blocks, and tool
// result messages become user turns carrying a tool_result block.
func translateRequest(req *api.GenerateRequest) messagesRequest {
	mr := messagesRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stream:      req.Stream,
	}
	if mr.MaxTokens == 0 {
		mr.MaxTokens = api.DefaultMaxTokens
	}

	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			// A leading system message maps to the out-of-band prompt;
			// an explicit System field wins.
			if mr.System == "" {
				mr.System = m.Content
			}

		case "tool":
			mr.Messages = append(mr.Messages, wireMessage{
				Role: "user",
				Content: []contentBlock{{
					Type:      "tool_result",
					ToolUseID: m.ToolCallID,
					Content:   m.Content,
				}},
			})

		default:
			wm := wireMessage{Role: m.Role}
			if m.Content != "" {
				wm.Content = append(wm.Content, contentBlock{
					Type: "text",
					Text: m.Content,
				})
			}
			for _, tc := range m.ToolCalls {
				wm.Content = append(wm.Content, contentBlock{
					Type:  "tool_use",
					ID:    tc.ID,
					Name:  tc.Name,
					Input: tc.Arguments,
				})
			}
			mr.Messages = append(mr.Messages, wm)
		}
	}

	for _, t := range req.Tools {
		mr.Tools = append(mr.Tools, wireTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Parameters,
		})
	}

	if req.ToolChoice != nil {
		switch {
		case req.ToolChoice.Function != nil:
			mr.ToolChoice = &toolChoice{Type: "tool", Name: req.ToolChoice.Function.Name}
		case req.ToolChoice.Mode == "required":
			mr.ToolChoice = &toolChoice{Type: "any"}
		case req.ToolChoice.Mode != "":
			mr.ToolChoice = &toolChoice{Type: req.ToolChoice.Mode}
		}
	}

	return mr
}
