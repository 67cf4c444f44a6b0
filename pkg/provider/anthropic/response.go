package anthropic

import (
	"github.com/einklang-dev/einklang/pkg/api"
)

// mapResponse converts one complete Messages document into the unified
// response. Text blocks are concatenated in order; tool_use blocks map
// to tool calls in order; other block types are dropped. The error
// sentinel (type == "error") yields a ResponseError.
//
// Mapping is deterministic: the same document always yields an identical
// response. The gateway response ID is assigned by the router, not here;
// the vendor-side ID travels in ProviderMeta.
func mapResponse(resp *messagesResponse) (*api.Response, error) {
	if resp.Type == "error" {
		errType, message := "", "backend returned an error"
		if resp.Error != nil {
			errType, message = resp.Error.Type, resp.Error.Message
		}
		return nil, api.NewResponseError(vendorName, errType, message)
	}

	out := &api.Response{
		FinishReason: mapStopReason(resp.StopReason),
		ProviderMeta: map[string]string{
			"id":    resp.ID,
			"model": resp.Model,
		},
	}

	var text string
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text += block.Text
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, api.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	out.Text = text

	if resp.Usage != nil {
		out.Usage = api.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
		}
	}

	return out, nil
}

// mapStopReason converts a Messages stop_reason string to the canonical
// FinishReason. Unrecognized values map to Unknown, never to an error.
func mapStopReason(reason string) api.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return api.FinishReasonStop
	case "max_tokens":
		return api.FinishReasonLength
	case "tool_use":
		return api.FinishReasonToolCalls
	case "refusal":
		return api.FinishReasonContentFilter
	default:
		return api.FinishReasonUnknown
	}
}
