package openai

import (
	"encoding/json"

	"github.com/einklang-dev/einklang/pkg/api"
)

// mapResponse converts one complete Chat Completions document into the
// unified response. Only choices[0] is considered. A top-level error
// object or an empty choice list yields a ResponseError.
//
// Mapping is deterministic: the same document always yields an identical
// response. The gateway response ID is assigned by the router, not here;
// the vendor-side ID travels in ProviderMeta.
func mapResponse(resp *chatCompletionResponse) (*api.Response, error) {
	if resp.Error != nil {
		return nil, api.NewResponseError(vendorName, resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, api.NewResponseError(vendorName, "", "backend returned no choices")
	}

	choice := resp.Choices[0]

	out := &api.Response{
		Text:         choice.Message.Content,
		FinishReason: mapFinishReason(choice.FinishReason),
		ProviderMeta: map[string]string{
			"id":    resp.ID,
			"model": resp.Model,
		},
	}

	if resp.Usage != nil {
		out.Usage = api.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		}
	}

	for _, tc := range choice.Message.ToolCalls {
		call := api.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
		}
		if tc.Function.Arguments != "" {
			call.Arguments = json.RawMessage(tc.Function.Arguments)
		}
		out.ToolCalls = append(out.ToolCalls, call)
	}

	return out, nil
}

// mapFinishReason converts a Chat Completions finish_reason string to
// the canonical FinishReason. Unrecognized values map to Unknown, never
// to an error.
func mapFinishReason(reason string) api.FinishReason {
	switch reason {
	case "stop":
		return api.FinishReasonStop
	case "length":
		return api.FinishReasonLength
	case "tool_calls":
		return api.FinishReasonToolCalls
	case "content_filter":
		return api.FinishReasonContentFilter
	default:
		return api.FinishReasonUnknown
	}
}
