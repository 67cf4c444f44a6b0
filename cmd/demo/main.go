// Command demo exercises the unified model offline: request validation,
// streaming accumulation with a delta observer, and the error taxonomy.
// No network access is needed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
)

func main() {
	fmt.Println("=== einklang unified model demo ===")
	fmt.Println()

	// 1. Build a unified request.
	req := &api.GenerateRequest{
		Vendor: "openai",
		Model:  "demo-model",
		System: "You are terse.",
		Messages: []api.Message{
			{Role: api.RoleUser, Content: "What is the capital of France?"},
		},
		Stream: true,
	}

	// 2. Validate it.
	if err := api.ValidateRequest(req, api.DefaultValidationConfig()); err != nil {
		fmt.Printf("Validation FAILED: %v\n", err)
		return
	}
	fmt.Println("[1] Request validated successfully")

	data, _ := json.MarshalIndent(req, "", "  ")
	fmt.Printf("\n[2] Request JSON:\n%s\n", data)

	// 3. Simulate a vendor stream and fold it into a response.
	events := make(chan provider.Event, 8)
	events <- provider.Event{Type: provider.EventUsageUpdate, Usage: &provider.UsageUpdate{PromptTokens: intPtr(12)}}
	events <- provider.Event{Type: provider.EventTextDelta, Text: "The capital "}
	events <- provider.Event{Type: provider.EventTextDelta, Text: "of France "}
	events <- provider.Event{Type: provider.EventTextDelta, Text: "is Paris."}
	events <- provider.Event{Type: provider.EventUsageUpdate, Usage: &provider.UsageUpdate{CompletionTokens: intPtr(8)}}
	events <- provider.Event{Type: provider.EventDone}
	close(events)

	fmt.Println("\n[3] Observer sees cumulative text:")
	obs := provider.DeltaObserverFunc(func(text string) {
		fmt.Printf("    %q\n", text)
	})

	resp, err := provider.Accumulate(context.Background(), events, obs)
	if err != nil {
		fmt.Printf("Accumulate FAILED: %v\n", err)
		return
	}
	// The router normally assigns the gateway response ID at dispatch.
	resp.ID = api.NewResponseID()

	fmt.Printf("\n[4] Final response:")
	fmt.Printf("\n    ID:     %s", resp.ID)
	fmt.Printf("\n    Text:   %q", resp.Text)
	fmt.Printf("\n    Finish: %s", resp.FinishReason)
	fmt.Printf("\n    Tokens: %d in / %d out\n", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	// 4. A stream that errors yields no partial response.
	failing := make(chan provider.Event, 2)
	failing <- provider.Event{Type: provider.EventTextDelta, Text: "partial "}
	failing <- provider.Event{Type: provider.EventError, Err: api.NewResponseError("openai", "overloaded_error", "try later")}
	close(failing)

	_, err = provider.Accumulate(context.Background(), failing, nil)
	fmt.Println("\n[5] Error taxonomy:")
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		fmt.Printf("    vendor=%s type=%s message=%s\n", respErr.Vendor, respErr.Type, respErr.Message)
	}

	// 5. Validation error examples.
	fmt.Println("\n[6] Validation error examples:")
	bad := &api.GenerateRequest{Model: "demo-model"}
	if err := api.ValidateRequest(bad, api.DefaultValidationConfig()); err != nil {
		fmt.Printf("    No messages: %v\n", err)
	}

	bad2 := &api.GenerateRequest{
		Model:       "demo-model",
		Messages:    []api.Message{{Role: api.RoleUser, Content: "hi"}},
		Temperature: float64Ptr(3.0),
	}
	if err := api.ValidateRequest(bad2, api.DefaultValidationConfig()); err != nil {
		fmt.Printf("    Bad temperature: %v\n", err)
	}

	fmt.Println("\n=== demo complete ===")
}

func intPtr(n int) *int           { return &n }
func float64Ptr(f float64) *float64 { return &f }
