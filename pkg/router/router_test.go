package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
)

// fakeProvider is a scriptable Provider for router tests.
type fakeProvider struct {
	name   string
	caps   provider.Capabilities
	resp   *api.Response
	err    error
	events []provider.Event

	lastReq *api.GenerateRequest
}

func (f *fakeProvider) Name() string                     { return f.name }
func (f *fakeProvider) Capabilities() provider.Capabilities { return f.caps }
func (f *fakeProvider) Close() error                     { return nil }

func (f *fakeProvider) Complete(ctx context.Context, req *api.GenerateRequest) (*api.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeProvider) Stream(ctx context.Context, req *api.GenerateRequest) (<-chan provider.Event, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan provider.Event, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return []provider.ModelInfo{{ID: f.name + "-model"}}, nil
}

func newTestRouter(t *testing.T, cfg Config, providers ...*fakeProvider) *Router {
	t.Helper()
	reg := provider.NewRegistry()
	for _, p := range providers {
		if err := reg.Register(p); err != nil {
			t.Fatalf("register %s: %v", p.name, err)
		}
	}
	r, err := New(reg, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func userRequest(vendor, model string) *api.GenerateRequest {
	return &api.GenerateRequest{
		Vendor:   vendor,
		Model:    model,
		Messages: []api.Message{{Role: api.RoleUser, Content: "hi"}},
	}
}

func TestGenerate_Complete(t *testing.T) {
	p := &fakeProvider{
		name: "openai",
		caps: provider.Capabilities{Streaming: true, ToolCalling: true},
		resp: &api.Response{ID: "resp_x", Text: "Hello", FinishReason: api.FinishReasonStop},
	}
	r := newTestRouter(t, Config{}, p)

	resp, err := r.Generate(context.Background(), userRequest("openai", "gpt-4"), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "Hello" {
		t.Errorf("Text = %q", resp.Text)
	}
	// The router stamps a fresh gateway ID, replacing whatever the
	// provider mapping carried.
	if !api.ValidateResponseID(resp.ID) {
		t.Errorf("ID = %q, want a gateway-assigned response ID", resp.ID)
	}
	if resp.ID == "resp_x" {
		t.Error("provider-supplied ID must be replaced at dispatch")
	}
}

func TestGenerate_DefaultModelApplied(t *testing.T) {
	p := &fakeProvider{
		name: "openai",
		caps: provider.Capabilities{Streaming: true},
		resp: &api.Response{Text: "ok"},
	}
	r := newTestRouter(t, Config{DefaultModel: "gpt-4"}, p)

	req := userRequest("openai", "")
	if _, err := r.Generate(context.Background(), req, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.lastReq.Model != "gpt-4" {
		t.Errorf("dispatched model = %q, want default gpt-4", p.lastReq.Model)
	}
}

func TestGenerate_ValidationError(t *testing.T) {
	p := &fakeProvider{name: "openai"}
	r := newTestRouter(t, Config{}, p)

	req := userRequest("openai", "gpt-4")
	req.Messages = nil
	_, err := r.Generate(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if p.lastReq != nil {
		t.Error("invalid request must not reach the provider")
	}
}

func TestGenerate_UnknownVendor(t *testing.T) {
	p := &fakeProvider{name: "openai"}
	r := newTestRouter(t, Config{}, p)

	_, err := r.Generate(context.Background(), userRequest("mistral", "m"), nil)
	if err == nil || !strings.Contains(err.Error(), `unknown vendor "mistral"`) {
		t.Errorf("error = %v", err)
	}
}

func TestGenerate_CapabilityRejection(t *testing.T) {
	p := &fakeProvider{name: "basic", caps: provider.Capabilities{}}
	r := newTestRouter(t, Config{}, p)

	req := userRequest("basic", "m")
	req.Stream = true
	_, err := r.Generate(context.Background(), req, nil)
	if err == nil || !strings.Contains(err.Error(), "streaming") {
		t.Errorf("error = %v", err)
	}
}

func intPtr(n int) *int { return &n }

func TestGenerate_StreamAccumulatesAndNotifies(t *testing.T) {
	p := &fakeProvider{
		name: "anthropic",
		caps: provider.Capabilities{Streaming: true},
		events: []provider.Event{
			{Type: provider.EventUsageUpdate, Usage: &provider.UsageUpdate{PromptTokens: intPtr(10)}},
			{Type: provider.EventTextDelta, Text: "Hel"},
			{Type: provider.EventTextDelta, Text: "lo"},
			{Type: provider.EventUsageUpdate, Usage: &provider.UsageUpdate{CompletionTokens: intPtr(2)}},
			{Type: provider.EventDone},
		},
	}
	r := newTestRouter(t, Config{}, p)

	req := userRequest("anthropic", "claude-3")
	req.Stream = true
	req.ProviderMeta = map[string]api.RequestMeta{
		"anthropic": {ConversationID: "conv-7"},
	}

	type notification struct{ conv, text string }
	var seen []notification
	notifier := DeltaNotifierFunc(func(conv, text string) {
		seen = append(seen, notification{conv, text})
	})

	resp, err := r.Generate(context.Background(), req, notifier)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if resp.Text != "Hello" {
		t.Errorf("Text = %q, want Hello", resp.Text)
	}
	if resp.Usage.PromptTokens != 10 || resp.Usage.CompletionTokens != 2 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if !api.ValidateResponseID(resp.ID) {
		t.Errorf("ID = %q, want a gateway-assigned response ID", resp.ID)
	}

	want := []notification{{"conv-7", "Hel"}, {"conv-7", "Hello"}}
	if len(seen) != len(want) {
		t.Fatalf("notifications = %+v, want %+v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification[%d] = %+v, want %+v", i, seen[i], want[i])
		}
	}
}

func TestGenerate_StreamErrorEvent(t *testing.T) {
	p := &fakeProvider{
		name: "anthropic",
		caps: provider.Capabilities{Streaming: true},
		events: []provider.Event{
			{Type: provider.EventTextDelta, Text: "partial"},
			{Type: provider.EventError, Err: api.NewResponseError("anthropic", "overloaded_error", "busy")},
		},
	}
	r := newTestRouter(t, Config{}, p)

	req := userRequest("anthropic", "claude-3")
	req.Stream = true
	resp, err := r.Generate(context.Background(), req, nil)
	if resp != nil {
		t.Error("failed stream must not yield a partial response")
	}

	var respErr *api.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("error = %v, want *api.ResponseError", err)
	}
}

func TestGenerate_UnclassifiedErrorWrapped(t *testing.T) {
	p := &fakeProvider{
		name: "openai",
		caps: provider.Capabilities{Streaming: true},
		err:  errors.New("socket closed"),
	}
	r := newTestRouter(t, Config{}, p)

	_, err := r.Generate(context.Background(), userRequest("openai", "gpt-4"), nil)
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *api.RequestError", err)
	}
	if reqErr.Model != "gpt-4" {
		t.Errorf("Model = %q", reqErr.Model)
	}
}

func TestGenerate_ClassifiedErrorPassesThrough(t *testing.T) {
	orig := api.NewResponseError("openai", "rate_limit_error", "slow down")
	p := &fakeProvider{
		name: "openai",
		caps: provider.Capabilities{Streaming: true},
		err:  orig,
	}
	r := newTestRouter(t, Config{}, p)

	_, err := r.Generate(context.Background(), userRequest("openai", "gpt-4"), nil)
	var respErr *api.ResponseError
	if !errors.As(err, &respErr) || respErr != orig {
		t.Errorf("error = %v, want the original ResponseError unchanged", err)
	}
}

func TestNew_NilRegistry(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Error("expected error for nil registry")
	}
}
