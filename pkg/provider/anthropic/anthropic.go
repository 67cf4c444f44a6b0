package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
)

// vendorName identifies this adapter in errors, logs, and metrics.
const vendorName = "anthropic"

// Provider implements provider.Provider for Anthropic-style Messages
// backends.
type Provider struct {
	cfg    Config
	client *http.Client
}

// Ensure Provider implements provider.Provider at compile time.
var _ provider.Provider = (*Provider)(nil)

// New creates a Provider with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("anthropic: BaseURL is required")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Name returns the vendor identifier.
func (p *Provider) Name() string {
	return vendorName
}

// Capabilities returns what this adapter supports.
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Streaming:   true,
		ToolCalling: true,
	}
}

// Complete performs non-streaming inference against the Messages
// endpoint and maps the document into the unified response.
func (p *Provider) Complete(ctx context.Context, req *api.GenerateRequest) (*api.Response, error) {
	reqCopy := *req
	reqCopy.Stream = false

	httpResp, err := p.send(ctx, &reqCopy, false)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var msgResp messagesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&msgResp); err != nil {
		return nil, api.NewResponseError(vendorName, "", "failed to parse backend response: "+err.Error())
	}

	return mapResponse(&msgResp)
}

// Stream performs streaming inference. It returns a channel of
// normalized Events, closed when the stream completes, errors, or the
// context is cancelled.
//
// The HTTP client timeout is not applied for streaming requests because
// a stream can legitimately outlast any fixed timeout. Lifecycle control
// relies on context cancellation instead.
func (p *Provider) Stream(ctx context.Context, req *api.GenerateRequest) (<-chan provider.Event, error) {
	reqCopy := *req
	reqCopy.Stream = true

	httpResp, err := p.send(ctx, &reqCopy, true)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		return nil, mapHTTPError(httpResp)
	}

	ch := make(chan provider.Event, 16)

	go func() {
		defer close(ch)
		defer httpResp.Body.Close()
		parseStream(ctx, req.Model, httpResp.Body, ch)
	}()

	return ch, nil
}

// send marshals and posts the translated request. Transport failures
// are wrapped as RequestError with the model name for context.
func (p *Provider) send(ctx context.Context, req *api.GenerateRequest, streaming bool) (*http.Response, error) {
	msgReq := translateRequest(req)

	body, err := json.Marshal(msgReq)
	if err != nil {
		return nil, api.NewRequestError(req.Model, fmt.Errorf("marshaling request: %w", err))
	}

	url := p.cfg.BaseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewRequestError(req.Model, fmt.Errorf("creating HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("anthropic-version", apiVersion)
	if p.cfg.APIKey != "" {
		httpReq.Header.Set("x-api-key", p.cfg.APIKey)
	}

	client := p.client
	if streaming {
		httpReq.Header.Set("Accept", "text/event-stream")
		// Timeout-less client for streaming; the context bounds it.
		client = &http.Client{Transport: p.client.Transport}
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, api.NewRequestError(req.Model, err)
	}
	return httpResp, nil
}

// ListModels returns available models from /v1/models.
func (p *Provider) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/v1/models", nil)
	if err != nil {
		return nil, api.NewRequestError("", err)
	}
	httpReq.Header.Set("anthropic-version", apiVersion)
	if p.cfg.APIKey != "" {
		httpReq.Header.Set("x-api-key", p.cfg.APIKey)
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, api.NewRequestError("", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var models modelsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&models); err != nil {
		return nil, api.NewResponseError(vendorName, "", "failed to parse models response: "+err.Error())
	}

	out := make([]provider.ModelInfo, 0, len(models.Data))
	for _, m := range models.Data {
		out = append(out, provider.ModelInfo{ID: m.ID, OwnedBy: m.DisplayName})
	}
	return out, nil
}

// Close releases provider resources.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
