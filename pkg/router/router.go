package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/observability"
	"github.com/einklang-dev/einklang/pkg/provider"
)

// DeltaNotifier is notified with the cumulative text after each text
// delta, tagged with the conversation ID the caller supplied in the
// request's provider metadata (empty when none was supplied). It runs
// synchronously inline with decoding and must not block indefinitely.
type DeltaNotifier interface {
	Notify(conversationID, text string)
}

// DeltaNotifierFunc adapts an ordinary function to a DeltaNotifier.
type DeltaNotifierFunc func(conversationID, text string)

// Notify calls f(conversationID, text).
func (f DeltaNotifierFunc) Notify(conversationID, text string) {
	f(conversationID, text)
}

// Router resolves vendors and executes unified requests against them.
type Router struct {
	registry *provider.Registry
	cfg      Config
}

// New creates a Router. The registry must not be nil.
func New(registry *provider.Registry, cfg Config) (*Router, error) {
	if registry == nil {
		return nil, fmt.Errorf("router: registry must not be nil")
	}
	return &Router{registry: registry, cfg: cfg}, nil
}

// Generate executes one unified request and returns the unified
// response. For streaming requests the notifier (when non-nil) observes
// each text delta; the returned response is the same either way.
//
// Every failure surfaces as *api.ResponseError (the vendor said no) or
// *api.RequestError (the request never completed); anything else is
// wrapped into a RequestError carrying the model name.
func (r *Router) Generate(ctx context.Context, req *api.GenerateRequest, notifier DeltaNotifier) (*api.Response, error) {
	if req.Model == "" {
		req.Model = r.cfg.DefaultModel
	}

	if err := api.ValidateRequest(req, r.cfg.validation()); err != nil {
		return nil, err
	}

	prov, err := r.registry.Get(req.Vendor)
	if err != nil {
		return nil, err
	}

	if err := provider.ValidateCapabilities(prov.Capabilities(), req); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := r.dispatch(ctx, prov, req, notifier)
	observability.ProviderLatency.WithLabelValues(prov.Name(), req.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(prov.Name(), req.Model, "error").Inc()
		return nil, wrapError(req.Model, err)
	}

	// The gateway assigns the response ID at the dispatch boundary;
	// vendor-to-unified mapping stays deterministic and the vendor's own
	// ID travels in ProviderMeta.
	resp.ID = api.NewResponseID()

	observability.ProviderRequestsTotal.WithLabelValues(prov.Name(), req.Model, "ok").Inc()
	observability.ProviderTokensTotal.WithLabelValues(prov.Name(), req.Model, "input").Add(float64(resp.Usage.PromptTokens))
	observability.ProviderTokensTotal.WithLabelValues(prov.Name(), req.Model, "output").Add(float64(resp.Usage.CompletionTokens))

	slog.Debug("request completed",
		"vendor", prov.Name(),
		"model", req.Model,
		"stream", req.Stream,
		"finish_reason", resp.FinishReason,
	)

	return resp, nil
}

// dispatch runs the streaming or non-streaming path.
func (r *Router) dispatch(ctx context.Context, prov provider.Provider, req *api.GenerateRequest, notifier DeltaNotifier) (*api.Response, error) {
	if !req.Stream {
		return prov.Complete(ctx, req)
	}

	events, err := prov.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	var obs provider.DeltaObserver
	if notifier != nil {
		conversationID := req.ConversationID(prov.Name())
		obs = provider.DeltaObserverFunc(func(text string) {
			notifier.Notify(conversationID, text)
		})
	}

	return provider.Accumulate(ctx, events, obs)
}

// wrapError folds any unexpected failure into the uniform error
// surface. Already-classified errors pass through unchanged.
func wrapError(model string, err error) error {
	var reqErr *api.RequestError
	var respErr *api.ResponseError
	if errors.As(err, &reqErr) || errors.As(err, &respErr) {
		return err
	}
	return api.NewRequestError(model, err)
}
