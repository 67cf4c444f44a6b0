package router

import (
	"context"
	"log/slog"
	"sort"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
	"github.com/einklang-dev/einklang/pkg/transport"
)

// Handler adapts the Router to the transport contracts. Streaming requests
// forward each cumulative text update to the transport's ResponseWriter;
// the final unified response is written the same way for both modes.
type Handler struct {
	router *Router
}

var (
	_ transport.Generator   = (*Handler)(nil)
	_ transport.ModelLister = (*Handler)(nil)
)

// NewHandler wraps a Router for use by the transport layer.
func NewHandler(r *Router) *Handler {
	return &Handler{router: r}
}

// Generate executes the request and writes the result. For streaming
// requests each delta is forwarded before the final response.
func (h *Handler) Generate(ctx context.Context, req *api.GenerateRequest, w transport.ResponseWriter) error {
	var notifier DeltaNotifier
	if req.Stream {
		notifier = DeltaNotifierFunc(func(_, text string) {
			if err := w.WriteDelta(ctx, text); err != nil {
				// Client gone; the request context cancels the stream.
				slog.Debug("delta write failed", "error", err)
			}
		})
	}

	resp, err := h.router.Generate(ctx, req, notifier)
	if err != nil {
		return err
	}
	return w.WriteResponse(ctx, resp)
}

// ListModels aggregates available models across all registered vendors.
// A vendor that fails to list is skipped with a warning so one broken
// backend does not hide the others.
func (h *Handler) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	names := h.router.registry.Names()
	sort.Strings(names)

	var all []provider.ModelInfo
	for _, name := range names {
		prov, err := h.router.registry.Get(name)
		if err != nil {
			continue
		}
		models, err := prov.ListModels(ctx)
		if err != nil {
			slog.Warn("listing models failed", "vendor", name, "error", err)
			continue
		}
		all = append(all, models...)
	}
	return all, nil
}
