package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/einklang-dev/einklang/pkg/api"
)

// Logging returns middleware that emits structured log entries for each
// request. The log entry includes vendor, model, streaming mode, duration,
// request ID (from context), and whether the request succeeded or failed.
//
// Note: The HTTP method and path are not available at the Generator level.
// This middleware logs at the handler level. For full HTTP-level logging
// (including status codes), use HTTP-level middleware in the adapter.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Generator) Generator {
		return GeneratorFunc(func(ctx context.Context, req *api.GenerateRequest, w ResponseWriter) error {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			err := next.Generate(ctx, req, w)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("vendor", req.Vendor),
				slog.String("model", req.Model),
				slog.Bool("stream", req.Stream),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
			}

			return err
		})
	}
}
