package transport

import (
	"context"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
)

// Generator handles the core generate operation. The implementation
// receives a unified request and writes the result (streaming deltas or a
// complete response) to the ResponseWriter.
type Generator interface {
	Generate(ctx context.Context, req *api.GenerateRequest, w ResponseWriter) error
}

// GeneratorFunc is an adapter that allows using an ordinary function
// as a Generator.
type GeneratorFunc func(ctx context.Context, req *api.GenerateRequest, w ResponseWriter) error

// Generate calls f(ctx, req, w).
func (f GeneratorFunc) Generate(ctx context.Context, req *api.GenerateRequest, w ResponseWriter) error {
	return f(ctx, req, w)
}

// ModelLister enumerates the models available from the configured vendors.
// Implemented by the router; used by the HTTP adapter for GET /v1/models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]provider.ModelInfo, error)
}

// ResponseWriter abstracts streaming and non-streaming output for the
// handler. The transport layer creates a ResponseWriter for each request
// and provides it to the handler. The handler uses WriteDelta for
// streaming text updates and WriteResponse for the final (or only) result.
//
// WriteDelta after WriteResponse returns an error: the response is
// terminal on a single writer instance.
type ResponseWriter interface {
	// WriteDelta sends one streaming text update carrying the cumulative
	// text generated so far. On non-streaming writers this is a no-op.
	WriteDelta(ctx context.Context, text string) error

	// WriteResponse sends the complete response. Must be called exactly
	// once per request on success.
	WriteResponse(ctx context.Context, resp *api.Response) error

	// Flush ensures buffered data is sent to the client. Returns an error
	// if the client has disconnected.
	Flush() error
}
