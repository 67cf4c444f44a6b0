package transport

import (
	"context"
	"fmt"

	"github.com/einklang-dev/einklang/pkg/api"
)

// internalError marks a failure that originated inside the server rather
// than in the request or the vendor backend.
type internalError struct {
	msg string
}

func (e *internalError) Error() string { return e.msg }

// Recovery returns middleware that catches panics in the handler and
// converts them to server error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next Generator) Generator {
		return GeneratorFunc(func(ctx context.Context, req *api.GenerateRequest, w ResponseWriter) (retErr error) {
			defer func() {
				if r := recover(); r != nil {
					retErr = &internalError{msg: fmt.Sprintf("internal server error: %v", r)}
				}
			}()
			return next.Generate(ctx, req, w)
		})
	}
}
