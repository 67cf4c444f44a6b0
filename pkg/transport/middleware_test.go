package transport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/einklang-dev/einklang/pkg/api"
)

// nopWriter satisfies ResponseWriter for tests that never write.
type nopWriter struct{}

func (nopWriter) WriteDelta(context.Context, string) error        { return nil }
func (nopWriter) WriteResponse(context.Context, *api.Response) error { return nil }
func (nopWriter) Flush() error                                    { return nil }

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Generator) Generator {
			return GeneratorFunc(func(ctx context.Context, req *api.GenerateRequest, w ResponseWriter) error {
				order = append(order, name)
				return next.Generate(ctx, req, w)
			})
		}
	}

	h := Chain(tag("a"), tag("b"), tag("c"))(GeneratorFunc(
		func(context.Context, *api.GenerateRequest, ResponseWriter) error {
			order = append(order, "handler")
			return nil
		}))

	if err := h.Generate(context.Background(), &api.GenerateRequest{}, nopWriter{}); err != nil {
		t.Fatal(err)
	}

	want := "a,b,c,handler"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("execution order = %s, want %s", got, want)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	h := RequestID()(GeneratorFunc(
		func(ctx context.Context, _ *api.GenerateRequest, _ ResponseWriter) error {
			seen = RequestIDFromContext(ctx)
			return nil
		}))

	if err := h.Generate(context.Background(), &api.GenerateRequest{}, nopWriter{}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 32 {
		t.Errorf("generated request ID = %q, want 32 hex chars", seen)
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	var seen string
	h := RequestID()(GeneratorFunc(
		func(ctx context.Context, _ *api.GenerateRequest, _ ResponseWriter) error {
			seen = RequestIDFromContext(ctx)
			return nil
		}))

	ctx := ContextWithRequestID(context.Background(), "client-supplied")
	if err := h.Generate(ctx, &api.GenerateRequest{}, nopWriter{}); err != nil {
		t.Fatal(err)
	}
	if seen != "client-supplied" {
		t.Errorf("request ID = %q, want client-supplied", seen)
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	if id := RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("id = %q, want empty", id)
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	h := Recovery()(GeneratorFunc(
		func(context.Context, *api.GenerateRequest, ResponseWriter) error {
			panic("nil map write")
		}))

	err := h.Generate(context.Background(), &api.GenerateRequest{}, nopWriter{})
	if err == nil {
		t.Fatal("expected an error from the recovered panic")
	}

	status, body := ClassifyError(err)
	if status != 500 || body.Type != "server_error" {
		t.Errorf("classified as (%d, %s), want (500, server_error)", status, body.Type)
	}
	if !strings.Contains(err.Error(), "nil map write") {
		t.Errorf("error = %q, want panic value included", err)
	}
}

func TestRecovery_PassesErrorsThrough(t *testing.T) {
	want := errors.New("ordinary failure")
	h := Recovery()(GeneratorFunc(
		func(context.Context, *api.GenerateRequest, ResponseWriter) error {
			return want
		}))

	if err := h.Generate(context.Background(), &api.GenerateRequest{}, nopWriter{}); !errors.Is(err, want) {
		t.Errorf("error = %v, want %v", err, want)
	}
}
