// Package transport defines the handler interfaces and middleware chain for
// the einklang HTTP/SSE transport layer.
//
// The transport layer bridges external clients and einklang's vendor router.
// It deserializes incoming requests into the unified types defined in
// pkg/api, dispatches them for processing, and serializes responses back to
// the client in either synchronous (JSON) or streaming (SSE) format.
//
// # Handler Interface
//
// The Generator interface defines the contract between the transport layer
// and the router: the implementation receives a unified request and writes
// the result (streaming deltas or a complete response) to the
// ResponseWriter. The ResponseWriter abstracts streaming and non-streaming
// output, allowing the handler to emit SSE events or complete JSON responses
// without knowing the underlying transport protocol.
//
// # Middleware
//
// The middleware chain wraps Generator with cross-cutting concerns.
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID), and structured logging via log/slog. Custom middleware
// can be added for application-specific concerns.
package transport
