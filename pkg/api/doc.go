// Package api defines the vendor-neutral types for the einklang gateway.
//
// It provides the unified request/response model shared by every vendor
// adapter: GenerateRequest, Message, Tool, ToolCall, Usage, FinishReason,
// and Response, plus the error taxonomy and response ID generation.
//
// The package has zero external dependencies (Go standard library only)
// and performs no I/O. Whatever vendor served a request, callers always
// receive the same Response shape and the same error surface.
package api
