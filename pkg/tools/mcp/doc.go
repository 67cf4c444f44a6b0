// Package mcp provides the MCP (Model Context Protocol) client integration
// for einklang. It connects to external MCP servers and discovers their
// tools so they can be offered to vendor backends as tool definitions in
// unified requests.
//
// The package wraps the official MCP Go SDK (github.com/modelcontextprotocol/go-sdk).
// Tool execution is left to the caller: einklang surfaces tool calls in the
// unified response and does not run an agentic loop.
//
// Configuration is provided via ServerConfig structs, which specify the
// server name, transport type (SSE or streamable-http), URL, and optional
// static HTTP headers for authentication.
package mcp
