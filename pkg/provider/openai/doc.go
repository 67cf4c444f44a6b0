// Package openai implements the provider adapter for OpenAI-style
// Chat Completions backends.
//
// Streaming limitation: the Chat Completions delta stream surfaces only
// text content. Tool-call chunks are logged and dropped, and usage is
// not reported in-band, so streamed responses carry zero usage and no
// tool calls. The non-streaming path maps both in full.
package openai
