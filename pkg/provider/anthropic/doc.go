// Package anthropic implements the provider adapter for Anthropic-style
// Messages backends.
//
// Streaming limitation: the delta stream surfaces text deltas and usage
// snapshots, but fragmented tool-use input is not reassembled; streamed
// responses carry no tool calls. The non-streaming path maps tool_use
// content blocks in full.
package anthropic
