// Package provider defines the vendor-agnostic adapter interface for LLM
// backends. Each adapter implementation (openai, anthropic) handles its
// own wire protocol internally and surfaces the same normalized Event
// stream and api.Response, keeping vendor protocol details invisible to
// the router.
//
// The streaming contract is a fold: adapters emit an ordered Event
// sequence on a channel, and Accumulate reduces it into the final
// api.Response, invoking an optional DeltaObserver on each text
// fragment.
package provider
