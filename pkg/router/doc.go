// Package router orchestrates request processing between the transport
// layer and the vendor adapters. It validates the unified request,
// resolves the vendor at request time, runs the non-streaming or
// streaming path, and folds every failure into the uniform error
// surface so callers see the same errors regardless of vendor.
package router
