package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/einklang-dev/einklang/pkg/api"
)

// Provider abstracts one LLM vendor backend. Implementations must be
// safe for concurrent use by multiple goroutines; each call owns its
// own decode state.
type Provider interface {
	// Name returns the vendor identifier (e.g., "openai", "anthropic").
	Name() string

	// Capabilities returns what this vendor adapter supports.
	Capabilities() Capabilities

	// Complete performs non-streaming inference and maps the vendor's
	// JSON document directly into the unified response.
	Complete(ctx context.Context, req *api.GenerateRequest) (*api.Response, error)

	// Stream performs streaming inference. The returned channel receives
	// normalized Event values in arrival order and is closed by the
	// provider when the stream completes or errors.
	Stream(ctx context.Context, req *api.GenerateRequest) (<-chan Event, error)

	// ListModels returns available models from the backend.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}

// Registry holds named providers and resolves the vendor selected by a
// request at request time. Safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]Provider
	defaultName string
}

// NewRegistry creates an empty registry. The first registered provider
// becomes the default unless SetDefault is called.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its Name. Registering a duplicate
// name is an error.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("provider has empty name")
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.providers[name] = p
	if r.defaultName == "" {
		r.defaultName = name
	}
	return nil
}

// SetDefault selects the vendor used when a request names none.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("provider %q not registered", name)
	}
	r.defaultName = name
	return nil
}

// Get resolves a vendor name to its provider. An empty name resolves
// to the default provider.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultName
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown vendor %q", name)
	}
	return p, nil
}

// Names returns the registered vendor names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Close closes every registered provider, returning the first error.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, p := range r.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
