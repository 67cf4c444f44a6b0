package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/einklang-dev/einklang/pkg/api"
)

// Source aggregates tool definitions from a set of MCP servers.
// Connect establishes all sessions; Tools returns the merged tool list
// ready to attach to a unified request.
type Source struct {
	clients []*Client
}

// NewSource creates a Source from the given configuration. No connections
// are made until Connect is called.
func NewSource(cfg Config) *Source {
	s := &Source{}
	for _, sc := range cfg.Servers {
		s.clients = append(s.clients, NewClient(sc))
	}
	return s
}

// Connect establishes sessions to all configured servers. A server that
// cannot be reached fails the whole call; already-open sessions are
// closed before returning.
func (s *Source) Connect(ctx context.Context) error {
	for i, c := range s.clients {
		if err := c.Connect(ctx); err != nil {
			for _, open := range s.clients[:i] {
				open.Close()
			}
			return fmt.Errorf("connecting MCP servers: %w", err)
		}
	}
	return nil
}

// Tools returns the merged tool definitions from all connected servers.
// Duplicate tool names across servers are kept first-come; later
// duplicates are dropped with a warning.
func (s *Source) Tools(ctx context.Context) ([]api.Tool, error) {
	seen := make(map[string]bool)
	var all []api.Tool

	for _, c := range s.clients {
		tools, err := c.DiscoverTools(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range tools {
			if seen[t.Name] {
				slog.Warn("duplicate MCP tool name, keeping first", "tool", t.Name, "server", c.cfg.Name)
				continue
			}
			seen[t.Name] = true
			all = append(all, t)
		}
	}
	return all, nil
}

// Close closes all sessions, returning the first error.
func (s *Source) Close() error {
	var firstErr error
	for _, c := range s.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
