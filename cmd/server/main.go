// Command server runs the einklang gateway: a unified HTTP API in front
// of OpenAI-style and Anthropic-style LLM backends.
//
// Configuration is loaded from a YAML file (discovered or passed via
// -config) with EINKLANG_* environment variable overrides. See pkg/config
// for the full reference.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/auth"
	"github.com/einklang-dev/einklang/pkg/auth/apikey"
	"github.com/einklang-dev/einklang/pkg/auth/jwt"
	"github.com/einklang-dev/einklang/pkg/config"
	"github.com/einklang-dev/einklang/pkg/debug"
	"github.com/einklang-dev/einklang/pkg/observability"
	"github.com/einklang-dev/einklang/pkg/provider"
	"github.com/einklang-dev/einklang/pkg/provider/anthropic"
	"github.com/einklang-dev/einklang/pkg/provider/openai"
	"github.com/einklang-dev/einklang/pkg/router"
	"github.com/einklang-dev/einklang/pkg/tools/mcp"
	"github.com/einklang-dev/einklang/pkg/transport"
	transporthttp "github.com/einklang-dev/einklang/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (default: discovery)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	// Register vendor adapters.
	registry := provider.NewRegistry()
	defer registry.Close()

	if cfg.Vendors.OpenAI.Enabled {
		prov, err := openai.New(openai.Config{
			BaseURL: cfg.Vendors.OpenAI.BaseURL,
			APIKey:  cfg.Vendors.OpenAI.APIKey,
			Timeout: cfg.Vendors.OpenAI.Timeout,
		})
		if err != nil {
			return fmt.Errorf("creating openai provider: %w", err)
		}
		if err := registry.Register(prov); err != nil {
			return err
		}
		slog.Info("vendor enabled", "vendor", "openai", "base_url", cfg.Vendors.OpenAI.BaseURL)
	}

	if cfg.Vendors.Anthropic.Enabled {
		prov, err := anthropic.New(anthropic.Config{
			BaseURL: cfg.Vendors.Anthropic.BaseURL,
			APIKey:  cfg.Vendors.Anthropic.APIKey,
			Timeout: cfg.Vendors.Anthropic.Timeout,
		})
		if err != nil {
			return fmt.Errorf("creating anthropic provider: %w", err)
		}
		if err := registry.Register(prov); err != nil {
			return err
		}
		slog.Info("vendor enabled", "vendor", "anthropic", "base_url", cfg.Vendors.Anthropic.BaseURL)
	}

	if cfg.Vendors.Default != "" {
		if err := registry.SetDefault(cfg.Vendors.Default); err != nil {
			return err
		}
	}

	rt, err := router.New(registry, router.Config{
		DefaultModel: cfg.Vendors.DefaultModel,
	})
	if err != nil {
		return fmt.Errorf("creating router: %w", err)
	}
	handler := router.NewHandler(rt)

	// Transport middleware: recovery first, then request IDs and logging.
	middlewares := []transport.Middleware{
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(slog.Default()),
	}

	// MCP tool discovery. Discovered tools are offered on requests that
	// declare none of their own.
	if len(cfg.Tools.MCP.Servers) > 0 {
		toolMW, closeSource, err := setupMCPTools(cfg.Tools.MCP)
		if err != nil {
			return err
		}
		defer closeSource()
		middlewares = append(middlewares, toolMW)
	}

	adapter := transporthttp.NewAdapter(handler, handler, transporthttp.Config{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		MaxBodySize: 10 << 20,
	}, middlewares...)

	// Build HTTP mux with health and metrics endpoints.
	mux := http.NewServeMux()
	mux.Handle("/", adapter.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	// Wrap with auth and metrics middleware.
	chain, err := buildAuthChain(cfg.Auth)
	if err != nil {
		return fmt.Errorf("building auth chain: %w", err)
	}
	var root http.Handler = mux
	root = auth.Middleware(chain, auth.DefaultBypassEndpoints)(root)
	root = observability.MetricsMiddleware(root)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"port", cfg.Server.Port,
			"vendors", registry.Names(),
			"auth", cfg.Auth.Type,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// buildAuthChain assembles the authenticator chain from configuration.
// Type "none" accepts every request with an anonymous identity.
func buildAuthChain(cfg config.AuthConfig) (*auth.AuthChain, error) {
	switch cfg.Type {
	case "none", "":
		return &auth.AuthChain{DefaultDecision: auth.Yes}, nil

	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key: k.Key,
				Identity: auth.Identity{
					Subject:     k.Subject,
					ServiceTier: k.ServiceTier,
				},
			})
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{apikey.New(entries)},
			DefaultDecision: auth.No,
		}, nil

	case "jwt":
		authn := jwt.New(jwt.Config{
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
			JWKSURL:  cfg.JWT.JWKSURL,
		})
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{authn},
			DefaultDecision: auth.No,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported auth type %q", cfg.Type)
	}
}

// setupMCPTools connects to the configured MCP servers, discovers their
// tools, and returns middleware that attaches them to requests without
// their own tool declarations.
func setupMCPTools(cfg config.MCPConfig) (transport.Middleware, func(), error) {
	mcpCfg := mcp.Config{}
	for _, s := range cfg.Servers {
		mcpCfg.Servers = append(mcpCfg.Servers, mcp.ServerConfig{
			Name:      s.Name,
			Transport: s.Transport,
			URL:       s.URL,
			Headers:   s.Headers,
		})
	}

	source := mcp.NewSource(mcpCfg)

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := source.Connect(connectCtx); err != nil {
		return nil, nil, err
	}

	tools, err := source.Tools(connectCtx)
	if err != nil {
		source.Close()
		return nil, nil, fmt.Errorf("discovering MCP tools: %w", err)
	}
	slog.Info("MCP tools discovered", "count", len(tools), "servers", len(cfg.Servers))

	mw := func(next transport.Generator) transport.Generator {
		return transport.GeneratorFunc(func(ctx context.Context, req *api.GenerateRequest, w transport.ResponseWriter) error {
			if len(req.Tools) == 0 && len(tools) > 0 {
				req.Tools = tools
			}
			return next.Generate(ctx, req, w)
		})
	}

	closeSource := func() {
		if err := source.Close(); err != nil {
			slog.Warn("closing MCP source", "error", err)
		}
	}

	return mw, closeSource, nil
}
