package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaqx0r/authzpolicy/internal/config"
	"github.com/jaqx0r/authzpolicy/internal/logging"
	"github.com/jaqx0r/authzpolicy/internal/observability"
	"github.com/jaqx0r/authzpolicy/internal/policy"
)

// serveConfig holds flags for the serve subcommand.
type serveConfig struct {
	listenAddr        string
	upstream          string
	observabilityAddr string
	logFormat         string
}

const (
	defaultListenAddr        = "0.0.0.0:8080"
	defaultObservabilityAddr = "127.0.0.1:9090"
)

func newServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve <config-file>",
		Short: "Validate the policy, then serve it as a downstream enforcement step",
		Long: `serve loads and validates a policy configuration (refusing to start
on any failure, per the fail-closed startup contract), then runs an HTTP
reverse proxy in front of --upstream that applies the compiled policy to
every request before it is forwarded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.listenAddr, "listen", defaultListenAddr, "address to accept proxied traffic on")
	cmd.Flags().StringVar(&cfg.upstream, "upstream", "", "upstream base URL to forward permitted requests to (required)")
	cmd.Flags().StringVar(&cfg.observabilityAddr, "observability-addr", defaultObservabilityAddr, "address for /healthz, /readyz, /metrics")
	cmd.Flags().StringVar(&cfg.logFormat, "log-format", "json", "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, path string, cfg *serveConfig) error {
	if cfg.upstream == "" {
		return fmt.Errorf("serve: --upstream is required")
	}
	upstreamURL, err := url.Parse(cfg.upstream)
	if err != nil {
		return fmt.Errorf("serve: invalid --upstream: %w", err)
	}

	logger := logging.Setup("authzpolicyd", version, cfg.logFormat, nil)

	loaded, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return fmt.Errorf("serve: %w", err)
	}

	// Build runs the startup harness: compile + every declared test case.
	// Any failure here means the listener below is never opened.
	engine, err := policy.Build(loaded, logger)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	var ready atomic.Bool
	obsServer := observability.NewServer(cfg.observabilityAddr, ready.Load)
	if err := obsServer.Start(); err != nil {
		return fmt.Errorf("serve: starting observability server: %w", err)
	}
	defer func() { _ = obsServer.Stop(context.Background()) }()

	proxy := httputil.NewSingleHostReverseProxy(upstreamURL)
	handler := engine.Middleware(logger, obsServer.Metrics(), proxy)

	httpServer := &http.Server{
		Addr:    cfg.listenAddr,
		Handler: handler,
	}

	serveErrs := make(chan error, 1)
	go func() {
		logger.Info("serving", "listen", cfg.listenAddr, "upstream", cfg.upstream)
		ready.Store(true)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrs <- err
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErrs:
		return fmt.Errorf("serve: %w", err)
	case <-sigCtx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
