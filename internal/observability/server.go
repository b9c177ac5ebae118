// Package observability exposes health, readiness, and Prometheus metrics
// endpoints for the reference host (cmd/authzpolicyd serve), and the
// counters the request handler updates as it disposes of each request.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the server is ready to accept traffic —
// in this engine's case, whether the startup harness has already passed.
type ReadinessChecker func() bool

// Metrics are the Prometheus counters the request handler updates.
type Metrics struct {
	RequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the engine's custom metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authzpolicy_requests_total",
				Help: "Total number of requests by disposition (forward, deny, error).",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.RequestsTotal)
	return m
}

// Server serves /healthz, /readyz, and /metrics on its own listener,
// separate from the proxied traffic path.
type Server struct {
	addr         string
	listenerAddr string
	httpServer   *http.Server
	registry     *prometheus.Registry
	metrics      *Metrics
	isReady      ReadinessChecker
	running      atomic.Bool
}

// NewServer creates an observability server bound to addr.
func NewServer(addr string, isReady ReadinessChecker) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		addr:     addr,
		registry: registry,
		metrics:  NewMetrics(registry),
		isReady:  isReady,
	}
}

// Metrics returns the registered counters for the handler to update.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Addr returns the actual bound listener address, which may differ from the
// configured addr when a ":0" ephemeral port was requested (as in tests).
// It is empty until Start succeeds.
func (s *Server) Addr() string {
	return s.listenerAddr
}

// Start begins serving in the background. It returns once the listener is
// bound; it does not block for the server's lifetime.
func (s *Server) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("observability: listen on %s: %w", s.addr, err)
	}
	s.listenerAddr = listener.Addr().String()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if s.isReady != nil && !s.isReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{Handler: mux}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("observability: shutdown: %w", err)
	}
	return nil
}
