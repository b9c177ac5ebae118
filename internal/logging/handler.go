// Package logging provides the structured logger shared by the startup
// harness and the request handler, so both phases of the engine's
// lifecycle log through one format and one set of base attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// stampingHandler wraps a slog.Handler to add the service name and version
// to every record, the way a proxy plugin would tag its own log lines
// among a host's.
type stampingHandler struct {
	handler slog.Handler
	service string
	version string
}

func (h *stampingHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)
	return h.handler.Handle(ctx, r)
}

func (h *stampingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *stampingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stampingHandler{handler: h.handler.WithAttrs(attrs), service: h.service, version: h.version}
}

func (h *stampingHandler) WithGroup(name string) slog.Handler {
	return &stampingHandler{handler: h.handler.WithGroup(name), service: h.service, version: h.version}
}

// Setup creates a slog.Logger configured for the engine. format is "json"
// or "text" (anything else defaults to "json"). If w is nil, logs go to
// os.Stderr.
func Setup(service, version, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var base slog.Handler
	if format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&stampingHandler{handler: base, service: service, version: version})
}

// SetDefault configures and installs the default logger.
func SetDefault(service, version, format string) {
	slog.SetDefault(Setup(service, version, format, nil))
}
