package policy

import (
	"log/slog"
	"net/http"

	"github.com/jaqx0r/authzpolicy/internal/observability"
	"github.com/jaqx0r/authzpolicy/internal/reqctx"
)

// DispositionKind is the outcome of evaluating a request against an Engine.
type DispositionKind int

const (
	DispositionForward DispositionKind = iota
	DispositionDeny
	DispositionError
)

// Disposition is the total result of Engine.Evaluate: exactly one of
// forward, deny(status, body), or error(status, body). There is no
// nullable or boolean shorthand for "forward" — every caller must branch
// on Kind explicitly.
type Disposition struct {
	Kind   DispositionKind
	Status int
	Body   string
}

// Middleware wraps next so that every request is evaluated against engine
// before reaching it. A forward disposition calls next unmodified; deny
// and error dispositions write the response directly and next is never
// invoked — this is the fail-closed contract made concrete as an
// http.Handler decorator.
func (e *Engine) Middleware(logger *slog.Logger, metrics *observability.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := reqctx.FromRequest(r)
		disp := e.Evaluate(ctx)

		switch disp.Kind {
		case DispositionForward:
			recordOutcome(metrics, "forward")
			logger.Debug("request forwarded", "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)

		case DispositionDeny:
			recordOutcome(metrics, "deny")
			logger.Info("request denied", "method", r.Method, "path", r.URL.Path, "status", disp.Status)
			writeResponse(w, disp.Status, disp.Body)

		case DispositionError:
			recordOutcome(metrics, "error")
			logger.Error("request evaluation failed", "method", r.Method, "path", r.URL.Path)
			writeResponse(w, disp.Status, disp.Body)
		}
	})
}

func recordOutcome(metrics *observability.Metrics, outcome string) {
	if metrics == nil {
		return
	}
	metrics.RequestsTotal.WithLabelValues(outcome).Inc()
}

func writeResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
