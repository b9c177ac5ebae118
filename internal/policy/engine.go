// Package policy wires the compiled expression Program together with the
// deny response configuration into an Engine, and exposes the Engine as a
// disposition-producing request evaluator plus an HTTP middleware.
package policy

import (
	"log/slog"

	"github.com/jaqx0r/authzpolicy/internal/config"
	"github.com/jaqx0r/authzpolicy/internal/harness"
	"github.com/jaqx0r/authzpolicy/internal/lang"
)

// Engine is the per-process, read-only policy: a compiled Program plus the
// deny response to use when it evaluates to false. It is safe for
// concurrent use by multiple request-handling goroutines.
type Engine struct {
	program        *lang.Program
	denyStatusCode int
	denyBody       string
}

// Build runs the startup harness against cfg (compiling the expression and
// checking every declared test case) and, only on full success, returns an
// Engine ready to serve traffic. This is the single function that goes
// from a decoded configuration to a usable engine — nothing downstream can
// observe an uncompiled expression or a config that failed its tests.
func Build(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	program, err := harness.Run(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		program:        program,
		denyStatusCode: cfg.DenyStatusCode,
		denyBody:       cfg.DenyBody,
	}, nil
}

// Evaluate runs the compiled program against ctx and maps the result to a
// Disposition. This is the total function design note #9 calls for: every
// path — Ok(true), Ok(false), Err — produces exactly one Disposition, so a
// request can never fall through to an implicit forward.
func (e *Engine) Evaluate(ctx lang.Context) Disposition {
	result, err := e.program.Eval(ctx)
	if err != nil {
		return Disposition{Kind: DispositionError, Status: 500, Body: "internal server error"}
	}
	if result {
		return Disposition{Kind: DispositionForward}
	}
	return Disposition{Kind: DispositionDeny, Status: e.denyStatusCode, Body: e.denyBody}
}
