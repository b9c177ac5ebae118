// Package harness implements the startup test harness: compile the
// configured expression, run every declared test case against it, and
// refuse to produce a usable Program if anything fails.
package harness

import (
	"log/slog"

	"github.com/samber/oops"

	"github.com/jaqx0r/authzpolicy/internal/config"
	"github.com/jaqx0r/authzpolicy/internal/lang"
	"github.com/jaqx0r/authzpolicy/internal/reqctx"
)

// Result is one test case's outcome, returned for the caller to log or
// report however it sees fit (authzpolicyd logs via slog; a future caller
// embedded in a different host might render it differently).
type Result struct {
	Name   string
	Expect bool
	Got    bool
	Err    error
}

// Passed reports whether the test case succeeded: no evaluation error and
// the result matches Expect.
func (r Result) Passed() bool {
	return r.Err == nil && r.Got == r.Expect
}

// Run compiles cfg.Expression and evaluates every declared test case
// against it, logging one line per case via logger. It returns the
// compiled Program only if the expression compiled AND every test passed;
// otherwise it returns the compile error, or a single error counting the
// failed test cases (each one is logged by name above it), per spec's
// fail-closed startup contract — a misconfigured policy must never reach
// a state where the request handler is registered.
func Run(cfg *config.Config, logger *slog.Logger) (*lang.Program, error) {
	program, err := lang.Compile(cfg.Expression)
	if err != nil {
		logger.Error("policy compile failed", "error", err)
		return nil, oops.
			Code("compile_failed").
			With("expression", cfg.Expression).
			Wrap(err)
	}
	logger.Info("policy compiled", "nodes", program.NodeCount())

	results := RunTests(program, cfg.Tests)

	failed := 0
	for _, r := range results {
		if r.Passed() {
			logger.Info("policy test passed", "name", r.Name, "expect", r.Expect)
			continue
		}
		failed++
		if r.Err != nil {
			logger.Error("policy test errored", "name", r.Name, "error", r.Err)
		} else {
			logger.Error("policy test failed", "name", r.Name, "expect", r.Expect, "got", r.Got)
		}
	}

	if failed > 0 {
		return nil, oops.
			Code("test_failures").
			With("failed", failed).
			With("total", len(results)).
			Errorf("%d of %d policy test case(s) failed", failed, len(results))
	}

	logger.Info("policy startup harness passed", "tests_total", len(results))
	return program, nil
}

// RunTests evaluates program against every declared test case and returns
// one Result per case, in declared order, without logging — used directly
// by tests and by Run.
func RunTests(program *lang.Program, tests []config.TestCase) []Result {
	results := make([]Result, len(tests))
	for i, tc := range tests {
		ctx := reqctx.FromTestRequest(reqctx.TestRequest{
			Method:  tc.Request.Method,
			Path:    tc.Request.Path,
			Host:    tc.Request.Host,
			Headers: tc.Request.Headers,
		})
		got, err := program.Eval(ctx)
		results[i] = Result{Name: tc.Name, Expect: tc.Expect, Got: got, Err: err}
	}
	return results
}
