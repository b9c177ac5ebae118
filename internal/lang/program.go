package lang

import "regexp"

// compiledPattern wraps the pre-compiled regex matcher cached on a
// BinaryOp(Matches) node by the type-checker. regexp.Regexp is Go's
// RE2-derived implementation: linear-time in the input length, no
// backtracking, matching the spec's RE2-style requirement without reaching
// for a third-party engine.
type compiledPattern struct {
	re *regexp.Regexp
}

// Program is a validated, type-checked AST ready for evaluation. It is
// immutable after Compile returns, carries no interior mutable state (the
// regex cache is populated once during compilation and never written
// again), and is safe to evaluate concurrently against distinct
// RequestContexts from multiple goroutines without coordination.
type Program struct {
	root   Expr
	source string
}

// Source returns the original expression text the Program was compiled
// from, for logging and diagnostics.
func (p *Program) Source() string {
	return p.source
}

// NodeCount returns the number of AST nodes in the compiled program, for
// startup logging (see internal/harness).
func (p *Program) NodeCount() int {
	c := &nodeCounter{}
	_ = Walk(p.root, c)
	return c.count
}
