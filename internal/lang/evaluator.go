package lang

import "strings"

// Context is the minimal request surface the evaluator needs. It is
// implemented by reqctx.Context; lang does not import that package so the
// expression pipeline stays usable outside any particular HTTP plumbing.
type Context interface {
	Method() string
	Path() string
	Host() string
	// HeaderValues returns the ordered list of values for the header named
	// by lowercase name, or nil if absent.
	HeaderValues(lowerName string) []string
}

// Eval evaluates the compiled Program against ctx. Because Compile proved
// the program well-typed, the only way this returns an error is an
// implementation bug surfacing from a panic recovered at the boundary,
// reported as an *EvalError with a false result.
func (p *Program) Eval(ctx Context) (result bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = false
			err = &EvalError{Reason: r}
		}
	}()
	v := eval(p.root, ctx)
	return v.(bool), nil
}

// EvalError is the reserved runtime-error category described in the
// error-handling design: a well-typed Program should never produce one,
// but the evaluator guards against implementation bugs rather than letting
// a panic escape to the request handler, which must fail closed.
type EvalError struct {
	Reason any
}

func (e *EvalError) Error() string {
	return "internal evaluation error (this indicates a compiler bug, not a policy error)"
}

// eval walks a type-checked node and returns its value as bool, string, or
// StringList depending on the node's static type. The type-checker having
// already run means the type assertions below can never fail for a
// well-formed Program.
func eval(e Expr, ctx Context) any {
	switch n := e.(type) {
	case *BoolLiteral:
		return n.Value

	case *StringLiteral:
		return n.Value

	case *Ident:
		switch n.Name {
		case IdentMethod:
			return ctx.Method()
		case IdentPath:
			return ctx.Path()
		case IdentHost:
			return ctx.Host()
		default:
			panic("lang: eval: unhandled identifier")
		}

	case *Not:
		return !eval(n.Child, ctx).(bool)

	case *And:
		if !eval(n.Left, ctx).(bool) {
			return false
		}
		return eval(n.Right, ctx).(bool)

	case *Or:
		if eval(n.Left, ctx).(bool) {
			return true
		}
		return eval(n.Right, ctx).(bool)

	case *BinaryOp:
		return evalBinaryOp(n, ctx)

	case *FuncCall:
		return evalFuncCall(n, ctx)

	default:
		panic("lang: eval: unhandled AST node")
	}
}

func evalBinaryOp(n *BinaryOp, ctx Context) bool {
	left := eval(n.Left, ctx).(string)

	switch n.Op {
	case OpEq:
		return left == eval(n.Right, ctx).(string)
	case OpNeq:
		return left != eval(n.Right, ctx).(string)
	case OpStartsWith:
		return strings.HasPrefix(left, eval(n.Right, ctx).(string))
	case OpEndsWith:
		return strings.HasSuffix(left, eval(n.Right, ctx).(string))
	case OpSubstrContains:
		return strings.Contains(left, eval(n.Right, ctx).(string))
	case OpMatches:
		return n.compiledRegex.re.MatchString(left)
	default:
		panic("lang: eval: unhandled binary operator")
	}
}

func evalFuncCall(n *FuncCall, ctx Context) any {
	switch n.Name {
	case "header":
		name := eval(n.Args[0], ctx).(string)
		vals := ctx.HeaderValues(strings.ToLower(name))
		if len(vals) == 0 {
			return ""
		}
		return vals[0]

	case "headerValues":
		name := eval(n.Args[0], ctx).(string)
		vals := ctx.HeaderValues(strings.ToLower(name))
		return StringList(append([]string(nil), vals...))

	case "headerList":
		name := eval(n.Args[0], ctx).(string)
		vals := ctx.HeaderValues(strings.ToLower(name))
		if len(vals) == 0 {
			return StringList(nil)
		}
		return StringList(splitHeaderList(vals[0]))

	case "contains":
		lst := eval(n.Args[0], ctx).(StringList)
		item := eval(n.Args[1], ctx).(string)
		return listContains(lst, item)

	case "anyOf":
		lst := eval(n.Args[0], ctx).(StringList)
		for _, arg := range n.Args[1:] {
			if listContains(lst, eval(arg, ctx).(string)) {
				return true
			}
		}
		return false

	case "allOf":
		lst := eval(n.Args[0], ctx).(StringList)
		for _, arg := range n.Args[1:] {
			if !listContains(lst, eval(arg, ctx).(string)) {
				return false
			}
		}
		return true

	default:
		panic("lang: eval: unhandled builtin " + n.Name)
	}
}

// splitHeaderList splits v on ',' and ASCII-trims each element. Empty
// elements from leading/trailing/double commas are retained.
func splitHeaderList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = trimASCIISpace(p)
	}
	return out
}

func trimASCIISpace(s string) string {
	return strings.Trim(s, " \t\n\r")
}

func listContains(lst StringList, item string) bool {
	for _, v := range lst {
		if v == item {
			return true
		}
	}
	return false
}
