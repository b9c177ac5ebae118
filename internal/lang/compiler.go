package lang

import (
	"fmt"
	"regexp"
)

// builtinSig describes the arity and argument/return types of a built-in
// function. argc is the minimum argument count for variadic functions
// (anyOf, allOf); every argument past argTypes must be String.
type builtinSig struct {
	argc     int // exact argument count, or the minimum when variadic
	variadic bool
	argTypes []ValueType // fixed leading argument types
	ret      ValueType
}

var builtins = map[string]builtinSig{
	"header":       {argc: 1, argTypes: []ValueType{TypeString}, ret: TypeString},
	"headerValues": {argc: 1, argTypes: []ValueType{TypeString}, ret: TypeStringList},
	"headerList":   {argc: 1, argTypes: []ValueType{TypeString}, ret: TypeStringList},
	"contains":     {argc: 2, argTypes: []ValueType{TypeStringList, TypeString}, ret: TypeBool},
	"anyOf":        {variadic: true, argc: 2, argTypes: []ValueType{TypeStringList}, ret: TypeBool},
	"allOf":        {variadic: true, argc: 2, argTypes: []ValueType{TypeStringList}, ret: TypeBool},
}

// Compile parses and type-checks src, returning an evaluation-ready
// Program. Compilation is the only place the AST is mutated: bare
// identifiers are resolved to method/path/host, and every Matches node's
// right-hand literal is compiled to a regexp and cached on the node.
func Compile(src string) (*Program, error) {
	root, err := Parse(src)
	if err != nil {
		return nil, err
	}

	checked, typ, err := check(root)
	if err != nil {
		return nil, err
	}
	if typ != TypeBool {
		return nil, newCompileError(root.position(), "top-level expression must be Bool, got %s", typ)
	}

	return &Program{root: checked, source: src}, nil
}

// check type-checks e bottom-up, returning the (possibly rewritten) node
// and its type. rawIdent nodes are rewritten into Ident nodes here; every
// other node type is returned unchanged but with its children re-checked
// and, for Matches, its regex cache populated.
func check(e Expr) (Expr, ValueType, error) {
	switch n := e.(type) {
	case *rawIdent:
		switch n.Text {
		case "method":
			return &Ident{Pos: n.Pos, Name: IdentMethod}, TypeString, nil
		case "path":
			return &Ident{Pos: n.Pos, Name: IdentPath}, TypeString, nil
		case "host":
			return &Ident{Pos: n.Pos, Name: IdentHost}, TypeString, nil
		default:
			return nil, 0, newCompileError(n.Pos, "unknown identifier %q", n.Text)
		}

	case *BoolLiteral:
		return n, TypeBool, nil

	case *StringLiteral:
		return n, TypeString, nil

	case *Ident:
		return n, TypeString, nil

	case *Not:
		child, typ, err := check(n.Child)
		if err != nil {
			return nil, 0, err
		}
		if typ != TypeBool {
			return nil, 0, newCompileError(n.Child.position(), "NOT operand must be Bool, got %s", typ)
		}
		n.Child = child
		return n, TypeBool, nil

	case *And:
		return checkBoolBinary(n, &n.Left, &n.Right, "AND")

	case *Or:
		return checkBoolBinary(n, &n.Left, &n.Right, "OR")

	case *BinaryOp:
		return checkBinaryOp(n)

	case *FuncCall:
		return checkFuncCall(n)

	default:
		// Exhaustive dispatch: every Expr variant must be handled above.
		// Reaching here is an implementation bug, not a user error.
		panic(fmt.Sprintf("lang: check: unhandled AST node type %T", e))
	}
}

func checkBoolBinary(pos Expr, left, right *Expr, opName string) (Expr, ValueType, error) {
	l, lt, err := check(*left)
	if err != nil {
		return nil, 0, err
	}
	if lt != TypeBool {
		return nil, 0, newCompileError((*left).position(), "%s left operand must be Bool, got %s", opName, lt)
	}
	r, rt, err := check(*right)
	if err != nil {
		return nil, 0, err
	}
	if rt != TypeBool {
		return nil, 0, newCompileError((*right).position(), "%s right operand must be Bool, got %s", opName, rt)
	}
	*left = l
	*right = r
	return pos, TypeBool, nil
}

func checkBinaryOp(n *BinaryOp) (Expr, ValueType, error) {
	left, lt, err := check(n.Left)
	if err != nil {
		return nil, 0, err
	}
	if lt != TypeString {
		return nil, 0, newCompileError(n.Left.position(), "%s left operand must be String, got %s", n.Op, lt)
	}
	n.Left = left

	right, rt, err := check(n.Right)
	if err != nil {
		return nil, 0, err
	}
	if rt != TypeString {
		return nil, 0, newCompileError(n.Right.position(), "%s right operand must be String, got %s", n.Op, rt)
	}
	n.Right = right

	if n.Op == OpMatches {
		lit, ok := n.Right.(*StringLiteral)
		if !ok {
			return nil, 0, newCompileError(n.Right.position(), "matches: pattern operand must be a string literal")
		}
		re, err := regexp.Compile(lit.Value)
		if err != nil {
			return nil, 0, newCompileError(n.Right.position(), "matches: invalid regular expression: %v", err)
		}
		n.compiledRegex = &compiledPattern{re: re}
	}

	return n, TypeBool, nil
}

func checkFuncCall(n *FuncCall) (Expr, ValueType, error) {
	sig, ok := builtins[n.Name]
	if !ok {
		return nil, 0, newCompileError(n.Pos, "unknown function %q", n.Name)
	}

	if sig.variadic {
		if len(n.Args) < sig.argc {
			return nil, 0, newCompileError(n.Pos, "%s: expected at least %d argument(s), got %d", n.Name, sig.argc, len(n.Args))
		}
	} else if len(n.Args) != sig.argc {
		return nil, 0, newCompileError(n.Pos, "%s: expected %d argument(s), got %d", n.Name, sig.argc, len(n.Args))
	}

	for i, arg := range n.Args {
		checked, typ, err := check(arg)
		if err != nil {
			return nil, 0, err
		}
		n.Args[i] = checked

		want := TypeString
		if i < len(sig.argTypes) {
			want = sig.argTypes[i]
		}
		if typ != want {
			return nil, 0, newCompileError(arg.position(), "%s: argument %d must be %s, got %s", n.Name, i+1, want, typ)
		}
	}

	return n, sig.ret, nil
}
