package lang

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ignorePositions drops source Position fields and the parser-internal
// compiledRegex cache (set by the type-checker) from AST comparisons, so
// tests can focus on shape.
var ignorePositions = cmp.Options{
	cmpopts.IgnoreFields(BoolLiteral{}, "Pos"),
	cmpopts.IgnoreFields(StringLiteral{}, "Pos"),
	cmpopts.IgnoreFields(rawIdent{}, "Pos"),
	cmpopts.IgnoreFields(Ident{}, "Pos"),
	cmpopts.IgnoreFields(FuncCall{}, "Pos"),
	cmpopts.IgnoreFields(BinaryOp{}, "Pos"),
	cmpopts.IgnoreFields(Not{}, "Pos"),
	cmpopts.IgnoreFields(And{}, "Pos"),
	cmpopts.IgnoreFields(Or{}, "Pos"),
	cmpopts.IgnoreUnexported(BinaryOp{}),
}

func TestParseShapes(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  Expr
	}{
		{
			name:  "equality",
			input: `method == "GET"`,
			want:  &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "method"}, Right: &StringLiteral{Value: "GET"}},
		},
		{
			name:  "and has lower precedence than not",
			input: `NOT method == "GET" AND path == "/x"`,
			want: &And{
				Left:  &Not{Child: &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "method"}, Right: &StringLiteral{Value: "GET"}}},
				Right: &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "path"}, Right: &StringLiteral{Value: "/x"}},
			},
		},
		{
			name:  "or has lower precedence than and",
			input: `method == "GET" AND path == "/a" OR path == "/b"`,
			want: &Or{
				Left: &And{
					Left:  &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "method"}, Right: &StringLiteral{Value: "GET"}},
					Right: &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "path"}, Right: &StringLiteral{Value: "/a"}},
				},
				Right: &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "path"}, Right: &StringLiteral{Value: "/b"}},
			},
		},
		{
			name:  "parens override precedence",
			input: `method == "GET" AND (path == "/a" OR path == "/b")`,
			want: &And{
				Left: &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "method"}, Right: &StringLiteral{Value: "GET"}},
				Right: &Or{
					Left:  &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "path"}, Right: &StringLiteral{Value: "/a"}},
					Right: &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "path"}, Right: &StringLiteral{Value: "/b"}},
				},
			},
		},
		{
			name:  "contains as infix operator",
			input: `path contains "/admin"`,
			want:  &BinaryOp{Op: OpSubstrContains, Left: &rawIdent{Text: "path"}, Right: &StringLiteral{Value: "/admin"}},
		},
		{
			name:  "contains as function call",
			input: `contains(headerList("X-Scopes"), "read")`,
			want: &FuncCall{
				Name: "contains",
				Args: []Expr{
					&FuncCall{Name: "headerList", Args: []Expr{&StringLiteral{Value: "X-Scopes"}}},
					&StringLiteral{Value: "read"},
				},
			},
		},
		{
			name:  "chained not",
			input: `NOT NOT method == "GET"`,
			want:  &Not{Child: &Not{Child: &BinaryOp{Op: OpEq, Left: &rawIdent{Text: "method"}, Right: &StringLiteral{Value: "GET"}}}},
		},
		{
			name:  "bool literal",
			input: `true`,
			want:  &BoolLiteral{Value: true},
		},
		{
			name:  "variadic function call",
			input: `anyOf(headerValues("X-Scopes"), "read", "write")`,
			want: &FuncCall{
				Name: "anyOf",
				Args: []Expr{
					&FuncCall{Name: "headerValues", Args: []Expr{&StringLiteral{Value: "X-Scopes"}}},
					&StringLiteral{Value: "read"},
					&StringLiteral{Value: "write"},
				},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, got, ignorePositions); diff != "" {
				t.Errorf("Parse(%q) unexpected diff (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
	}{
		{"chained comparisons", `method == "GET" == "POST"`},
		{"trailing token", `method == "GET" extra`},
		{"unclosed paren", `(method == "GET"`},
		{"bare contains with no call", `contains`},
		{"missing rhs", `method ==`},
		{"empty input", ``},
		{"unmatched paren token", `)`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.input); err == nil {
				t.Errorf("Parse(%q) succeeded, want parse error", tc.input)
			}
		})
	}
}
