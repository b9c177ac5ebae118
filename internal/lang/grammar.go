package lang

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer defines the token types for the policy expression grammar.
// String must come before Ident so quoted text is never mistaken for a
// bare word; EqEq/BangEq are their own tokens since "=" alone is not a
// valid token (operators are always two characters). AND/OR/NOT/
// startsWith/endsWith/contains/matches/true/false are not separate token
// types — like the reserved words in an analogous ABAC condition grammar
// elsewhere in this codebase's lineage, they lex as plain Ident tokens
// and are matched by literal value in the grammar below, then rejected
// as identifiers during lowering.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "EqEq", Pattern: `==`},
	{Name: "BangEq", Pattern: `!=`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "whitespace", Pattern: `\s+`},
})

// The CST mirrors the grammar's own precedence table (Not > comparison >
// And > Or), one struct per precedence level — the same shape as an
// analogous boolean-connective condition grammar elsewhere in the example
// pack: a disjunction of conjunctions of (optionally negated) comparisons.

// cstOr is a disjunction: and-expr ( "OR" and-expr )*.
type cstOr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Ands   []*cstAnd `parser:"@@ ('OR' @@)*"`
}

// cstAnd is a conjunction: not-expr ( "AND" not-expr )*.
type cstAnd struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Nots   []*cstNot `parser:"@@ ('AND' @@)*"`
}

// cstNot is a possibly-negated comparison. Negation recurses so "NOT NOT x"
// parses, matching the hand-written recursive-descent rule it replaces.
type cstNot struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Negated *cstNot `parser:"  'NOT' @@"`
	Cmp     *cstCmp `parser:"| @@"`
}

// cstCmp is a primary, optionally followed by exactly one comparison
// operator and a second primary. The operator never repeats: "a == b == c"
// is left with a trailing "== c" that the caller rejects as unconsumed
// input, exactly as the hand-written parser did.
type cstCmp struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *cstPrimary `parser:"@@"`
	Op     string      `parser:"(@('==' | '!=' | 'startsWith' | 'endsWith' | 'contains' | 'matches')"`
	Right  *cstPrimary `parser:"@@)?"`
}

// cstPrimary is a string literal, a bool literal, a function call, a bare
// identifier, or a parenthesized sub-expression. Bool must be tried before
// Ident (both match "true"/"false" lexically) and Call before Ident (both
// match a bare word), so ordered choice picks the more specific production
// first; UseLookahead lets the parser backtrack out of Call when no "("
// follows. Str is captured as the raw quoted token text (including the
// quotes) and unescaped during lowering, where the restricted \" \\ \n \t
// \r escape set the language has always supported is enforced.
type cstPrimary struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Str    *string      `parser:"  @String"`
	Bool   *string      `parser:"| @('true' | 'false')"`
	Call   *cstFuncCall `parser:"| @@"`
	Ident  *string      `parser:"| @Ident"`
	Paren  *cstOr       `parser:"| '(' @@ ')'"`
}

// cstFuncCall is name "(" ( arg ( "," arg )* )? ")". "contains" is allowed
// as a call name here even though it is also a comparison operator; which
// shape wins is decided purely by whether a "(" follows, mirroring the
// hand-written parser's disambiguation rule.
type cstFuncCall struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string   `parser:"@('contains' | Ident)"`
	Args   []*cstOr `parser:"'(' (@@ (',' @@)*)? ')'"`
}

// exprParser is the singleton participle parser for the expression
// grammar. The lower-case "whitespace" lexer rule above is elided from
// the token stream automatically; MaxLookahead enables the backtracking
// ordered-choice disambiguation cstPrimary and cstFuncCall rely on (e.g.
// trying the function-call alternative before falling back to a bare
// identifier).
var exprParser = participle.MustBuild[cstOr](
	participle.Lexer(exprLexer),
	participle.UseLookahead(participle.MaxLookahead),
)
