package lang

import "github.com/alecthomas/participle/v2"

// Parse parses src into an Expr tree using the participle-built grammar in
// grammar.go, then lowers the resulting concrete syntax tree into the
// AST types the type-checker and evaluator operate on.
func Parse(src string) (Expr, error) {
	cst, err := exprParser.ParseString("", src)
	if err != nil {
		return nil, wrapGrammarError(err)
	}
	return lowerOr(cst)
}

// wrapGrammarError translates a participle.Error (which already carries a
// source position) into this package's ParseError, so lexing and grammar
// failures report through the same error type and the same offset-based
// message format as the rest of the pipeline. String escapes are checked
// later, by unquoteString during lowering.
func wrapGrammarError(err error) error {
	perr, ok := err.(participle.Error)
	if !ok {
		return newParseErrorAt(Position{}, "valid expression", err.Error())
	}
	offset := perr.Position().Offset
	return newParseErrorAt(Position{Start: offset, End: offset}, "", perr.Message())
}
