package lang

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// rawIdent is a parser-only placeholder for a bare identifier before the
// type-checker resolves it to method/path/host or rejects it. It is never
// seen by the evaluator — the compiler rewrites every rawIdent into an
// Ident or reports a compile error.
type rawIdent struct {
	Pos  Position
	Text string
}

func (n *rawIdent) position() Position { return n.Pos }

// reservedWords are lexemes that are never valid as a bare identifier or a
// function name, even though the lexer has no dedicated token type for
// them. They are rejected at lowering time rather than in the grammar
// itself, the same split an analogous condition grammar elsewhere in this
// codebase's lineage uses (grammar accepts them as plain words; a
// post-parse pass rejects the reserved ones).
var reservedWords = map[string]bool{
	"AND":        true,
	"OR":         true,
	"NOT":        true,
	"startsWith": true,
	"endsWith":   true,
	"matches":    true,
}

func toPosition(start, end lexer.Position) Position {
	return Position{Start: start.Offset, End: end.Offset}
}

func lowerOr(c *cstOr) (Expr, error) {
	left, err := lowerAnd(c.Ands[0])
	if err != nil {
		return nil, err
	}
	for _, next := range c.Ands[1:] {
		right, err := lowerAnd(next)
		if err != nil {
			return nil, err
		}
		left = &Or{Pos: toPosition(c.Pos, c.EndPos), Left: left, Right: right}
	}
	return left, nil
}

func lowerAnd(c *cstAnd) (Expr, error) {
	left, err := lowerNot(c.Nots[0])
	if err != nil {
		return nil, err
	}
	for _, next := range c.Nots[1:] {
		right, err := lowerNot(next)
		if err != nil {
			return nil, err
		}
		left = &And{Pos: toPosition(c.Pos, c.EndPos), Left: left, Right: right}
	}
	return left, nil
}

func lowerNot(c *cstNot) (Expr, error) {
	if c.Negated != nil {
		child, err := lowerNot(c.Negated)
		if err != nil {
			return nil, err
		}
		return &Not{Pos: toPosition(c.Pos, c.EndPos), Child: child}, nil
	}
	return lowerCmp(c.Cmp)
}

func lowerCmp(c *cstCmp) (Expr, error) {
	left, err := lowerPrimary(c.Left)
	if err != nil {
		return nil, err
	}
	if c.Op == "" {
		return left, nil
	}
	right, err := lowerPrimary(c.Right)
	if err != nil {
		return nil, err
	}
	op, ok := cmpOpFor(c.Op)
	if !ok {
		// Unreachable: the grammar only ever captures one of the six
		// operator spellings cmpOpFor recognizes.
		return nil, newLexError(toPosition(c.Pos, c.EndPos), "unrecognized comparison operator "+c.Op)
	}
	return &BinaryOp{Pos: toPosition(c.Pos, c.EndPos), Op: op, Left: left, Right: right}, nil
}

func cmpOpFor(op string) (BinOp, bool) {
	switch op {
	case "==":
		return OpEq, true
	case "!=":
		return OpNeq, true
	case "startsWith":
		return OpStartsWith, true
	case "endsWith":
		return OpEndsWith, true
	case "contains":
		return OpSubstrContains, true
	case "matches":
		return OpMatches, true
	default:
		return 0, false
	}
}

func lowerPrimary(c *cstPrimary) (Expr, error) {
	pos := toPosition(c.Pos, c.EndPos)

	switch {
	case c.Str != nil:
		val, err := unquoteString(*c.Str)
		if err != nil {
			return nil, newParseErrorAt(pos, "", err.Error())
		}
		return &StringLiteral{Pos: pos, Value: val}, nil

	case c.Bool != nil:
		return &BoolLiteral{Pos: pos, Value: *c.Bool == "true"}, nil

	case c.Call != nil:
		return lowerFuncCall(c.Call)

	case c.Ident != nil:
		// "contains" reaching here means the Call alternative already
		// failed for lack of a following "(" — it is never a valid bare
		// identifier, the same rule the hand-written parser's dedicated
		// TokenContains case enforced.
		if *c.Ident == "contains" {
			return nil, newParseErrorAt(pos, "'('", "end of expression")
		}
		if reservedWords[*c.Ident] {
			return nil, newParseErrorAt(pos, "identifier", "keyword "+*c.Ident)
		}
		return &rawIdent{Pos: pos, Text: *c.Ident}, nil

	case c.Paren != nil:
		return lowerOr(c.Paren)

	default:
		// Unreachable: one of the five cstPrimary alternatives always
		// matches when the parser succeeds.
		return nil, newParseErrorAt(pos, "string, identifier, or '('", "nothing")
	}
}

// unquoteString strips the surrounding quotes captured by the String token
// and interprets the recognized escapes \" \\ \n \t \r — the same escape
// set the language has always supported. Any other escape, or a dangling
// backslash, is an error.
func unquoteString(raw string) (string, error) {
	inner := raw[1 : len(raw)-1]

	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(inner) {
			return "", fmt.Errorf("unterminated escape sequence")
		}
		switch inner[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf("invalid escape sequence '\\%c'", inner[i])
		}
	}
	return b.String(), nil
}

func lowerFuncCall(c *cstFuncCall) (Expr, error) {
	if reservedWords[c.Name] {
		return nil, newParseErrorAt(toPosition(c.Pos, c.EndPos), "function name", "keyword "+c.Name)
	}

	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		arg, err := lowerOr(a)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return &FuncCall{Pos: toPosition(c.Pos, c.EndPos), Name: c.Name, Args: args}, nil
}
