package lang

import (
	"fmt"

	"github.com/samber/oops"
)

// LexError reports a malformed token at a byte offset.
type LexError struct {
	Pos    Position
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Pos.Start, e.Reason)
}

func newLexError(pos Position, reason string) error {
	return oops.
		Code("lex_error").
		With("offset", pos.Start).
		Wrap(&LexError{Pos: pos, Reason: reason})
}

// ParseError reports a grammar violation at a byte offset, in the
// participle-built grammar's own words when one is available.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos.Start, e.Message)
}

// newParseErrorAt reports a parse failure at pos. When msg is already a
// complete description (as participle's own error messages are), expected
// is passed empty and msg is used verbatim; otherwise the two are joined
// as "expected <expected>, got <msg>".
func newParseErrorAt(pos Position, expected, msg string) error {
	full := msg
	if expected != "" {
		full = fmt.Sprintf("expected %s, got %s", expected, msg)
	}
	return oops.
		Code("parse_error").
		With("offset", pos.Start).
		Wrap(&ParseError{Pos: pos, Message: full})
}

// CompileError reports a type-checking failure: unknown identifier/function,
// wrong arity, type mismatch, non-literal matches() pattern, invalid regex,
// or a non-Bool top-level expression.
type CompileError struct {
	Pos     Position
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at offset %d: %s", e.Pos.Start, e.Message)
}

func newCompileError(pos Position, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return oops.
		Code("compile_error").
		With("offset", pos.Start).
		Wrap(&CompileError{Pos: pos, Message: msg})
}
