package diag

import (
	"errors"
	"fmt"
)

// Kind identifies which pipeline stage produced an error.
type Kind string

const (
	KindLexical Kind = "lexical"
	KindSyntax  Kind = "syntax"
	KindRuntime Kind = "runtime"
	// KindInternal marks an evaluator invariant violation rather than a
	// problem with the user's program.
	KindInternal Kind = "internal"
)

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether the position carries location information.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the single error type returned by the tokenizer, parser and
// evaluator.
type Error struct {
	Kind    Kind
	Message string
	Pos     Position
	// Token holds the offending token text for syntax errors.
	Token string
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Pos.IsValid() {
		msg = fmt.Sprintf("%s at line %d, column %d", msg, e.Pos.Line, e.Pos.Column)
	}
	if e.Kind == KindSyntax && e.Token != "" {
		msg = fmt.Sprintf("%s (got '%s')", msg, e.Token)
	}
	return msg
}

// Render formats err the way the CLI and REPL print it.
func Render(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

func Lexical(pos Position, format string, args ...any) *Error {
	return &Error{Kind: KindLexical, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func Syntax(pos Position, token string, format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Message: fmt.Sprintf(format, args...), Pos: pos, Token: token}
}

func Runtime(pos Position, format string, args ...any) *Error {
	return &Error{Kind: KindRuntime, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func Internal(pos Position, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// KindOf extracts the Kind of a diagnostic error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// Is reports whether err is a diagnostic error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// PositionOf returns the source position carried by err, if any.
func PositionOf(err error) (Position, bool) {
	var de *Error
	if errors.As(err, &de) && de.Pos.IsValid() {
		return de.Pos, true
	}
	return Position{}, false
}
