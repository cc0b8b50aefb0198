package lexer

import (
	"caesar/interpreter-go/pkg/diag"
)

// tabWidth is the number of columns a tab contributes to indentation.
const tabWidth = 8

// Lexer converts Caesar source into tokens, synthesizing NEWLINE, INDENT and
// DEDENT from line structure.
//
// Invariants:
//   - indents is never empty and indents[0] == 0; every push emits exactly one
//     INDENT and every pop exactly one DEDENT, so the stream balances once the
//     stack is unwound at end of input.
//   - depth counts open brackets; while it is positive, newlines and
//     indentation are not significant.
type Lexer struct {
	input  []rune
	pos    int
	line   int
	column int

	indents     []int
	depth       int
	atLineStart bool

	tokens []Token
}

// New creates a lexer over source.
func New(source string) *Lexer {
	return &Lexer{
		input:       []rune(source),
		line:        1,
		column:      1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// Tokenize is shorthand for New(source).Tokenize().
func Tokenize(source string) ([]Token, error) {
	return New(source).Tokenize()
}

// Tokenize scans the whole input. The returned slice always ends with exactly
// one END token. Errors are *diag.Error values of kind KindLexical.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		if l.atLineStart && l.depth == 0 {
			l.atLineStart = false
			if err := l.handleIndentation(); err != nil {
				return nil, err
			}
		}
		l.skipWhitespace()
		if l.atEnd() {
			break
		}

		ch := l.peek()
		switch {
		case ch == '#':
			l.skipComment()
		case ch == '\n':
			pos := l.position()
			l.advance()
			if l.depth > 0 {
				continue
			}
			l.emitNewline(pos)
			l.atLineStart = true
		case ch == '"' || ch == '\'':
			if err := l.readString(); err != nil {
				return nil, err
			}
		case isDigit(ch):
			l.readNumber()
		case isIdentStart(ch):
			l.readIdentifier()
		default:
			if err := l.readOperator(); err != nil {
				return nil, err
			}
		}
	}

	end := l.position()
	l.emitNewline(end)
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(DEDENT, "", end)
	}
	l.emit(END, "", end)
	return l.tokens, nil
}

// handleIndentation measures the leading whitespace of a line and adjusts the
// indentation stack. Blank and comment-only lines are ignored.
func (l *Lexer) handleIndentation() error {
	width := 0
scan:
	for !l.atEnd() {
		switch l.peek() {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			break scan
		}
		l.advance()
	}
	if l.atEnd() {
		return nil
	}
	switch l.peek() {
	case '\n', '\r', '#':
		return nil
	}

	pos := l.position()
	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.emit(INDENT, "", pos)
	case width < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(DEDENT, "", pos)
		}
		if l.indents[len(l.indents)-1] != width {
			return diag.Lexical(pos, "inconsistent dedent: indentation of %d does not match any outer block", width)
		}
	}
	return nil
}

func (l *Lexer) readString() error {
	start := l.position()
	quote := l.advance()
	var value []rune
	for {
		if l.atEnd() {
			return diag.Lexical(start, "unterminated string literal")
		}
		ch := l.advance()
		if ch == quote {
			break
		}
		if ch != '\\' {
			value = append(value, ch)
			continue
		}
		if l.atEnd() {
			return diag.Lexical(start, "unterminated string literal")
		}
		escaped := l.advance()
		switch escaped {
		case 'n':
			value = append(value, '\n')
		case 't':
			value = append(value, '\t')
		case 'r':
			value = append(value, '\r')
		case '0':
			value = append(value, 0)
		default:
			// \\, \' and \" land here too.
			value = append(value, escaped)
		}
	}
	l.emit(STRING, string(value), start)
	return nil
}

func (l *Lexer) readNumber() {
	start := l.position()
	begin := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	kind := INTEGER
	if l.peek() == '.' && isDigit(l.peekNext()) {
		kind = FLOAT
		l.advance()
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}
	l.emit(kind, string(l.input[begin:l.pos]), start)
}

func (l *Lexer) readIdentifier() {
	start := l.position()
	begin := l.pos
	for !l.atEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	text := string(l.input[begin:l.pos])
	l.emit(LookupIdent(text), text, start)
}

func (l *Lexer) readOperator() error {
	start := l.position()
	ch := l.peek()
	if next := l.peekNext(); next != 0 {
		two := string([]rune{ch, next})
		if kind, ok := twoCharOperators[two]; ok {
			l.advance()
			l.advance()
			l.emit(kind, two, start)
			return nil
		}
	}
	if ch < 0x80 {
		if kind, ok := oneCharOperators[byte(ch)]; ok {
			l.advance()
			switch kind {
			case LPAREN, LBRACKET, LBRACE:
				l.depth++
			case RPAREN, RBRACKET, RBRACE:
				if l.depth > 0 {
					l.depth--
				}
			}
			l.emit(kind, string(ch), start)
			return nil
		}
	}
	return diag.Lexical(start, "unexpected character '%c'", ch)
}

// emitNewline closes a logical line. Lines that produced no tokens, and
// repeated newlines, emit nothing.
func (l *Lexer) emitNewline(pos diag.Position) {
	if len(l.tokens) == 0 {
		return
	}
	switch l.tokens[len(l.tokens)-1].Type {
	case NEWLINE, INDENT, DEDENT:
		return
	}
	l.emit(NEWLINE, "", pos)
}

func (l *Lexer) emit(kind TokenType, text string, pos diag.Position) {
	l.tokens = append(l.tokens, Token{Type: kind, Text: text, Pos: pos})
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\f', '\v':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) advance() rune {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) position() diag.Position {
	return diag.Position{Line: l.line, Column: l.column}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
