package parser

import (
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/lexer"
)

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if tok.Type != lexer.END {
		p.pos++
	}
	return tok
}

func (p *Parser) check(types ...lexer.TokenType) bool {
	cur := p.current().Type
	for _, tt := range types {
		if cur == tt {
			return true
		}
	}
	return false
}

// match consumes the current token if it has one of types.
func (p *Parser) match(types ...lexer.TokenType) (lexer.Token, bool) {
	if p.check(types...) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(tt lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAtCurrent(message)
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) errorAtCurrent(format string, args ...any) error {
	return p.errorAt(p.current(), format, args...)
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...any) error {
	return diag.Syntax(tok.Pos, tok.Describe(), format, args...)
}

// atStatementEnd reports whether the current token closes a simple statement.
func (p *Parser) atStatementEnd() bool {
	return p.check(lexer.NEWLINE, lexer.SEMICOLON, lexer.DEDENT, lexer.END)
}
