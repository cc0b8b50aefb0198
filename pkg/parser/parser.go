package parser

import (
	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/lexer"
)

// Parser builds an AST from a token stream by recursive descent.
//
// Invariants:
//   - tokens is non-empty and ends in END; current() never reads past it.
//   - funcDepth and loopDepth count the enclosing function bodies and loop
//     bodies of the statement being parsed. A def or class body starts a
//     fresh loop context (and a class body a fresh function context).
type Parser struct {
	tokens []lexer.Token
	pos    int

	funcDepth int
	loopDepth int
}

// New returns a parser over tokens. A stream that does not end in END is
// terminated with a synthetic END so the parser can always report a position.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.END {
		var pos diag.Position
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Type: lexer.END, Pos: pos})
	}
	return &Parser{tokens: tokens}
}

// Parse builds a Program from tokens. Errors are *diag.Error values of kind
// KindSyntax; parsing stops at the first one.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

// ParseSource tokenizes and parses src.
func ParseSource(src string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseProgram parses every top-level statement up to END.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	start := p.current().Pos
	body := make([]ast.Statement, 0)
	p.skipNewlines()
	for !p.check(lexer.END) {
		if p.check(lexer.INDENT) {
			return nil, p.errorAtCurrent("unexpected indent")
		}
		if p.check(lexer.DEDENT) {
			// Unreachable for lexer output; tolerated for hand-built streams.
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		p.skipNewlines()
	}
	return ast.WithPos(ast.NewProgram(body), start), nil
}
