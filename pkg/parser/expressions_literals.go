package parser

import (
	"strconv"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/lexer"
)

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.INTEGER:
		p.advance()
		value, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, "integer literal out of range")
		}
		return ast.WithPos(ast.NewIntegerLiteral(value), tok.Pos), nil
	case lexer.FLOAT:
		p.advance()
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid float literal")
		}
		return ast.WithPos(ast.NewFloatLiteral(value), tok.Pos), nil
	case lexer.STRING:
		p.advance()
		return ast.WithPos(ast.NewStringLiteral(tok.Text), tok.Pos), nil
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return ast.WithPos(ast.NewBooleanLiteral(tok.Type == lexer.TRUE), tok.Pos), nil
	case lexer.NONE:
		p.advance()
		return ast.WithPos(ast.NewNoneLiteral(), tok.Pos), nil
	case lexer.IDENTIFIER:
		p.advance()
		return ast.WithPos(ast.NewIdentifier(tok.Text), tok.Pos), nil
	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBRACKET:
		p.advance()
		elements, err := p.parseExpressionList(lexer.RBRACKET, "expected ']' after list elements")
		if err != nil {
			return nil, err
		}
		return ast.WithPos(ast.NewListLiteral(elements), tok.Pos), nil
	case lexer.LBRACE:
		return p.parseMapLiteral()
	}
	return nil, p.errorAt(tok, "expected expression")
}

func (p *Parser) parseMapLiteral() (ast.Expression, error) {
	open := p.advance()
	entries := make([]*ast.MapEntry, 0)
	for !p.check(lexer.RBRACE) {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		colon, err := p.expect(lexer.COLON, "expected ':' after map key")
		if err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.WithPos(ast.NewMapEntry(key, value), colon.Pos))
		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE, "expected '}' after map entries"); err != nil {
		return nil, err
	}
	return ast.WithPos(ast.NewMapLiteral(entries), open.Pos), nil
}
