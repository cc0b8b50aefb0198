package parser

import (
	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/lexer"
)

func (p *Parser) parseFunctionDefinition() (ast.Statement, error) {
	tok := p.advance()
	nameTok, err := p.expect(lexer.IDENTIFIER, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}

	savedFunc, savedLoop := p.funcDepth, p.loopDepth
	p.funcDepth, p.loopDepth = savedFunc+1, 0
	body, err := p.parseBlock("function signature")
	p.funcDepth, p.loopDepth = savedFunc, savedLoop
	if err != nil {
		return nil, err
	}

	id := ast.WithPos(ast.NewIdentifier(nameTok.Text), nameTok.Pos)
	return ast.WithPos(ast.NewFunctionDefinition(id, params, body), tok.Pos), nil
}

// parseParameters parses the parameter list after '(' through ')'.
func (p *Parser) parseParameters() ([]*ast.FunctionParameter, error) {
	params := make([]*ast.FunctionParameter, 0)
	seen := make(map[string]struct{})
	sawDefault := false
	for !p.check(lexer.RPAREN) {
		nameTok, err := p.expect(lexer.IDENTIFIER, "expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[nameTok.Text]; dup {
			return nil, p.errorAt(nameTok, "duplicate parameter '%s'", nameTok.Text)
		}
		seen[nameTok.Text] = struct{}{}

		var defaultValue ast.Expression
		if _, ok := p.match(lexer.ASSIGN); ok {
			// Parsed above assignment so "b = c = 1" is rejected.
			defaultValue, err = p.parseOr()
			if err != nil {
				return nil, err
			}
			sawDefault = true
		} else if sawDefault {
			return nil, p.errorAt(nameTok, "non-default parameter '%s' follows default parameter", nameTok.Text)
		}

		name := ast.WithPos(ast.NewIdentifier(nameTok.Text), nameTok.Pos)
		params = append(params, ast.WithPos(ast.NewFunctionParameter(name, defaultValue), nameTok.Pos))
		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseClassDefinition() (ast.Statement, error) {
	tok := p.advance()
	nameTok, err := p.expect(lexer.IDENTIFIER, "expected class name")
	if err != nil {
		return nil, err
	}

	bases := make([]*ast.Identifier, 0)
	if _, ok := p.match(lexer.LPAREN); ok {
		for !p.check(lexer.RPAREN) {
			baseTok, err := p.expect(lexer.IDENTIFIER, "expected base class name")
			if err != nil {
				return nil, err
			}
			bases = append(bases, ast.WithPos(ast.NewIdentifier(baseTok.Text), baseTok.Pos))
			if _, ok := p.match(lexer.COMMA); !ok {
				break
			}
		}
		if _, err := p.expect(lexer.RPAREN, "expected ')' after base classes"); err != nil {
			return nil, err
		}
	}

	savedFunc, savedLoop := p.funcDepth, p.loopDepth
	p.funcDepth, p.loopDepth = 0, 0
	body, err := p.parseBlock("class name")
	p.funcDepth, p.loopDepth = savedFunc, savedLoop
	if err != nil {
		return nil, err
	}

	id := ast.WithPos(ast.NewIdentifier(nameTok.Text), nameTok.Pos)
	return ast.WithPos(ast.NewClassDefinition(id, bases, body), tok.Pos), nil
}
