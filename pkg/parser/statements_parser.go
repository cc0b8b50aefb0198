package parser

import (
	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.current().Type {
	case lexer.DEF:
		return p.parseFunctionDefinition()
	case lexer.CLASS:
		return p.parseClassDefinition()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileLoop()
	case lexer.FOR:
		return p.parseForLoop()
	}

	stmt, err := p.parseSimpleStatement()
	if err != nil {
		return nil, err
	}
	if err := p.finishSimpleStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		p.advance()
		if p.loopDepth == 0 {
			return nil, p.errorAt(tok, "'break' outside loop")
		}
		return ast.WithPos(ast.NewBreakStatement(), tok.Pos), nil
	case lexer.CONTINUE:
		p.advance()
		if p.loopDepth == 0 {
			return nil, p.errorAt(tok, "'continue' outside loop")
		}
		return ast.WithPos(ast.NewContinueStatement(), tok.Pos), nil
	case lexer.PASS:
		p.advance()
		return ast.WithPos(ast.NewPassStatement(), tok.Pos), nil
	case lexer.ELSE, lexer.ELIF:
		return nil, p.errorAt(tok, "'%s' without matching 'if'", tok.Text)
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.WithPos(ast.NewExpressionStatement(expr), expr.Pos()), nil
}

// finishSimpleStatement consumes the terminator of a simple statement. A
// semicolon may be followed by another statement on the same line.
func (p *Parser) finishSimpleStatement() error {
	if _, ok := p.match(lexer.SEMICOLON); ok {
		p.match(lexer.NEWLINE)
		return nil
	}
	if _, ok := p.match(lexer.NEWLINE); ok {
		return nil
	}
	if p.check(lexer.DEDENT, lexer.END) {
		return nil
	}
	return p.errorAtCurrent("expected newline after statement")
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	tok := p.advance()
	if p.funcDepth == 0 {
		return nil, p.errorAt(tok, "'return' outside function")
	}
	var value ast.Expression
	if !p.atStatementEnd() {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	return ast.WithPos(ast.NewReturnStatement(value), tok.Pos), nil
}

// parseBlock parses ':' NEWLINE INDENT statement... DEDENT. The closing
// DEDENT may be absent when the stream ends.
func (p *Parser) parseBlock(after string) (*ast.Block, error) {
	if _, err := p.expect(lexer.COLON, "expected ':' after "+after); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE, "expected newline after ':'"); err != nil {
		return nil, err
	}
	indent, err := p.expect(lexer.INDENT, "expected indented block")
	if err != nil {
		return nil, err
	}

	body := make([]ast.Statement, 0)
	for !p.check(lexer.DEDENT, lexer.END) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		p.skipNewlines()
	}
	p.match(lexer.DEDENT)
	return ast.WithPos(ast.NewBlock(body), indent.Pos), nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	tok := p.advance()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock("if condition")
	if err != nil {
		return nil, err
	}
	stmt := ast.WithPos(ast.NewIfStatement(condition, then, nil), tok.Pos)

	switch {
	case p.check(lexer.ELIF):
		// elif chains desugar to an if nested in the else slot.
		nested, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = nested
	case p.check(lexer.ELSE):
		p.advance()
		elseBlock, err := p.parseBlock("else")
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}
	return stmt, nil
}

func (p *Parser) parseWhileLoop() (ast.Statement, error) {
	tok := p.advance()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody("while condition")
	if err != nil {
		return nil, err
	}
	return ast.WithPos(ast.NewWhileLoop(condition, body), tok.Pos), nil
}

func (p *Parser) parseForLoop() (ast.Statement, error) {
	tok := p.advance()
	nameTok, err := p.expect(lexer.IDENTIFIER, "expected variable name in for loop")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN, "expected 'in' after for variable"); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody("for expression")
	if err != nil {
		return nil, err
	}
	variable := ast.WithPos(ast.NewIdentifier(nameTok.Text), nameTok.Pos)
	return ast.WithPos(ast.NewForLoop(variable, iterable, body), tok.Pos), nil
}

func (p *Parser) parseLoopBody(after string) (*ast.Block, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseBlock(after)
}
