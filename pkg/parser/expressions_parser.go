package parser

import (
	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/lexer"
)

var assignmentOperators = map[lexer.TokenType]ast.AssignmentOperator{
	lexer.ASSIGN:       ast.AssignmentAssign,
	lexer.PLUS_ASSIGN:  ast.AssignmentAdd,
	lexer.MINUS_ASSIGN: ast.AssignmentSub,
	lexer.STAR_ASSIGN:  ast.AssignmentMul,
	lexer.SLASH_ASSIGN: ast.AssignmentDiv,
}

// Left-associative binary levels, loosest first. Equality is handled
// separately because of the two-token "is not".
var (
	relationalOperators     = []lexer.TokenType{lexer.LT, lexer.LE, lexer.GT, lexer.GE}
	additiveOperators       = []lexer.TokenType{lexer.PLUS, lexer.MINUS}
	multiplicativeOperators = []lexer.TokenType{lexer.STAR, lexer.SLASH, lexer.FLOOR_DIVIDE, lexer.PERCENT}
)

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

// parseAssignment is right-associative: a = b = 1 assigns b first.
func (p *Parser) parseAssignment() (ast.Expression, error) {
	target, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	op, ok := assignmentOperators[p.current().Type]
	if !ok {
		return target, nil
	}
	opTok := p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return ast.WithPos(ast.NewAssignmentExpression(op, target, value), opTok.Pos), nil
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.OR) {
		opTok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.WithPos(ast.NewBinaryExpression("or", left, right), opTok.Pos)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.AND) {
		opTok := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.WithPos(ast.NewBinaryExpression("and", left, right), opTok.Pos)
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.EQ, lexer.NOT_EQ, lexer.IS) {
		opTok := p.advance()
		operator := opTok.Text
		if opTok.Type == lexer.IS {
			operator = "is"
			if _, ok := p.match(lexer.NOT); ok {
				operator = "is not"
			}
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = ast.WithPos(ast.NewBinaryExpression(operator, left, right), opTok.Pos)
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	return p.parseLeftAssociative(relationalOperators, p.parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseLeftAssociative(additiveOperators, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseLeftAssociative(multiplicativeOperators, p.parsePower)
}

func (p *Parser) parseLeftAssociative(operators []lexer.TokenType, next func() (ast.Expression, error)) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.check(operators...) {
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.WithPos(ast.NewBinaryExpression(opTok.Text, left, right), opTok.Pos)
	}
	return left, nil
}

// parsePower recurses into itself for the right operand, so 2 ** 3 ** 2 is
// 2 ** (3 ** 2). Its operands are unary expressions: -2 ** 2 is (-2) ** 2.
func (p *Parser) parsePower() (ast.Expression, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.POWER) {
		return base, nil
	}
	opTok := p.advance()
	exponent, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return ast.WithPos(ast.NewBinaryExpression("**", base, exponent), opTok.Pos), nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.check(lexer.NOT, lexer.MINUS) {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.WithPos(ast.NewUnaryExpression(opTok.Text, operand), opTok.Pos), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current().Type {
		case lexer.LPAREN:
			open := p.advance()
			args, err := p.parseExpressionList(lexer.RPAREN, "expected ')' after arguments")
			if err != nil {
				return nil, err
			}
			expr = ast.WithPos(ast.NewCallExpression(expr, args), open.Pos)
		case lexer.DOT:
			p.advance()
			nameTok, err := p.expect(lexer.IDENTIFIER, "expected attribute name after '.'")
			if err != nil {
				return nil, err
			}
			member := ast.WithPos(ast.NewIdentifier(nameTok.Text), nameTok.Pos)
			expr = ast.WithPos(ast.NewMemberAccessExpression(expr, member), nameTok.Pos)
		default:
			return expr, nil
		}
	}
}

// parseExpressionList parses comma-separated expressions up to and including
// the closing token. A trailing comma is accepted.
func (p *Parser) parseExpressionList(closing lexer.TokenType, message string) ([]ast.Expression, error) {
	items := make([]ast.Expression, 0)
	for !p.check(closing) {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(closing, message); err != nil {
		return nil, err
	}
	return items, nil
}
