package ast

// Short constructors for building trees by hand. Tests use them to feed the
// interpreter shapes the parser never produces, such as a break outside a
// loop. Nodes built this way carry no source position.

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func None() *NoneLiteral {
	return NewNoneLiteral()
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

func Entry(key, value Expression) *MapEntry {
	return NewMapEntry(key, value)
}

func Map(entries ...*MapEntry) *MapLiteral {
	return NewMapLiteral(entries)
}

// Expression helpers.

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func CallExpr(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args)
}

func Call(name string, args ...Expression) *CallExpression {
	return NewCallExpression(ID(name), args)
}

func Member(object Expression, member string) *MemberAccessExpression {
	return NewMemberAccessExpression(object, ID(member))
}

func Assign(target Expression, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(AssignmentAssign, target, value)
}

func AssignOp(op AssignmentOperator, target Expression, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(op, target, value)
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Blk(statements ...Statement) *Block {
	return NewBlock(statements)
}

func Iff(condition Expression, then *Block, elseBranch Statement) *IfStatement {
	return NewIfStatement(condition, then, elseBranch)
}

func While(condition Expression, statements ...Statement) *WhileLoop {
	return NewWhileLoop(condition, Blk(statements...))
}

func ForIn(variable string, iterable Expression, statements ...Statement) *ForLoop {
	return NewForLoop(ID(variable), iterable, Blk(statements...))
}

func Param(name string) *FunctionParameter {
	return NewFunctionParameter(ID(name), nil)
}

func ParamDefault(name string, defaultValue Expression) *FunctionParameter {
	return NewFunctionParameter(ID(name), defaultValue)
}

func Fn(name string, params []*FunctionParameter, statements ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(ID(name), params, Blk(statements...))
}

func Class(name string, bases []string, statements ...Statement) *ClassDefinition {
	ids := make([]*Identifier, len(bases))
	for i, base := range bases {
		ids[i] = ID(base)
	}
	return NewClassDefinition(ID(name), ids, Blk(statements...))
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Pass() *PassStatement {
	return NewPassStatement()
}

func Prog(statements ...Statement) *Program {
	return NewProgram(statements)
}
