package ast

import "caesar/interpreter-go/pkg/diag"

type NodeType string

const (
	NodeIdentifier             NodeType = "Identifier"
	NodeStringLiteral          NodeType = "StringLiteral"
	NodeIntegerLiteral         NodeType = "IntegerLiteral"
	NodeFloatLiteral           NodeType = "FloatLiteral"
	NodeBooleanLiteral         NodeType = "BooleanLiteral"
	NodeNoneLiteral            NodeType = "NoneLiteral"
	NodeListLiteral            NodeType = "ListLiteral"
	NodeMapLiteral             NodeType = "MapLiteral"
	NodeMapEntry               NodeType = "MapEntry"
	NodeUnaryExpression        NodeType = "UnaryExpression"
	NodeBinaryExpression       NodeType = "BinaryExpression"
	NodeCallExpression         NodeType = "CallExpression"
	NodeMemberAccessExpression NodeType = "MemberAccessExpression"
	NodeAssignmentExpression   NodeType = "AssignmentExpression"
	NodeExpressionStatement    NodeType = "ExpressionStatement"
	NodeBlock                  NodeType = "Block"
	NodeIfStatement            NodeType = "IfStatement"
	NodeWhileLoop              NodeType = "WhileLoop"
	NodeForLoop                NodeType = "ForLoop"
	NodeFunctionParameter      NodeType = "FunctionParameter"
	NodeFunctionDefinition     NodeType = "FunctionDefinition"
	NodeClassDefinition        NodeType = "ClassDefinition"
	NodeReturnStatement        NodeType = "ReturnStatement"
	NodeBreakStatement         NodeType = "BreakStatement"
	NodeContinueStatement      NodeType = "ContinueStatement"
	NodePassStatement          NodeType = "PassStatement"
	NodeProgram                NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	Pos() diag.Position
	SetPos(diag.Position)
	isNode()
}

type nodeImpl struct {
	Type     NodeType      `json:"type"`
	Position diag.Position `json:"position"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType        { return n.Type }
func (n nodeImpl) Pos() diag.Position        { return n.Position }
func (n *nodeImpl) SetPos(pos diag.Position) { n.Position = pos }
func (nodeImpl) isNode()                     {}

// Marker interfaces. Expression and Statement are disjoint: an expression
// used for its effect is wrapped in an ExpressionStatement.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// WithPos sets the position of node and returns it.
func WithPos[T Node](node T, pos diag.Position) T {
	node.SetPos(pos)
	return node
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NoneLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewNoneLiteral() *NoneLiteral {
	return &NoneLiteral{nodeImpl: newNodeImpl(NodeNoneLiteral)}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type MapEntry struct {
	nodeImpl

	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

func NewMapEntry(key, value Expression) *MapEntry {
	return &MapEntry{nodeImpl: newNodeImpl(NodeMapEntry), Key: key, Value: value}
}

type MapLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Entries []*MapEntry `json:"entries"`
}

func NewMapLiteral(entries []*MapEntry) *MapLiteral {
	return &MapLiteral{nodeImpl: newNodeImpl(NodeMapLiteral), Entries: entries}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee Expression, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args}
}

type MemberAccessExpression struct {
	nodeImpl
	expressionMarker

	Object Expression  `json:"object"`
	Member *Identifier `json:"member"`
}

func NewMemberAccessExpression(object Expression, member *Identifier) *MemberAccessExpression {
	return &MemberAccessExpression{nodeImpl: newNodeImpl(NodeMemberAccessExpression), Object: object, Member: member}
}

// AssignmentOperator is one of "=", "+=", "-=", "*=", "/=".
type AssignmentOperator string

const (
	AssignmentAssign AssignmentOperator = "="
	AssignmentAdd    AssignmentOperator = "+="
	AssignmentSub    AssignmentOperator = "-="
	AssignmentMul    AssignmentOperator = "*="
	AssignmentDiv    AssignmentOperator = "/="
)

// BinaryOperator returns the arithmetic operator a compound assignment
// applies, or "" for plain assignment.
func (op AssignmentOperator) BinaryOperator() string {
	switch op {
	case AssignmentAdd:
		return "+"
	case AssignmentSub:
		return "-"
	case AssignmentMul:
		return "*"
	case AssignmentDiv:
		return "/"
	default:
		return ""
	}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Operator AssignmentOperator `json:"operator"`
	Target   Expression         `json:"target"`
	Value    Expression         `json:"value"`
}

func NewAssignmentExpression(operator AssignmentOperator, target, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Target: target, Value: value}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// IfStatement's Else is nil, a *Block, or a nested *IfStatement produced by
// elif.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      *Block     `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then *Block, elseBranch Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: elseBranch}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileLoop(condition Expression, body *Block) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

type ForLoop struct {
	nodeImpl
	statementMarker

	Variable *Identifier `json:"variable"`
	Iterable Expression  `json:"iterable"`
	Body     *Block      `json:"body"`
}

func NewForLoop(variable *Identifier, iterable Expression, body *Block) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Variable: variable, Iterable: iterable, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type PassStatement struct {
	nodeImpl
	statementMarker
}

func NewPassStatement() *PassStatement {
	return &PassStatement{nodeImpl: newNodeImpl(NodePassStatement)}
}

// Program is the root of a parsed source file.
type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}
