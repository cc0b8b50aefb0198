package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders node as a single-line S-expression, e.g. "(+ 1 (* 2 3))".
// A Program renders one top-level statement per line.
func Dump(node Node) string {
	var b strings.Builder
	if prog, ok := node.(*Program); ok {
		for i, stmt := range prog.Body {
			if i > 0 {
				b.WriteByte('\n')
			}
			dumpNode(&b, stmt)
		}
		return b.String()
	}
	dumpNode(&b, node)
	return b.String()
}

func dumpNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Identifier:
		if n == nil {
			b.WriteString("<nil>")
			return
		}
		b.WriteString(n.Name)
	case *IntegerLiteral:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *FloatLiteral:
		b.WriteString(formatFloat(n.Value))
	case *StringLiteral:
		b.WriteString(strconv.Quote(n.Value))
	case *BooleanLiteral:
		if n.Value {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case *NoneLiteral:
		b.WriteString("None")
	case *ListLiteral:
		list(b, "list", func() {
			for _, el := range n.Elements {
				b.WriteByte(' ')
				dumpNode(b, el)
			}
		})
	case *MapLiteral:
		list(b, "map", func() {
			for _, entry := range n.Entries {
				b.WriteString(" (")
				dumpNode(b, entry.Key)
				b.WriteByte(' ')
				dumpNode(b, entry.Value)
				b.WriteByte(')')
			}
		})
	case *UnaryExpression:
		list(b, n.Operator, func() {
			b.WriteByte(' ')
			dumpNode(b, n.Operand)
		})
	case *BinaryExpression:
		list(b, n.Operator, func() {
			b.WriteByte(' ')
			dumpNode(b, n.Left)
			b.WriteByte(' ')
			dumpNode(b, n.Right)
		})
	case *CallExpression:
		list(b, "call", func() {
			b.WriteByte(' ')
			dumpNode(b, n.Callee)
			for _, arg := range n.Arguments {
				b.WriteByte(' ')
				dumpNode(b, arg)
			}
		})
	case *MemberAccessExpression:
		list(b, ".", func() {
			b.WriteByte(' ')
			dumpNode(b, n.Object)
			b.WriteByte(' ')
			dumpNode(b, n.Member)
		})
	case *AssignmentExpression:
		list(b, string(n.Operator), func() {
			b.WriteByte(' ')
			dumpNode(b, n.Target)
			b.WriteByte(' ')
			dumpNode(b, n.Value)
		})
	case *ExpressionStatement:
		dumpNode(b, n.Expression)
	case *Block:
		list(b, "block", func() {
			for _, stmt := range n.Body {
				b.WriteByte(' ')
				dumpNode(b, stmt)
			}
		})
	case *IfStatement:
		list(b, "if", func() {
			b.WriteByte(' ')
			dumpNode(b, n.Condition)
			b.WriteByte(' ')
			dumpNode(b, n.Then)
			if n.Else != nil {
				b.WriteByte(' ')
				dumpNode(b, n.Else)
			}
		})
	case *WhileLoop:
		list(b, "while", func() {
			b.WriteByte(' ')
			dumpNode(b, n.Condition)
			b.WriteByte(' ')
			dumpNode(b, n.Body)
		})
	case *ForLoop:
		list(b, "for", func() {
			b.WriteByte(' ')
			dumpNode(b, n.Variable)
			b.WriteByte(' ')
			dumpNode(b, n.Iterable)
			b.WriteByte(' ')
			dumpNode(b, n.Body)
		})
	case *FunctionParameter:
		if n.Default == nil {
			dumpNode(b, n.Name)
			return
		}
		b.WriteByte('(')
		dumpNode(b, n.Name)
		b.WriteByte(' ')
		dumpNode(b, n.Default)
		b.WriteByte(')')
	case *FunctionDefinition:
		list(b, "def", func() {
			b.WriteByte(' ')
			dumpNode(b, n.ID)
			b.WriteString(" (")
			for i, param := range n.Params {
				if i > 0 {
					b.WriteByte(' ')
				}
				dumpNode(b, param)
			}
			b.WriteString(") ")
			dumpNode(b, n.Body)
		})
	case *ClassDefinition:
		list(b, "class", func() {
			b.WriteByte(' ')
			dumpNode(b, n.ID)
			b.WriteString(" (")
			for i, base := range n.Bases {
				if i > 0 {
					b.WriteByte(' ')
				}
				dumpNode(b, base)
			}
			b.WriteString(") ")
			dumpNode(b, n.Body)
		})
	case *ReturnStatement:
		list(b, "return", func() {
			if n.Argument != nil {
				b.WriteByte(' ')
				dumpNode(b, n.Argument)
			}
		})
	case *BreakStatement:
		b.WriteString("(break)")
	case *ContinueStatement:
		b.WriteString("(continue)")
	case *PassStatement:
		b.WriteString("(pass)")
	case *Program:
		list(b, "program", func() {
			for _, stmt := range n.Body {
				b.WriteByte(' ')
				dumpNode(b, stmt)
			}
		})
	default:
		fmt.Fprintf(b, "<%s>", node.NodeType())
	}
}

func list(b *strings.Builder, head string, body func()) {
	b.WriteByte('(')
	b.WriteString(head)
	body()
	b.WriteByte(')')
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
