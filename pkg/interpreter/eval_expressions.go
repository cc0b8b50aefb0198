package interpreter

import (
	"math"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NoneLiteral:
		return runtime.None, nil
	case *ast.Identifier:
		return i.evaluateIdentifier(n, env)
	case *ast.ListLiteral:
		values := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			values = append(values, val)
		}
		return runtime.NewList(values), nil
	case *ast.MapLiteral:
		m := runtime.NewMap()
		for _, entry := range n.Entries {
			key, err := i.evaluateExpression(entry.Key, env)
			if err != nil {
				return nil, err
			}
			val, err := i.evaluateExpression(entry.Value, env)
			if err != nil {
				return nil, err
			}
			if err := m.Set(key, val); err != nil {
				return nil, atPos(err, entry.Key.Pos())
			}
		}
		return m, nil
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.CallExpression:
		return i.evaluateCall(n, env)
	case *ast.MemberAccessExpression:
		return i.evaluateMemberAccess(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n, env)
	case nil:
		return nil, diag.Internal(diag.Position{}, "nil expression")
	default:
		return nil, diag.Internal(node.Pos(), "unsupported expression type: %s", node.NodeType())
	}
}

// evaluateIdentifier reads a name through the scope chain. Built-in names
// that are not shadowed evaluate to the built-in itself.
func (i *Interpreter) evaluateIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	val, err := env.Get(id.Name)
	if err == nil {
		return val, nil
	}
	if builtin, ok := i.builtins[id.Name]; ok {
		return builtin, nil
	}
	return nil, atPos(err, id.Pos())
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "-":
		switch v := operand.(type) {
		case runtime.IntegerValue:
			if v.Val == math.MinInt64 {
				return nil, diag.Runtime(expr.Pos(), "integer overflow in unary -")
			}
			return runtime.IntegerValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		case runtime.BoolValue:
			if v.Val {
				return runtime.IntegerValue{Val: -1}, nil
			}
			return runtime.IntegerValue{Val: 0}, nil
		default:
			return nil, diag.Runtime(expr.Pos(), "bad operand type for unary -: '%s'", operand.Kind())
		}
	case "not":
		return runtime.BoolValue{Val: !isTruthy(operand)}, nil
	default:
		return nil, diag.Internal(expr.Pos(), "unsupported unary operator %s", expr.Operator)
	}
}

// evaluateBinaryExpression evaluates both operands before applying the
// operator. This includes "and" and "or", which do not short-circuit.
func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	val, err := applyBinaryOperator(expr.Operator, left, right)
	if err != nil {
		return nil, atPos(err, expr.Pos())
	}
	return val, nil
}

func (i *Interpreter) evaluateCall(call *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	var callee runtime.Value
	if id, ok := call.Callee.(*ast.Identifier); ok {
		if builtin, ok := i.builtins[id.Name]; ok {
			callee = builtin
		}
	}
	if callee == nil {
		val, err := i.evaluateExpression(call.Callee, env)
		if err != nil {
			return nil, err
		}
		callee = val
	}

	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	switch fn := callee.(type) {
	case runtime.NativeFunctionValue:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, diag.Runtime(call.Pos(), "%s() takes exactly %d argument%s (%d given)", fn.Name, fn.Arity, plural(fn.Arity), len(args))
		}
		ctx := &runtime.NativeCallContext{Pos: call.Pos()}
		val, err := fn.Impl(ctx, args)
		if err != nil {
			return nil, atPos(err, call.Pos())
		}
		return val, nil
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args, call)
	default:
		return nil, diag.Runtime(call.Pos(), "'%s' object is not callable", callee.Kind())
	}
}

// invokeFunction runs fn in a fresh scope whose parent is the closure. The
// body's Return signal becomes the call's value.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, call *ast.CallExpression) (runtime.Value, error) {
	decl := fn.Declaration
	pos := decl.Pos()
	if call != nil {
		pos = call.Pos()
	}
	if len(args) > len(decl.Params) {
		return nil, diag.Runtime(pos, "%s() takes %d positional argument%s but %d were given", decl.Name(), len(decl.Params), plural(len(decl.Params)), len(args))
	}
	if i.depth >= i.maxDepth {
		return nil, diag.Runtime(pos, "maximum recursion depth exceeded")
	}

	localEnv := runtime.NewEnvironment(fn.Closure)
	for idx, param := range decl.Params {
		switch {
		case idx < len(args):
			localEnv.Define(param.Name.Name, args[idx])
		case param.Default != nil:
			val, err := i.evaluateExpression(param.Default, fn.Closure)
			if err != nil {
				return nil, err
			}
			localEnv.Define(param.Name.Name, val)
		default:
			return nil, diag.Runtime(pos, "missing argument for parameter '%s'", param.Name.Name)
		}
	}

	i.depth++
	sig, err := i.executeBlock(decl.Body, localEnv)
	i.depth--
	if err != nil {
		return nil, err
	}
	switch sig.Kind {
	case SignalNormal:
		return runtime.None, nil
	case SignalReturn:
		if sig.Value == nil {
			return runtime.None, nil
		}
		return sig.Value, nil
	default:
		return nil, diag.Internal(pos, "%s signal escaped function '%s'", sig.Kind, decl.Name())
	}
}

// evaluateAssignment binds bare names in the current scope, even when an
// outer scope already has the name. Compound operators read the current value
// through the whole chain first.
func (i *Interpreter) evaluateAssignment(assign *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	switch target := assign.Target.(type) {
	case *ast.Identifier:
		value, err := i.evaluateExpression(assign.Value, env)
		if err != nil {
			return nil, err
		}
		if op := assign.Operator.BinaryOperator(); op != "" {
			current, err := i.evaluateIdentifier(target, env)
			if err != nil {
				return nil, err
			}
			value, err = applyBinaryOperator(op, current, value)
			if err != nil {
				return nil, atPos(err, assign.Pos())
			}
		}
		env.Define(target.Name, value)
		return value, nil
	case *ast.MemberAccessExpression:
		return i.assignMember(target, assign, env)
	default:
		return nil, diag.Runtime(assign.Pos(), "invalid assignment target")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
