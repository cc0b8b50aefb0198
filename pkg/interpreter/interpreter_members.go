package interpreter

import (
	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateMemberAccess(expr *ast.MemberAccessExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	name := expr.Member.Name
	if class, ok := object.(*runtime.ClassValue); ok {
		if val, found := class.Lookup(name); found {
			return val, nil
		}
		return nil, diag.Runtime(expr.Pos(), "type object '%s' has no attribute '%s'", class.Name, name)
	}
	return nil, diag.Runtime(expr.Pos(), "'%s' object has no attribute '%s'", object.Kind(), name)
}

func (i *Interpreter) assignMember(target *ast.MemberAccessExpression, assign *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(target.Object, env)
	if err != nil {
		return nil, err
	}
	class, ok := object.(*runtime.ClassValue)
	if !ok {
		return nil, diag.Runtime(target.Pos(), "invalid assignment target: '%s' object has no attributes", object.Kind())
	}
	value, err := i.evaluateExpression(assign.Value, env)
	if err != nil {
		return nil, err
	}
	if op := assign.Operator.BinaryOperator(); op != "" {
		current, found := class.Lookup(target.Member.Name)
		if !found {
			return nil, diag.Runtime(target.Pos(), "type object '%s' has no attribute '%s'", class.Name, target.Member.Name)
		}
		value, err = applyBinaryOperator(op, current, value)
		if err != nil {
			return nil, atPos(err, assign.Pos())
		}
	}
	class.SetAttribute(target.Member.Name, value)
	return value, nil
}
