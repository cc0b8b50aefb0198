package interpreter

import (
	"fmt"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/runtime"
)

// SignalKind says how control leaves a statement.
type SignalKind int

const (
	SignalNormal SignalKind = iota
	SignalReturn
	SignalBreak
	SignalContinue
)

func (k SignalKind) String() string {
	switch k {
	case SignalNormal:
		return "normal"
	case SignalReturn:
		return "return"
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	default:
		return fmt.Sprintf("signal_%d", int(k))
	}
}

// ControlSignal is the result of executing a statement. Value is set only for
// SignalReturn.
type ControlSignal struct {
	Kind  SignalKind
	Value runtime.Value
}

var normal = ControlSignal{Kind: SignalNormal}

func (i *Interpreter) execute(node ast.Statement, env *runtime.Environment) (ControlSignal, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		if _, err := i.evaluateExpression(n.Expression, env); err != nil {
			return normal, err
		}
		return normal, nil
	case *ast.Block:
		return i.executeBlock(n, env)
	case *ast.IfStatement:
		return i.executeIf(n, env)
	case *ast.WhileLoop:
		return i.executeWhileLoop(n, env)
	case *ast.ForLoop:
		return i.executeForLoop(n, env)
	case *ast.FunctionDefinition:
		env.Define(n.Name(), &runtime.FunctionValue{Declaration: n, Closure: env})
		return normal, nil
	case *ast.ClassDefinition:
		return i.executeClassDefinition(n, env)
	case *ast.ReturnStatement:
		return i.executeReturn(n, env)
	case *ast.BreakStatement:
		return ControlSignal{Kind: SignalBreak}, nil
	case *ast.ContinueStatement:
		return ControlSignal{Kind: SignalContinue}, nil
	case *ast.PassStatement:
		return normal, nil
	case nil:
		return normal, diag.Internal(diag.Position{}, "nil statement")
	default:
		return normal, diag.Internal(node.Pos(), "unsupported statement type: %s", node.NodeType())
	}
}

// executeBlock runs statements in env (blocks do not open a scope) and stops
// at the first non-normal signal.
func (i *Interpreter) executeBlock(block *ast.Block, env *runtime.Environment) (ControlSignal, error) {
	for _, stmt := range block.Body {
		sig, err := i.execute(stmt, env)
		if err != nil {
			return normal, err
		}
		if sig.Kind != SignalNormal {
			return sig, nil
		}
	}
	return normal, nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, env *runtime.Environment) (ControlSignal, error) {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return normal, err
	}
	if isTruthy(cond) {
		return i.executeBlock(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.execute(stmt.Else, env)
	}
	return normal, nil
}

func (i *Interpreter) executeWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) (ControlSignal, error) {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return normal, err
		}
		if !isTruthy(cond) {
			return normal, nil
		}
		sig, err := i.executeBlock(loop.Body, env)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SignalBreak:
			return normal, nil
		case SignalReturn:
			return sig, nil
		}
	}
}

func (i *Interpreter) executeForLoop(loop *ast.ForLoop, env *runtime.Environment) (ControlSignal, error) {
	iterable, err := i.evaluateExpression(loop.Iterable, env)
	if err != nil {
		return normal, err
	}

	step := func(el runtime.Value) (ControlSignal, bool, error) {
		env.Define(loop.Variable.Name, el)
		sig, err := i.executeBlock(loop.Body, env)
		if err != nil {
			return normal, true, err
		}
		switch sig.Kind {
		case SignalBreak:
			return normal, true, nil
		case SignalReturn:
			return sig, true, nil
		}
		return normal, false, nil
	}

	switch it := iterable.(type) {
	case *runtime.ListValue:
		// Index the live slice so appends made by the body are visited.
		for idx := 0; idx < len(it.Elements); idx++ {
			if sig, stop, err := step(it.Elements[idx]); stop {
				return sig, err
			}
		}
	case runtime.StringValue:
		for _, r := range it.Val {
			if sig, stop, err := step(runtime.StringValue{Val: string(r)}); stop {
				return sig, err
			}
		}
	case *runtime.MapValue:
		for _, key := range it.Keys() {
			if sig, stop, err := step(key); stop {
				return sig, err
			}
		}
	default:
		return normal, diag.Runtime(loop.Iterable.Pos(), "'%s' object is not iterable", iterable.Kind())
	}
	return normal, nil
}

func (i *Interpreter) executeReturn(stmt *ast.ReturnStatement, env *runtime.Environment) (ControlSignal, error) {
	var result runtime.Value = runtime.None
	if stmt.Argument != nil {
		val, err := i.evaluateExpression(stmt.Argument, env)
		if err != nil {
			return normal, err
		}
		result = val
	}
	return ControlSignal{Kind: SignalReturn, Value: result}, nil
}

func (i *Interpreter) executeClassDefinition(def *ast.ClassDefinition, env *runtime.Environment) (ControlSignal, error) {
	bases := make([]*runtime.ClassValue, 0, len(def.Bases))
	for _, baseID := range def.Bases {
		val, err := i.evaluateExpression(baseID, env)
		if err != nil {
			return normal, err
		}
		base, ok := val.(*runtime.ClassValue)
		if !ok {
			return normal, diag.Runtime(baseID.Pos(), "base '%s' is not a class", baseID.Name)
		}
		bases = append(bases, base)
	}

	classEnv := runtime.NewEnvironment(env)
	sig, err := i.executeBlock(def.Body, classEnv)
	if err != nil {
		return normal, err
	}
	if sig.Kind != SignalNormal {
		return normal, diag.Internal(def.Pos(), "%s signal escaped class '%s'", sig.Kind, def.ID.Name)
	}
	env.Define(def.ID.Name, &runtime.ClassValue{Name: def.ID.Name, Bases: bases, Attributes: classEnv})
	return normal, nil
}
