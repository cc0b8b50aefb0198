package interpreter

import (
	"fmt"
	"math"
	"strings"

	"caesar/interpreter-go/pkg/runtime"
)

// applyBinaryOperator combines two already evaluated operands. Errors are
// plain Go errors; callers attach the operator's position.
func applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "and":
		return runtime.BoolValue{Val: isTruthy(left) && isTruthy(right)}, nil
	case "or":
		return runtime.BoolValue{Val: isTruthy(left) || isTruthy(right)}, nil
	case "==":
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case "is":
		return runtime.BoolValue{Val: valuesIdentical(left, right)}, nil
	case "is not":
		return runtime.BoolValue{Val: !valuesIdentical(left, right)}, nil
	case "<", "<=", ">", ">=":
		return evaluateComparison(op, left, right)
	case "+", "-", "*", "/", "//", "%", "**":
		return evaluateArithmetic(op, left, right)
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", op)
	}
}

// asInt treats booleans as the integers 0 and 1.
func asInt(v runtime.Value) (int64, bool) {
	switch n := v.(type) {
	case runtime.IntegerValue:
		return n.Val, true
	case runtime.BoolValue:
		if n.Val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func asFloat(v runtime.Value) (float64, bool) {
	if f, ok := runtime.ToFloat(v); ok {
		return f, true
	}
	if n, ok := asInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

func unsupportedOperands(op string, left, right runtime.Value) error {
	return fmt.Errorf("unsupported operand type(s) for %s: '%s' and '%s'", op, left.Kind(), right.Kind())
}

func evaluateArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if l, ok := asInt(left); ok {
		if r, ok := asInt(right); ok {
			return integerArithmetic(op, l, r)
		}
	}
	if l, ok := asFloat(left); ok {
		if r, ok := asFloat(right); ok {
			return floatArithmetic(op, l, r)
		}
	}

	switch lv := left.(type) {
	case runtime.StringValue:
		switch rv := right.(type) {
		case runtime.StringValue:
			if op == "+" {
				return runtime.StringValue{Val: lv.Val + rv.Val}, nil
			}
		case runtime.IntegerValue, runtime.BoolValue:
			if op == "*" {
				n, _ := asInt(rv)
				return repeatString(lv.Val, n)
			}
		}
	case *runtime.ListValue:
		switch rv := right.(type) {
		case *runtime.ListValue:
			if op == "+" {
				elements := make([]runtime.Value, 0, len(lv.Elements)+len(rv.Elements))
				elements = append(elements, lv.Elements...)
				elements = append(elements, rv.Elements...)
				return runtime.NewList(elements), nil
			}
		case runtime.IntegerValue, runtime.BoolValue:
			if op == "*" {
				n, _ := asInt(rv)
				return repeatList(lv.Elements, n)
			}
		}
	case runtime.IntegerValue, runtime.BoolValue:
		if op == "*" {
			n, _ := asInt(lv)
			switch rv := right.(type) {
			case runtime.StringValue:
				return repeatString(rv.Val, n)
			case *runtime.ListValue:
				return repeatList(rv.Elements, n)
			}
		}
	}
	return nil, unsupportedOperands(op, left, right)
}

func integerArithmetic(op string, l, r int64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.IntegerValue{Val: l + r}, nil
	case "-":
		return runtime.IntegerValue{Val: l - r}, nil
	case "*":
		return runtime.IntegerValue{Val: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return runtime.FloatValue{Val: float64(l) / float64(r)}, nil
	case "//":
		if r == 0 {
			return nil, fmt.Errorf("integer division by zero")
		}
		q := l / r
		if l%r != 0 && (l < 0) != (r < 0) {
			q--
		}
		return runtime.IntegerValue{Val: q}, nil
	case "%":
		if r == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return runtime.IntegerValue{Val: l % r}, nil
	case "**":
		if r < 0 {
			if l == 0 {
				return nil, fmt.Errorf("0 cannot be raised to a negative power")
			}
			return runtime.FloatValue{Val: math.Pow(float64(l), float64(r))}, nil
		}
		return runtime.IntegerValue{Val: intPow(l, r)}, nil
	default:
		return nil, fmt.Errorf("unsupported arithmetic operator %s", op)
	}
}

func floatArithmetic(op string, l, r float64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.FloatValue{Val: l + r}, nil
	case "-":
		return runtime.FloatValue{Val: l - r}, nil
	case "*":
		return runtime.FloatValue{Val: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return runtime.FloatValue{Val: l / r}, nil
	case "//":
		if r == 0 {
			return nil, fmt.Errorf("float floor division by zero")
		}
		return runtime.FloatValue{Val: math.Floor(l / r)}, nil
	case "%":
		if r == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return runtime.FloatValue{Val: math.Mod(l, r)}, nil
	case "**":
		if l == 0 && r < 0 {
			return nil, fmt.Errorf("0.0 cannot be raised to a negative power")
		}
		return runtime.FloatValue{Val: math.Pow(l, r)}, nil
	default:
		return nil, fmt.Errorf("unsupported arithmetic operator %s", op)
	}
}

// intPow computes base**exp for exp >= 0 by squaring. Overflow wraps.
func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// maxSequenceLength bounds the strings and lists that repetition and range
// may build.
const maxSequenceLength = 1 << 28

func checkRepeatLength(length int, n int64) error {
	if int64(length) > maxSequenceLength/n {
		return fmt.Errorf("repeated sequence is too long")
	}
	return nil
}

func repeatString(s string, n int64) (runtime.Value, error) {
	if n <= 0 || s == "" {
		return runtime.StringValue{Val: ""}, nil
	}
	if err := checkRepeatLength(len(s), n); err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: strings.Repeat(s, int(n))}, nil
}

func repeatList(elements []runtime.Value, n int64) (runtime.Value, error) {
	if n <= 0 || len(elements) == 0 {
		return runtime.NewList([]runtime.Value{}), nil
	}
	if err := checkRepeatLength(len(elements), n); err != nil {
		return nil, err
	}
	out := make([]runtime.Value, 0, len(elements)*int(n))
	for k := int64(0); k < n; k++ {
		out = append(out, elements...)
	}
	return runtime.NewList(out), nil
}

func comparisonOp(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	default:
		return false
	}
}

func evaluateComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	if l, ok := asInt(left); ok {
		if r, ok := asInt(right); ok {
			return runtime.BoolValue{Val: comparisonOp(op, compareOrdered(l, r))}, nil
		}
	}
	if l, ok := asFloat(left); ok {
		if r, ok := asFloat(right); ok {
			if math.IsNaN(l) || math.IsNaN(r) {
				return runtime.BoolValue{Val: false}, nil
			}
			return runtime.BoolValue{Val: comparisonOp(op, compareOrdered(l, r))}, nil
		}
	}
	if l, ok := left.(runtime.StringValue); ok {
		if r, ok := right.(runtime.StringValue); ok {
			return runtime.BoolValue{Val: comparisonOp(op, strings.Compare(l.Val, r.Val))}, nil
		}
	}
	return nil, fmt.Errorf("'%s' not supported between instances of '%s' and '%s'", op, left.Kind(), right.Kind())
}

func compareOrdered[T int64 | float64](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// valuesEqual implements ==. Numbers compare by value across int, float and
// bool; other kinds of different type are never equal.
func valuesEqual(left, right runtime.Value) bool {
	if l, ok := asInt(left); ok {
		if r, ok := asInt(right); ok {
			return l == r
		}
	}
	if l, ok := asFloat(left); ok {
		if r, ok := asFloat(right); ok {
			return l == r
		}
		return false
	}
	switch lv := left.(type) {
	case runtime.NoneValue:
		_, ok := right.(runtime.NoneValue)
		return ok
	case runtime.StringValue:
		rv, ok := right.(runtime.StringValue)
		return ok && lv.Val == rv.Val
	case *runtime.ListValue:
		rv, ok := right.(*runtime.ListValue)
		if !ok {
			return false
		}
		if lv == rv {
			return true
		}
		if len(lv.Elements) != len(rv.Elements) {
			return false
		}
		for idx := range lv.Elements {
			if !valuesEqual(lv.Elements[idx], rv.Elements[idx]) {
				return false
			}
		}
		return true
	case *runtime.MapValue:
		rv, ok := right.(*runtime.MapValue)
		if !ok {
			return false
		}
		if lv == rv {
			return true
		}
		if lv.Len() != rv.Len() {
			return false
		}
		for _, key := range lv.Keys() {
			lval, _ := lv.Get(key)
			rval, found := rv.Get(key)
			if !found || !valuesEqual(lval, rval) {
				return false
			}
		}
		return true
	default:
		return valuesIdentical(left, right)
	}
}

// valuesIdentical implements "is": reference kinds compare by identity,
// scalars by equality.
func valuesIdentical(left, right runtime.Value) bool {
	switch lv := left.(type) {
	case *runtime.ListValue:
		rv, ok := right.(*runtime.ListValue)
		return ok && lv == rv
	case *runtime.MapValue:
		rv, ok := right.(*runtime.MapValue)
		return ok && lv == rv
	case *runtime.ClassValue:
		rv, ok := right.(*runtime.ClassValue)
		return ok && lv == rv
	case *runtime.FunctionValue:
		rv, ok := right.(*runtime.FunctionValue)
		return ok && lv == rv
	case runtime.NativeFunctionValue:
		rv, ok := right.(runtime.NativeFunctionValue)
		return ok && lv.Name == rv.Name
	default:
		return valuesEqual(left, right)
	}
}

func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case nil, runtime.NoneValue:
		return false
	case runtime.BoolValue:
		return v.Val
	case runtime.IntegerValue:
		return v.Val != 0
	case runtime.FloatValue:
		return v.Val != 0
	case runtime.StringValue:
		return v.Val != ""
	case *runtime.ListValue:
		return len(v.Elements) > 0
	case *runtime.MapValue:
		return v.Len() > 0
	default:
		return true
	}
}
