package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"caesar/interpreter-go/pkg/runtime"
)

// BuiltinNames lists the global functions every interpreter provides.
var BuiltinNames = []string{"print", "range", "len", "str", "int", "float", "type", "abs"}

func (i *Interpreter) builtinTable() map[string]runtime.NativeFunctionValue {
	table := []runtime.NativeFunctionValue{
		{Name: "print", Arity: -1, Impl: i.builtinPrint},
		{Name: "range", Arity: -1, Impl: builtinRange},
		{Name: "len", Arity: 1, Impl: builtinLen},
		{Name: "str", Arity: -1, Impl: builtinStr},
		{Name: "int", Arity: 1, Impl: builtinInt},
		{Name: "float", Arity: 1, Impl: builtinFloat},
		{Name: "type", Arity: 1, Impl: builtinType},
		{Name: "abs", Arity: 1, Impl: builtinAbs},
	}
	builtins := make(map[string]runtime.NativeFunctionValue, len(table))
	for _, fn := range table {
		builtins[fn.Name] = fn
	}
	return builtins
}

func (i *Interpreter) builtinPrint(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, FormatValue(arg))
	}
	if _, err := fmt.Fprintln(i.out, strings.Join(parts, " ")); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return runtime.None, nil
}

func builtinRange(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, ctx.Errorf("range expected at least 1 argument, got 0")
	}
	if len(args) > 3 {
		return nil, ctx.Errorf("range expected at most 3 arguments, got %d", len(args))
	}
	bounds := make([]int64, len(args))
	for idx, arg := range args {
		n, ok := asInt(arg)
		if !ok {
			return nil, ctx.Errorf("'%s' object cannot be interpreted as an integer", arg.Kind())
		}
		bounds[idx] = n
	}
	start, stop, step := int64(0), bounds[0], int64(1)
	if len(bounds) >= 2 {
		start, stop = bounds[0], bounds[1]
	}
	if len(bounds) == 3 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, ctx.Errorf("range() arg 3 must not be zero")
	}
	count := rangeLength(start, stop, step)
	if count > maxSequenceLength {
		return nil, ctx.Errorf("range() result is too long")
	}
	elements := make([]runtime.Value, 0, count)
	for n, k := start, uint64(0); k < count; n, k = n+step, k+1 {
		elements = append(elements, runtime.IntegerValue{Val: n})
	}
	return runtime.NewList(elements), nil
}

// rangeLength counts the values of range(start, stop, step) in unsigned
// arithmetic so bounds near the int64 limits cannot wrap.
func rangeLength(start, stop, step int64) uint64 {
	switch {
	case step > 0 && start < stop:
		return (uint64(stop)-uint64(start)-1)/uint64(step) + 1
	case step < 0 && start > stop:
		return (uint64(start)-uint64(stop)-1)/(0-uint64(step)) + 1
	default:
		return 0
	}
}

func builtinLen(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.StringValue:
		return runtime.IntegerValue{Val: int64(utf8.RuneCountInString(v.Val))}, nil
	case *runtime.ListValue:
		return runtime.IntegerValue{Val: int64(len(v.Elements))}, nil
	case *runtime.MapValue:
		return runtime.IntegerValue{Val: int64(v.Len())}, nil
	default:
		return nil, ctx.Errorf("object of type '%s' has no len()", args[0].Kind())
	}
}

func builtinStr(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch len(args) {
	case 0:
		return runtime.StringValue{Val: ""}, nil
	case 1:
		return runtime.StringValue{Val: FormatValue(args[0])}, nil
	default:
		return nil, ctx.Errorf("str() takes at most 1 argument (%d given)", len(args))
	}
}

func builtinInt(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.IntegerValue:
		return v, nil
	case runtime.BoolValue:
		n, _ := asInt(v)
		return runtime.IntegerValue{Val: n}, nil
	case runtime.FloatValue:
		if math.IsNaN(v.Val) || math.IsInf(v.Val, 0) {
			return nil, ctx.Errorf("cannot convert float %s to integer", formatFloat(v.Val))
		}
		if v.Val >= math.MaxInt64 || v.Val < math.MinInt64 {
			return nil, ctx.Errorf("float %s is out of integer range", formatFloat(v.Val))
		}
		return runtime.IntegerValue{Val: int64(v.Val)}, nil
	case runtime.StringValue:
		text := strings.TrimSpace(v.Val)
		switch text {
		case "True":
			return runtime.IntegerValue{Val: 1}, nil
		case "False":
			return runtime.IntegerValue{Val: 0}, nil
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, ctx.Errorf("invalid literal for int(): '%s'", v.Val)
		}
		return runtime.IntegerValue{Val: n}, nil
	default:
		return nil, ctx.Errorf("int() argument must be a string, a bytes-like object or a number, not '%s'", args[0].Kind())
	}
}

func builtinFloat(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.FloatValue:
		return v, nil
	case runtime.IntegerValue, runtime.BoolValue:
		f, _ := asFloat(v)
		return runtime.FloatValue{Val: f}, nil
	case runtime.StringValue:
		text := strings.TrimSpace(v.Val)
		switch text {
		case "True":
			return runtime.FloatValue{Val: 1}, nil
		case "False":
			return runtime.FloatValue{Val: 0}, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || strings.ContainsAny(text, "_xXpP") {
			return nil, ctx.Errorf("could not convert string to float: '%s'", v.Val)
		}
		return runtime.FloatValue{Val: f}, nil
	default:
		return nil, ctx.Errorf("float() argument must be a string or a number, not '%s'", args[0].Kind())
	}
}

func builtinType(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return runtime.StringValue{Val: typeName(args[0])}, nil
}

func builtinAbs(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.IntegerValue:
		if v.Val == math.MinInt64 {
			return nil, ctx.Errorf("integer overflow in abs()")
		}
		if v.Val < 0 {
			return runtime.IntegerValue{Val: -v.Val}, nil
		}
		return v, nil
	case runtime.BoolValue:
		n, _ := asInt(v)
		return runtime.IntegerValue{Val: n}, nil
	case runtime.FloatValue:
		return runtime.FloatValue{Val: math.Abs(v.Val)}, nil
	default:
		return nil, ctx.Errorf("bad operand type for abs(): '%s'", args[0].Kind())
	}
}
