package runtime

import (
	"fmt"
	"math"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindFunction
	KindNativeFunction
	KindList
	KindMap
	KindClass
)

// String returns the type name scripts observe through type() and error
// messages.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "builtin_function_or_method"
	case KindList:
		return "list"
	case KindMap:
		return "dict"
	case KindClass:
		return "type"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }

// None is the single none value.
var None Value = NoneValue{}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// ToFloat widens an integer or float to float64.
func ToFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case IntegerValue:
		return float64(n.Val), true
	case FloatValue:
		return n.Val, true
	default:
		return 0, false
	}
}

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

type ListValue struct {
	Elements []Value
}

func NewList(elements []Value) *ListValue {
	return &ListValue{Elements: elements}
}

func (v *ListValue) Kind() Kind { return KindList }

// MapKey is the hashable form of a scalar map key. Integral floats hash like
// the equal integer, so {1: "a"}[1.0] finds the entry.
type MapKey struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// HashKey returns the key for v, or false when v cannot key a map.
func HashKey(v Value) (MapKey, bool) {
	switch k := v.(type) {
	case NoneValue:
		return MapKey{kind: KindNone}, true
	case BoolValue:
		// True == 1 and False == 0, so booleans share the integer keys.
		if k.Val {
			return MapKey{kind: KindInteger, i: 1}, true
		}
		return MapKey{kind: KindInteger}, true
	case IntegerValue:
		return MapKey{kind: KindInteger, i: k.Val}, true
	case FloatValue:
		if k.Val == math.Trunc(k.Val) && k.Val >= math.MinInt64 && k.Val < math.MaxInt64 {
			return MapKey{kind: KindInteger, i: int64(k.Val)}, true
		}
		return MapKey{kind: KindFloat, f: k.Val}, true
	case StringValue:
		return MapKey{kind: KindString, s: k.Val}, true
	default:
		return MapKey{}, false
	}
}

// MapValue is an insertion-ordered dictionary.
type MapValue struct {
	keys   []Value
	values []Value
	index  map[MapKey]int
}

func NewMap() *MapValue {
	return &MapValue{index: make(map[MapKey]int)}
}

func (v *MapValue) Kind() Kind { return KindMap }

func (v *MapValue) Len() int { return len(v.keys) }

// Set inserts or replaces the entry for key.
func (v *MapValue) Set(key, value Value) error {
	hk, ok := HashKey(key)
	if !ok {
		return fmt.Errorf("unhashable type: '%s'", key.Kind())
	}
	if i, ok := v.index[hk]; ok {
		v.values[i] = value
		return nil
	}
	v.index[hk] = len(v.keys)
	v.keys = append(v.keys, key)
	v.values = append(v.values, value)
	return nil
}

// Get looks up key. Unhashable keys are never present.
func (v *MapValue) Get(key Value) (Value, bool) {
	hk, ok := HashKey(key)
	if !ok {
		return nil, false
	}
	i, ok := v.index[hk]
	if !ok {
		return nil, false
	}
	return v.values[i], true
}

// Keys returns the keys in insertion order.
func (v *MapValue) Keys() []Value {
	out := make([]Value, len(v.keys))
	copy(out, v.keys)
	return out
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a closure. Closure is shared with every other function
// defined in the same scope, so mutations through one are visible to all.
type FunctionValue struct {
	Declaration *ast.FunctionDefinition
	Closure     *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Name() string {
	return v.Declaration.Name()
}

// NativeCallContext carries the call site into a built-in.
type NativeCallContext struct {
	Pos diag.Position
}

// Errorf builds a runtime error located at the call site.
func (c *NativeCallContext) Errorf(format string, args ...any) error {
	return diag.Runtime(c.Pos, format, args...)
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a built-in. Arity < 0 means variadic; built-ins
// with optional arguments validate their own counts.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Classes
//-----------------------------------------------------------------------------

// ClassValue is the result of a class definition. Attributes holds the names
// bound by the class body.
type ClassValue struct {
	Name       string
	Bases      []*ClassValue
	Attributes *Environment
}

func (v *ClassValue) Kind() Kind { return KindClass }

// Lookup finds an attribute on the class or, depth-first and left to right,
// on its bases.
func (v *ClassValue) Lookup(name string) (Value, bool) {
	if val, ok := v.Attributes.Lookup(name); ok {
		return val, true
	}
	for _, base := range v.Bases {
		if val, ok := base.Lookup(name); ok {
			return val, true
		}
	}
	return nil, false
}

// SetAttribute binds name on the class itself.
func (v *ClassValue) SetAttribute(name string, value Value) {
	v.Attributes.Define(name, value)
}
