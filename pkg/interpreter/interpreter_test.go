package interpreter

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/parser"
	"caesar/interpreter-go/pkg/runtime"
)

func runSource(t *testing.T, src string, opts ...Option) (string, runtime.Value, error) {
	t.Helper()
	program, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out)}, opts...)
	val, err := New(opts...).Run(program)
	return out.String(), val, err
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	out, _, err := runSource(t, src)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out
}

func TestFibonacciProgram(t *testing.T) {
	src := `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
print(fib(7))
`
	if got := mustRun(t, src); got != "13\n" {
		t.Fatalf("output = %q, want %q", got, "13\n")
	}
}

func TestEvaluateExpressions(t *testing.T) {
	cases := []struct {
		src  string
		want runtime.Value
	}{
		{"7 / 2", runtime.FloatValue{Val: 3.5}},
		{"6 / 3", runtime.FloatValue{Val: 2}},
		{"7 // 2", runtime.IntegerValue{Val: 3}},
		{"-7 // 2", runtime.IntegerValue{Val: -4}},
		{"7.5 // 2", runtime.FloatValue{Val: 3}},
		{"7 % 3", runtime.IntegerValue{Val: 1}},
		{"-7 % 3", runtime.IntegerValue{Val: -1}},
		{"1 + 2 * 3", runtime.IntegerValue{Val: 7}},
		{"10 - 4 - 3", runtime.IntegerValue{Val: 3}},
		{"2 ** 10", runtime.IntegerValue{Val: 1024}},
		{"2 ** 3 ** 2", runtime.IntegerValue{Val: 512}},
		{"2 ** -1", runtime.FloatValue{Val: 0.5}},
		{"-2 ** 2", runtime.IntegerValue{Val: 4}},
		{"1 + 2.5", runtime.FloatValue{Val: 3.5}},
		{"True + 1", runtime.IntegerValue{Val: 2}},
		{"'ab' + 'cd'", runtime.StringValue{Val: "abcd"}},
		{"'ab' * 3", runtime.StringValue{Val: "ababab"}},
		{"1 == 1.0", runtime.BoolValue{Val: true}},
		{"1 != 2", runtime.BoolValue{Val: true}},
		{"'a' < 'b'", runtime.BoolValue{Val: true}},
		{"3 >= 3.5", runtime.BoolValue{Val: false}},
		{"None is None", runtime.BoolValue{Val: true}},
		{"1 is not 2", runtime.BoolValue{Val: true}},
		{"[1, 2] == [1, 2]", runtime.BoolValue{Val: true}},
		{"[1] is [1]", runtime.BoolValue{Val: false}},
		{"{'a': 1} == {'a': 1}", runtime.BoolValue{Val: true}},
		{"not 0", runtime.BoolValue{Val: true}},
		{"1 or 2", runtime.BoolValue{Val: true}},
		{"'' and 1", runtime.BoolValue{Val: false}},
		{"x = 4", runtime.IntegerValue{Val: 4}},
		{"x = 2\nx += 3\nx * 2", runtime.IntegerValue{Val: 10}},
		{"x = 9\nx /= 2", runtime.FloatValue{Val: 4.5}},
		{"__name__", runtime.StringValue{Val: "__main__"}},
		{"def f():\n    pass\n", runtime.None},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			_, got, err := runSource(t, tc.src)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if got.Kind() != tc.want.Kind() || !valuesEqual(got, tc.want) {
				t.Fatalf("result = %s %s, want %s %s", got.Kind(), Repr(got), tc.want.Kind(), Repr(tc.want))
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"division", "x = 1 / 0", "division by zero"},
		{"floor division", "7 // 0", "integer division by zero"},
		{"modulo", "7 % 0", "modulo by zero"},
		{"float modulo", "7.0 % 0", "modulo by zero"},
		{"mixed operands", "1 + 'a'", "unsupported operand type(s) for +: 'int' and 'str'"},
		{"undefined", "missing_name", "undefined variable 'missing_name'"},
		{"unary minus", "-'a'", "bad operand type for unary -: 'str'"},
		{"ordering", "1 < 'a'", "'<' not supported between instances of 'int' and 'str'"},
		{"not callable", "x = 5\nx()", "'int' object is not callable"},
		{"len type", "len(1)", "object of type 'int' has no len()"},
		{"len arity", "len(1, 2)", "len() takes exactly 1 argument (2 given)"},
		{"range step", "range(1, 2, 0)", "range() arg 3 must not be zero"},
		{"range float", "range(1.5)", "'float' object cannot be interpreted as an integer"},
		{"int literal", "int('abc')", "invalid literal for int(): 'abc'"},
		{"float literal", "float('x')", "could not convert string to float: 'x'"},
		{"abs type", "abs('a')", "bad operand type for abs(): 'str'"},
		{"unhashable key", "{[1]: 2}", "unhashable type: 'list'"},
		{"not iterable", "for c in 5:\n    pass\n", "'int' object is not iterable"},
		{"base not class", "B = 1\nclass A(B):\n    pass\n", "base 'B' is not a class"},
		{"missing argument", "def f(a):\n    return a\nf()", "missing argument for parameter 'a'"},
		{"too many arguments", "def f(a):\n    return a\nf(1, 2)", "f() takes 1 positional argument but 2 were given"},
		{"attribute on int", "x = 1\nx.y", "'int' object has no attribute 'y'"},
		{"literal target", "1 = 2", "invalid assignment target"},
		{"member target", "x = 1\nx.y = 2", "invalid assignment target"},
		{"compound undefined", "y += 1", "undefined variable 'y'"},
		{"class not callable", "class A:\n    pass\nA()", "'type' object is not callable"},
		{"missing class attribute", "class A:\n    pass\nA.b", "type object 'A' has no attribute 'b'"},
		{"huge list repeat", "x = [1, 2] * 9223372036854775807", "repeated sequence is too long"},
		{"huge string repeat", "x = 'ab' * 9223372036854775807", "repeated sequence is too long"},
		{"huge repeat on the left", "x = 9223372036854775807 * 'ab'", "repeated sequence is too long"},
		{"huge range", "x = range(-9223372036854775807 - 1, 9223372036854775807)", "range() result is too long"},
		{"abs overflow", "abs(-9223372036854775807 - 1)", "integer overflow in abs()"},
		{"negate overflow", "x = -9223372036854775807 - 1\n-x", "integer overflow in unary -"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runSource(t, tc.src)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !diag.Is(err, diag.KindRuntime) {
				t.Fatalf("expected runtime error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want it to contain %q", err.Error(), tc.want)
			}
		})
	}
}

func TestDivisionByZeroCarriesOperatorPosition(t *testing.T) {
	_, _, err := runSource(t, "x = 1 / 0")
	pos, ok := diag.PositionOf(err)
	if !ok || pos != (diag.Position{Line: 1, Column: 7}) {
		t.Fatalf("position = %v (%v), want 1:7", pos, ok)
	}
}

func TestTruthiness(t *testing.T) {
	fn := &runtime.FunctionValue{Declaration: ast.Fn("f", nil, ast.Pass())}
	cases := []struct {
		name string
		val  runtime.Value
		want bool
	}{
		{"none", runtime.None, false},
		{"false", runtime.BoolValue{Val: false}, false},
		{"zero", runtime.IntegerValue{Val: 0}, false},
		{"zero float", runtime.FloatValue{Val: 0}, false},
		{"empty string", runtime.StringValue{Val: ""}, false},
		{"empty list", runtime.NewList(nil), false},
		{"empty map", runtime.NewMap(), false},
		{"string zero", runtime.StringValue{Val: "0"}, true},
		{"one", runtime.IntegerValue{Val: 1}, true},
		{"list", runtime.NewList([]runtime.Value{runtime.IntegerValue{Val: 0}}), true},
		{"function", fn, true},
		{"class", &runtime.ClassValue{Name: "A", Attributes: runtime.NewEnvironment(nil)}, true},
	}
	for _, tc := range cases {
		if got := isTruthy(tc.val); got != tc.want {
			t.Fatalf("%s: isTruthy = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClosureKeepsDefiningEnvironment(t *testing.T) {
	src := `def make_adder(n):
    def add(x):
        return x + n
    return add
add5 = make_adder(5)
add1 = make_adder(1)
print(add5(10), add1(10))
`
	if got := mustRun(t, src); got != "15 11\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAssignmentShadowsOuterBinding(t *testing.T) {
	src := `x = 1
def f():
    x = 2
    return x
print(f())
print(x)
`
	if got := mustRun(t, src); got != "2\n1\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestLogicalOperatorsEvaluateBothSides(t *testing.T) {
	src := `def side(name):
    print(name)
    return True
x = False and side("right")
y = True or side("again")
print(x, y)
`
	if got := mustRun(t, src); got != "right\nagain\nFalse True\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestDefaultsEvaluateInClosureAtCallTime(t *testing.T) {
	src := `base = 10
def f(a, b=base):
    return a + b
print(f(1), f(1, 2))
base = 20
print(f(1))
`
	if got := mustRun(t, src); got != "11 3\n21\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestDefaultsUseDefiningScopeNotCallSite(t *testing.T) {
	src := `def make():
    base = 100
    def f(a, b=base):
        return a + b
    return f
def caller(g):
    base = 1
    return g(1)
base = 5
print(caller(make()))
`
	if got := mustRun(t, src); got != "101\n" {
		t.Fatalf("output = %q, want %q", got, "101\n")
	}
}

func TestSiblingClosuresShareDefiningScope(t *testing.T) {
	src := `def make():
    class Counter:
        count = 0
    def bump():
        Counter.count += 1
        return Counter.count
    def read():
        return Counter.count
    label = "before"
    def show():
        return label
    def also():
        return label
    label = "after"
    Counter.bump = bump
    Counter.read = read
    Counter.show = show
    Counter.also = also
    return Counter
c = make()
c.bump()
c.bump()
print(c.read(), c.show(), c.also())
`
	if got := mustRun(t, src); got != "2 after after\n" {
		t.Fatalf("output = %q, want %q", got, "2 after after\n")
	}
}

func TestSequenceBoundsNearIntegerLimits(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"range below max", "print(range(9223372036854775806, 9223372036854775807, 5))", "[9223372036854775806]\n"},
		{"range descending from max", "print(range(9223372036854775807, 9223372036854775800, -4))", "[9223372036854775807, 9223372036854775803]\n"},
		{"range from min", "m = -9223372036854775807 - 1\nprint(range(m, m + 3))", "[-9223372036854775808, -9223372036854775807, -9223372036854775806]\n"},
		{"range min step", "m = -9223372036854775807 - 1\nprint(range(0, m, m))", "[0]\n"},
		{"empty string repeat", "print(len('' * 9223372036854775807))", "0\n"},
		{"empty list repeat", "print([] * 9223372036854775807)", "[]\n"},
		{"negative repeat", "print([1] * -3, 'ab' * -1)", "[] \n"},
		{"abs of max", "print(abs(-9223372036854775807))", "9223372036854775807\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustRun(t, tc.src); got != tc.want {
				t.Fatalf("output = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoopsAndControlFlow(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "break and continue",
			src: `total = 0
for i in range(10):
    if i == 5:
        break
    if i % 2 == 0:
        continue
    total += i
print(total)
`,
			want: "4\n",
		},
		{
			name: "while",
			src: `n = 0
while True:
    n += 1
    if n >= 3:
        break
print(n)
`,
			want: "3\n",
		},
		{
			name: "return from loop",
			src: `def first_even(items):
    for x in items:
        if x % 2 == 0:
            return x
    return None
print(first_even([1, 3, 4, 6]))
print(first_even([1]))
`,
			want: "4\nNone\n",
		},
		{
			name: "elif chain",
			src: `def sign(n):
    if n < 0:
        return "neg"
    elif n == 0:
        return "zero"
    else:
        return "pos"
print(sign(-1), sign(0), sign(5))
`,
			want: "neg zero pos\n",
		},
		{
			name: "string iteration",
			src:  "for c in \"ab\":\n    print(c)\n",
			want: "a\nb\n",
		},
		{
			name: "map keys in insertion order",
			src:  "for k in {\"b\": 1, \"a\": 2}:\n    print(k)\n",
			want: "b\na\n",
		},
		{
			name: "loop variable stays bound",
			src:  "for i in [1, 2, 3]:\n    pass\nprint(i)\n",
			want: "3\n",
		},
		{
			name: "semicolons",
			src:  "a = 1; b = 2; print(a + b)\n",
			want: "3\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustRun(t, tc.src); got != tc.want {
				t.Fatalf("output = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRecursionLimit(t *testing.T) {
	src := `def f(n):
    return f(n + 1)
f(0)
`
	_, _, err := runSource(t, src, WithMaxDepth(50))
	if err == nil || !diag.Is(err, diag.KindRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if !strings.Contains(err.Error(), "maximum recursion depth exceeded") {
		t.Fatalf("unexpected error %q", err.Error())
	}
}

func TestClassesAndMembers(t *testing.T) {
	src := `class Animal:
    sound = "..."
    legs = 4
    def describe(n):
        return n * 2
class Dog(Animal):
    sound = "woof"
print(Dog.sound, Dog.legs, Animal.sound)
Dog.legs += 1
Dog.name = "rex"
print(Dog.name, Dog.legs, Animal.legs)
print(Dog, Dog.describe(3))
`
	want := "woof 4 ...\nrex 5 4\n<class 'Dog'> 6\n"
	if got := mustRun(t, src); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestBuiltins(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`print(len("héllo"), len([1, 2]), len({"a": 1}))`, "5 2 1\n"},
		{`print(str(3.0), str(None), str([1, "a"]), len(str()))`, "3.0 None [1, 'a'] 0\n"},
		{`print(int(3.9), int(-2.5), int("  42 "), int("True"), int(False))`, "3 -2 42 1 0\n"},
		{`print(float("1.5"), float(2), float("False"))`, "1.5 2.0 0.0\n"},
		{`print(type(1), type("a"), type(None), type([]), type({}))`, "<class 'int'> <class 'str'> <class 'NoneType'> <class 'list'> <class 'dict'>\n"},
		{`print(type(print), type(1.5), type(True))`, "<class 'builtin_function_or_method'> <class 'float'> <class 'bool'>\n"},
		{`print(abs(-3), abs(-2.5), abs(4))`, "3 2.5 4\n"},
		{`print(range(3), range(1, 4), range(5, 0, -2), range(0))`, "[0, 1, 2] [1, 2, 3] [5, 3, 1] []\n"},
		{`print()`, "\n"},
		{`print(print)`, "<built-in function print>\n"},
		{"len = 5\nprint(len, len('ab'))", "5 2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			if got := mustRun(t, tc.src); got != tc.want {
				t.Fatalf("output = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	m := runtime.NewMap()
	if err := m.Set(runtime.StringValue{Val: "k"}, runtime.IntegerValue{Val: 1}); err != nil {
		t.Fatalf("map set failed: %v", err)
	}
	self := runtime.NewList(nil)
	self.Elements = append(self.Elements, self)

	cases := []struct {
		val  runtime.Value
		want string
	}{
		{runtime.None, "None"},
		{runtime.BoolValue{Val: true}, "True"},
		{runtime.IntegerValue{Val: -42}, "-42"},
		{runtime.FloatValue{Val: 3.5}, "3.5"},
		{runtime.FloatValue{Val: 2}, "2.0"},
		{runtime.FloatValue{Val: 0.1}, "0.1"},
		{runtime.FloatValue{Val: 1e16}, "1e+16"},
		{runtime.FloatValue{Val: 1e-5}, "1e-05"},
		{runtime.FloatValue{Val: math.Inf(1)}, "inf"},
		{runtime.FloatValue{Val: math.Inf(-1)}, "-inf"},
		{runtime.FloatValue{Val: math.NaN()}, "nan"},
		{runtime.StringValue{Val: "hi"}, "hi"},
		{runtime.NewList([]runtime.Value{runtime.IntegerValue{Val: 1}, runtime.StringValue{Val: "a"}, runtime.None}), "[1, 'a', None]"},
		{runtime.NewList([]runtime.Value{runtime.StringValue{Val: "it's"}}), `["it's"]`},
		{m, "{'k': 1}"},
		{self, "[[...]]"},
		{&runtime.FunctionValue{Declaration: ast.Fn("f", nil, ast.Pass())}, "<function f>"},
		{runtime.NativeFunctionValue{Name: "len"}, "<built-in function len>"},
		{&runtime.ClassValue{Name: "A"}, "<class 'A'>"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.val); got != tc.want {
			t.Fatalf("FormatValue = %q, want %q", got, tc.want)
		}
	}
}

func TestEscapingSignalsAreInternalErrors(t *testing.T) {
	cases := []struct {
		name    string
		program *ast.Program
	}{
		{"break in function", ast.Prog(ast.Fn("f", nil, ast.Brk()), ast.Expr(ast.Call("f")))},
		{"continue in function", ast.Prog(ast.Fn("g", nil, ast.Cont()), ast.Expr(ast.Call("g")))},
		{"top-level break", ast.Prog(ast.Brk())},
		{"top-level return", ast.Prog(ast.Ret(ast.Int(1)))},
		{"return in class body", ast.Prog(ast.Class("C", nil, ast.Ret(nil)))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(WithOutput(&bytes.Buffer{})).Run(tc.program)
			if !diag.Is(err, diag.KindInternal) {
				t.Fatalf("expected internal error, got %v", err)
			}
		})
	}
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	interp := New(WithOutput(&bytes.Buffer{}))
	for _, src := range []string{"x = 2", "def double(n):\n    return n * x\n"} {
		program, err := parser.ParseSource(src)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if _, err := interp.Run(program); err != nil {
			t.Fatalf("run failed: %v", err)
		}
	}
	program, err := parser.ParseSource("double(21)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	val, err := interp.Run(program)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n, ok := val.(runtime.IntegerValue); !ok || n.Val != 42 {
		t.Fatalf("unexpected value %#v", val)
	}
	if _, err := interp.GlobalEnvironment().Get("double"); err != nil {
		t.Fatalf("expected double in globals: %v", err)
	}
}

func TestEvalRunsPipeline(t *testing.T) {
	var out bytes.Buffer
	val, err := Eval("print('hi')\n1 + 1", WithOutput(&out))
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("output = %q", out.String())
	}
	if n, ok := val.(runtime.IntegerValue); !ok || n.Val != 2 {
		t.Fatalf("unexpected value %#v", val)
	}
	if _, err := Eval("x = = 1", WithOutput(&out)); !diag.Is(err, diag.KindSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
}
