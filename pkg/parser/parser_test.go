package parser_test

import (
	"errors"
	"strings"
	"testing"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/lexer"
	"caesar/interpreter-go/pkg/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%q) returned error: %v", src, err)
	}
	if prog == nil {
		t.Fatalf("ParseSource(%q) returned nil program", src)
	}
	return prog
}

func TestParseExpressionPrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"2 ** 3 ** 2", "(** 2 (** 3 2))"},
		{"-2 ** 2", "(** (- 2) 2)"},
		{"2 ** -1", "(** 2 (- 1))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"7 // 2 % 3", "(% (// 7 2) 3)"},
		{"a = b = 1", "(= a (= b 1))"},
		{"x += 1", "(+= x 1)"},
		{"x /= y - 1", "(/= x (- y 1))"},
		{"a or b and c", "(or a (and b c))"},
		{"True and False or None", "(or (and True False) None)"},
		{"not a == b", "(== (not a) b)"},
		{"a < b == c < d", "(== (< a b) (< c d))"},
		{"a is not None", "(is not a None)"},
		{"a is b != c", "(!= (is a b) c)"},
		{"f(1, 2)(3).x.y", "(. (. (call (call f 1 2) 3) x) y)"},
		{"obj.attr = 3", "(= (. obj attr) 3)"},
		{"[1, 2,]", "(list 1 2)"},
		{"[]", "(list)"},
		{`{'a': 1, "b": 2.5}`, `(map ("a" 1) ("b" 2.5))`},
		{"xs = [\n  1,\n      2\n]", "(= xs (list 1 2))"},
		{"print(-x, not y,)", "(call print (- x) (not y))"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			prog := mustParse(t, tc.src)
			if len(prog.Body) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(prog.Body))
			}
			if got := ast.Dump(prog); got != tc.want {
				t.Fatalf("Dump = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseFibProgram(t *testing.T) {
	src := "def fib(n):\n    if n <= 1:\n        return n\n    return fib(n-1) + fib(n-2)\nprint(fib(7))\n"
	prog := mustParse(t, src)
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(prog.Body))
	}
	fn, ok := prog.Body[0].(*ast.FunctionDefinition)
	if !ok {
		t.Fatalf("expected FunctionDefinition, got %T", prog.Body[0])
	}
	if fn.Name() != "fib" || len(fn.Params) != 1 || fn.Params[0].Name.Name != "n" {
		t.Fatalf("unexpected function header %s", ast.Dump(fn))
	}
	if _, ok := prog.Body[1].(*ast.ExpressionStatement); !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Body[1])
	}
	want := "(def fib (n) (block (if (<= n 1) (block (return n))) (return (+ (call fib (- n 1)) (call fib (- n 2))))))\n" +
		"(call print (call fib 7))"
	if got := ast.Dump(prog); got != want {
		t.Fatalf("Dump =\n%s\nwant\n%s", got, want)
	}
}

func TestParseStatements(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "elif chain nests in else slot",
			src:  "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n",
			want: "(if a (block (= x 1)) (if b (block (= x 2)) (block (= x 3))))",
		},
		{
			name: "dangling else binds to nearest if",
			src:  "if a:\n    if b:\n        x\n    else:\n        y\n",
			want: "(if a (block (if b (block x) (block y))))",
		},
		{
			name: "while with break and continue",
			src:  "while True:\n    if x:\n        break\n    continue\n",
			want: "(while True (block (if x (block (break))) (continue)))",
		},
		{
			name: "for loop",
			src:  "for i in range(3):\n    print(i)\n",
			want: "(for i (call range 3) (block (call print i)))",
		},
		{
			name: "defaults stay unevaluated",
			src:  "def f(a, b=1, c=a+1,):\n    pass\n",
			want: "(def f (a (b 1) (c (+ a 1))) (block (pass)))",
		},
		{
			name: "bare return",
			src:  "def f():\n    return\n",
			want: "(def f () (block (return)))",
		},
		{
			name: "class with bases",
			src:  "class Dog(Animal, Pet):\n    sound = 'woof'\n    def speak():\n        return Dog.sound\n",
			want: "(class Dog (Animal Pet) (block (= sound \"woof\") (def speak () (block (return (. Dog sound))))))",
		},
		{
			name: "semicolons separate statements",
			src:  "a = 1; b = 2;\nprint(a)",
			want: "(= a 1)\n(= b 2)\n(call print a)",
		},
		{
			name: "block closed at end of input",
			src:  "while x:\n    x -= 1",
			want: "(while x (block (-= x 1)))",
		},
		{
			name: "comments and blank lines",
			src:  "# header\n\nx = 1  # trailing\n\n\ny = 2\n",
			want: "(= x 1)\n(= y 2)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ast.Dump(mustParse(t, tc.src)); got != tc.want {
				t.Fatalf("Dump =\n%s\nwant\n%s", got, tc.want)
			}
		})
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog := mustParse(t, "\n# nothing here\n")
	if len(prog.Body) != 0 {
		t.Fatalf("expected empty program, got %s", ast.Dump(prog))
	}
}

func TestParsePositions(t *testing.T) {
	prog := mustParse(t, "x = 1 / 0")
	stmt := prog.Body[0].(*ast.ExpressionStatement)
	assign, ok := stmt.Expression.(*ast.AssignmentExpression)
	if !ok {
		t.Fatalf("expected assignment, got %T", stmt.Expression)
	}
	if pos := assign.Target.Pos(); pos.Line != 1 || pos.Column != 1 {
		t.Fatalf("target position = %s", pos)
	}
	div, ok := assign.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected binary expression, got %T", assign.Value)
	}
	if pos := div.Pos(); pos.Line != 1 || pos.Column != 7 {
		t.Fatalf("division position = %s, want 1:7", pos)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		message string
		line    int
		col     int
	}{
		{"unclosed paren", "x = (1 + 2", "expected ')' after expression", 1, 11},
		{"dangling operator", "1 +", "expected expression", 1, 4},
		{"missing colon", "if x\n    y\n", "expected ':' after if condition", 1, 5},
		{"missing indent", "if x:\ny\n", "expected indented block", 2, 1},
		{"two expressions", "1 2", "expected newline after statement", 1, 3},
		{"return at top level", "return 1", "'return' outside function", 1, 1},
		{"break at top level", "break", "'break' outside loop", 1, 1},
		{"continue in if", "if x:\n    continue\n", "'continue' outside loop", 2, 5},
		{"def resets loop context", "while x:\n    def f():\n        break\n", "'break' outside loop", 3, 9},
		{"return in class body", "class A:\n    return 1\n", "'return' outside function", 2, 5},
		{"non-default after default", "def f(a=1, b):\n    pass\n", "non-default parameter 'b' follows default parameter", 1, 12},
		{"duplicate parameter", "def f(a, a):\n    pass\n", "duplicate parameter 'a'", 1, 10},
		{"integer overflow", "x = 99999999999999999999", "integer literal out of range", 1, 5},
		{"stray else", "else:\n    pass\n", "'else' without matching 'if'", 1, 1},
		{"unexpected indent", "  x = 1", "unexpected indent", 1, 3},
		{"for without in", "for i range(3):\n    pass\n", "expected 'in' after for variable", 1, 7},
		{"map without colon", "{1, 2}", "expected ':' after map key", 1, 3},
		{"member without name", "a.1", "expected attribute name after '.'", 1, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.ParseSource(tc.src)
			if err == nil {
				t.Fatalf("expected syntax error for %q", tc.src)
			}
			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("expected *diag.Error, got %T (%v)", err, err)
			}
			if de.Kind != diag.KindSyntax {
				t.Fatalf("expected syntax error, got %s: %v", de.Kind, err)
			}
			if !strings.Contains(de.Message, tc.message) {
				t.Fatalf("message = %q, want it to contain %q", de.Message, tc.message)
			}
			if de.Pos.Line != tc.line || de.Pos.Column != tc.col {
				t.Fatalf("position = %s, want %d:%d", de.Pos, tc.line, tc.col)
			}
		})
	}
}

func TestParseErrorCarriesToken(t *testing.T) {
	_, err := parser.ParseSource("print(1))")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got != "expected newline after statement at line 1, column 9 (got ')')" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestParseSourcePropagatesLexicalErrors(t *testing.T) {
	_, err := parser.ParseSource(`x = "abc`)
	if !diag.Is(err, diag.KindLexical) {
		t.Fatalf("expected lexical error, got %v", err)
	}
}

func TestParseTerminatesStreamWithoutEnd(t *testing.T) {
	toks := []lexer.Token{
		{Type: lexer.IDENTIFIER, Text: "x", Pos: diag.Position{Line: 1, Column: 1}},
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ast.Dump(prog); got != "x" {
		t.Fatalf("Dump = %q", got)
	}
}
