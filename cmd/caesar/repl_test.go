package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestReadBlock(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		want  string
		ok    bool
	}{
		{"single line", []string{"x = 1"}, "x = 1", true},
		{"block until blank", []string{"if x:", "    print(x)", "    x = 2", "", "ignored"}, "if x:\n    print(x)\n    x = 2", true},
		{"open brackets", []string{"print(1,", "2)"}, "print(1,\n2)", true},
		{"bracket in string", []string{"print('(')"}, "print('(')", true},
		{"comment colon", []string{"x = 1 # note:"}, "x = 1 # note:", true},
		{"eof", nil, "", false},
		{"eof inside block", []string{"while x:", "    x = x - 1"}, "while x:\n    x = x - 1", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &scriptedReader{lines: tc.lines}
			got, ok := readBlock(r, "> ", ". ")
			if got != tc.want || ok != tc.ok {
				t.Fatalf("readBlock = %q, %v; want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestReadBlockPrompts(t *testing.T) {
	r := &scriptedReader{lines: []string{"def f():", "    return 1", ""}}
	if _, ok := readBlock(r, "> ", ". "); !ok {
		t.Fatalf("readBlock reported end of input")
	}
	if got := strings.Join(r.prompts, "|"); got != "> |. |. " {
		t.Fatalf("prompts = %q", got)
	}
}

func TestOpenBrackets(t *testing.T) {
	cases := map[string]int{
		"x = 1":            0,
		"f(1, [2, {3":      3,
		"f(1)]":            -1,
		`s = "(\"["`:       0,
		"x = ( # )":        1,
		"a = [\n1,\n2]":    0,
		"print('a)', (1": 1,
	}
	for src, want := range cases {
		if got := openBrackets(src); got != want {
			t.Fatalf("openBrackets(%q) = %d, want %d", src, got, want)
		}
	}
}

func TestStripComment(t *testing.T) {
	cases := map[string]string{
		"x = 1 # one":     "x = 1 ",
		"s = '#' # tail": "s = '#' ",
		"# only":          "",
		"plain":           "plain",
	}
	for line, want := range cases {
		if got := stripComment(line); got != want {
			t.Fatalf("stripComment(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestReplSessionEchoAndState(t *testing.T) {
	var out, errOut bytes.Buffer
	session := newReplSession(&out, &errOut)

	entries := []string{
		"x = 40",
		"x + 2",
		"'hi'",
		"print('hi')",
		"def twice(n):\n    return n * 2",
		"twice(x)",
		"[1, 'a', None]",
		"None",
	}
	for _, entry := range entries {
		if session.eval(entry) {
			t.Fatalf("eval(%q) ended the session", entry)
		}
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errOut.String())
	}
	want := "42\n'hi'\nhi\n80\n[1, 'a', None]\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestReplSessionErrorsKeepSession(t *testing.T) {
	var out, errOut bytes.Buffer
	session := newReplSession(&out, &errOut)

	if session.eval("y = 1 / 0") {
		t.Fatalf("runtime error ended the session")
	}
	if !strings.Contains(errOut.String(), "Error: division by zero at line 1, column 7") {
		t.Fatalf("missing runtime diagnostic: %q", errOut.String())
	}
	errOut.Reset()
	if session.eval("y = = 2") {
		t.Fatalf("syntax error ended the session")
	}
	if !strings.HasPrefix(errOut.String(), "Error: ") {
		t.Fatalf("missing syntax diagnostic: %q", errOut.String())
	}
	errOut.Reset()
	session.eval("missing")
	if !strings.Contains(errOut.String(), "undefined variable 'missing'") {
		t.Fatalf("missing name diagnostic: %q", errOut.String())
	}
	session.eval("z = 5")
	session.eval("z")
	if out.String() != "5\n" {
		t.Fatalf("output = %q, want %q", out.String(), "5\n")
	}
}

func TestReplSessionCommands(t *testing.T) {
	var out, errOut bytes.Buffer
	session := newReplSession(&out, &errOut)

	if session.eval(":help") {
		t.Fatalf(":help ended the session")
	}
	if !strings.Contains(out.String(), "Built-in functions: print, range, len") {
		t.Fatalf("help output = %q", out.String())
	}

	out.Reset()
	session.eval(":tokens")
	session.eval("x")
	session.eval(":tokens")
	got := out.String()
	if !strings.HasPrefix(got, "Token display enabled\n") || !strings.HasSuffix(got, "Token display disabled\n") {
		t.Fatalf("token toggle output = %q", got)
	}
	if !strings.Contains(got, `  IDENTIFIER("x")@1:1`) {
		t.Fatalf("token dump missing identifier: %q", got)
	}

	out.Reset()
	session.eval(":nope")
	if out.String() != "unknown command. Type :help for help.\n" {
		t.Fatalf("unknown command output = %q", out.String())
	}

	for _, cmd := range []string{":quit", ":exit", ":q", ":QUIT"} {
		if !session.eval(cmd) {
			t.Fatalf("%s did not end the session", cmd)
		}
	}
}
