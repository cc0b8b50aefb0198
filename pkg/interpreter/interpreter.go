package interpreter

import (
	"errors"
	"io"
	"os"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/parser"
	"caesar/interpreter-go/pkg/runtime"
)

// DefaultMaxDepth bounds nested user function calls.
const DefaultMaxDepth = 10000

// Interpreter drives evaluation of Caesar AST nodes.
//
// Invariants:
//   - global persists across Run calls, so successive programs (REPL lines)
//     see each other's bindings.
//   - depth counts active user function frames and never exceeds maxDepth.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	global   *runtime.Environment
	builtins map[string]runtime.NativeFunctionValue
	out      io.Writer
	maxDepth int
	depth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput directs print() to w. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.out = w
		}
	}
}

// WithMaxDepth sets the recursion limit. Non-positive values keep the default.
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxDepth = n
		}
	}
}

// New returns an interpreter with a fresh global environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global:   runtime.NewEnvironment(nil),
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.builtins = i.builtinTable()
	i.global.Define("__name__", runtime.StringValue{Val: "__main__"})
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Run executes program in the global environment and returns the value of its
// last top-level statement. Expression statements produce their value; every
// other statement produces None.
func (i *Interpreter) Run(program *ast.Program) (runtime.Value, error) {
	if program == nil {
		return runtime.None, nil
	}
	i.depth = 0
	var last runtime.Value = runtime.None
	for _, stmt := range program.Body {
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			val, err := i.evaluateExpression(es.Expression, i.global)
			if err != nil {
				return nil, err
			}
			last = val
			continue
		}
		sig, err := i.execute(stmt, i.global)
		if err != nil {
			return nil, err
		}
		if sig.Kind != SignalNormal {
			return nil, diag.Internal(stmt.Pos(), "%s signal escaped the program", sig.Kind)
		}
		last = runtime.None
	}
	return last, nil
}

// Eval tokenizes, parses and runs src on a new interpreter.
func Eval(src string, opts ...Option) (runtime.Value, error) {
	program, err := parser.ParseSource(src)
	if err != nil {
		return nil, err
	}
	return New(opts...).Run(program)
}

// atPos attaches pos to host errors. Diagnostic errors keep their own
// position.
func atPos(err error, pos diag.Position) error {
	if err == nil {
		return nil
	}
	var de *diag.Error
	if errors.As(err, &de) {
		return err
	}
	return diag.Runtime(pos, "%s", err.Error())
}
