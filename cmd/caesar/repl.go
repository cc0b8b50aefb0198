package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/interpreter"
	"caesar/interpreter-go/pkg/lexer"
	"caesar/interpreter-go/pkg/parser"
	"caesar/interpreter-go/pkg/runtime"
)

const (
	promptMain  = "caesar> "
	promptCont  = "...     "
	historyFile = "history"
)

// lineReader is the part of liner.State the REPL needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args, " "))
		return 1
	}
	home, err := resolveCaesarHome()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(home, 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(os.Stdout, "%s REPL\nType :help for help, :quit to exit\n", cliToolVersion)
	session := newReplSession(os.Stdout, os.Stderr)
	for {
		code, ok := readBlock(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(os.Stdout)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if session.eval(code) {
			break
		}
	}
	return 0
}

// readBlock reads one REPL entry. A line ending in ':' opens a block that
// continues until a blank line; unclosed brackets continue until they close.
func readBlock(r lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	inBlock := false
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := r.Prompt(p)
		if err != nil {
			if errors.Is(err, io.EOF) && b.Len() == 0 {
				return "", false
			}
			if errors.Is(err, liner.ErrPromptAborted) {
				return "", true
			}
			return b.String(), b.Len() > 0
		}

		if b.Len() > 0 {
			if inBlock && strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if strings.HasSuffix(strings.TrimSpace(stripComment(line)), ":") {
			inBlock = true
		}
		if !inBlock && openBrackets(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// stripComment drops a trailing '#' comment outside string literals.
func stripComment(line string) string {
	var quote rune
	for idx, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '#':
			return line[:idx]
		}
	}
	return line
}

// openBrackets counts unclosed (, [ and { outside strings and comments.
func openBrackets(src string) int {
	depth := 0
	for _, line := range strings.Split(src, "\n") {
		var quote rune
		escaped := false
		for _, r := range stripComment(line) {
			if quote != 0 {
				switch {
				case escaped:
					escaped = false
				case r == '\\':
					escaped = true
				case r == quote:
					quote = 0
				}
				continue
			}
			switch r {
			case '"', '\'':
				quote = r
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
		}
	}
	return depth
}

// replSession evaluates entries against one persistent interpreter.
type replSession struct {
	interp     *interpreter.Interpreter
	out        io.Writer
	errOut     io.Writer
	showTokens bool
}

func newReplSession(out, errOut io.Writer) *replSession {
	return &replSession{
		interp: interpreter.New(interpreter.WithOutput(out)),
		out:    out,
		errOut: errOut,
	}
}

// eval runs one entry and reports whether the session should end.
func (s *replSession) eval(code string) bool {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, ":") {
		switch strings.ToLower(trimmed) {
		case ":quit", ":exit", ":q":
			return true
		case ":help":
			s.printHelp()
		case ":tokens":
			s.showTokens = !s.showTokens
			state := "disabled"
			if s.showTokens {
				state = "enabled"
			}
			fmt.Fprintf(s.out, "Token display %s\n", state)
		default:
			fmt.Fprintln(s.out, "unknown command. Type :help for help.")
		}
		return false
	}

	tokens, err := lexer.Tokenize(code)
	if err != nil {
		reportError(s.errOut, "<repl>", code, err)
		return false
	}
	if s.showTokens {
		for _, tok := range tokens {
			if tok.Type != lexer.END {
				fmt.Fprintf(s.out, "  %s\n", tok)
			}
		}
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		reportError(s.errOut, "<repl>", code, err)
		return false
	}
	val, err := s.interp.Run(program)
	if err != nil {
		reportError(s.errOut, "<repl>", code, err)
		return false
	}
	if _, isNone := val.(runtime.NoneValue); !isNone && echoes(program) {
		fmt.Fprintln(s.out, interpreter.Repr(val))
	}
	return false
}

// echoes reports whether the REPL prints the value of program: only a
// trailing expression statement that is not an assignment is echoed.
func echoes(program *ast.Program) bool {
	if len(program.Body) == 0 {
		return false
	}
	stmt, ok := program.Body[len(program.Body)-1].(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	_, isAssign := stmt.Expression.(*ast.AssignmentExpression)
	return !isAssign
}

func (s *replSession) printHelp() {
	fmt.Fprintln(s.out, "Caesar REPL commands:")
	fmt.Fprintln(s.out, "  :help     show this help message")
	fmt.Fprintln(s.out, "  :quit     exit the REPL")
	fmt.Fprintln(s.out, "  :tokens   toggle token display")
	fmt.Fprintf(s.out, "Built-in functions: %s\n", strings.Join(interpreter.BuiltinNames, ", "))
	fmt.Fprintln(s.out, "End a block (a line ending in ':') with an empty line.")
}
