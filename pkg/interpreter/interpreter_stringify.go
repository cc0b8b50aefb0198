package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"caesar/interpreter-go/pkg/runtime"
)

// FormatValue returns the str form of val, as print and str() produce it.
// Strings are raw at the top level and quoted inside containers.
func FormatValue(val runtime.Value) string {
	if s, ok := val.(runtime.StringValue); ok {
		return s.Val
	}
	return valueToString(val, map[any]bool{})
}

// Repr returns the quoted form used for container elements.
func Repr(val runtime.Value) string {
	return valueToString(val, map[any]bool{})
}

// valueToString renders val with strings quoted. seen holds the containers
// currently being rendered so a self-referencing list prints as [...].
func valueToString(val runtime.Value, seen map[any]bool) string {
	switch v := val.(type) {
	case nil, runtime.NoneValue:
		return "None"
	case runtime.BoolValue:
		if v.Val {
			return "True"
		}
		return "False"
	case runtime.IntegerValue:
		return strconv.FormatInt(v.Val, 10)
	case runtime.FloatValue:
		return formatFloat(v.Val)
	case runtime.StringValue:
		return quoteString(v.Val)
	case *runtime.ListValue:
		if seen[v] {
			return "[...]"
		}
		seen[v] = true
		defer delete(seen, v)
		parts := make([]string, 0, len(v.Elements))
		for _, el := range v.Elements {
			parts = append(parts, valueToString(el, seen))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *runtime.MapValue:
		if seen[v] {
			return "{...}"
		}
		seen[v] = true
		defer delete(seen, v)
		keys := v.Keys()
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			item, _ := v.Get(key)
			parts = append(parts, valueToString(key, seen)+": "+valueToString(item, seen))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *runtime.FunctionValue:
		return fmt.Sprintf("<function %s>", v.Name())
	case runtime.NativeFunctionValue:
		return fmt.Sprintf("<built-in function %s>", v.Name)
	case *runtime.ClassValue:
		return fmt.Sprintf("<class '%s'>", v.Name)
	default:
		return fmt.Sprintf("<%s>", val.Kind())
	}
}

// formatFloat produces the shortest round-tripping form, switching to
// exponent notation outside [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if len(digits) < 2 {
			digits = strings.Repeat("0", 2-len(digits)) + digits
		}
		return mantissa + "e" + sign + digits
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quoteString prefers single quotes, falling back to double quotes when the
// text contains a single quote and no double quote.
func quoteString(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r == rune(quote) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// typeName is the text type() reports for val.
func typeName(val runtime.Value) string {
	return fmt.Sprintf("<class '%s'>", val.Kind())
}
