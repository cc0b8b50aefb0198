package diag

import (
	"fmt"
	"strings"
)

// Snippet renders the source line at pos with a caret under the column,
// preceded by up to one line of context.
//
//	 2 | x = 1 / 0
//	   |       ^
func Snippet(source string, pos Position) string {
	if !pos.IsValid() {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	first := max(1, pos.Line-1)
	width := len(fmt.Sprintf("%d", pos.Line))

	var b strings.Builder
	for n := first; n <= pos.Line; n++ {
		content := strings.TrimRight(lines[n-1], "\r")
		fmt.Fprintf(&b, " %*d | %s\n", width, n, content)
	}
	// Columns count runes, as the lexer does.
	line := []rune(lines[pos.Line-1])
	col := min(pos.Column-1, len(line))
	pad := make([]rune, 0, col)
	for i := 0; i < col; i++ {
		// Keep tabs so the caret lines up with the rendered source.
		if line[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	fmt.Fprintf(&b, " %s | %s^\n", strings.Repeat(" ", width), string(pad))
	return b.String()
}
