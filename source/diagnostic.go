package source

import (
	"fmt"
	"strings"
)

// Diagnostic is implemented by every fault family of the toolchain.
type Diagnostic interface {
	error
	Header() string
	Message() string
	Range() Range
}

// Render formats a diagnostic against the text it was produced from.
//
//	PARSING ERROR at 2:5: expected '}'
//	   2 | FWD 10
//	     |     ^^
//
// The excerpt is only emitted for single-line ranges.
func Render(d Diagnostic, text string) string {
	r := d.Range()

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s: %s\n", d.Header(), r.From, d.Message())

	if !r.SingleLine() {
		return b.String()
	}

	line, ok := Line(text, r.From.Row)
	if !ok {
		return b.String()
	}

	width := r.To.Column - r.From.Column
	if width < 1 {
		width = 1
	}

	fmt.Fprintf(&b, "%4d | %s\n", r.From.Row+1, line)
	fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", r.From.Column), strings.Repeat("^", width))

	return b.String()
}

// Line returns the row-th line (zero-based) of text without its terminator.
func Line(text string, row int) (string, bool) {
	if row < 0 {
		return "", false
	}

	lines := strings.Split(text, "\n")
	if row >= len(lines) {
		return "", false
	}

	return strings.TrimRight(lines[row], "\r"), true
}
