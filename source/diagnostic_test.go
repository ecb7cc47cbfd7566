package source

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

type fakeDiagnostic struct {
	r Range
}

func (f fakeDiagnostic) Error() string   { return "boom" }
func (f fakeDiagnostic) Header() string  { return "EVALUATION ERROR" }
func (f fakeDiagnostic) Message() string { return "boom" }
func (f fakeDiagnostic) Range() Range    { return f.r }

func TestRenderSingleLine(t *testing.T) {
	text := "FWD 10\nTURN x\nFWD 2"
	d := fakeDiagnostic{r: Range{From: Position{Column: 5, Row: 1}, To: Position{Column: 6, Row: 1}}}

	expected := "EVALUATION ERROR at 2:6: boom\n" +
		"   2 | TURN x\n" +
		"     |      ^\n"
	assert.Equal(t, expected, Render(d, text))
}

func TestRenderWideCaret(t *testing.T) {
	text := "PRESS 2"
	d := fakeDiagnostic{r: Range{From: Position{Column: 0, Row: 0}, To: Position{Column: 7, Row: 0}}}

	expected := "EVALUATION ERROR at 1:1: boom\n" +
		"   1 | PRESS 2\n" +
		"     | ^^^^^^^\n"
	assert.Equal(t, expected, Render(d, text))
}

func TestRenderMultiLineHasNoExcerpt(t *testing.T) {
	d := fakeDiagnostic{r: Range{From: Position{Column: 0, Row: 0}, To: Position{Column: 1, Row: 2}}}

	assert.Equal(t, "EVALUATION ERROR at 1:1: boom\n", Render(d, "a\nb\nc"))
}
