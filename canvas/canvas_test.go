package canvas

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/cursorlang/tokenizer"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(200, 100)
	assert.Equal(t, 200.0, r.Width())
	assert.Equal(t, 100.0, r.Height())
	assert.Equal(t, 200.0, Largest(r))

	r.DrawLine(Line{FromX: 0, FromY: 0, ToX: 3, ToY: 4, Color: tokenizer.Black, Opacity: 1, Thickness: 2})
	assert.Equal(t, 1, len(r.Lines))
	assert.Equal(t, 5.0, r.Lines[0].Length())

	var b strings.Builder
	assert.NoError(t, r.WriteText(&b))
	assert.Equal(t, "0,0 -> 3,4 #000000FF 1 2\n", b.String())

	r.Reset()
	assert.Equal(t, 0, len(r.Lines))
}

func TestSVGRoundTrip(t *testing.T) {
	s := NewSVG(100, 50, "#ffffff", "run-1")
	s.DrawLine(Line{FromX: 10, FromY: 20, ToX: 30.5, ToY: 40, Color: tokenizer.Color{R: 1, A: 0.5}, Opacity: 1, Thickness: 3})

	text := s.String()
	assert.Contains(t, text, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50" viewBox="0 0 100 50">`)
	assert.Contains(t, text, `data-run-id="run-1"`)
	assert.Contains(t, text, `stroke="#FF0000"`)

	lines, err := ParseSVG(text)
	assert.NoError(t, err)
	assert.Equal(t, []Line{{
		FromX: 10, FromY: 20, ToX: 30.5, ToY: 40,
		Color: tokenizer.Color{R: 1, A: 1}, Opacity: 0.5, Thickness: 3,
	}}, lines)
}

func TestSVGWriteTo(t *testing.T) {
	s := NewSVG(10, 10, "", "")

	var b strings.Builder
	n, err := s.WriteTo(&b)
	assert.NoError(t, err)
	assert.Equal(t, int64(b.Len()), n)
	assert.NotContains(t, b.String(), "<rect")
	assert.NotContains(t, b.String(), "<metadata")
}

func TestParseSVGErrors(t *testing.T) {
	_, err := ParseSVG(`<html/>`)
	assert.IsError(t, err, ErrNoSVGElement)

	_, err = ParseSVG(`<svg><line x1="a"/></svg>`)
	assert.Error(t, err)
}
