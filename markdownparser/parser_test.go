package markdownparser

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const fence = "```"

func TestParseDocument(t *testing.T) {
	input := `---
author: someone
canvas:
  width: 200
  height: 100
---

# Square

Draws one side.

## Program

` + fence + `cty
FWD 10
TURN 90
` + fence + `

## Expect

` + fence + `cel
size(lines) == 1

// the default cursor stays
cursors == 1
` + fence + `
`

	doc, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)

	assert.Equal(t, "Square", doc.Title)
	assert.Equal(t, "someone", doc.Metadata["author"])
	assert.Equal(t, CanvasSettings{Width: 200, Height: 100}, doc.Canvas)
	assert.Equal(t, "FWD 10\nTURN 90", doc.Program)
	assert.Equal(t, 15, doc.ProgramLine)
	assert.Equal(t, []Expectation{
		{Expression: "size(lines) == 1", Line: 22},
		{Expression: "cursors == 1", Line: 25},
	}, doc.Expectations)
	assert.False(t, doc.Skip)
}

func TestParseWithoutFrontMatter(t *testing.T) {
	input := "# Dot\n\n## Program\n\n" + fence + "\nFWD 1\n" + fence + "\n"

	doc, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, "Dot", doc.Title)
	assert.Equal(t, "FWD 1", doc.Program)
	assert.Equal(t, 6, doc.ProgramLine)
	assert.Equal(t, CanvasSettings{}, doc.Canvas)
	assert.Equal(t, 0, len(doc.Expectations))
}

func TestFrontMatterTitleWins(t *testing.T) {
	input := "---\ntitle: From front matter\nskip: true\n---\n# Heading\n## Program\n" + fence + "cty\nHIDE\n" + fence + "\n"

	doc, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, "From front matter", doc.Title)
	assert.True(t, doc.Skip)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"unterminated front matter", "---\ntitle: x\n# Title\n", ErrInvalidFrontMatter},
		{"broken yaml", "---\ncanvas: [\n---\n## Program\n", ErrInvalidFrontMatter},
		{"negative canvas", "---\ncanvas:\n  width: -1\n---\n## Program\n" + fence + "cty\nHIDE\n" + fence + "\n", ErrInvalidFrontMatter},
		{"no program", "# Title\n\n## Notes\n", ErrMissingRequiredSection},
		{"no code", "## Program\n\nJust words.\n", ErrMissingCodeBlock},
		{"wrong expect language", "## Program\n" + fence + "cty\nHIDE\n" + fence + "\n## Expect\n" + fence + "yaml\na: 1\n" + fence + "\n", ErrMissingCodeBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.IsError(t, err, tt.err)
		})
	}
}
