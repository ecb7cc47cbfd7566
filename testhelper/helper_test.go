package testhelper

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTrimIndent(t *testing.T) {
	got := TrimIndent(t, `
		FWD 1
		{
			TURN 2
		}
	`)
	assert.Equal(t, "FWD 1\n{\n    TURN 2\n}\n", got)
}

func TestTrimIndentSingleLine(t *testing.T) {
	assert.Equal(t, "FWD 1", TrimIndent(t, "FWD 1"))
}
