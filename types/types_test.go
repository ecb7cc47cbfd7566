package types

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNames(t *testing.T) {
	assert.Equal(t, "bool", BOOLEAN.String())
	assert.Equal(t, "percent", PERCENT.String())
	assert.Equal(t, "unknown", Type(0).String())
}

func TestSet(t *testing.T) {
	s := Set{INT, FLOAT}
	assert.True(t, s.Contains(FLOAT))
	assert.False(t, s.Contains(STRING))
	assert.Equal(t, "int, float", s.String())
	assert.True(t, INT.Numeric())
	assert.False(t, PERCENT.Numeric())
}
