package source

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAdvance(t *testing.T) {
	p := Position{}
	for _, r := range "ab\ncd" {
		p = p.Advance(r)
	}

	assert.Equal(t, Position{Column: 2, Row: 1}, p)
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Range
		expected Range
	}{
		{
			name:     "disjoint same line",
			a:        Range{From: Position{0, 0}, To: Position{2, 0}},
			b:        Range{From: Position{5, 0}, To: Position{7, 0}},
			expected: Range{From: Position{0, 0}, To: Position{7, 0}},
		},
		{
			name:     "contained",
			a:        Range{From: Position{0, 0}, To: Position{9, 0}},
			b:        Range{From: Position{3, 0}, To: Position{4, 0}},
			expected: Range{From: Position{0, 0}, To: Position{9, 0}},
		},
		{
			name:     "across rows",
			a:        Range{From: Position{8, 0}, To: Position{9, 0}},
			b:        Range{From: Position{1, 2}, To: Position{3, 2}},
			expected: Range{From: Position{8, 0}, To: Position{3, 2}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.a.Merge(test.b))
			assert.Equal(t, test.expected, test.b.Merge(test.a))
		})
	}
}

func TestMergeAllEmpty(t *testing.T) {
	assert.Equal(t, Range{}, MergeAll())
}
