// Package testhelper holds small utilities shared by package tests.
package testhelper

import (
	"regexp"
	"strings"
	"testing"
)

var (
	leadingWhitespace = regexp.MustCompile(`^\s*`)
	leadingTabs       = regexp.MustCompile(`^(\t+)`)
)

func replaceTab(match string) string {
	return strings.Repeat("    ", strings.Count(match, "\t"))
}

// TrimIndent strips the indentation of the first content line from every
// line of a raw string literal. The leading newline is dropped and the
// closing line, usually only indentation, becomes the trailing newline.
// Remaining tabs are expanded to four spaces.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}

	lines = lines[1:]
	indent := leadingWhitespace.FindString(lines[0])

	for i, line := range lines {
		line = strings.TrimPrefix(line, indent)
		lines[i] = leadingTabs.ReplaceAllStringFunc(line, replaceTab)
	}

	if last := len(lines) - 1; strings.TrimSpace(lines[last]) == "" {
		lines[last] = ""
	}

	return strings.Join(lines, "\n")
}
