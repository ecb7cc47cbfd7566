// Package markdownparser reads literate program documents: a markdown file
// with optional YAML front matter, a "Program" section holding a fenced cty
// block and an optional "Expect" section holding CEL assertions.
package markdownparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter     = errors.New("invalid front matter")
	ErrMissingRequiredSection = errors.New("missing required section")
	ErrMissingCodeBlock       = errors.New("missing code block")
)

// Document is a parsed literate program.
type Document struct {
	Title    string
	Metadata map[string]any
	Canvas   CanvasSettings
	Skip     bool

	Program     string
	ProgramLine int // 1-based line of the first program line in the file

	Expectations []Expectation
}

// Expectation is one CEL expression that must evaluate to true.
type Expectation struct {
	Expression string
	Line       int
}

// Section represents a markdown section with AST nodes
type Section struct {
	HeadingText string
	Content     []ast.Node
}

type body struct {
	content    []byte
	lineOffset int
}

// line converts a byte offset of the markdown body to a 1-based file line.
func (s body) line(offset int) int {
	return bytes.Count(s.content[:offset], []byte("\n")) + s.lineOffset + 1
}

// Parse parses a literate program document.
func Parse(reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	metadata, settings, rest, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	src := body{content: []byte(rest)}
	if n := countFrontMatterLines(string(content)); n > 0 {
		src.lineOffset = n - 1
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	doc := md.Parser().Parse(text.NewReader(src.content))
	title, sections := extractSectionsFromAST(doc, src.content)

	document := &Document{
		Title:    settings.Title,
		Metadata: metadata,
		Canvas:   settings.Canvas,
		Skip:     settings.Skip,
	}
	if document.Title == "" {
		document.Title = title
	}

	programSection, ok := sections["program"]
	if !ok {
		return nil, fmt.Errorf("%w: Program", ErrMissingRequiredSection)
	}

	block, ok := findCodeBlock(programSection.Content, src.content, "cty", "")
	if !ok {
		return nil, fmt.Errorf("%w: Program section needs a ```cty block", ErrMissingCodeBlock)
	}

	document.Program, document.ProgramLine = extractCodeBlockContent(block, src)

	if expectSection, ok := sections["expect"]; ok {
		block, ok := findCodeBlock(expectSection.Content, src.content, "cel")
		if !ok {
			return nil, fmt.Errorf("%w: Expect section needs a ```cel block", ErrMissingCodeBlock)
		}

		document.Expectations = extractExpectations(block, src)
	}

	return document, nil
}

// extractSectionsFromAST splits the document at level 2 headings. The
// first level 1 heading is the title.
func extractSectionsFromAST(doc ast.Node, content []byte) (string, map[string]Section) {
	sections := make(map[string]Section)

	var (
		title   string
		current string
	)

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && heading.Level <= 2 {
			headingText := extractTextFromHeadingNode(heading, content)
			if heading.Level == 1 {
				if title == "" {
					title = headingText
				}

				current = ""

				continue
			}

			current = strings.ToLower(headingText)
			sections[current] = Section{HeadingText: headingText}

			continue
		}

		if current != "" {
			section := sections[current]
			section.Content = append(section.Content, node)
			sections[current] = section
		}
	}

	return title, sections
}

// extractTextFromHeadingNode extracts text content from a heading AST node
func extractTextFromHeadingNode(heading ast.Node, content []byte) string {
	var result strings.Builder

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			segment := node.Segment
			result.Write(content[segment.Start:segment.Stop])
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

// findCodeBlock returns the first fenced block whose info string is one of
// languages.
func findCodeBlock(nodes []ast.Node, content []byte, languages ...string) (*ast.FencedCodeBlock, bool) {
	for _, node := range nodes {
		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			continue
		}

		info := strings.ToLower(strings.TrimSpace(getCodeBlockInfo(block, content)))
		for _, lang := range languages {
			if info == lang {
				return block, true
			}
		}
	}

	return nil, false
}

func getCodeBlockInfo(codeBlock *ast.FencedCodeBlock, content []byte) string {
	if codeBlock.Info != nil {
		segment := codeBlock.Info.Segment
		return string(content[segment.Start:segment.Stop])
	}

	return ""
}

// extractCodeBlockContent returns the block text and the line of its first row.
func extractCodeBlockContent(codeBlock ast.Node, src body) (string, int) {
	lines := codeBlock.Lines()
	if lines == nil || lines.Len() == 0 {
		return "", 0
	}

	var result strings.Builder
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		result.Write(src.content[line.Start:line.Stop])
	}

	return strings.TrimRight(result.String(), "\n"), src.line(lines.At(0).Start)
}

// extractExpectations keeps one expression per line, skipping blank lines
// and // comments.
func extractExpectations(codeBlock ast.Node, src body) []Expectation {
	var expectations []Expectation

	lines := codeBlock.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)

		expr := strings.TrimSpace(string(src.content[segment.Start:segment.Stop]))
		if expr == "" || strings.HasPrefix(expr, "//") {
			continue
		}

		expectations = append(expectations, Expectation{Expression: expr, Line: src.line(segment.Start)})
	}

	return expectations
}
