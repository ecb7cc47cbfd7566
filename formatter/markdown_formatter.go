package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	programBlockStartRe = regexp.MustCompile(`^(\s*)\x60{3}cty\s*$`)
	codeBlockEndRe      = regexp.MustCompile(`^(\s*)\x60{3}\s*$`)
)

// MarkdownFormatter formats program code blocks within literate documents
type MarkdownFormatter struct {
	formatter *Formatter
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{
		formatter: NewFormatter(),
	}
}

// Format rewrites every ```cty block. Blocks that fail to parse are kept as
// they are.
func (f *MarkdownFormatter) Format(markdown string) (string, error) {
	var (
		result       strings.Builder
		inBlock      bool
		blockContent strings.Builder
		blockIndent  string
	)

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	for scanner.Scan() {
		line := scanner.Text()

		if !inBlock {
			if match := programBlockStartRe.FindStringSubmatch(line); match != nil {
				inBlock = true
				blockIndent = match[1]
				blockContent.Reset()
			}

			result.WriteString(line)
			result.WriteString("\n")

			continue
		}

		if codeBlockEndRe.MatchString(line) {
			inBlock = false
			f.writeProgram(&result, blockContent.String(), blockIndent)
			result.WriteString(line)
			result.WriteString("\n")

			continue
		}

		blockContent.WriteString(strings.TrimPrefix(line, blockIndent))
		blockContent.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading markdown: %w", err)
	}

	if inBlock {
		result.WriteString(blockContent.String())
	}

	return strings.TrimRight(result.String(), "\n"), nil
}

func (f *MarkdownFormatter) writeProgram(result *strings.Builder, content, indent string) {
	if strings.TrimSpace(content) == "" {
		return
	}

	formatted, err := f.formatter.Format(content)
	if err != nil {
		formatted = content
	}

	for _, line := range strings.Split(strings.TrimRight(formatted, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			result.WriteString(indent)
			result.WriteString(line)
		}
		result.WriteString("\n")
	}
}

// FormatFromReader formats program blocks from a reader and writes to a writer
func (f *MarkdownFormatter) FormatFromReader(reader io.Reader, writer io.Writer) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	formatted, err := f.Format(string(input))
	if err != nil {
		return fmt.Errorf("failed to format markdown: %w", err)
	}

	_, err = writer.Write([]byte(formatted))

	return err
}

// IsMarkdownFile checks if a file is a literate program document
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.ToLower(filepath.Base(filename))

	return strings.HasSuffix(base, ".cty.md") || ext == ".md"
}
