package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// CanvasSettings overrides the configured canvas size for one document.
type CanvasSettings struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type frontMatter struct {
	Title  string         `yaml:"title"`
	Skip   bool           `yaml:"skip"`
	Canvas CanvasSettings `yaml:"canvas"`
}

// parseFrontMatter extracts YAML front matter from markdown content
func parseFrontMatter(content string) (map[string]any, frontMatter, string, error) {
	var settings frontMatter

	if !strings.HasPrefix(content, "---\n") {
		return make(map[string]any), settings, content, nil
	}

	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return nil, settings, "", ErrInvalidFrontMatter
	}

	endIndex += 4

	raw := content[4:endIndex]
	remainingContent := content[endIndex+4:]

	var metadata map[string]any
	if err := yaml.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, settings, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	if err := yaml.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, settings, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	if settings.Canvas.Width < 0 || settings.Canvas.Height < 0 {
		return nil, settings, "", fmt.Errorf("%w: canvas size must not be negative", ErrInvalidFrontMatter)
	}

	return metadata, settings, remainingContent, nil
}

// countFrontMatterLines counts the number of lines used by front matter
func countFrontMatterLines(content string) int {
	lines := strings.Split(content, "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != "---" {
		return 0
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i + 1
		}
	}

	return 0
}
