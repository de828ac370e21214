package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterDelimiter is the marker line that opens and closes a
// metadata block. It must appear alone on its line.
const frontmatterDelimiter = "---"

// FrontmatterResult contains the split metadata block and remaining body.
type FrontmatterResult struct {
	// Raw is the metadata block verbatim, inclusive of both delimiter
	// lines, with no trailing newline. Empty when HasFrontmatter is false.
	Raw string
	// Body is the document content after the metadata block.
	Body string
	// HasFrontmatter indicates whether a complete metadata block was found.
	HasFrontmatter bool
}

// SplitFrontmatter separates a leading ----delimited metadata block from
// the document body. The block is preserved byte-for-byte; an unterminated
// opening delimiter is treated as ordinary body content.
func SplitFrontmatter(content string) FrontmatterResult {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != frontmatterDelimiter {
		return FrontmatterResult{Body: content}
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") != frontmatterDelimiter {
			continue
		}
		raw := strings.Join(lines[:i+1], "\n")
		body := ""
		if i+1 < len(lines) {
			body = strings.Join(lines[i+1:], "\n")
		}
		return FrontmatterResult{Raw: raw, Body: body, HasFrontmatter: true}
	}

	// No closing delimiter.
	return FrontmatterResult{Body: content}
}

// ParseFrontmatterFields parses the YAML inside a raw metadata block into
// a string-keyed map. The delimiter lines are stripped before parsing.
// Only callers that need name/description should use this; the core
// pipeline carries the block opaquely.
func ParseFrontmatterFields(raw string) (map[string]any, error) {
	inner := strings.TrimPrefix(raw, frontmatterDelimiter)
	inner = strings.TrimSuffix(strings.TrimRight(inner, "\n"), frontmatterDelimiter)
	inner = strings.TrimSpace(inner)

	fields := make(map[string]any)
	if inner == "" {
		return fields, nil
	}
	if err := yaml.Unmarshal([]byte(inner), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return fields, nil
}

// FrontmatterString extracts a string field from parsed frontmatter.
func FrontmatterString(fields map[string]any, key string) string {
	if val, ok := fields[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}
