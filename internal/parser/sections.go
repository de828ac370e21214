package parser

import (
	"regexp"
	"strings"

	"github.com/skillfold/skillfold/internal/model"
)

// headerPattern matches an ATX header: 1-6 marker characters, a space,
// then non-empty title text. A line of markers with no title is body text.
var headerPattern = regexp.MustCompile(`^(#{1,6}) (.+)$`)

// ParseDocument splits a full document into its metadata block and
// sections.
func ParseDocument(content string) model.Document {
	fm := SplitFrontmatter(content)
	return model.Document{
		Frontmatter: fm.Raw,
		Sections:    ParseSections(fm.Body),
	}
}

// ParseSections splits a document body into ordered sections. Content
// before the first header becomes an implicit preamble section with level
// 0 and an empty title; a body with no headers yields exactly one such
// section. Concatenating the sections' headers and bodies in order
// reconstructs the body exactly.
func ParseSections(body string) []model.Section {
	if body == "" {
		return nil
	}

	lines := strings.Split(body, "\n")

	var sections []model.Section
	current := model.Section{Level: 0}
	started := false

	for _, line := range lines {
		if m := headerPattern.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[2]) != "" {
			if started || len(current.Body) > 0 {
				sections = append(sections, current)
			}
			current = model.Section{
				Title: strings.TrimSpace(m[2]),
				Level: len(m[1]),
				Raw:   line,
			}
			started = true
			continue
		}
		current.Body = append(current.Body, line)
	}
	sections = append(sections, current)

	return sections
}

// ReconstructBody joins sections back into the original body text. Used
// by round-trip checks and by callers that need the unsplit body.
func ReconstructBody(sections []model.Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Reconstruct())
	}
	return strings.Join(parts, "\n")
}
