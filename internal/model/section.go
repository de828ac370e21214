package model

import "strings"

// Category classifies a section for progressive disclosure.
type Category string

const (
	// Unclassified is the zero value before the classifier has run.
	Unclassified Category = ""
	// Core sections stay in the primary document and are always loaded.
	Core Category = "core"
	// Reference sections move to satellite files loaded on demand.
	Reference Category = "reference"
)

// IsValid returns true if the category is a terminal classification.
func (c Category) IsValid() bool {
	return c == Core || c == Reference
}

// String returns the string representation of the category.
func (c Category) String() string {
	if c == Unclassified {
		return "unclassified"
	}
	return string(c)
}

// Section is a contiguous header-delimited unit of a document body.
type Section struct {
	// Title is the header text with markers stripped. Empty for the
	// implicit preamble section.
	Title string `json:"title"`
	// Level is the heading depth (1-6), or 0 for the implicit preamble.
	Level int `json:"level"`
	// Raw is the header line exactly as it appeared in the source,
	// spacing included. Empty for the preamble and for sections built
	// programmatically.
	Raw string `json:"raw,omitempty"`
	// Body holds the raw lines belonging to the section, header excluded.
	Body []string `json:"body"`
	// Category is set exactly once by the classifier.
	Category Category `json:"category,omitempty"`
	// SatelliteFile is the generated filename for reference sections,
	// populated by the partition writer.
	SatelliteFile string `json:"satellite_file,omitempty"`
}

// LineCount returns the number of body lines.
func (s Section) LineCount() int {
	return len(s.Body)
}

// Header returns the original header line when one was captured, a
// canonical rendering otherwise, or "" for the preamble.
func (s Section) Header() string {
	if s.Raw != "" {
		return s.Raw
	}
	if s.Level == 0 {
		return ""
	}
	return strings.Repeat("#", s.Level) + " " + s.Title
}

// Reconstruct returns the section's original text: header line (if any)
// followed by the body lines, newline-joined with no trailing newline.
func (s Section) Reconstruct() string {
	lines := s.Body
	if s.Level > 0 {
		lines = append([]string{s.Header()}, s.Body...)
	}
	return strings.Join(lines, "\n")
}

// BodyText returns the body joined by newlines.
func (s Section) BodyText() string {
	return strings.Join(s.Body, "\n")
}
