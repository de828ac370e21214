package model

// Document is a parsed primary document: an optional verbatim metadata
// block followed by an ordered sequence of sections.
type Document struct {
	// Frontmatter is the raw metadata block including both delimiter
	// lines, preserved byte-for-byte. Empty if the document has none.
	Frontmatter string `json:"frontmatter,omitempty"`
	// Sections partition the document body without gaps or overlaps.
	Sections []Section `json:"sections"`
}

// TotalLines returns the number of body lines across all sections,
// header lines included.
func (d Document) TotalLines() int {
	total := 0
	for _, s := range d.Sections {
		total += s.LineCount()
		if s.Level > 0 {
			total++
		}
	}
	return total
}

// CoreSections returns the sections classified as core, in order.
func (d Document) CoreSections() []Section {
	return d.byCategory(Core)
}

// ReferenceSections returns the sections classified as reference, in order.
func (d Document) ReferenceSections() []Section {
	return d.byCategory(Reference)
}

func (d Document) byCategory(c Category) []Section {
	var out []Section
	for _, s := range d.Sections {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}
