// Package classify assigns sections a core or reference category using
// keyword and size heuristics. The policy is deterministic: the same
// section always receives the same category.
package classify

import (
	"strings"

	"github.com/skillfold/skillfold/internal/model"
)

// Policy holds the classification heuristics. Keyword sets are injectable
// so classification can be tuned without touching the parsing engine.
type Policy struct {
	// CoreKeywords mark a section as core when any appears in its
	// lower-cased title. Core keywords win over reference keywords.
	CoreKeywords []string
	// ReferenceKeywords mark a section as reference.
	ReferenceKeywords []string
	// SizeThreshold is the fallback: sections with fewer body lines stay
	// core, longer ones move to reference.
	SizeThreshold int
}

// DefaultPolicy returns the standard classification policy.
func DefaultPolicy() Policy {
	return Policy{
		CoreKeywords: []string{
			"overview", "quick start", "installation", "usage",
			"basic", "getting started", "introduction",
		},
		ReferenceKeywords: []string{
			"advanced", "detailed", "examples", "reference", "appendix",
			"troubleshooting", "faq", "api", "configuration",
		},
		SizeThreshold: 50,
	}
}

// Classify returns the sections with their Category set. Each section is
// classified independently; input order is preserved and the input slice
// is not mutated.
func (p Policy) Classify(sections []model.Section) []model.Section {
	out := make([]model.Section, len(sections))
	for i, s := range sections {
		s.Category = p.Categorize(s)
		out[i] = s
	}
	return out
}

// Categorize returns the category for a single section.
func (p Policy) Categorize(s model.Section) model.Category {
	title := strings.ToLower(s.Title)

	if matchesAny(title, p.CoreKeywords) {
		return model.Core
	}
	if matchesAny(title, p.ReferenceKeywords) {
		return model.Reference
	}
	if s.LineCount() < p.SizeThreshold {
		return model.Core
	}
	return model.Reference
}

func matchesAny(title string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
