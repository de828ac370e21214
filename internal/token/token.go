// Package token provides approximate token counting for documentation
// content. The estimate is a blend of word- and character-based formulas;
// it is not tied to any real tokenizer and must only be used consistently
// within a single run.
package token

import "strings"

// Estimate returns an approximate token count for text.
//
// Two rough formulas are computed and the maximum is taken: words * 1.3
// and characters / 4. Taking the maximum is the conservative choice; it
// overestimates dense content rather than underestimating it, which is
// what a hard budget wants. Returns 0 for empty input.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	words := len(strings.Fields(text))
	byWords := int(float64(words) * 1.3)
	byChars := len(text) / 4

	if byWords > byChars {
		return byWords
	}
	return byChars
}

// CountLines returns the number of newline characters in text. A chunk
// with no trailing newline contributes its last line to the next chunk,
// matching how the budget tracker accumulates generated content.
func CountLines(text string) int {
	return strings.Count(text, "\n")
}
