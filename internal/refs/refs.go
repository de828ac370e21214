// Package refs extracts local file references from document prose. Three
// independent notations are recognized; each pass is a pure function
// returning a set, and the results are unioned so no pass depends on
// another's order.
package refs

import (
	"regexp"
	"sort"
	"strings"
)

// Set is a deduplicated collection of normalized relative paths.
type Set map[string]struct{}

// Add inserts a normalized reference into the set.
func (s Set) Add(ref string) {
	s[Normalize(ref)] = struct{}{}
}

// Contains reports whether the set holds the normalized form of ref.
func (s Set) Contains(ref string) bool {
	_, ok := s[Normalize(ref)]
	return ok
}

// Sorted returns the references in lexical order. Callers must use this
// before display; map iteration order is not deterministic.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for ref := range s {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

// Union merges other into s and returns s.
func (s Set) Union(other Set) Set {
	for ref := range other {
		s[ref] = struct{}{}
	}
	return s
}

var (
	// [label](path/to/file.ext) with a local target.
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	// `filename.ext` code spans naming a file.
	codeSpanPattern = regexp.MustCompile("`([^`]+\\.(?:md|py|json|yaml|txt))`")
	// Prose of the form "file path/to/file.md" or "file: path/to/file.md".
	prosePathPattern = regexp.MustCompile(`(?:files?:?|resources?|knowledge)\s+(\S+\.(?:md|py))`)
	// Any URL scheme, e.g. https:// or ftp://.
	urlSchemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// linkExtensions are the target extensions captured from markdown links.
var linkExtensions = []string{".md", ".py", ".txt"}

// Extract returns the union of all file references found in text,
// normalized and deduplicated.
func Extract(text string) Set {
	set := ExtractMarkdownLinks(text)
	set.Union(ExtractCodeSpans(text))
	set.Union(ExtractProsePaths(text))
	return set
}

// ExtractMarkdownLinks captures [label](target) targets that are local
// paths with a whitelisted extension. URL targets are ignored.
func ExtractMarkdownLinks(text string) Set {
	set := make(Set)
	for _, m := range markdownLinkPattern.FindAllStringSubmatch(text, -1) {
		target := m[2]
		if urlSchemePattern.MatchString(target) {
			continue
		}
		if !hasAnySuffix(target, linkExtensions) {
			continue
		}
		set.Add(target)
	}
	return set
}

// ExtractCodeSpans captures `name.ext` inline code spans naming a file
// with an allowed extension.
func ExtractCodeSpans(text string) Set {
	set := make(Set)
	for _, m := range codeSpanPattern.FindAllStringSubmatch(text, -1) {
		set.Add(m[1])
	}
	return set
}

// ExtractProsePaths captures bare paths preceded by a file-indicating
// keyword (file, files, resource, resources, knowledge), with or without
// a trailing colon on file/files.
func ExtractProsePaths(text string) Set {
	set := make(Set)
	for _, m := range prosePathPattern.FindAllStringSubmatch(text, -1) {
		set.Add(m[1])
	}
	return set
}

// Normalize strips a leading ./ from a reference. Paths are otherwise
// preserved; comparison is case-sensitive.
func Normalize(ref string) string {
	return strings.TrimPrefix(ref, "./")
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
