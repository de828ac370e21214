// Package split turns a classified skill document into a slim primary
// file plus satellite reference files. Planning is pure and in-memory;
// Apply performs the filesystem writes.
package split

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/token"
)

// ReportFilename is the audit report written next to the primary file.
const ReportFilename = "split_report.md"

// Satellite is one planned reference file.
type Satellite struct {
	// Filename is the slug-derived name inside the references directory.
	Filename string
	// Title is the originating section title.
	Title string
	// Content is the complete file body, standalone with its own header.
	Content string
	// Lines is the content line count.
	Lines int
	// Tokens is the estimated token cost of loading this file.
	Tokens int
}

// Plan is the complete in-memory result of planning a split. Nothing has
// touched the filesystem until Apply.
type Plan struct {
	// Primary is the rewritten primary document content.
	Primary string
	// Satellites are the reference files to create, in section order.
	Satellites []Satellite
	// OriginalLines is the line count of the input document.
	OriginalLines int
	// PrimaryLines is the line count of the rewritten primary.
	PrimaryLines int
}

// NeedsSplit reports whether any section moves out of the primary file.
func (p *Plan) NeedsSplit() bool {
	return len(p.Satellites) > 0
}

// ReductionPercent is the primary file shrinkage, 0 to 100.
func (p *Plan) ReductionPercent() float64 {
	if p.OriginalLines == 0 {
		return 0
	}
	return (1 - float64(p.PrimaryLines)/float64(p.OriginalLines)) * 100
}

// CollisionError reports two sections whose titles slug to the same
// satellite filename.
type CollisionError struct {
	Filename string
	First    string
	Second   string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("sections %q and %q both map to %s", e.First, e.Second, e.Filename)
}

var (
	nonSlugPattern      = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRunPattern    = regexp.MustCompile(`-{2,}`)
	whitespaceRunRegexp = regexp.MustCompile(`\s+`)
)

// Slugify derives a satellite filename from a section title: lower-cased,
// whitespace collapsed to hyphens, everything outside [a-z0-9-] dropped,
// hyphen runs collapsed, with a .md extension.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = whitespaceRunRegexp.ReplaceAllString(slug, "-")
	slug = nonSlugPattern.ReplaceAllString(slug, "")
	slug = hyphenRunPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "section"
	}
	return slug + ".md"
}

// BuildPlan plans the split of a classified document. Reference sections
// become satellites; core sections and the metadata block stay in the
// rewritten primary, followed by a resource index linking each satellite.
// Returns *CollisionError when two titles produce the same filename.
func BuildPlan(doc model.Document) (*Plan, error) {
	plan := &Plan{OriginalLines: doc.TotalLines()}

	seen := make(map[string]string)
	for _, s := range doc.ReferenceSections() {
		filename := Slugify(s.Title)
		if prev, ok := seen[filename]; ok {
			return nil, &CollisionError{Filename: filename, First: prev, Second: s.Title}
		}
		seen[filename] = s.Title

		content := satelliteContent(s)
		plan.Satellites = append(plan.Satellites, Satellite{
			Filename: filename,
			Title:    s.Title,
			Content:  content,
			Lines:    token.CountLines(content),
			Tokens:   token.Estimate(content),
		})
	}

	plan.Primary = rewritePrimary(doc, plan.Satellites)
	plan.PrimaryLines = token.CountLines(plan.Primary)
	return plan, nil
}

// satelliteContent renders a section as a standalone file: a top-level
// header, a blank line, the trimmed body, and a trailing newline.
func satelliteContent(s model.Section) string {
	title := s.Title
	if title == "" {
		title = "Reference"
	}
	body := strings.TrimSpace(s.BodyText())
	if body == "" {
		return "# " + title + "\n"
	}
	return "# " + title + "\n\n" + body + "\n"
}

// rewritePrimary assembles the slim primary document: the original
// metadata block verbatim, the core sections, and a resource index.
func rewritePrimary(doc model.Document, satellites []Satellite) string {
	var b strings.Builder

	if doc.Frontmatter != "" {
		b.WriteString(strings.TrimSpace(doc.Frontmatter))
		b.WriteString("\n")
	}

	for _, s := range doc.CoreSections() {
		text := strings.TrimSpace(s.Reconstruct())
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	if len(satellites) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## Additional Resources\n\n")
		for _, sat := range satellites {
			fmt.Fprintf(&b, "- [%s](%s/%s)\n", sat.Title, model.ReferencesDir, sat.Filename)
		}
	}

	out := strings.TrimRight(b.String(), "\n") + "\n"
	return out
}

// FileCount returns the number of files Apply will write: the
// satellites, the primary, and the report.
func (p *Plan) FileCount() int {
	return len(p.Satellites) + 2
}

// Apply writes the plan under root: satellites into the references
// directory, the rewritten primary over the existing one, and the split
// report. Writes are sequential; a failure leaves earlier files in
// place. onWrite, when non-nil, is called with each file's
// bundle-relative path after that file is written.
func (p *Plan) Apply(root string, onWrite func(rel string)) error {
	wrote := func(rel string) {
		if onWrite != nil {
			onWrite(rel)
		}
	}

	refsDir := filepath.Join(root, model.ReferencesDir)
	if err := os.MkdirAll(refsDir, 0o755); err != nil {
		return fmt.Errorf("creating references directory: %w", err)
	}

	for _, sat := range p.Satellites {
		path := filepath.Join(refsDir, sat.Filename)
		if err := os.WriteFile(path, []byte(sat.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", sat.Filename, err)
		}
		wrote(model.ReferencesDir + "/" + sat.Filename)
	}

	primary := filepath.Join(root, model.PrimaryDocName)
	if err := os.WriteFile(primary, []byte(p.Primary), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", model.PrimaryDocName, err)
	}
	wrote(model.PrimaryDocName)

	report := filepath.Join(root, ReportFilename)
	if err := os.WriteFile(report, []byte(p.Report()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ReportFilename, err)
	}
	wrote(ReportFilename)
	return nil
}

// Report renders the split audit report.
func (p *Plan) Report() string {
	var b strings.Builder
	b.WriteString("# Split Report\n\n")
	fmt.Fprintf(&b, "- Original lines: %d\n", p.OriginalLines)
	fmt.Fprintf(&b, "- Primary lines after split: %d\n", p.PrimaryLines)
	fmt.Fprintf(&b, "- Reduction: %.1f%%\n", p.ReductionPercent())
	fmt.Fprintf(&b, "- Reference files created: %d\n", len(p.Satellites))

	if len(p.Satellites) > 0 {
		b.WriteString("\n## Moved Sections\n\n")
		for _, sat := range p.Satellites {
			fmt.Fprintf(&b, "- %s -> %s/%s (%d lines, ~%d tokens)\n",
				sat.Title, model.ReferencesDir, sat.Filename, sat.Lines, sat.Tokens)
		}
	}
	return b.String()
}
