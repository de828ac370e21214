// Package migrate converts flat instruction files into skill bundles: a
// named directory with a primary document carrying a generated metadata
// block, optionally split into references when the content is too large.
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skillfold/skillfold/internal/budget"
	"github.com/skillfold/skillfold/internal/classify"
	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/parser"
	"github.com/skillfold/skillfold/internal/split"
)

// ReportFilename is the audit report written into the new bundle.
const ReportFilename = "conversion_report.md"

// UnsupportedFormatError reports a source file the converter cannot read.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported source format %q for %s (expected .md or .txt)", e.Ext, e.Path)
}

// Options configures a conversion.
type Options struct {
	// OutputDir is where the bundle directory is created.
	OutputDir string
	// Split runs the section split when the converted primary exceeds
	// its budget.
	Split bool
	// Policy classifies sections when splitting.
	Policy classify.Policy
	// Budget is the primary document budget.
	Budget budget.Config
}

// DefaultOptions returns conversion defaults: split enabled, standard
// classification, and the core tier budget.
func DefaultOptions() Options {
	return Options{
		Split:  true,
		Policy: classify.DefaultPolicy(),
		Budget: budget.Presets()[budget.TierCore],
	}
}

// Result describes a completed conversion.
type Result struct {
	// BundleDir is the created bundle directory.
	BundleDir string
	// Name is the generated skill name.
	Name string
	// Description is the generated one-line description.
	Description string
	// SplitPlan is set when the primary was split into references.
	SplitPlan *split.Plan
	// WithinBudget reports whether the final primary fits its budget.
	WithinBudget bool
}

var titleCaser = cases.Title(language.English)

// Convert turns the flat file at srcPath into a bundle under
// opts.OutputDir. Only .md and .txt sources are supported.
func Convert(srcPath string, opts Options) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(srcPath))
	if ext != ".md" && ext != ".txt" {
		return nil, &UnsupportedFormatError{Path: srcPath, Ext: ext}
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	name := slugName(strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)))
	content := string(raw)
	if ext == ".txt" {
		content = markdownFromText(name, content)
	}

	fm := parser.SplitFrontmatter(content)
	description := deriveDescription(fm.Body, filepath.Base(srcPath))

	primary := content
	if !fm.HasFrontmatter {
		primary = generatedFrontmatter(name, description) + "\n" + strings.TrimLeft(content, "\n")
	}

	bundleDir := filepath.Join(opts.OutputDir, name)
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bundle directory: %w", err)
	}

	result := &Result{BundleDir: bundleDir, Name: name, Description: description}

	tracker, err := budget.New(opts.Budget)
	if err != nil {
		return nil, err
	}
	result.WithinBudget = tracker.CanAdd(primary)

	if !result.WithinBudget && opts.Split {
		doc := parser.ParseDocument(primary)
		doc.Sections = opts.Policy.Classify(doc.Sections)
		plan, err := split.BuildPlan(doc)
		if err != nil {
			return nil, fmt.Errorf("splitting converted document: %w", err)
		}
		if plan.NeedsSplit() {
			if err := plan.Apply(bundleDir, nil); err != nil {
				return nil, err
			}
			result.SplitPlan = plan
			tracker.Reset()
			result.WithinBudget = tracker.CanAdd(plan.Primary)
		}
	}

	if result.SplitPlan == nil {
		primaryPath := filepath.Join(bundleDir, model.PrimaryDocName)
		if err := os.WriteFile(primaryPath, []byte(primary), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", model.PrimaryDocName, err)
		}
	}

	reportPath := filepath.Join(bundleDir, ReportFilename)
	if err := os.WriteFile(reportPath, []byte(report(srcPath, result)), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", ReportFilename, err)
	}
	return result, nil
}

// slugName derives a bundle directory name from a source filename.
func slugName(base string) string {
	return strings.TrimSuffix(split.Slugify(base), ".md")
}

// displayTitle renders a slug as a human-readable title.
func displayTitle(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "-", " "))
}

// markdownFromText wraps plain text in markdown: a top-level header named
// after the source, then paragraphs separated by blank lines. Short
// standalone lines without terminal punctuation become section headers.
func markdownFromText(name, text string) string {
	var b strings.Builder
	b.WriteString("# " + displayTitle(name) + "\n")

	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("\n")
		if isHeadingParagraph(para) {
			b.WriteString("## " + para + "\n")
		} else {
			b.WriteString(para + "\n")
		}
	}
	return b.String()
}

func isHeadingParagraph(para string) bool {
	if strings.Contains(para, "\n") || len(para) > 60 {
		return false
	}
	return !strings.ContainsAny(para[len(para)-1:], ".!?:,;")
}

const maxDescriptionLen = 120

// deriveDescription takes the first sentence of the first prose
// paragraph, truncated to a readable length.
func deriveDescription(body, sourceName string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, ". "); idx >= 0 {
			line = line[:idx+1]
		}
		if len(line) > maxDescriptionLen {
			line = strings.TrimSpace(line[:maxDescriptionLen-3]) + "..."
		}
		return line
	}
	return "Converted from " + sourceName + "."
}

func generatedFrontmatter(name, description string) string {
	return fmt.Sprintf("---\nname: %s\ndescription: %s\n---", name, description)
}

func report(srcPath string, r *Result) string {
	var b strings.Builder
	b.WriteString("# Conversion Report\n\n")
	fmt.Fprintf(&b, "- Source: %s\n", srcPath)
	fmt.Fprintf(&b, "- Skill name: %s\n", r.Name)
	fmt.Fprintf(&b, "- Description: %s\n", r.Description)
	fmt.Fprintf(&b, "- Within budget: %t\n", r.WithinBudget)
	if r.SplitPlan != nil {
		fmt.Fprintf(&b, "- Split: %d reference file(s), %.1f%% reduction\n",
			len(r.SplitPlan.Satellites), r.SplitPlan.ReductionPercent())
	} else {
		b.WriteString("- Split: not needed\n")
	}
	return b.String()
}
