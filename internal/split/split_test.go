package split

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillfold/skillfold/internal/classify"
	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/parser"
	"github.com/skillfold/skillfold/internal/validation"
)

func TestSlugify(t *testing.T) {
	tests := map[string]struct {
		title string
		want  string
	}{
		"simple":              {title: "Advanced Configuration", want: "advanced-configuration.md"},
		"punctuation dropped": {title: "What's New?", want: "whats-new.md"},
		"hyphen runs collapse": {
			title: "API -- Reference",
			want:  "api-reference.md",
		},
		"leading and trailing trimmed": {title: "  !!Notes!!  ", want: "notes.md"},
		"tabs and newlines":            {title: "Multi\tWord\nTitle", want: "multi-word-title.md"},
		"empty falls back":             {title: "???", want: "section.md"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func classifiedDoc(t *testing.T, content string) model.Document {
	t.Helper()
	doc := parser.ParseDocument(content)
	doc.Sections = classify.DefaultPolicy().Classify(doc.Sections)
	return doc
}

const sampleSkill = `---
name: sample
description: A sample skill.
---
# Sample

## Overview

Short core text.

## Advanced Configuration

` + "Reference line one.\nReference line two."

func TestBuildPlan(t *testing.T) {
	doc := classifiedDoc(t, sampleSkill)

	plan, err := BuildPlan(doc)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	if !plan.NeedsSplit() {
		t.Fatal("NeedsSplit() = false, want true")
	}
	if len(plan.Satellites) != 1 {
		t.Fatalf("got %d satellites, want 1", len(plan.Satellites))
	}

	sat := plan.Satellites[0]
	if sat.Filename != "advanced-configuration.md" {
		t.Errorf("satellite filename = %q", sat.Filename)
	}
	if !strings.HasPrefix(sat.Content, "# Advanced Configuration\n\n") {
		t.Errorf("satellite missing standalone header: %q", sat.Content)
	}
	if !strings.HasSuffix(sat.Content, "Reference line two.\n") {
		t.Errorf("satellite body truncated: %q", sat.Content)
	}

	// Metadata block survives verbatim at the top.
	if !strings.HasPrefix(plan.Primary, "---\nname: sample\n") {
		t.Errorf("primary lost metadata block: %q", plan.Primary)
	}
	if !strings.Contains(plan.Primary, "## Overview") {
		t.Error("primary lost core section")
	}
	if strings.Contains(plan.Primary, "Reference line one.") {
		t.Error("primary still contains moved content")
	}
	if !strings.Contains(plan.Primary, "- [Advanced Configuration](references/advanced-configuration.md)") {
		t.Errorf("primary missing resource link: %q", plan.Primary)
	}
	if !strings.HasSuffix(plan.Primary, "\n") || strings.HasSuffix(plan.Primary, "\n\n") {
		t.Errorf("primary must end with exactly one newline: %q", plan.Primary)
	}
}

func TestBuildPlanNoReferenceSections(t *testing.T) {
	doc := classifiedDoc(t, "## Overview\n\nAll core.")

	plan, err := BuildPlan(doc)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if plan.NeedsSplit() {
		t.Error("NeedsSplit() = true for all-core document")
	}
	if strings.Contains(plan.Primary, "Additional Resources") {
		t.Error("resource index emitted with no satellites")
	}
}

func TestBuildPlanCollision(t *testing.T) {
	doc := model.Document{Sections: []model.Section{
		{Title: "Advanced Usage!", Level: 2, Body: []string{"a"}, Category: model.Reference},
		{Title: "Advanced Usage?", Level: 2, Body: []string{"b"}, Category: model.Reference},
	}}

	_, err := BuildPlan(doc)
	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("BuildPlan() error = %v, want *CollisionError", err)
	}
	if collision.Filename != "advanced-usage.md" {
		t.Errorf("collision filename = %q", collision.Filename)
	}
}

func TestReductionPercent(t *testing.T) {
	plan := &Plan{OriginalLines: 200, PrimaryLines: 50}
	if got := plan.ReductionPercent(); got != 75 {
		t.Errorf("ReductionPercent() = %v, want 75", got)
	}

	empty := &Plan{}
	if got := empty.ReductionPercent(); got != 0 {
		t.Errorf("empty ReductionPercent() = %v, want 0", got)
	}
}

func TestApply(t *testing.T) {
	root := t.TempDir()
	doc := classifiedDoc(t, sampleSkill)
	plan, err := BuildPlan(doc)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	if err := plan.Apply(root, nil); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	primary, err := os.ReadFile(filepath.Join(root, model.PrimaryDocName))
	if err != nil {
		t.Fatalf("reading primary: %v", err)
	}
	if string(primary) != plan.Primary {
		t.Error("written primary differs from planned content")
	}

	sat, err := os.ReadFile(filepath.Join(root, model.ReferencesDir, "advanced-configuration.md"))
	if err != nil {
		t.Fatalf("reading satellite: %v", err)
	}
	if string(sat) != plan.Satellites[0].Content {
		t.Error("written satellite differs from planned content")
	}

	report, err := os.ReadFile(filepath.Join(root, ReportFilename))
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(report), "Reference files created: 1") {
		t.Errorf("report missing file count: %s", report)
	}
	if !strings.Contains(string(report), "advanced-configuration.md") {
		t.Error("report missing moved section entry")
	}
}

func TestApplyReportsEachWrite(t *testing.T) {
	root := t.TempDir()
	doc := classifiedDoc(t, sampleSkill)
	plan, err := BuildPlan(doc)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	var written []string
	if err := plan.Apply(root, func(rel string) { written = append(written, rel) }); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(written) != plan.FileCount() {
		t.Fatalf("callback fired %d times, want %d", len(written), plan.FileCount())
	}
	want := []string{
		model.ReferencesDir + "/advanced-configuration.md",
		model.PrimaryDocName,
		ReportFilename,
	}
	for i, rel := range want {
		if written[i] != rel {
			t.Errorf("write %d = %q, want %q", i, written[i], rel)
		}
	}
}

// A freshly split bundle must pass reference validation with nothing
// missing.
func TestApplyProducesValidBundle(t *testing.T) {
	root := t.TempDir()
	doc := classifiedDoc(t, sampleSkill)
	plan, err := BuildPlan(doc)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if err := plan.Apply(root, nil); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	result, err := validation.ValidateBundle(root, validation.DefaultOptions())
	if err != nil {
		t.Fatalf("ValidateBundle() error = %v", err)
	}
	if !result.Passed() {
		t.Errorf("fresh split failed validation: %s", result.Summary())
	}
	if len(result.Missing) != 0 {
		t.Errorf("missing references after split: %v", result.Missing)
	}
}
