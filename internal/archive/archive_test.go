package archive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillfold/skillfold/internal/model"
)

func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func validBundle(t *testing.T) string {
	t.Helper()
	return writeBundle(t, map[string]string{
		"SKILL.md": "---\nname: demo-skill\ndescription: A demo.\n---\n# Demo\n\n" +
			"See [Guide](references/guide.md).\n",
		"references/guide.md": "# Guide\n\nDetails.\n",
	})
}

func TestCreateAndExtractRoundTrip(t *testing.T) {
	root := validBundle(t)

	var buf bytes.Buffer
	manifest, report, err := Create(root, &buf, CreateOptions{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if report == nil || !report.Passed() {
		t.Fatalf("pre-flight validation report = %+v", report)
	}
	if manifest.Name != "demo-skill" {
		t.Errorf("manifest name = %q, want demo-skill", manifest.Name)
	}
	if manifest.Description != "A demo." {
		t.Errorf("manifest description = %q", manifest.Description)
	}
	if manifest.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", manifest.FileCount)
	}

	target := t.TempDir()
	extracted, files, err := Extract(&buf, ExtractOptions{TargetDir: target})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if extracted.Name != "demo-skill" {
		t.Errorf("extracted manifest name = %q", extracted.Name)
	}
	if len(files) != 2 {
		t.Errorf("extracted %d files, want 2: %v", len(files), files)
	}

	primary, err := os.ReadFile(filepath.Join(target, "demo-skill", model.PrimaryDocName))
	if err != nil {
		t.Fatalf("reading extracted primary: %v", err)
	}
	if !strings.Contains(string(primary), "# Demo") {
		t.Error("extracted primary content mangled")
	}
	if _, err := os.Stat(filepath.Join(target, "demo-skill", "references", "guide.md")); err != nil {
		t.Errorf("extracted reference missing: %v", err)
	}
}

func TestCreateStrictAbortsOnBrokenBundle(t *testing.T) {
	root := writeBundle(t, map[string]string{
		"SKILL.md": "# Broken\n\nSee [Gone](references/gone.md).\n",
	})

	var buf bytes.Buffer
	_, report, err := Create(root, &buf, CreateOptions{Strict: true})

	var preflight *PreflightError
	if !errors.As(err, &preflight) {
		t.Fatalf("Create() error = %v, want *PreflightError", err)
	}
	if report == nil || report.Passed() {
		t.Error("expected a failing validation report")
	}
	if buf.Len() != 0 {
		t.Error("strict mode wrote archive bytes despite failure")
	}
}

func TestCreateNonStrictProceedsWithFindings(t *testing.T) {
	root := writeBundle(t, map[string]string{
		"SKILL.md": "# Broken\n\nSee [Gone](references/gone.md).\n",
	})

	var buf bytes.Buffer
	_, report, err := Create(root, &buf, CreateOptions{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if report.Passed() {
		t.Error("validation should have failed")
	}
	if buf.Len() == 0 {
		t.Error("non-strict mode should still package")
	}
}

func TestCreateSkipValidation(t *testing.T) {
	root := writeBundle(t, map[string]string{
		"SKILL.md": "# Broken\n\nSee [Gone](references/gone.md).\n",
	})

	var buf bytes.Buffer
	_, report, err := Create(root, &buf, CreateOptions{SkipValidation: true, Strict: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if report != nil {
		t.Error("validation ran despite SkipValidation")
	}
}

func TestExtractDryRun(t *testing.T) {
	root := validBundle(t)

	var buf bytes.Buffer
	if _, _, err := Create(root, &buf, CreateOptions{}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	target := t.TempDir()
	_, files, err := Extract(&buf, ExtractOptions{TargetDir: target, DryRun: true})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("listed %d files, want 2", len(files))
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote files: %v", entries)
	}
}

func TestExtractRejectsMissingManifest(t *testing.T) {
	// An empty gzip tar stream has no manifest.
	var buf bytes.Buffer
	root := writeBundle(t, map[string]string{"SKILL.md": "# X\n"})
	if _, _, err := Create(root, &buf, CreateOptions{SkipValidation: true}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, _, err := Extract(strings.NewReader("not a gzip stream"), ExtractOptions{}); err == nil {
		t.Error("Extract() accepted garbage input")
	}
}
