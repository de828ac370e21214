package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writePrimary(t *testing.T, root, content string) string {
	t.Helper()
	path := filepath.Join(root, "SKILL.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write primary: %v", err)
	}
	return path
}

func TestTakeCreatesSnapshotAndIndexEntry(t *testing.T) {
	root := t.TempDir()
	writePrimary(t, root, "# Demo\n\nBody.\n")

	snap, err := Take(root, "SKILL.md")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if snap.Source != "SKILL.md" {
		t.Errorf("Source = %q, want SKILL.md", snap.Source)
	}
	if !strings.HasSuffix(snap.File, ".md") {
		t.Errorf("snapshot file %q should keep the source extension", snap.File)
	}
	if snap.Size != int64(len("# Demo\n\nBody.\n")) {
		t.Errorf("Size = %d, want %d", snap.Size, len("# Demo\n\nBody.\n"))
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(Dir), snap.File))
	if err != nil {
		t.Fatalf("snapshot file not written: %v", err)
	}
	if string(data) != "# Demo\n\nBody.\n" {
		t.Errorf("snapshot content = %q", string(data))
	}

	index, err := LoadIndex(root)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if _, ok := index.Snapshots[snap.ID]; !ok {
		t.Errorf("index missing snapshot %q", snap.ID)
	}
}

func TestTakeMissingSourceFails(t *testing.T) {
	if _, err := Take(t.TempDir(), "SKILL.md"); err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	primary := writePrimary(t, root, "original content\n")

	snap, err := Take(root, "SKILL.md")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if err := os.WriteFile(primary, []byte("rewritten content\n"), 0o644); err != nil {
		t.Fatalf("failed to overwrite primary: %v", err)
	}

	if err := Restore(root, *snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	data, err := os.ReadFile(primary)
	if err != nil {
		t.Fatalf("failed to read restored file: %v", err)
	}
	if string(data) != "original content\n" {
		t.Errorf("restored content = %q, want original", string(data))
	}
}

func TestRestoreDetectsCorruption(t *testing.T) {
	root := t.TempDir()
	writePrimary(t, root, "original content\n")

	snap, err := Take(root, "SKILL.md")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	snapPath := filepath.Join(root, filepath.FromSlash(Dir), snap.File)
	if err := os.WriteFile(snapPath, []byte("tampered\n"), FilePerm); err != nil {
		t.Fatalf("failed to tamper with snapshot: %v", err)
	}

	err = Restore(root, *snap)
	if err == nil {
		t.Fatal("expected hash mismatch error")
	}
	if !strings.Contains(err.Error(), "hash mismatch") {
		t.Errorf("error = %v, want hash mismatch", err)
	}
}

func TestLatestReturnsNewest(t *testing.T) {
	root := t.TempDir()

	index := &Index{Version: IndexVersion, Snapshots: map[string]Snapshot{
		"old": {ID: "old", Source: "SKILL.md", CreatedAt: time.Now().Add(-time.Hour)},
		"new": {ID: "new", Source: "SKILL.md", CreatedAt: time.Now()},
	}}
	if err := SaveIndex(root, index); err != nil {
		t.Fatalf("SaveIndex failed: %v", err)
	}

	snap, err := Latest(root, "SKILL.md")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if snap == nil || snap.ID != "new" {
		t.Errorf("Latest = %+v, want ID new", snap)
	}
}

func TestLatestNoSnapshots(t *testing.T) {
	snap, err := Latest(t.TempDir(), "SKILL.md")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if snap != nil {
		t.Errorf("Latest = %+v, want nil", snap)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, filepath.FromSlash(Dir))
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	index := &Index{Version: IndexVersion, Snapshots: make(map[string]Snapshot)}
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c", "d"} {
		file := id + ".md"
		if err := os.WriteFile(filepath.Join(dir, file), []byte(id), FilePerm); err != nil {
			t.Fatalf("failed to seed snapshot: %v", err)
		}
		index.Snapshots[id] = Snapshot{
			ID:        id,
			Source:    "SKILL.md",
			File:      file,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	if err := SaveIndex(root, index); err != nil {
		t.Fatalf("SaveIndex failed: %v", err)
	}

	removed, err := Prune(root, 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	after, err := LoadIndex(root)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	for _, id := range []string{"c", "d"} {
		if _, ok := after.Snapshots[id]; !ok {
			t.Errorf("newest snapshot %q was pruned", id)
		}
	}
	for _, id := range []string{"a", "b"} {
		if _, ok := after.Snapshots[id]; ok {
			t.Errorf("oldest snapshot %q survived prune", id)
		}
		if _, statErr := os.Stat(filepath.Join(dir, id+".md")); !os.IsNotExist(statErr) {
			t.Errorf("pruned snapshot file %q still on disk", id+".md")
		}
	}

	// Pruning again is a no-op.
	removed, err = Prune(root, 2)
	if err != nil {
		t.Fatalf("second Prune failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("second prune removed = %d, want 0", removed)
	}
}
