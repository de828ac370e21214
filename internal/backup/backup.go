package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// Dir is the bundle-relative directory snapshots live in. It is
	// hidden so reference validation never reports snapshots as orphans.
	Dir = ".skillfold/backups"

	// DirPerm is the permission for snapshot directories (rwxr-x---)
	DirPerm = 0o750
	// FilePerm is the permission for snapshot files (rw-r-----)
	FilePerm = 0o640
)

func snapshotDir(root string) string {
	return filepath.Join(root, filepath.FromSlash(Dir))
}

// Take snapshots the bundle file at the given bundle-relative path.
func Take(root, rel string) (*Snapshot, error) {
	sourcePath := filepath.Join(root, filepath.FromSlash(rel))
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", rel, err)
	}

	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])
	id := time.Now().Format("20060102-150405-") + hashStr[:8]

	dir := snapshotDir(root)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	file := id + filepath.Ext(rel)
	if err := os.WriteFile(filepath.Join(dir, file), content, FilePerm); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	snap := &Snapshot{
		ID:        id,
		Source:    rel,
		File:      file,
		Hash:      hashStr,
		Size:      int64(len(content)),
		CreatedAt: time.Now(),
	}

	index, err := LoadIndex(root)
	if err != nil {
		return nil, err
	}
	index.Snapshots[snap.ID] = *snap
	if err := SaveIndex(root, index); err != nil {
		return nil, err
	}

	return snap, nil
}

// Latest returns the most recent snapshot of the given bundle-relative
// path, or nil when none exists.
func Latest(root, rel string) (*Snapshot, error) {
	index, err := LoadIndex(root)
	if err != nil {
		return nil, err
	}
	for _, snap := range index.List() {
		if snap.Source == rel {
			return &snap, nil
		}
	}
	return nil, nil
}

// Restore writes the snapshot's content back to its source path after
// verifying the stored hash.
func Restore(root string, snap Snapshot) error {
	content, err := os.ReadFile(filepath.Join(snapshotDir(root), snap.File))
	if err != nil {
		return fmt.Errorf("failed to read snapshot %q: %w", snap.ID, err)
	}

	hash := sha256.Sum256(content)
	if hex.EncodeToString(hash[:]) != snap.Hash {
		return fmt.Errorf("snapshot %q corrupted: hash mismatch", snap.ID)
	}

	target := filepath.Join(root, filepath.FromSlash(snap.Source))
	if err := os.MkdirAll(filepath.Dir(target), DirPerm); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("failed to restore %q: %w", snap.Source, err)
	}
	return nil
}

// Prune deletes all but the newest keep snapshots and returns the
// number removed.
func Prune(root string, keep int) (int, error) {
	index, err := LoadIndex(root)
	if err != nil {
		return 0, err
	}

	snapshots := index.List()
	if len(snapshots) <= keep {
		return 0, nil
	}

	removed := 0
	for _, snap := range snapshots[keep:] {
		path := filepath.Join(snapshotDir(root), snap.File)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to delete snapshot %q: %w", snap.ID, err)
		}
		delete(index.Snapshots, snap.ID)
		removed++
	}

	if err := SaveIndex(root, index); err != nil {
		return removed, err
	}
	return removed, nil
}
