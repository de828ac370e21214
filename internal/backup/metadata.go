// Package backup keeps timestamped snapshots of a bundle's primary
// document so destructive rewrites can be undone.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Snapshot records one saved copy of a bundle file.
type Snapshot struct {
	ID        string    `json:"id"`         // Timestamp-based identifier
	Source    string    `json:"source"`     // Bundle-relative path that was snapshotted
	File      string    `json:"file"`       // Snapshot filename inside the snapshot dir
	Hash      string    `json:"hash"`       // SHA256 hash of content
	Size      int64     `json:"size"`       // Content size in bytes
	CreatedAt time.Time `json:"created_at"` // Snapshot creation timestamp
}

// Index maintains the set of snapshots for one bundle.
type Index struct {
	Version   string              `json:"version"`
	Updated   time.Time           `json:"updated"`
	Snapshots map[string]Snapshot `json:"snapshots"` // Key: snapshot ID
}

const (
	// IndexVersion is the current version of the snapshot index format
	IndexVersion = "1.0"
	// IndexFilename is the name of the index file
	IndexFilename = "index.json"
)

// LoadIndex loads the snapshot index for the bundle at root.
func LoadIndex(root string) (*Index, error) {
	indexPath := filepath.Join(snapshotDir(root), IndexFilename)

	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return &Index{
			Version:   IndexVersion,
			Updated:   time.Now(),
			Snapshots: make(map[string]Snapshot),
		}, nil
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot index: %w", err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot index: %w", err)
	}
	if index.Snapshots == nil {
		index.Snapshots = make(map[string]Snapshot)
	}

	return &index, nil
}

// SaveIndex writes the snapshot index for the bundle at root.
func SaveIndex(root string, index *Index) error {
	dir := snapshotDir(root)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	index.Updated = time.Now()

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot index: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, IndexFilename), data, FilePerm); err != nil {
		return fmt.Errorf("failed to write snapshot index: %w", err)
	}
	return nil
}

// List returns all snapshots sorted by creation time, newest first.
func (idx *Index) List() []Snapshot {
	snapshots := make([]Snapshot, 0, len(idx.Snapshots))
	for _, snap := range idx.Snapshots {
		snapshots = append(snapshots, snap)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
	return snapshots
}
