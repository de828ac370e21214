package model

import "time"

// Bundle describes a skill bundle directory on disk: a primary SKILL.md
// plus any satellite files under references/.
type Bundle struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Path        string    `json:"path"`
	ModifiedAt  time.Time `json:"modified_at,omitzero"`
}

// PrimaryDocName is the filename of a bundle's primary document.
const PrimaryDocName = "SKILL.md"

// ReferencesDir is the directory satellite files are written into,
// relative to the bundle root.
const ReferencesDir = "references"
