package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigDir returns the skillfold configuration directory. The
// SKILLFOLD_CONFIG_DIR environment variable overrides the default
// ~/.config/skillfold location.
func ConfigDir() string {
	if dir := os.Getenv("SKILLFOLD_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(HomeDir(), ".config", "skillfold")
}

// DefaultSkillsDir returns the default directory skills are kept in.
func DefaultSkillsDir() string {
	return filepath.Join(HomeDir(), ".claude", "skills")
}

// ExpandPath expands a leading ~ to the home directory and resolves
// relative paths against baseDir. Returns "" for empty input.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ExpandPaths applies ExpandPath to each entry, dropping empties.
func ExpandPaths(paths []string, baseDir string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if expanded := ExpandPath(p, baseDir); expanded != "" {
			out = append(out, expanded)
		}
	}
	return out
}
