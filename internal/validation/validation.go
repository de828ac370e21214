// Package validation checks the referential integrity of a skill bundle:
// every file reference in the primary document must resolve to a file on
// disk, and files on disk should be reachable from the document.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/refs"
)

// ErrNotFound indicates the bundle root or its primary document does not
// exist. This is a hard failure; no partial result is produced.
var ErrNotFound = errors.New("skill not found")

// Error represents a validation failure with context.
type Error struct {
	// Field names the component that failed validation.
	Field string
	// Message describes the failure.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Status is the overall outcome of a bundle validation.
type Status string

const (
	// StatusPass means no integrity problems were found.
	StatusPass Status = "pass"
	// StatusFail means at least one problem blocks the bundle.
	StatusFail Status = "fail"
)

// MissingRef is a reference in the primary document with no matching file.
type MissingRef struct {
	// Ref is the normalized reference text.
	Ref string `json:"ref" yaml:"ref"`
	// Source is the file the reference appeared in.
	Source string `json:"source" yaml:"source"`
}

// Options configures validation behavior.
type Options struct {
	// Strict promotes orphaned files from warnings to failures.
	Strict bool
	// Exclusions are filenames never reported as orphans.
	Exclusions []string
}

// DefaultOptions returns the default validation options. The exclusion
// list covers generated reports and repo housekeeping files.
func DefaultOptions() Options {
	return Options{
		Strict: false,
		Exclusions: []string{
			model.PrimaryDocName,
			"README.md",
			"split_report.md",
			"conversion_report.md",
			".gitignore",
		},
	}
}

// Result contains the outcome of a bundle validation.
type Result struct {
	// Status is the overall verdict.
	Status Status `json:"status" yaml:"status"`
	// Valid lists references that resolved, sorted.
	Valid []string `json:"valid" yaml:"valid"`
	// Missing lists references with no file behind them, sorted by ref.
	Missing []MissingRef `json:"missing" yaml:"missing"`
	// Orphaned lists files no reference reaches, sorted.
	Orphaned []string `json:"orphaned" yaml:"orphaned"`
	// Warnings are non-fatal observations.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Passed reports whether the bundle is usable.
func (r *Result) Passed() bool {
	return r.Status == StatusPass
}

// Summary returns a one-line human-readable verdict.
func (r *Result) Summary() string {
	if r.Passed() {
		if len(r.Warnings) > 0 {
			return fmt.Sprintf("Validation passed with %d warning(s)", len(r.Warnings))
		}
		return "All references valid"
	}
	return fmt.Sprintf("Validation failed: %d missing, %d orphaned",
		len(r.Missing), len(r.Orphaned))
}

// ValidateBundle checks the bundle rooted at root. A missing root or
// primary document returns an error wrapping ErrNotFound; every other
// problem is reported through the Result.
func ValidateBundle(root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Field: "root", Message: fmt.Sprintf("path does not exist: %s", root), Err: ErrNotFound}
		}
		return nil, &Error{Field: "root", Message: "cannot access path", Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Field: "root", Message: fmt.Sprintf("not a directory: %s", root)}
	}

	primary := filepath.Join(root, model.PrimaryDocName)
	content, err := os.ReadFile(primary)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Field: model.PrimaryDocName, Message: fmt.Sprintf("missing in %s", root), Err: ErrNotFound}
		}
		return nil, &Error{Field: model.PrimaryDocName, Message: "cannot read file", Err: err}
	}

	referenced := refs.Extract(string(content))
	files, err := collectFiles(root)
	if err != nil {
		return nil, err
	}

	result := &Result{Status: StatusPass}
	excluded := make(map[string]struct{}, len(opts.Exclusions))
	for _, name := range opts.Exclusions {
		excluded[name] = struct{}{}
	}

	for _, ref := range referenced.Sorted() {
		if refExists(root, ref) {
			result.Valid = append(result.Valid, ref)
		} else {
			result.Missing = append(result.Missing, MissingRef{Ref: ref, Source: model.PrimaryDocName})
		}
	}

	for _, file := range files {
		if _, ok := excluded[path.Base(file)]; ok {
			continue
		}
		if !anyRefMatches(referenced, file) {
			result.Orphaned = append(result.Orphaned, file)
		}
	}

	if len(result.Missing) > 0 {
		result.Status = StatusFail
	}
	if len(result.Orphaned) > 0 {
		if opts.Strict {
			result.Status = StatusFail
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%d file(s) not referenced from %s", len(result.Orphaned), model.PrimaryDocName))
		}
	}
	return result, nil
}

// collectFiles walks root and returns slash-separated paths relative to
// it, sorted by the walk order. Hidden directories and files are skipped.
func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") && name != ".gitignore" {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, &Error{Field: "root", Message: "cannot walk bundle", Err: err}
	}
	return files, nil
}

// refExists resolves a reference exactly: the normalized ref must name a
// file relative to the bundle root. The lenient matching below is for
// the orphan walk only.
func refExists(root, ref string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(refs.Normalize(ref))))
	return err == nil && !info.IsDir()
}

// matches reports whether a reference could account for an on-disk
// relative path. Three forms are accepted: an exact path match, the
// reference as a path suffix of the file, and a bare-filename match.
func matches(file, ref string) bool {
	ref = refs.Normalize(ref)
	if file == ref {
		return true
	}
	if strings.HasSuffix(file, "/"+ref) {
		return true
	}
	return path.Base(file) == path.Base(ref)
}

func anyRefMatches(referenced refs.Set, file string) bool {
	for ref := range referenced {
		if matches(file, ref) {
			return true
		}
	}
	return false
}
