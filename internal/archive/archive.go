// Package archive packages a skill bundle into a distributable .skill
// file: a tar.gz of the bundle contents plus a manifest. Packaging runs
// an integrity check first so broken bundles are not shipped.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/parser"
	"github.com/skillfold/skillfold/internal/validation"
)

// Extension is the packaged bundle file extension.
const Extension = ".skill"

// manifestName is the manifest entry inside the archive.
const manifestName = "manifest.json"

// Manifest describes a packaged bundle.
type Manifest struct {
	Version     string         `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	FileCount   int            `json:"file_count"`
	Files       []ManifestFile `json:"files"`
}

// ManifestFile is one file entry in the manifest.
type ManifestFile struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// PreflightError reports a bundle that failed its integrity check in
// strict mode. The full validation result is attached.
type PreflightError struct {
	Result *validation.Result
}

func (e *PreflightError) Error() string {
	return "refusing to package: " + e.Result.Summary()
}

// CreateOptions configures packaging.
type CreateOptions struct {
	// SkipValidation disables the pre-flight integrity check.
	SkipValidation bool
	// Strict aborts packaging on any validation failure. Without it,
	// failures are returned through the result but packaging proceeds.
	Strict bool
}

// ExtractOptions configures unpacking.
type ExtractOptions struct {
	// TargetDir receives the bundle directory. Empty means list only.
	TargetDir string
	// DryRun previews the archive without writing files.
	DryRun bool
}

// Create packages the bundle at root into w. The returned validation
// result is nil when validation was skipped.
func Create(root string, w io.Writer, opts CreateOptions) (*Manifest, *validation.Result, error) {
	var report *validation.Result
	if !opts.SkipValidation {
		var err error
		report, err = validation.ValidateBundle(root, validation.Options{
			Strict:     opts.Strict,
			Exclusions: validation.DefaultOptions().Exclusions,
		})
		if err != nil {
			return nil, nil, err
		}
		if opts.Strict && !report.Passed() {
			return nil, report, &PreflightError{Result: report}
		}
	}

	manifest, err := buildManifest(root)
	if err != nil {
		return nil, report, err
	}

	gzWriter := gzip.NewWriter(w)
	defer gzWriter.Close()
	tarWriter := tar.NewWriter(gzWriter)
	defer tarWriter.Close()

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, report, fmt.Errorf("serializing manifest: %w", err)
	}
	if err := writeEntry(tarWriter, manifestName, manifestData, manifest.CreatedAt); err != nil {
		return nil, report, err
	}

	for _, file := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(file.Path)))
		if err != nil {
			return nil, report, fmt.Errorf("reading %s: %w", file.Path, err)
		}
		if err := writeEntry(tarWriter, file.Path, data, file.ModTime); err != nil {
			return nil, report, err
		}
	}
	return manifest, report, nil
}

// Extract unpacks an archive from r. With a target directory the bundle
// is written under TargetDir/<name>; the manifest and entry list are
// returned either way.
func Extract(r io.Reader, opts ExtractOptions) (*Manifest, []string, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("opening archive: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	var manifest *Manifest
	var extracted []string
	contents := make(map[string][]byte)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading archive entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		data, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, nil, fmt.Errorf("reading entry %s: %w", header.Name, err)
		}

		if header.Name == manifestName {
			if err := json.Unmarshal(data, &manifest); err != nil {
				return nil, nil, fmt.Errorf("parsing manifest: %w", err)
			}
			continue
		}

		clean := filepath.ToSlash(filepath.Clean(header.Name))
		if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
			return nil, nil, fmt.Errorf("archive entry escapes bundle: %s", header.Name)
		}
		contents[clean] = data
		extracted = append(extracted, clean)
	}

	if manifest == nil {
		return nil, nil, fmt.Errorf("archive missing %s", manifestName)
	}

	if opts.TargetDir != "" && !opts.DryRun {
		bundleDir := filepath.Join(opts.TargetDir, manifest.Name)
		for rel, data := range contents {
			path := filepath.Join(bundleDir, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return nil, nil, fmt.Errorf("writing %s: %w", rel, err)
			}
		}
	}
	return manifest, extracted, nil
}

// buildManifest walks the bundle and records its files. The bundle name
// and description come from the primary document's metadata block,
// falling back to the directory name.
func buildManifest(root string) (*Manifest, error) {
	manifest := &Manifest{
		Version:   "1.0",
		CreatedAt: time.Now().UTC(),
		Name:      filepath.Base(root),
	}

	primary, err := os.ReadFile(filepath.Join(root, model.PrimaryDocName))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", model.PrimaryDocName, err)
	}
	fm := parser.SplitFrontmatter(string(primary))
	if fm.HasFrontmatter {
		if fields, err := parser.ParseFrontmatterFields(fm.Raw); err == nil {
			if name := parser.FrontmatterString(fields, "name"); name != "" {
				manifest.Name = name
			}
			manifest.Description = parser.FrontmatterString(fields, "description")
		}
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		manifest.Files = append(manifest.Files, ManifestFile{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking bundle: %w", err)
	}

	manifest.FileCount = len(manifest.Files)
	return manifest, nil
}

func writeEntry(tw *tar.Writer, name string, data []byte, modTime time.Time) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: modTime,
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
