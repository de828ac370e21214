// Package output renders command results in the configured format.
// Structured formats (JSON, YAML) serialize the result value directly;
// text rendering goes through per-type formatters with color support.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skillfold/skillfold/internal/archive"
	"github.com/skillfold/skillfold/internal/logging"
	"github.com/skillfold/skillfold/internal/migrate"
	"github.com/skillfold/skillfold/internal/split"
	"github.com/skillfold/skillfold/internal/ui"
	"github.com/skillfold/skillfold/internal/validation"
)

// Format represents an output format.
type Format string

const (
	// FormatText renders human-readable output.
	FormatText Format = "text"
	// FormatJSON renders JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: text, json, yaml)", s)
	}
	return format, nil
}

// TextRenderer lets result types supply their own text rendering.
type TextRenderer interface {
	FormatText() string
}

// Printer writes results to a destination in one format.
type Printer struct {
	format Format
	w      io.Writer
}

// NewPrinter creates a printer for the given format.
func NewPrinter(format Format, w io.Writer) *Printer {
	return &Printer{format: format, w: w}
}

// Print renders v in the configured format.
func (p *Printer) Print(v any) error {
	logging.Debug("rendering result", logging.Format(string(p.format)))

	switch p.format {
	case FormatJSON:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(p.w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			_ = encoder.Close()
			return err
		}
		return encoder.Close()
	case FormatText:
		_, err := io.WriteString(p.w, p.renderText(v))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// renderText dispatches to the per-type text formatters.
func (p *Printer) renderText(v any) string {
	switch r := v.(type) {
	case *validation.Result:
		return ValidationText(r)
	case *split.Plan:
		return SplitText(r)
	case *archive.Manifest:
		return ManifestText(r)
	case *migrate.Result:
		return MigrateText(r)
	case TextRenderer:
		return r.FormatText()
	case fmt.Stringer:
		return r.String() + "\n"
	default:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%+v\n", v)
		}
		return string(data)
	}
}

// ValidationText renders a validation result with status symbols.
func ValidationText(r *validation.Result) string {
	var b strings.Builder

	if r.Passed() {
		b.WriteString(ui.StatusSuccess(r.Summary()) + "\n")
	} else {
		b.WriteString(ui.StatusError(r.Summary()) + "\n")
	}

	for _, ref := range r.Valid {
		fmt.Fprintf(&b, "  %s %s\n", ui.Success(ui.SymbolSuccess), ref)
	}
	for _, missing := range r.Missing {
		fmt.Fprintf(&b, "  %s %s (referenced from %s)\n",
			ui.Error(ui.SymbolError), missing.Ref, missing.Source)
	}
	for _, orphan := range r.Orphaned {
		fmt.Fprintf(&b, "  %s %s (not referenced)\n", ui.Warning(ui.SymbolWarning), orphan)
	}
	for _, warning := range r.Warnings {
		b.WriteString(ui.StatusWarning(warning) + "\n")
	}
	return b.String()
}

// SplitText renders a split plan summary.
func SplitText(p *split.Plan) string {
	var b strings.Builder

	if !p.NeedsSplit() {
		b.WriteString(ui.StatusSkipped("no sections to move; primary document unchanged") + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s\n", ui.Bold(fmt.Sprintf("Split: %d -> %d lines (%.1f%% reduction)",
		p.OriginalLines, p.PrimaryLines, p.ReductionPercent())))
	for _, sat := range p.Satellites {
		fmt.Fprintf(&b, "  %s %s -> references/%s (%d lines)\n",
			ui.Success(ui.SymbolSuccess), sat.Title, sat.Filename, sat.Lines)
	}
	return b.String()
}

// ManifestText renders a package manifest summary.
func ManifestText(m *archive.Manifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.Bold("Packaged "+m.Name))
	if m.Description != "" {
		fmt.Fprintf(&b, "  %s\n", ui.Dim(m.Description))
	}
	fmt.Fprintf(&b, "  %d file(s):\n", m.FileCount)
	for _, file := range m.Files {
		fmt.Fprintf(&b, "    %s (%d bytes)\n", file.Path, file.Size)
	}
	return b.String()
}

// MigrateText renders a conversion result summary.
func MigrateText(r *migrate.Result) string {
	var b strings.Builder
	b.WriteString(ui.StatusSuccess("converted to "+r.BundleDir) + "\n")
	fmt.Fprintf(&b, "  name: %s\n", r.Name)
	fmt.Fprintf(&b, "  description: %s\n", r.Description)
	if r.SplitPlan != nil {
		fmt.Fprintf(&b, "  split into %d reference file(s)\n", len(r.SplitPlan.Satellites))
	}
	if !r.WithinBudget {
		b.WriteString(ui.StatusWarning("primary document still exceeds its budget") + "\n")
	}
	return b.String()
}
