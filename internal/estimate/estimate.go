// Package estimate analyzes what a skill bundle costs to load. Content is
// grouped into three disclosure levels: the metadata block that is always
// resident, the primary document body loaded when the skill activates,
// and the reference files loaded on demand.
package estimate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/parser"
	"github.com/skillfold/skillfold/internal/token"
	"github.com/skillfold/skillfold/internal/validation"
)

// Pricing configures cost conversion from estimated tokens.
type Pricing struct {
	// InputPerMTok is the USD price per million input tokens.
	InputPerMTok float64 `yaml:"input_per_mtok" toml:"input_per_mtok"`
}

// DefaultPricing returns the default input token price.
func DefaultPricing() Pricing {
	return Pricing{InputPerMTok: 3.0}
}

// Cost converts a token count to dollars.
func (p Pricing) Cost(tokens int) float64 {
	return float64(tokens) / 1_000_000 * p.InputPerMTok
}

// FileCost is the measured cost of one piece of content.
type FileCost struct {
	Path   string `json:"path" yaml:"path"`
	Lines  int    `json:"lines" yaml:"lines"`
	Tokens int    `json:"tokens" yaml:"tokens"`
	Bytes  int64  `json:"bytes" yaml:"bytes"`
}

// Scenario is one projected loading situation.
type Scenario struct {
	Name   string  `json:"name" yaml:"name"`
	Tokens int     `json:"tokens" yaml:"tokens"`
	Cost   float64 `json:"cost_usd" yaml:"cost_usd"`
}

// Scenario names, from cheapest to most expensive.
const (
	ScenarioIdle          = "idle"
	ScenarioTypical       = "typical"
	ScenarioWithReference = "with_reference"
	ScenarioWorstCase     = "worst_case"
)

// Analysis is the full cost breakdown for a bundle.
type Analysis struct {
	// Metadata is the always-resident cost (level 1).
	Metadata FileCost `json:"metadata" yaml:"metadata"`
	// Primary is the cost of the activated document body (level 2).
	Primary FileCost `json:"primary" yaml:"primary"`
	// References are the on-demand files (level 3), largest first.
	References []FileCost `json:"references" yaml:"references"`
	// Scenarios project token load for common situations.
	Scenarios []Scenario `json:"scenarios" yaml:"scenarios"`
	// Recommendations suggest structural improvements.
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Thresholds that trigger recommendations.
const (
	primaryLineLimit    = 150
	metadataTokenLimit  = 100
	referenceTokenLimit = 500
)

// Analyze measures the bundle at root and projects its loading cost. The
// root must contain a primary document; a missing one surfaces as
// validation.ErrNotFound.
func Analyze(root string, pricing Pricing) (*Analysis, error) {
	primaryPath := filepath.Join(root, model.PrimaryDocName)
	content, err := os.ReadFile(primaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s missing in %s: %w", model.PrimaryDocName, root, validation.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", model.PrimaryDocName, err)
	}

	fm := parser.SplitFrontmatter(string(content))
	analysis := &Analysis{
		Metadata: measure("metadata", fm.Raw),
		Primary:  measure(model.PrimaryDocName, fm.Body),
	}

	refsDir := filepath.Join(root, model.ReferencesDir)
	entries, err := os.ReadDir(refsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", model.ReferencesDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		refContent, err := os.ReadFile(filepath.Join(refsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading reference %s: %w", entry.Name(), err)
		}
		rel := model.ReferencesDir + "/" + entry.Name()
		analysis.References = append(analysis.References, measure(rel, string(refContent)))
	}
	sort.Slice(analysis.References, func(i, j int) bool {
		if analysis.References[i].Tokens != analysis.References[j].Tokens {
			return analysis.References[i].Tokens > analysis.References[j].Tokens
		}
		return analysis.References[i].Path < analysis.References[j].Path
	})

	analysis.Scenarios = buildScenarios(analysis, pricing)
	analysis.Recommendations = recommend(analysis)
	return analysis, nil
}

func measure(path, content string) FileCost {
	return FileCost{
		Path:   path,
		Lines:  token.CountLines(content),
		Tokens: token.Estimate(content),
		Bytes:  int64(len(content)),
	}
}

func buildScenarios(a *Analysis, pricing Pricing) []Scenario {
	idle := a.Metadata.Tokens
	typical := idle + a.Primary.Tokens

	withRef := typical
	if len(a.References) > 0 {
		withRef += a.References[0].Tokens
	}

	worst := typical
	for _, ref := range a.References {
		worst += ref.Tokens
	}

	mk := func(name string, tokens int) Scenario {
		return Scenario{Name: name, Tokens: tokens, Cost: pricing.Cost(tokens)}
	}
	return []Scenario{
		mk(ScenarioIdle, idle),
		mk(ScenarioTypical, typical),
		mk(ScenarioWithReference, withRef),
		mk(ScenarioWorstCase, worst),
	}
}

func recommend(a *Analysis) []string {
	var recs []string
	if a.Primary.Lines > primaryLineLimit {
		recs = append(recs, fmt.Sprintf(
			"primary document has %d lines; split sections over the %d line target into references",
			a.Primary.Lines, primaryLineLimit))
	}
	if a.Metadata.Tokens > metadataTokenLimit {
		recs = append(recs, fmt.Sprintf(
			"metadata block costs ~%d tokens on every request; shorten the description", a.Metadata.Tokens))
	}
	for _, ref := range a.References {
		if ref.Tokens > referenceTokenLimit {
			recs = append(recs, fmt.Sprintf(
				"%s costs ~%d tokens when loaded; consider splitting it further", ref.Path, ref.Tokens))
		}
	}
	return recs
}

// Scenario returns the named scenario, or a zero value if absent.
func (a *Analysis) Scenario(name string) Scenario {
	for _, s := range a.Scenarios {
		if s.Name == name {
			return s
		}
	}
	return Scenario{}
}

// TotalBytes is the byte size of all measured content.
func (a *Analysis) TotalBytes() int64 {
	total := a.Metadata.Bytes + a.Primary.Bytes
	for _, ref := range a.References {
		total += ref.Bytes
	}
	return total
}

// FormatText renders the analysis as a readable report.
func (a *Analysis) FormatText() string {
	var b strings.Builder
	b.WriteString("Disclosure levels\n")
	fmt.Fprintf(&b, "  1. metadata      %6s tokens  %s\n",
		humanize.Comma(int64(a.Metadata.Tokens)), humanize.Bytes(uint64(a.Metadata.Bytes)))
	fmt.Fprintf(&b, "  2. primary       %6s tokens  %s\n",
		humanize.Comma(int64(a.Primary.Tokens)), humanize.Bytes(uint64(a.Primary.Bytes)))
	for _, ref := range a.References {
		fmt.Fprintf(&b, "  3. %-14s %6s tokens  %s\n",
			ref.Path, humanize.Comma(int64(ref.Tokens)), humanize.Bytes(uint64(ref.Bytes)))
	}

	b.WriteString("\nScenarios\n")
	for _, s := range a.Scenarios {
		fmt.Fprintf(&b, "  %-15s %6s tokens  $%.6f\n", s.Name, humanize.Comma(int64(s.Tokens)), s.Cost)
	}

	if len(a.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n")
		for _, rec := range a.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	return b.String()
}
