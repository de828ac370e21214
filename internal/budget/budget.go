// Package budget enforces hard line and token ceilings while content is
// generated incrementally. A tracker is created per generated file and
// must not be shared across generation targets.
package budget

import (
	"fmt"
	"strings"

	"github.com/skillfold/skillfold/internal/token"
)

// Config holds the ceilings for one generated file.
type Config struct {
	// MaxLines is the hard line ceiling.
	MaxLines int `yaml:"max_lines" toml:"max_lines"`
	// MaxTokens is the hard estimated-token ceiling.
	MaxTokens int `yaml:"max_tokens" toml:"max_tokens"`
	// WarningRatio is the fraction of MaxLines at which a one-shot
	// warning fires. Must be in (0, 1).
	WarningRatio float64 `yaml:"warning_ratio" toml:"warning_ratio"`
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.MaxLines <= 0 || c.MaxTokens <= 0 {
		return fmt.Errorf("budget limits must be positive (lines=%d, tokens=%d)", c.MaxLines, c.MaxTokens)
	}
	if c.WarningRatio <= 0 || c.WarningRatio >= 1 {
		return fmt.Errorf("warning ratio must be between 0 and 1, got %g", c.WarningRatio)
	}
	return nil
}

// Tier names a budget preset. Tiers shrink from core down to optional.
type Tier string

const (
	// TierCore budgets the primary document.
	TierCore Tier = "core"
	// TierSupporting budgets important satellite files.
	TierSupporting Tier = "supporting"
	// TierOptional budgets optional satellite files.
	TierOptional Tier = "optional"
)

// DefaultWarningRatio is the threshold fraction used by the presets.
const DefaultWarningRatio = 0.80

// Presets returns the standard tier configurations. Presets are pure
// configuration; a caller may substitute its own.
func Presets() map[Tier]Config {
	return map[Tier]Config{
		TierCore:       {MaxLines: 150, MaxTokens: 200, WarningRatio: DefaultWarningRatio},
		TierSupporting: {MaxLines: 100, MaxTokens: 150, WarningRatio: DefaultWarningRatio},
		TierOptional:   {MaxLines: 60, MaxTokens: 100, WarningRatio: DefaultWarningRatio},
	}
}

// ForTier creates a tracker from a named preset.
func ForTier(tier Tier) (*Tracker, error) {
	cfg, ok := Presets()[tier]
	if !ok {
		return nil, fmt.Errorf("unknown budget tier %q (valid: core, supporting, optional)", tier)
	}
	return New(cfg)
}

// ExceededError is returned when an Add would push a counter past its
// ceiling. It carries current/attempted/limit numbers for both dimensions
// and flags which one failed.
type ExceededError struct {
	LinesExceeded  bool
	TokensExceeded bool

	CurrentLines int
	AddLines     int
	MaxLines     int

	CurrentTokens int
	AddTokens     int
	MaxTokens     int
}

// Error formats the failed dimension(s) as "would reach current+add/limit".
func (e *ExceededError) Error() string {
	var parts []string
	if e.LinesExceeded {
		parts = append(parts, fmt.Sprintf("adding %d lines would reach %d/%d",
			e.AddLines, e.CurrentLines+e.AddLines, e.MaxLines))
	}
	if e.TokensExceeded {
		parts = append(parts, fmt.Sprintf("adding %d tokens would reach %d/%d",
			e.AddTokens, e.CurrentTokens+e.AddTokens, e.MaxTokens))
	}
	return "budget exceeded: " + strings.Join(parts, "; ")
}

// Addition is an audit record of one committed chunk.
type Addition struct {
	Lines   int
	Tokens  int
	Preview string
}

// Summary is the immutable end-of-generation report.
type Summary struct {
	FinalLines   int  `json:"final_lines"`
	FinalTokens  int  `json:"final_tokens"`
	MaxLines     int  `json:"max_lines"`
	MaxTokens    int  `json:"max_tokens"`
	Additions    int  `json:"additions"`
	WithinBudget bool `json:"within_budget"`
}

// Tracker accumulates generated content against a Config. Not safe for
// concurrent use; each generated file gets its own instance.
type Tracker struct {
	cfg           Config
	currentLines  int
	currentTokens int
	warned        bool
	additions     []Addition
}

// New creates a tracker for the given config.
func New(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{cfg: cfg}, nil
}

// CanAdd reports whether chunk fits in the remaining budget. Pure check;
// no state changes.
func (t *Tracker) CanAdd(chunk string) bool {
	if chunk == "" {
		return true
	}
	lines := token.CountLines(chunk)
	tokens := token.Estimate(chunk)
	return t.currentLines+lines <= t.cfg.MaxLines &&
		t.currentTokens+tokens <= t.cfg.MaxTokens
}

// Add commits chunk to both counters, or returns *ExceededError without
// touching either. CanAdd(x) is true exactly when Add(x) succeeds for the
// same pre-state.
func (t *Tracker) Add(chunk string) error {
	if chunk == "" {
		return nil
	}

	lines := token.CountLines(chunk)
	tokens := token.Estimate(chunk)

	overLines := t.currentLines+lines > t.cfg.MaxLines
	overTokens := t.currentTokens+tokens > t.cfg.MaxTokens
	if overLines || overTokens {
		return &ExceededError{
			LinesExceeded:  overLines,
			TokensExceeded: overTokens,
			CurrentLines:   t.currentLines,
			AddLines:       lines,
			MaxLines:       t.cfg.MaxLines,
			CurrentTokens:  t.currentTokens,
			AddTokens:      tokens,
			MaxTokens:      t.cfg.MaxTokens,
		}
	}

	t.currentLines += lines
	t.currentTokens += tokens
	t.additions = append(t.additions, Addition{
		Lines:   lines,
		Tokens:  tokens,
		Preview: preview(chunk),
	})
	return nil
}

// WarnIfThresholdCrossed returns a warning message the first time the
// line counter reaches WarningRatio*MaxLines. Subsequent calls return
// false until Reset.
func (t *Tracker) WarnIfThresholdCrossed() (string, bool) {
	threshold := float64(t.cfg.MaxLines) * t.cfg.WarningRatio
	if t.warned || float64(t.currentLines) < threshold {
		return "", false
	}
	t.warned = true
	msg := fmt.Sprintf("approaching line limit: %d/%d lines (%.0f%%)",
		t.currentLines, t.cfg.MaxLines,
		float64(t.currentLines)/float64(t.cfg.MaxLines)*100)
	return msg, true
}

// Finalize returns the end-of-generation summary. The tracker remains
// usable afterwards, but the summary is the authoritative report.
func (t *Tracker) Finalize() Summary {
	return Summary{
		FinalLines:   t.currentLines,
		FinalTokens:  t.currentTokens,
		MaxLines:     t.cfg.MaxLines,
		MaxTokens:    t.cfg.MaxTokens,
		Additions:    len(t.additions),
		WithinBudget: t.currentLines <= t.cfg.MaxLines && t.currentTokens <= t.cfg.MaxTokens,
	}
}

// Reset clears all counters, the audit log, and the warning latch so the
// tracker can be reused for another file.
func (t *Tracker) Reset() {
	t.currentLines = 0
	t.currentTokens = 0
	t.warned = false
	t.additions = nil
}

// Remaining returns the unused capacity in both dimensions.
func (t *Tracker) Remaining() (lines, tokens int) {
	return max(0, t.cfg.MaxLines-t.currentLines), max(0, t.cfg.MaxTokens-t.currentTokens)
}

// Lines returns the committed line count.
func (t *Tracker) Lines() int { return t.currentLines }

// Tokens returns the committed token estimate.
func (t *Tracker) Tokens() int { return t.currentTokens }

// Additions returns the audit log of committed chunks.
func (t *Tracker) Additions() []Addition { return t.additions }

const previewLen = 50

func preview(chunk string) string {
	if len(chunk) <= previewLen {
		return chunk
	}
	return chunk[:previewLen] + "..."
}
