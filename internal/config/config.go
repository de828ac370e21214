// Package config provides configuration management for skillfold.
// It supports YAML and TOML configuration files, environment variables,
// and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/skillfold/skillfold/internal/budget"
	"github.com/skillfold/skillfold/internal/classify"
	"github.com/skillfold/skillfold/internal/estimate"
	"github.com/skillfold/skillfold/internal/util"
	"github.com/skillfold/skillfold/internal/validation"
)

// Config represents the complete skillfold configuration.
type Config struct {
	// Classify configures section classification heuristics
	Classify ClassifyConfig `yaml:"classify" toml:"classify"`

	// Budgets configures per-tier content budgets
	Budgets BudgetsConfig `yaml:"budgets" toml:"budgets"`

	// Validation configures cross-reference validation
	Validation ValidationConfig `yaml:"validation" toml:"validation"`

	// Pricing configures token cost estimation
	Pricing estimate.Pricing `yaml:"pricing" toml:"pricing"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`

	// SkillsDir is where migrated bundles are created when no output
	// directory is given
	SkillsDir string `yaml:"skills_dir" toml:"skills_dir"`
}

// ClassifyConfig holds classification settings.
type ClassifyConfig struct {
	// CoreKeywords mark sections that stay in the primary document
	CoreKeywords []string `yaml:"core_keywords" toml:"core_keywords"`
	// ReferenceKeywords mark sections that move to reference files
	ReferenceKeywords []string `yaml:"reference_keywords" toml:"reference_keywords"`
	// SizeThreshold is the line count above which unmatched sections
	// move to reference files
	SizeThreshold int `yaml:"size_threshold" toml:"size_threshold"`
}

// Policy converts the config into a classification policy.
func (c ClassifyConfig) Policy() classify.Policy {
	return classify.Policy{
		CoreKeywords:      c.CoreKeywords,
		ReferenceKeywords: c.ReferenceKeywords,
		SizeThreshold:     c.SizeThreshold,
	}
}

// BudgetsConfig holds the per-tier content budgets.
type BudgetsConfig struct {
	Core       budget.Config `yaml:"core" toml:"core"`
	Supporting budget.Config `yaml:"supporting" toml:"supporting"`
	Optional   budget.Config `yaml:"optional" toml:"optional"`
}

// ForTier returns the budget config for a tier.
func (b BudgetsConfig) ForTier(tier budget.Tier) (budget.Config, error) {
	switch tier {
	case budget.TierCore:
		return b.Core, nil
	case budget.TierSupporting:
		return b.Supporting, nil
	case budget.TierOptional:
		return b.Optional, nil
	default:
		return budget.Config{}, fmt.Errorf("unknown budget tier %q", tier)
	}
}

// ValidationConfig holds validation settings.
type ValidationConfig struct {
	// Strict treats orphaned files as failures
	Strict bool `yaml:"strict" toml:"strict"`
	// Exclusions are filenames never reported as orphans
	Exclusions []string `yaml:"exclusions" toml:"exclusions"`
}

// Options converts the config into validation options.
func (v ValidationConfig) Options() validation.Options {
	return validation.Options{Strict: v.Strict, Exclusions: v.Exclusions}
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (text, json, yaml)
	Format string `yaml:"format" toml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	policy := classify.DefaultPolicy()
	presets := budget.Presets()
	return &Config{
		Classify: ClassifyConfig{
			CoreKeywords:      policy.CoreKeywords,
			ReferenceKeywords: policy.ReferenceKeywords,
			SizeThreshold:     policy.SizeThreshold,
		},
		Budgets: BudgetsConfig{
			Core:       presets[budget.TierCore],
			Supporting: presets[budget.TierSupporting],
			Optional:   presets[budget.TierOptional],
		},
		Validation: ValidationConfig{
			Strict:     false,
			Exclusions: validation.DefaultOptions().Exclusions,
		},
		Pricing: estimate.DefaultPricing(),
		Output: OutputConfig{
			Format:  "text",
			Color:   "auto",
			Verbose: false,
		},
		SkillsDir: util.DefaultSkillsDir(),
	}
}

// configFileName is the name of the default config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the configuration from the default file, merging with
// defaults. If the config file doesn't exist, returns default
// configuration with environment overrides applied.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(FilePath())
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. The format is
// chosen by extension: .toml parses as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path, choosing the
// format by extension like LoadFromPath.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(c)
		data = []byte(b.String())
	default:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern SKILLFOLD_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SKILLFOLD_CLASSIFY_SIZE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Classify.SizeThreshold = n
		}
	}
	if v := os.Getenv("SKILLFOLD_CLASSIFY_CORE_KEYWORDS"); v != "" {
		c.Classify.CoreKeywords = splitList(v)
	}
	if v := os.Getenv("SKILLFOLD_CLASSIFY_REFERENCE_KEYWORDS"); v != "" {
		c.Classify.ReferenceKeywords = splitList(v)
	}

	if v := os.Getenv("SKILLFOLD_BUDGET_CORE_MAX_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Budgets.Core.MaxLines = n
		}
	}
	if v := os.Getenv("SKILLFOLD_BUDGET_CORE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Budgets.Core.MaxTokens = n
		}
	}

	if v := os.Getenv("SKILLFOLD_VALIDATION_STRICT"); v != "" {
		c.Validation.Strict = parseBool(v)
	}

	if v := os.Getenv("SKILLFOLD_PRICING_INPUT_PER_MTOK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Pricing.InputPerMTok = f
		}
	}

	if v := os.Getenv("SKILLFOLD_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("SKILLFOLD_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("SKILLFOLD_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv("SKILLFOLD_SKILLS_DIR"); v != "" {
		c.SkillsDir = v
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitList splits a comma-separated list, dropping empty segments.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
