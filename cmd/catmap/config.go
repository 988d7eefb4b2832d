package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/filter"
)

// Config holds the optional YAML-file overrides for heuristic weights
// and pacing. Zero fields leave the built-in defaults untouched, so a
// partial file tunes only what it names.
type Config struct {
	// RateLimitRPS overrides the per-domain request rate for crawls.
	RateLimitRPS float64 `yaml:"rate_limit_rps"`

	// Pacing delays in milliseconds between exploration steps.
	Pacing PacingConfig `yaml:"pacing"`

	// FilterWeights tune filter candidate scoring.
	FilterWeights WeightsConfig `yaml:"filter_weights"`

	// Scoring tunes navigation strategy ranking.
	Scoring ScoringConfig `yaml:"scoring"`
}

// PacingConfig mirrors filter.Pacing with millisecond fields.
type PacingConfig struct {
	PostLoadMS    int `yaml:"post_load_ms"`
	PostClickMS   int `yaml:"post_click_ms"`
	PostCaptureMS int `yaml:"post_capture_ms"`
	PostRevertMS  int `yaml:"post_revert_ms"`
}

// WeightsConfig mirrors filter.ScoreWeights.
type WeightsConfig struct {
	FilterRegion      *float64 `yaml:"filter_region"`
	CountSuffix       *float64 `yaml:"count_suffix"`
	SemanticAttr      *float64 `yaml:"semantic_attr"`
	FilterParams      *float64 `yaml:"filter_params"`
	PlausibleLabel    *float64 `yaml:"plausible_label"`
	PaginationPenalty *float64 `yaml:"pagination_penalty"`
	Threshold         *float64 `yaml:"threshold"`
}

// ScoringConfig mirrors the navigation ranking weights.
type ScoringConfig struct {
	ItemWeight       *float64 `yaml:"item_weight"`
	ConfidenceWeight *float64 `yaml:"confidence_weight"`
	ReliableBonus    *float64 `yaml:"reliable_bonus"`
	MetadataBonus    *float64 `yaml:"metadata_bonus"`
}

// LoadConfig reads the YAML config at path. An empty path returns an
// empty config; every override stays unset.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return config, nil
}

// applyPacing copies set pacing overrides onto the engine pacing.
func (c *Config) applyPacing(pacing *filter.Pacing) {
	if c.Pacing.PostLoadMS > 0 {
		pacing.PostLoad = time.Duration(c.Pacing.PostLoadMS) * time.Millisecond
	}
	if c.Pacing.PostClickMS > 0 {
		pacing.PostClick = time.Duration(c.Pacing.PostClickMS) * time.Millisecond
	}
	if c.Pacing.PostCaptureMS > 0 {
		pacing.PostCapture = time.Duration(c.Pacing.PostCaptureMS) * time.Millisecond
	}
	if c.Pacing.PostRevertMS > 0 {
		pacing.PostRevert = time.Duration(c.Pacing.PostRevertMS) * time.Millisecond
	}
}

// applyWeights copies set weight overrides onto the discovery weights.
func (c *Config) applyWeights(weights *filter.ScoreWeights) {
	w := c.FilterWeights
	if w.FilterRegion != nil {
		weights.FilterRegion = *w.FilterRegion
	}
	if w.CountSuffix != nil {
		weights.CountSuffix = *w.CountSuffix
	}
	if w.SemanticAttr != nil {
		weights.SemanticAttr = *w.SemanticAttr
	}
	if w.FilterParams != nil {
		weights.FilterParams = *w.FilterParams
	}
	if w.PlausibleLabel != nil {
		weights.PlausibleLabel = *w.PlausibleLabel
	}
	if w.PaginationPenalty != nil {
		weights.PaginationPenalty = *w.PaginationPenalty
	}
	if w.Threshold != nil {
		weights.Threshold = *w.Threshold
	}
}

// applyScoring copies set ranking overrides onto the orchestrator
// scoring.
func (c *Config) applyScoring(scoring *catmap.ScoringConfig) {
	s := c.Scoring
	if s.ItemWeight != nil {
		scoring.ItemWeight = *s.ItemWeight
	}
	if s.ConfidenceWeight != nil {
		scoring.ConfidenceWeight = *s.ConfidenceWeight
	}
	if s.ReliableBonus != nil {
		scoring.ReliableBonus = *s.ReliableBonus
	}
	if s.MetadataBonus != nil {
		scoring.MetadataBonus = *s.MetadataBonus
	}
}
