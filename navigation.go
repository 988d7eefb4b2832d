package catmap

import (
	"context"
	"time"
)

// NavigationNode is a single entry in a site's navigation taxonomy.
// Children are ordered as they appear on the page.
type NavigationNode struct {
	Name           string           `json:"name"`
	URL            string           `json:"url,omitempty"`
	Children       []NavigationNode `json:"children,omitempty"`
	SourceStrategy string           `json:"source_strategy,omitempty"`
	Confidence     float64          `json:"confidence"`
}

// Validate returns EINVALID if the node is not valid output.
// A node with no children and no URL points nowhere and carries nothing.
func (n *NavigationNode) Validate() error {
	if n.Name == "" {
		return Errorf(EINVALID, "navigation node name required")
	}
	if n.URL == "" && len(n.Children) == 0 {
		return Errorf(EINVALID, "navigation node %q has no URL and no children", n.Name)
	}
	if n.Confidence < 0 || n.Confidence > 1 {
		return Errorf(EINVALID, "navigation node %q confidence %v outside [0,1]", n.Name, n.Confidence)
	}
	return nil
}

// ItemCount returns the total number of nodes in the subtree rooted at n,
// including n itself.
func (n *NavigationNode) ItemCount() int {
	count := 1
	for i := range n.Children {
		count += n.Children[i].ItemCount()
	}
	return count
}

// CountNodes returns the total number of nodes across a forest.
func CountNodes(tree []NavigationNode) int {
	count := 0
	for i := range tree {
		count += tree[i].ItemCount()
	}
	return count
}

// StrategyResult is the outcome of one navigation strategy's attempt.
// For a terminal result, exactly one of a non-empty Tree or Err should be
// meaningfully populated; both empty is a valid "ran fine, found nothing"
// outcome distinct from an error.
type StrategyResult struct {
	StrategyName string
	Tree         []NavigationNode
	ItemCount    int
	Confidence   float64
	Duration     time.Duration
	Err          error

	// Metadata carries extra provenance reported by the strategy, such as
	// which interaction method opened a menu. Results that carry it earn
	// the structured-metadata scoring bonus.
	Metadata map[string]string
}

// Succeeded reports whether the strategy ran to completion without error.
// A successful result may still carry an empty tree.
func (r *StrategyResult) Succeeded() bool {
	return r.Err == nil
}

// NavigationResult is the orchestrator's winning result, the shape
// downstream consumers read.
type NavigationResult struct {
	Tree         []NavigationNode `json:"tree"`
	Confidence   float64          `json:"confidence"`
	StrategyUsed string           `json:"strategy_used"`
	ItemCount    int              `json:"item_count"`
	DiscoveredAt time.Time        `json:"discovered_at"`
}

// NavigationStrategy is an independent algorithm for extracting a
// navigation tree from a loaded page. Strategies run concurrently against
// the same page, so every implementation must leave the page in a settled
// visual state (no lingering open menus, focus moved away) before
// returning.
type NavigationStrategy interface {
	// Execute attempts to extract a navigation tree from the page.
	// The url is the canonical URL being analyzed; strategies may use it
	// as a selection hint but must not require it.
	Execute(ctx context.Context, page Page, url string) (*StrategyResult, error)

	// Name returns the strategy's identifier (e.g., "pattern", "megamenu").
	Name() string

	// Priority orders strategies for deterministic tie-breaking.
	// Lower values are preferred when scores tie.
	Priority() int
}

// ScoringConfig holds the weights used to rank strategy results.
// All values are tunable; zero-value fields fall back to defaults via
// DefaultScoringConfig.
type ScoringConfig struct {
	// ItemWeight multiplies the item count, capped at ItemScoreCap.
	ItemWeight float64
	// ItemScoreCap bounds the item-count contribution.
	ItemScoreCap float64
	// ConfidenceWeight multiplies the strategy-reported confidence.
	ConfidenceWeight float64
	// ReliableBonus is added when the strategy is the designated
	// high-precision one.
	ReliableBonus float64
	// ReliableStrategy names the designated high-precision strategy.
	ReliableStrategy string
	// SlowPenalty is subtracted when the strategy ran longer than
	// SlowThreshold.
	SlowPenalty   float64
	SlowThreshold time.Duration
	// MetadataBonus is added when the result carries extra provenance.
	MetadataBonus float64
}

// DefaultScoringConfig returns the standard scoring weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ItemWeight:       2,
		ItemScoreCap:     100,
		ConfidenceWeight: 50,
		ReliableBonus:    25,
		ReliableStrategy: "pattern",
		SlowPenalty:      10,
		SlowThreshold:    60 * time.Second,
		MetadataBonus:    10,
	}
}

// Score ranks a successful strategy result. It is a pure function of the
// result and the configured weights, independent of any page state.
func (c ScoringConfig) Score(r *StrategyResult) float64 {
	score := float64(r.ItemCount) * c.ItemWeight
	if score > c.ItemScoreCap {
		score = c.ItemScoreCap
	}
	score += r.Confidence * c.ConfidenceWeight
	if c.ReliableStrategy != "" && r.StrategyName == c.ReliableStrategy {
		score += c.ReliableBonus
	}
	if r.Duration > c.SlowThreshold {
		score -= c.SlowPenalty
	}
	if len(r.Metadata) > 0 {
		score += c.MetadataBonus
	}
	return score
}
