// Package filter implements two-phase filter discovery and exploration:
// a scan that finds and scores filter-like controls on a listing page,
// and an engine that applies each candidate sequentially with a
// capture, verify and revert discipline.
package filter

import (
	gq "github.com/fwojciec/catmap/goquery"
)

// ScoreWeights are the named weights applied to a control's discovery
// signals. Scoring is a pure function over the signal vector, tunable
// and unit-testable without any DOM interaction.
type ScoreWeights struct {
	// FilterRegion is awarded when the control sits inside a region
	// that looks like a facet panel.
	FilterRegion float64

	// CountSuffix is awarded for a trailing result count in the label.
	CountSuffix float64

	// SemanticAttr is awarded for filter-flavored attributes.
	SemanticAttr float64

	// FilterParams is awarded for anchors carrying filter-like query
	// parameters.
	FilterParams float64

	// PlausibleLabel is awarded when the label length falls within
	// [LabelMin, LabelMax] runes.
	PlausibleLabel float64
	LabelMin       int
	LabelMax       int

	// PaginationPenalty is subtracted for page-number and next/previous
	// shaped labels.
	PaginationPenalty float64

	// Threshold discards candidates scoring below it; this is what
	// keeps pagination controls and lookalike navigation links out of
	// exploration.
	Threshold float64
}

// DefaultScoreWeights returns the standard discovery weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		FilterRegion:      30,
		CountSuffix:       20,
		SemanticAttr:      20,
		FilterParams:      15,
		PlausibleLabel:    10,
		LabelMin:          2,
		LabelMax:          40,
		PaginationPenalty: 50,
		Threshold:         25,
	}
}

// Score computes a candidate score from a signal vector.
func (w ScoreWeights) Score(sig gq.ControlSignal) float64 {
	var score float64
	if sig.InFilterRegion {
		score += w.FilterRegion
	}
	if sig.HasCountSuffix {
		score += w.CountSuffix
	}
	if sig.HasSemanticAttr {
		score += w.SemanticAttr
	}
	if sig.HasFilterParams {
		score += w.FilterParams
	}
	if sig.LabelLength >= w.LabelMin && sig.LabelLength <= w.LabelMax {
		score += w.PlausibleLabel
	}
	if sig.LooksLikePagination {
		score -= w.PaginationPenalty
	}
	return score
}
