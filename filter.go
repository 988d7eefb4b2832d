package catmap

import (
	"time"
)

// ElementType classifies the kind of control backing a filter candidate.
type ElementType string

// Filter control element types.
const (
	ElementCheckbox ElementType = "checkbox"
	ElementRadio    ElementType = "radio"
	ElementLink     ElementType = "link"
	ElementButton   ElementType = "button"
)

// FilterState tracks a filter candidate through exploration.
// Transitions: Discovered → Attempting → {Active, Failed};
// Active → Reverting → {Reverted, StuckActive}.
type FilterState string

// Filter lifecycle states.
const (
	FilterDiscovered  FilterState = "discovered"
	FilterAttempting  FilterState = "attempting"
	FilterActive      FilterState = "active"
	FilterFailed      FilterState = "failed"
	FilterReverting   FilterState = "reverting"
	FilterReverted    FilterState = "reverted"
	FilterStuckActive FilterState = "stuck_active"
)

// Terminal reports whether no further transitions are expected.
func (s FilterState) Terminal() bool {
	switch s {
	case FilterFailed, FilterReverted, FilterStuckActive:
		return true
	}
	return false
}

// FilterCandidate is a filter-like control discovered on a category page.
// A candidate is valid only for the page state in which it was
// discovered; after navigation it must be re-discovered.
type FilterCandidate struct {
	Label string
	Type  ElementType

	// Locator identifies the element on the page. It is opaque to the
	// discovery and exploration engines; only the page implementation
	// interprets it.
	Locator string

	// ContainerHint names the filter group the candidate appears to
	// belong to (e.g., "Size", "Brand"). Best-effort; may be empty.
	ContainerHint string

	// Score is a pure function of discovery-time signals.
	Score float64

	// State is the candidate's position in the exploration lifecycle.
	State FilterState
}

// Validate returns EINVALID if the candidate cannot be explored.
func (c *FilterCandidate) Validate() error {
	if c.Label == "" {
		return Errorf(EINVALID, "filter candidate label required")
	}
	if c.Locator == "" {
		return Errorf(EINVALID, "filter candidate %q locator required", c.Label)
	}
	switch c.Type {
	case ElementCheckbox, ElementRadio, ElementLink, ElementButton:
	default:
		return Errorf(EINVALID, "filter candidate %q has unknown element type %q", c.Label, c.Type)
	}
	return nil
}

// RawProductRef is a product link captured from a listing before
// deduplication.
type RawProductRef struct {
	RawURL string
	Title  string
}

// ProductRef is a deduplicated product annotated with the filter labels
// that surfaced it.
type ProductRef struct {
	CanonicalURL   string
	Title          string
	FiltersApplied []string
}

// FilterOutcome records what happened when one candidate was applied.
type FilterOutcome struct {
	Candidate        FilterCandidate
	FinalState       FilterState
	ProductsCaptured []RawProductRef
	Duration         time.Duration
	Err              error
}

// ExplorationStats summarizes an exploration run.
type ExplorationStats struct {
	CandidatesDiscovered int
	CandidatesExplored   int
	FiltersActive        int
	FiltersFailed        int
	FiltersStuck         int
	ProductsCaptured     int
	UniqueProducts       int
	Duration             time.Duration
}

// ExplorationResult is the per-category output of filter exploration.
// It is assembled once per category crawl and handed downstream as an
// immutable value. A partial result produced by cancellation is valid.
type ExplorationResult struct {
	RunID            string
	CategoryLabel    string
	CategoryURL      string
	BaselineProducts []RawProductRef
	FilterOutcomes   []FilterOutcome
	UniqueProducts   []ProductRef
	Coverage         FilterCoverage

	// PartiallyUnreliable is set when a filter could not be reverted
	// (StuckActive): captures taken after that point may reflect the
	// stuck filter's narrowing.
	PartiallyUnreliable bool

	Stats ExplorationStats
}

// FilterCoverage maps a filter label to the number of unique products it
// surfaced.
type FilterCoverage map[string]int

// DiscoveryStats summarizes a filter discovery pass.
type DiscoveryStats struct {
	ElementsScanned    int
	CandidatesFound    int
	CandidatesRejected int
	Duration           time.Duration
}

// DiscoveryResult is the output of a filter discovery pass.
type DiscoveryResult struct {
	Candidates []FilterCandidate
	Stats      DiscoveryStats
}
