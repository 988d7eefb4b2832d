package filter

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/fwojciec/catmap"
	gq "github.com/fwojciec/catmap/goquery"
)

// DiscoveryEngine scans a listing page for filter-like controls and
// scores them as exploration candidates.
type DiscoveryEngine struct {
	// Weights for candidate scoring. Zero value uses defaults.
	Weights ScoreWeights

	// Logger receives discovery telemetry. Optional.
	Logger *slog.Logger
}

// NewDiscoveryEngine returns a DiscoveryEngine with default weights.
func NewDiscoveryEngine() *DiscoveryEngine {
	return &DiscoveryEngine{Weights: DefaultScoreWeights()}
}

// Discover scans the rendered page for checkbox and radio inputs,
// anchors with filter-like query parameters, and buttons with filter
// semantics or count suffixes, scores each against the configured
// weights, and returns the candidates that clear the threshold.
//
// Repeated calls against an unchanged page return the same candidate
// set. Candidates are ordered by descending score, locator breaking
// ties, so the order is deterministic too. Container grouping is
// best-effort; an ungrouped candidate is still valid.
func (e *DiscoveryEngine) Discover(ctx context.Context, page catmap.Page, url string) (*catmap.DiscoveryResult, error) {
	begin := time.Now()

	weights := e.Weights
	if weights == (ScoreWeights{}) {
		weights = DefaultScoreWeights()
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	signals, scanned, err := gq.ScanFilterControls(html, url)
	if err != nil {
		return nil, err
	}

	var candidates []catmap.FilterCandidate
	rejected := 0
	for _, sig := range signals {
		score := weights.Score(sig)
		if score < weights.Threshold {
			rejected++
			continue
		}
		state := catmap.FilterDiscovered
		if sig.Checked {
			state = catmap.FilterActive
		}
		candidates = append(candidates, catmap.FilterCandidate{
			Label:         sig.Label,
			Type:          sig.Type,
			Locator:       sig.Locator,
			ContainerHint: sig.ContainerHint,
			Score:         score,
			State:         state,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Locator < candidates[j].Locator
	})

	stats := catmap.DiscoveryStats{
		ElementsScanned:    scanned,
		CandidatesFound:    len(candidates),
		CandidatesRejected: rejected,
		Duration:           time.Since(begin),
	}

	if e.Logger != nil {
		e.Logger.Info("filter discovery",
			"url", url,
			"scanned", stats.ElementsScanned,
			"found", stats.CandidatesFound,
			"rejected", stats.CandidatesRejected,
			"duration", stats.Duration,
		)
	}

	return &catmap.DiscoveryResult{Candidates: candidates, Stats: stats}, nil
}
