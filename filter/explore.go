package filter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/dedup"
	gq "github.com/fwojciec/catmap/goquery"
)

// Pacing holds the delays inserted between exploration steps. Real
// listing pages re-render asynchronously after a filter toggles, so
// every delay must be non-zero; a zero field falls back to its default.
type Pacing struct {
	// PostLoad runs after the category page is acquired, before
	// discovery scans it.
	PostLoad time.Duration

	// PostClick runs after a filter control is clicked, before the
	// filtered state is verified.
	PostClick time.Duration

	// PostCapture runs after filtered products are captured, before the
	// revert begins.
	PostCapture time.Duration

	// PostRevert runs after a revert action, before the baseline is
	// verified.
	PostRevert time.Duration
}

// DefaultPacing returns pacing suitable for production listing pages.
func DefaultPacing() Pacing {
	return Pacing{
		PostLoad:    1500 * time.Millisecond,
		PostClick:   2 * time.Second,
		PostCapture: 500 * time.Millisecond,
		PostRevert:  1500 * time.Millisecond,
	}
}

func (p Pacing) withDefaults() Pacing {
	d := DefaultPacing()
	if p.PostLoad <= 0 {
		p.PostLoad = d.PostLoad
	}
	if p.PostClick <= 0 {
		p.PostClick = d.PostClick
	}
	if p.PostCapture <= 0 {
		p.PostCapture = d.PostCapture
	}
	if p.PostRevert <= 0 {
		p.PostRevert = d.PostRevert
	}
	return p
}

// MaxFiltersPerCategory caps how many candidates one exploration run
// will toggle. Large faceted listings can expose hundreds of controls;
// exploring them all on every category is not worth the page time.
const MaxFiltersPerCategory = 20

// ExplorationEngine applies discovered filter candidates one at a time,
// capturing the product set each one surfaces and reverting the page to
// its baseline between candidates.
type ExplorationEngine struct {
	// Discovery finds the candidates to explore. Required.
	Discovery *DiscoveryEngine

	// Dedup merges captures into the unique product set. A nil value
	// uses dedup.NewDeduplicator.
	Dedup *dedup.Deduplicator

	// Pacing between exploration steps. Zero fields use defaults.
	Pacing Pacing

	// MaxFilters caps candidates explored per category.
	// Zero means MaxFiltersPerCategory.
	MaxFilters int

	// Combinations enables pairwise exploration of candidates that were
	// applied and reverted cleanly. Off by default: pair counts grow
	// quadratically and most sites intersect filters server-side anyway.
	Combinations bool

	// MaxCombinations caps explored pairs when Combinations is on.
	// Zero means 5.
	MaxCombinations int

	// Logger receives exploration telemetry. Optional.
	Logger *slog.Logger
}

// NewExplorationEngine returns an engine with default discovery,
// deduplication and pacing.
func NewExplorationEngine() *ExplorationEngine {
	return &ExplorationEngine{
		Discovery: NewDiscoveryEngine(),
		Dedup:     dedup.NewDeduplicator(),
	}
}

// capture is one observation of the page's product grid.
type capture struct {
	products []catmap.RawProductRef
	hash     uint64
}

// Explore runs the two-phase discovery and exploration sequence against
// a category page the caller has already navigated to. Candidates are
// applied strictly one at a time: click, verify the grid changed,
// capture products, revert, verify the baseline returned. A candidate
// that fails to toggle or revert is recorded in its terminal state and
// the run moves on; one bad control never aborts the category.
//
// Context cancellation stops the run before the next candidate and
// returns the partial result accumulated so far. An in-flight capture
// is allowed to finish so its products are not discarded.
//
// EEMPTY is returned only when candidates existed, the run completed,
// and none reached the active state.
func (e *ExplorationEngine) Explore(ctx context.Context, page catmap.Page, categoryURL, categoryLabel string) (*catmap.ExplorationResult, error) {
	begin := time.Now()
	pacing := e.Pacing.withDefaults()

	result := &catmap.ExplorationResult{
		RunID:         uuid.New().String(),
		CategoryLabel: categoryLabel,
		CategoryURL:   categoryURL,
	}

	if err := sleep(ctx, pacing.PostLoad); err != nil {
		return nil, err
	}

	discovery, err := e.Discovery.Discover(ctx, page, categoryURL)
	if err != nil {
		return nil, err
	}
	result.Stats.CandidatesDiscovered = len(discovery.Candidates)

	baseline, err := e.captureProducts(ctx, page)
	if err != nil {
		return nil, err
	}
	result.BaselineProducts = baseline.products

	// Candidates discovered already active would be deactivated by a
	// toggle, so they are reported but not explored.
	var candidates []catmap.FilterCandidate
	for _, cand := range discovery.Candidates {
		if cand.State == catmap.FilterActive {
			continue
		}
		candidates = append(candidates, cand)
	}
	if max := e.maxFilters(); len(candidates) > max {
		candidates = candidates[:max]
	}

	canceled := false
	for _, cand := range candidates {
		if ctx.Err() != nil {
			canceled = true
			break
		}
		outcome := e.applyAndRevert(ctx, page, cand, baseline, categoryURL, pacing)
		result.FilterOutcomes = append(result.FilterOutcomes, outcome)
		result.Stats.CandidatesExplored++

		switch outcome.FinalState {
		case catmap.FilterFailed:
			result.Stats.FiltersFailed++
		case catmap.FilterStuckActive:
			result.Stats.FiltersActive++
			result.Stats.FiltersStuck++
			result.PartiallyUnreliable = true
			e.recoverBaseline(ctx, page, categoryURL, pacing)
		case catmap.FilterReverted:
			result.Stats.FiltersActive++
		}

		if e.Logger != nil {
			e.Logger.Info("filter explored",
				"run_id", result.RunID,
				"label", outcome.Candidate.Label,
				"state", string(outcome.FinalState),
				"products", len(outcome.ProductsCaptured),
				"duration", outcome.Duration,
			)
		}
	}

	if e.Combinations && !canceled && ctx.Err() == nil {
		e.exploreCombinations(ctx, page, result, baseline, categoryURL, pacing)
	}

	captures := []dedup.Capture{{Products: baseline.products}}
	for _, outcome := range result.FilterOutcomes {
		if len(outcome.ProductsCaptured) == 0 {
			continue
		}
		captures = append(captures, dedup.Capture{
			FilterLabel: outcome.Candidate.Label,
			Products:    outcome.ProductsCaptured,
		})
		result.Stats.ProductsCaptured += len(outcome.ProductsCaptured)
	}

	deduper := e.Dedup
	if deduper == nil {
		deduper = dedup.NewDeduplicator()
	}
	result.UniqueProducts, result.Coverage = deduper.Deduplicate(captures)
	result.Stats.UniqueProducts = len(result.UniqueProducts)
	result.Stats.Duration = time.Since(begin)

	if len(candidates) > 0 && !canceled && result.Stats.FiltersActive == 0 {
		return nil, catmap.Errorf(catmap.EEMPTY, "no filter reached active state on %s", categoryURL)
	}

	return result, nil
}

func (e *ExplorationEngine) maxFilters() int {
	if e.MaxFilters > 0 {
		return e.MaxFilters
	}
	return MaxFiltersPerCategory
}

// applyAndRevert walks one candidate through the full lifecycle and
// returns its outcome. It never returns an error: failures land in the
// outcome's terminal state so the caller can continue.
func (e *ExplorationEngine) applyAndRevert(ctx context.Context, page catmap.Page, cand catmap.FilterCandidate, baseline capture, categoryURL string, pacing Pacing) (outcome catmap.FilterOutcome) {
	begin := time.Now()
	cand.State = catmap.FilterAttempting
	outcome = catmap.FilterOutcome{Candidate: cand}
	defer func() {
		outcome.Candidate.State = outcome.FinalState
		outcome.Duration = time.Since(begin)
	}()

	fail := func(code string, format string, args ...any) catmap.FilterOutcome {
		outcome.FinalState = catmap.FilterFailed
		outcome.Err = catmap.Errorf(code, format, args...)
		return outcome
	}

	el, err := findOne(ctx, page, cand.Locator)
	if err != nil {
		return fail(catmap.ETOGGLE, "locate %q: %v", cand.Label, err)
	}
	if el == nil {
		return fail(catmap.ENOTFOUND, "filter control %q not found at %q", cand.Label, cand.Locator)
	}

	beforeURL := page.URL()
	if err := el.Click(ctx); err != nil {
		return fail(catmap.ETOGGLE, "click %q: %v", cand.Label, err)
	}
	_ = sleep(ctx, pacing.PostClick)

	// Let an in-flight capture finish even if the run was canceled
	// mid-candidate; the products are already paid for.
	captureCtx := context.WithoutCancel(ctx)
	filtered, err := e.captureProducts(captureCtx, page)
	if err != nil {
		return fail(catmap.ETOGGLE, "capture after %q: %v", cand.Label, err)
	}

	if !e.verifyActive(captureCtx, page, cand, beforeURL, baseline, filtered) {
		return fail(catmap.ETOGGLE, "filter %q never became active", cand.Label)
	}

	cand.State = catmap.FilterActive
	outcome.ProductsCaptured = filtered.products
	_ = sleep(ctx, pacing.PostCapture)

	cand.State = catmap.FilterReverting
	if err := e.revert(captureCtx, page, cand, categoryURL); err != nil {
		outcome.FinalState = catmap.FilterStuckActive
		outcome.Err = catmap.Errorf(catmap.EREVERT, "revert %q: %v", cand.Label, err)
		return outcome
	}
	_ = sleep(ctx, pacing.PostRevert)

	if !e.verifyReverted(captureCtx, page, cand, categoryURL, baseline) {
		outcome.FinalState = catmap.FilterStuckActive
		outcome.Err = catmap.Errorf(catmap.EREVERT, "filter %q stuck after revert", cand.Label)
		return outcome
	}

	outcome.FinalState = catmap.FilterReverted
	return outcome
}

// verifyActive reports whether toggling the candidate observably
// changed the page. Any one signal suffices: the URL gained filter
// state, the product grid re-rendered to a different set, or the
// control itself now reports checked.
func (e *ExplorationEngine) verifyActive(ctx context.Context, page catmap.Page, cand catmap.FilterCandidate, beforeURL string, baseline, filtered capture) bool {
	if page.URL() != beforeURL {
		return true
	}
	if filtered.hash != baseline.hash {
		return true
	}
	if cand.Type == catmap.ElementCheckbox || cand.Type == catmap.ElementRadio {
		if el, err := findOne(ctx, page, cand.Locator); err == nil && el != nil {
			if checked, err := el.Checked(ctx); err == nil && checked {
				return true
			}
		}
	}
	return false
}

// revert undoes an applied filter. Toggleable controls are clicked
// again; link filters changed the address, so the only undo is
// navigating back to the category URL.
func (e *ExplorationEngine) revert(ctx context.Context, page catmap.Page, cand catmap.FilterCandidate, categoryURL string) error {
	if cand.Type == catmap.ElementLink {
		return page.Navigate(ctx, categoryURL)
	}

	el, err := findOne(ctx, page, cand.Locator)
	if err != nil {
		return err
	}
	if el == nil {
		// The applied filter re-rendered the control out of existence.
		// Reloading the category is the remaining undo.
		return page.Navigate(ctx, categoryURL)
	}
	return el.Click(ctx)
}

// verifyReverted reports whether the page is back at its baseline.
// A toggleable control reporting unchecked is trusted first; otherwise
// the product grid must match the baseline fingerprint or the address
// must have returned to the category URL.
func (e *ExplorationEngine) verifyReverted(ctx context.Context, page catmap.Page, cand catmap.FilterCandidate, categoryURL string, baseline capture) bool {
	if cand.Type == catmap.ElementCheckbox || cand.Type == catmap.ElementRadio {
		if el, err := findOne(ctx, page, cand.Locator); err == nil && el != nil {
			if checked, err := el.Checked(ctx); err == nil {
				return !checked
			}
		}
	}
	if current, err := e.captureProducts(ctx, page); err == nil && current.hash == baseline.hash {
		return true
	}
	return page.URL() == categoryURL
}

// recoverBaseline reloads the category after a stuck filter so later
// candidates start from a clean page. Best effort.
func (e *ExplorationEngine) recoverBaseline(ctx context.Context, page catmap.Page, categoryURL string, pacing Pacing) {
	if err := page.Navigate(ctx, categoryURL); err != nil {
		if e.Logger != nil {
			e.Logger.Warn("baseline recovery failed", "url", categoryURL, "error", err)
		}
		return
	}
	_ = sleep(ctx, pacing.PostLoad)
}

// exploreCombinations applies pairs of cleanly-reverted candidates
// together, capturing the intersection each pair surfaces. The page is
// reloaded between pairs rather than un-toggled in reverse order.
func (e *ExplorationEngine) exploreCombinations(ctx context.Context, page catmap.Page, result *catmap.ExplorationResult, baseline capture, categoryURL string, pacing Pacing) {
	var clean []catmap.FilterCandidate
	for _, outcome := range result.FilterOutcomes {
		if outcome.FinalState == catmap.FilterReverted {
			clean = append(clean, outcome.Candidate)
		}
	}

	max := e.MaxCombinations
	if max <= 0 {
		max = 5
	}

	explored := 0
	for i := 0; i < len(clean) && explored < max; i++ {
		for j := i + 1; j < len(clean) && explored < max; j++ {
			if ctx.Err() != nil {
				return
			}
			outcome := e.applyPair(ctx, page, clean[i], clean[j], baseline, categoryURL, pacing)
			result.FilterOutcomes = append(result.FilterOutcomes, outcome)
			explored++
			if outcome.FinalState == catmap.FilterReverted {
				result.Stats.FiltersActive++
			} else if outcome.FinalState == catmap.FilterFailed {
				result.Stats.FiltersFailed++
			}
		}
	}
}

// applyPair toggles two candidates in sequence, captures the combined
// grid, and reverts by reloading the category page.
func (e *ExplorationEngine) applyPair(ctx context.Context, page catmap.Page, a, b catmap.FilterCandidate, baseline capture, categoryURL string, pacing Pacing) (outcome catmap.FilterOutcome) {
	begin := time.Now()
	combined := catmap.FilterCandidate{
		Label:   fmt.Sprintf("%s + %s", a.Label, b.Label),
		Type:    a.Type,
		Locator: a.Locator + " && " + b.Locator,
		State:   catmap.FilterAttempting,
	}
	outcome = catmap.FilterOutcome{Candidate: combined}
	defer func() {
		outcome.Candidate.State = outcome.FinalState
		outcome.Duration = time.Since(begin)
	}()

	revert := func() {
		if err := page.Navigate(context.WithoutCancel(ctx), categoryURL); err == nil {
			_ = sleep(ctx, pacing.PostLoad)
		}
	}

	for _, cand := range []catmap.FilterCandidate{a, b} {
		el, err := findOne(ctx, page, cand.Locator)
		if err != nil || el == nil {
			revert()
			outcome.FinalState = catmap.FilterFailed
			outcome.Err = catmap.Errorf(catmap.ETOGGLE, "combination %q: control %q unavailable", combined.Label, cand.Label)
			return outcome
		}
		if err := el.Click(ctx); err != nil {
			revert()
			outcome.FinalState = catmap.FilterFailed
			outcome.Err = catmap.Errorf(catmap.ETOGGLE, "combination %q: click %q: %v", combined.Label, cand.Label, err)
			return outcome
		}
		_ = sleep(ctx, pacing.PostClick)
	}

	filtered, err := e.captureProducts(context.WithoutCancel(ctx), page)
	revert()
	if err != nil {
		outcome.FinalState = catmap.FilterFailed
		outcome.Err = catmap.Errorf(catmap.ETOGGLE, "combination %q: capture: %v", combined.Label, err)
		return outcome
	}
	if filtered.hash == baseline.hash {
		outcome.FinalState = catmap.FilterFailed
		outcome.Err = catmap.Errorf(catmap.ETOGGLE, "combination %q never became active", combined.Label)
		return outcome
	}

	outcome.ProductsCaptured = filtered.products
	outcome.FinalState = catmap.FilterReverted
	return outcome
}

// captureProducts extracts the current product grid and fingerprints it
// by hashing the sorted raw URLs, so two captures of the same set hash
// identically regardless of render order.
func (e *ExplorationEngine) captureProducts(ctx context.Context, page catmap.Page) (capture, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return capture{}, err
	}
	products, err := gq.ExtractProductLinks(html, page.URL())
	if err != nil {
		return capture{}, err
	}

	urls := make([]string, len(products))
	for i, p := range products {
		urls[i] = p.RawURL
	}
	sort.Strings(urls)

	digest := xxhash.New()
	for _, u := range urls {
		_, _ = digest.WriteString(u)
		_, _ = digest.Write([]byte{0})
	}
	return capture{products: products, hash: digest.Sum64()}, nil
}

// findOne returns the first element the locator matches, nil when none.
func findOne(ctx context.Context, page catmap.Page, locator string) (catmap.Element, error) {
	els, err := page.Find(ctx, locator)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, nil
	}
	return els[0], nil
}

// sleep blocks for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
