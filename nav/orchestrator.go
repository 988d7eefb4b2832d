// Package nav implements navigation-taxonomy extraction: several
// independent strategies race against a loaded page and an orchestrator
// scores their results and selects a winner.
package nav

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/catmap"
)

// DefaultStrategyTimeout bounds each strategy's run.
const DefaultStrategyTimeout = 90 * time.Second

// Orchestrator runs every registered strategy concurrently against the
// same loaded page, scores the successful results, and returns the
// winner. Strategies share read access to the DOM; correctness depends
// on each strategy's contract of resetting transient UI state before
// returning, not on any lock held here.
type Orchestrator struct {
	// Strategies in registration order. The order is the deterministic
	// tie-break domain: when scores tie, the result that completed first
	// wins, and simultaneous completions fall back to registration order.
	Strategies []catmap.NavigationStrategy

	// Timeout bounds each strategy independently.
	// Defaults to DefaultStrategyTimeout.
	Timeout time.Duration

	// Scoring holds the ranking weights.
	Scoring catmap.ScoringConfig

	// Logger receives per-strategy telemetry. Optional.
	Logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator with default timeout and
// scoring over the given strategies.
func NewOrchestrator(strategies ...catmap.NavigationStrategy) *Orchestrator {
	return &Orchestrator{
		Strategies: strategies,
		Timeout:    DefaultStrategyTimeout,
		Scoring:    catmap.DefaultScoringConfig(),
	}
}

// ranked pairs a strategy result with its completion bookkeeping.
type ranked struct {
	result        *catmap.StrategyResult
	registerIndex int
	completeIndex int64
	score         float64
}

// Execute launches every registered strategy concurrently, each under an
// independent timeout, and returns the highest-scoring successful
// result. A timed-out or panicking strategy yields a result carrying an
// error and is excluded from scoring. When no strategy produces a
// non-empty tree, Execute returns ENONAV; it never synthesizes a
// plausible-looking empty tree.
func (o *Orchestrator) Execute(ctx context.Context, page catmap.Page, url string) (*catmap.NavigationResult, error) {
	if len(o.Strategies) == 0 {
		return nil, catmap.Errorf(catmap.EINVALID, "no navigation strategies registered")
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultStrategyTimeout
	}

	results := make([]ranked, len(o.Strategies))
	var completions atomic.Int64
	var wg sync.WaitGroup

	for i, strategy := range o.Strategies {
		wg.Add(1)
		go func(i int, strategy catmap.NavigationStrategy) {
			defer wg.Done()
			result := o.runStrategy(ctx, strategy, page, url, timeout)
			results[i] = ranked{
				result:        result,
				registerIndex: i,
				completeIndex: completions.Add(1),
			}
		}(i, strategy)
	}
	wg.Wait()

	var candidates []ranked
	for _, r := range results {
		o.log(url, r.result)
		if r.result.Err != nil || len(r.result.Tree) == 0 {
			continue
		}
		r.score = o.Scoring.Score(r.result)
		candidates = append(candidates, r)
	}

	if len(candidates) == 0 {
		return nil, catmap.Errorf(catmap.ENONAV, "no strategy extracted navigation from %s", url)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].completeIndex != candidates[j].completeIndex {
			return candidates[i].completeIndex < candidates[j].completeIndex
		}
		return candidates[i].registerIndex < candidates[j].registerIndex
	})

	winner := candidates[0].result
	return &catmap.NavigationResult{
		Tree:         winner.Tree,
		Confidence:   winner.Confidence,
		StrategyUsed: winner.StrategyName,
		ItemCount:    winner.ItemCount,
		DiscoveredAt: time.Now().UTC(),
	}, nil
}

// runStrategy executes one strategy under its own timeout, converting
// timeouts and panics into error-carrying results.
func (o *Orchestrator) runStrategy(ctx context.Context, strategy catmap.NavigationStrategy, page catmap.Page, url string, timeout time.Duration) (result *catmap.StrategyResult) {
	begin := time.Now()

	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			result = &catmap.StrategyResult{
				StrategyName: strategy.Name(),
				Duration:     time.Since(begin),
				Err:          catmap.Errorf(catmap.EINTERNAL, "strategy %s panicked: %v", strategy.Name(), rec),
			}
		}
	}()

	r, err := strategy.Execute(sctx, page, url)
	duration := time.Since(begin)

	switch {
	case err != nil && sctx.Err() == context.DeadlineExceeded:
		return &catmap.StrategyResult{
			StrategyName: strategy.Name(),
			Duration:     duration,
			Err:          catmap.Errorf(catmap.ETIMEOUT, "strategy %s exceeded %s", strategy.Name(), timeout),
		}
	case err != nil:
		return &catmap.StrategyResult{
			StrategyName: strategy.Name(),
			Duration:     duration,
			Err:          err,
		}
	case r == nil:
		return &catmap.StrategyResult{
			StrategyName: strategy.Name(),
			Duration:     duration,
			Err:          catmap.Errorf(catmap.EINTERNAL, "strategy %s returned no result", strategy.Name()),
		}
	}

	r.StrategyName = strategy.Name()
	r.Duration = duration
	r.ItemCount = catmap.CountNodes(r.Tree)
	return r
}

// log records per-strategy telemetry. Losing results are only ever
// reported here; they are not persisted.
func (o *Orchestrator) log(url string, r *catmap.StrategyResult) {
	if o.Logger == nil {
		return
	}
	o.Logger.Info("strategy finished",
		"url", url,
		"strategy", r.StrategyName,
		"items", r.ItemCount,
		"confidence", r.Confidence,
		"duration", r.Duration,
		"err", r.Err,
	)
}
