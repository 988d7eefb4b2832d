// Package crawl walks a discovered navigation tree and explores each
// category's filters, aggregating per-category results into a catalog
// report.
package crawl

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/dedup"
	"github.com/fwojciec/catmap/filter"
	"github.com/fwojciec/catmap/nav"
)

// Frontier configuration for category walks.
const (
	// frontierExpectedCategories is the expected number of categories
	// for Bloom filter sizing.
	frontierExpectedCategories = 2048
	// frontierFalsePositiveRate is the acceptable false positive rate
	// for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Crawl defaults.
const (
	// DefaultConcurrency is how many categories are explored at once.
	// Each concurrent category holds a browser page open.
	DefaultConcurrency = 3

	// DefaultMaxCategories caps one walk to keep runs bounded on large
	// storefronts.
	DefaultMaxCategories = 50
)

// Crawler orchestrates a full catalog walk: navigation discovery for
// the site, then bounded concurrent filter exploration per category.
type Crawler struct {
	Sessions   catmap.SessionSource
	Discoverer *nav.Discoverer
	Explorer   *filter.ExplorationEngine

	// Cache persists the discovered filter map per domain. Optional.
	Cache catmap.Cache

	// CacheTTL for filter map writes. Defaults to nav.DefaultCacheTTL.
	CacheTTL time.Duration

	// Canonicalizer keys the category frontier. Nil uses defaults.
	Canonicalizer *dedup.Canonicalizer

	// Classifier labels navigation entries. Nil uses defaults.
	Classifier *Classifier

	// RateLimiter paces page acquisitions per domain. Required.
	RateLimiter *DomainLimiter

	Concurrency   int
	MaxCategories int
	RetryDelays   []time.Duration
	Logger        *slog.Logger
}

// CategoryOutcome is the walk result for one category.
type CategoryOutcome struct {
	Label  string
	URL    string
	Kind   CategoryKind
	Result *catmap.ExplorationResult
	Err    error
}

// ReportStats summarizes a catalog walk.
type ReportStats struct {
	CategoriesPlanned  int
	CategoriesExplored int
	CategoriesFailed   int
	UniqueProducts     int
	Duration           time.Duration
}

// CatalogReport is the aggregate output of a site walk.
type CatalogReport struct {
	SiteURL    string
	Navigation *catmap.NavigationResult
	Categories []CategoryOutcome
	Stats      ReportStats
}

// CrawlSite discovers the site's navigation and explores each category
// found in the winning tree. Categories are deduplicated by canonical
// URL, ordered by classification weight, and explored concurrently up
// to the configured limit, one page per category.
//
// Per-category failures (including a category where no filter ever
// activated) are recorded in their outcome and never abort the walk.
// Cancellation stops dispatching further categories; outcomes already
// gathered are returned.
func (c *Crawler) CrawlSite(ctx context.Context, siteURL string) (*CatalogReport, error) {
	begin := time.Now()

	root, err := AcquireWithRetry(ctx, c.Sessions, siteURL, c.RetryDelays, c.Logger)
	if err != nil {
		return nil, err
	}
	navresult, err := c.Discoverer.Discover(ctx, root, siteURL)
	_ = root.Close()
	if err != nil {
		return nil, err
	}

	report := &CatalogReport{SiteURL: siteURL, Navigation: navresult}

	refs := c.planCategories(navresult)
	report.Stats.CategoriesPlanned = len(refs)

	c.log().Info("catalog walk planned",
		"site", siteURL,
		"strategy", navresult.StrategyUsed,
		"categories", len(refs),
	)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(ref CategoryRef) {
			defer wg.Done()
			defer sem.Release(1)

			outcome := c.exploreCategory(ctx, ref)

			mu.Lock()
			report.Categories = append(report.Categories, outcome)
			if outcome.Err != nil {
				report.Stats.CategoriesFailed++
			} else {
				report.Stats.CategoriesExplored++
				report.Stats.UniqueProducts += len(outcome.Result.UniqueProducts)
			}
			mu.Unlock()
		}(ref)
	}
	wg.Wait()

	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].URL < report.Categories[j].URL
	})

	c.saveFilterMap(ctx, siteURL, report)
	report.Stats.Duration = time.Since(begin)

	return report, nil
}

// planCategories flattens the navigation tree into a deduplicated,
// priority-ordered category list, capped at MaxCategories.
func (c *Crawler) planCategories(navresult *catmap.NavigationResult) []CategoryRef {
	canonicalizer := c.Canonicalizer
	if canonicalizer == nil {
		canonicalizer = &dedup.Canonicalizer{}
	}
	classifier := c.Classifier
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	frontier := NewFrontier(frontierExpectedCategories, frontierFalsePositiveRate)

	var walk func(nodes []catmap.NavigationNode, depth int)
	walk = func(nodes []catmap.NavigationNode, depth int) {
		for _, node := range nodes {
			if node.URL != "" {
				canonical, err := canonicalizer.Canonicalize(node.URL)
				if err == nil {
					kind, weight := classifier.Classify(node.Name, canonical)
					frontier.Push(CategoryRef{
						Label:    node.Name,
						URL:      canonical,
						Kind:     kind,
						Depth:    depth,
						Priority: weight,
					})
				}
			}
			walk(node.Children, depth+1)
		}
	}
	walk(navresult.Tree, 0)

	max := c.MaxCategories
	if max <= 0 {
		max = DefaultMaxCategories
	}

	var refs []CategoryRef
	for len(refs) < max {
		ref, ok := frontier.Pop()
		if !ok {
			break
		}
		refs = append(refs, ref)
	}
	return refs
}

// exploreCategory runs filter exploration against one category page.
func (c *Crawler) exploreCategory(ctx context.Context, ref CategoryRef) CategoryOutcome {
	outcome := CategoryOutcome{Label: ref.Label, URL: ref.URL, Kind: ref.Kind}

	host := urlHost(ref.URL)
	if err := c.RateLimiter.Wait(ctx, host); err != nil {
		outcome.Err = err
		return outcome
	}

	page, err := AcquireWithRetry(ctx, c.Sessions, ref.URL, c.RetryDelays, c.Logger)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	defer page.Close()

	result, err := c.Explorer.Explore(ctx, page, ref.URL, ref.Label)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Result = result
	c.log().Info("category explored",
		"label", ref.Label,
		"url", ref.URL,
		"kind", string(ref.Kind),
		"filters_active", result.Stats.FiltersActive,
		"unique_products", result.Stats.UniqueProducts,
	)
	return outcome
}

// saveFilterMap persists the domain's discovered filter labels per
// category. Categories that surfaced no filters are omitted; a walk
// that found none writes nothing.
func (c *Crawler) saveFilterMap(ctx context.Context, siteURL string, report *CatalogReport) {
	if c.Cache == nil {
		return
	}

	filterMap := make(map[string][]string)
	for _, outcome := range report.Categories {
		if outcome.Err != nil || outcome.Result == nil {
			continue
		}
		labels := make([]string, 0, len(outcome.Result.Coverage))
		for label := range outcome.Result.Coverage {
			labels = append(labels, label)
		}
		if len(labels) == 0 {
			continue
		}
		sort.Strings(labels)
		filterMap[outcome.URL] = labels
	}
	if len(filterMap) == 0 {
		return
	}

	domain, err := dedup.DomainKey(siteURL)
	if err != nil {
		return
	}
	data, err := json.Marshal(filterMap)
	if err != nil {
		return
	}

	ttl := c.CacheTTL
	if ttl <= 0 {
		ttl = nav.DefaultCacheTTL
	}
	if err := c.Cache.Set(ctx, domain, catmap.ResourceFilters, data, ttl); err != nil {
		c.log().Warn("filter map cache write failed", "domain", domain, "error", err)
	}
}

func (c *Crawler) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// urlHost extracts the host for rate limiting; a malformed URL rate
// limits under the empty key rather than escaping pacing entirely.
func urlHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
