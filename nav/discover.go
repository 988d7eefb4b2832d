package nav

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/dedup"
)

// Cache defaults for navigation results.
const (
	// DefaultCacheTTL is how long a winning navigation result stays
	// fresh for a domain.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultMinItemsToCache gates cache writes: degenerate near-empty
	// trees are never cached.
	DefaultMinItemsToCache = 3
)

// Discoverer wraps the orchestrator with a domain-keyed navigation
// cache. Reads honor TTL and an explicit bypass flag; writes occur only
// when the winning result's item count clears MinItemsToCache.
type Discoverer struct {
	Orchestrator *Orchestrator

	// Cache stores winning results per domain. Optional; a nil cache
	// means every call orchestrates fresh.
	Cache catmap.Cache

	// TTL for cache writes. Defaults to DefaultCacheTTL.
	TTL time.Duration

	// BypassCache skips cache reads entirely. Writes still occur, so a
	// bypass run refreshes the cached result.
	BypassCache bool

	// MinItemsToCache gates writes. Defaults to DefaultMinItemsToCache.
	MinItemsToCache int

	// Logger receives cache telemetry. Optional.
	Logger *slog.Logger
}

// Discover returns the navigation result for a page, consulting the
// domain-keyed cache first unless bypass is set.
func (d *Discoverer) Discover(ctx context.Context, page catmap.Page, url string) (*catmap.NavigationResult, error) {
	domain, err := dedup.DomainKey(url)
	if err != nil {
		return nil, err
	}

	if d.Cache != nil && !d.BypassCache {
		if cached := d.readCache(ctx, domain); cached != nil {
			return cached, nil
		}
	}

	result, err := d.Orchestrator.Execute(ctx, page, url)
	if err != nil {
		return nil, err
	}

	d.writeCache(ctx, domain, result)
	return result, nil
}

// readCache returns a fresh cached result, or nil when absent, expired
// or undecodable.
func (d *Discoverer) readCache(ctx context.Context, domain string) *catmap.NavigationResult {
	value, ok, err := d.Cache.Get(ctx, domain, catmap.ResourceNavigation)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Warn("navigation cache read failed", "domain", domain, "err", err)
		}
		return nil
	}
	if !ok {
		return nil
	}

	var result catmap.NavigationResult
	if err := json.Unmarshal(value, &result); err != nil {
		if d.Logger != nil {
			d.Logger.Warn("navigation cache entry corrupt", "domain", domain, "err", err)
		}
		return nil
	}
	if d.Logger != nil {
		d.Logger.Info("navigation cache hit", "domain", domain, "items", result.ItemCount)
	}
	return &result
}

// writeCache stores the result when its item count clears the minimum.
func (d *Discoverer) writeCache(ctx context.Context, domain string, result *catmap.NavigationResult) {
	if d.Cache == nil {
		return
	}

	minItems := d.MinItemsToCache
	if minItems <= 0 {
		minItems = DefaultMinItemsToCache
	}
	if result.ItemCount < minItems {
		return
	}

	ttl := d.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	value, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := d.Cache.Set(ctx, domain, catmap.ResourceNavigation, value, ttl); err != nil && d.Logger != nil {
		d.Logger.Warn("navigation cache write failed", "domain", domain, "err", err)
	}
}
