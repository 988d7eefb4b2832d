package nav

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/dedup"
	gq "github.com/fwojciec/catmap/goquery"
)

var _ catmap.NavigationStrategy = (*PatternMatchStrategy)(nil)

// PatternEntry is one known site signature with the locator triple that
// extracts its navigation.
type PatternEntry struct {
	// Name identifies the pattern (e.g., "shopify-dawn").
	Name string `json:"name"`

	// Signature is a selector whose presence identifies the site.
	// An empty signature always matches.
	Signature string `json:"signature,omitempty"`

	// Container holds the navigation bar.
	Container string `json:"container"`

	// Trigger matches the top-level menu entries inside the container.
	Trigger string `json:"trigger"`

	// Dropdown matches the region revealed by hovering a trigger.
	Dropdown string `json:"dropdown"`
}

// DefaultPatternRegistry returns the built-in patterns in priority
// order: platform-specific signatures first, generic shapes last.
func DefaultPatternRegistry() []PatternEntry {
	return []PatternEntry{
		{
			Name:      "shopify-dawn",
			Signature: ".shopify-section-header",
			Container: ".shopify-section-header nav",
			Trigger:   ".shopify-section-header nav > ul > li > a, .shopify-section-header nav summary",
			Dropdown:  ".shopify-section-header nav ul ul, .header__submenu",
		},
		{
			Name:      "woocommerce-storefront",
			Signature: "body.woocommerce-page, .storefront-primary-navigation",
			Container: ".storefront-primary-navigation",
			Trigger:   ".storefront-primary-navigation .menu > li > a",
			Dropdown:  ".storefront-primary-navigation .sub-menu",
		},
		{
			Name:      "magento-luma",
			Signature: ".page-header .navigation",
			Container: ".page-header .navigation",
			Trigger:   ".navigation .level0 > a",
			Dropdown:  ".navigation .level0 .submenu",
		},
		{
			Name:      "generic-megamenu",
			Container: "header nav, nav[role=navigation]",
			Trigger:   "header nav > ul > li > a, nav[role=navigation] > ul > li > a",
			Dropdown:  "header nav li ul, header nav .dropdown, header nav .mega-menu",
		},
	}
}

// PatternMatchStrategy extracts navigation by trying a prioritized
// registry of known site patterns. Registry entries are tried in order,
// not all at once; the first entry whose container matches is the one
// used. A learned pattern for the domain, when available, is tried
// before the registry.
type PatternMatchStrategy struct {
	// Registry in priority order. Defaults to DefaultPatternRegistry.
	Registry []PatternEntry

	// Store persists the winning pattern per domain. Optional.
	Store catmap.SelectorStore

	// Pacing controls settle and cleanup delays.
	Pacing InteractionConfig

	// Logger receives pattern telemetry. Optional.
	Logger *slog.Logger
}

// Name returns the strategy identifier. This is the designated
// high-precision strategy referenced by the default scoring config.
func (s *PatternMatchStrategy) Name() string { return "pattern" }

// Priority orders the strategy in tie-breaks.
func (s *PatternMatchStrategy) Priority() int { return 1 }

// Execute tries registry entries in priority order and extracts a tree
// from the first matching one. An empty result with no error means no
// pattern matched, which is a valid outcome distinct from failure.
func (s *PatternMatchStrategy) Execute(ctx context.Context, page catmap.Page, pageURL string) (*catmap.StrategyResult, error) {
	pacing := s.Pacing.withDefaults()
	registry := s.Registry
	if registry == nil {
		registry = DefaultPatternRegistry()
	}

	domain := ""
	if d, err := dedup.DomainKey(pageURL); err == nil {
		domain = d
	}

	if learned := s.loadLearned(ctx, domain); learned != nil {
		registry = append([]PatternEntry{*learned}, registry...)
	}

	for _, entry := range registry {
		tree, err := s.tryEntry(ctx, page, pageURL, entry, pacing)
		if err != nil {
			return nil, err
		}
		if len(tree) == 0 {
			continue
		}

		s.saveLearned(ctx, domain, entry)
		return &catmap.StrategyResult{
			Tree:       tree,
			Confidence: 0.9,
			Metadata:   map[string]string{"pattern": entry.Name},
		}, nil
	}

	// Ran fine, found nothing.
	return &catmap.StrategyResult{Confidence: 0}, nil
}

// tryEntry applies one registry entry: for every top-level trigger it
// simulates a hover, waits a settle delay, then harvests links from the
// revealed dropdown region. The page is settled again before returning.
func (s *PatternMatchStrategy) tryEntry(ctx context.Context, page catmap.Page, pageURL string, entry PatternEntry, pacing InteractionConfig) ([]catmap.NavigationNode, error) {
	if entry.Signature != "" {
		matches, err := page.Find(ctx, entry.Signature)
		if err != nil || len(matches) == 0 {
			return nil, err
		}
	}

	containers, err := page.Find(ctx, entry.Container)
	if err != nil {
		return nil, err
	}
	if len(containers) == 0 {
		return nil, nil
	}

	triggers, err := page.Find(ctx, entry.Trigger)
	if err != nil || len(triggers) == 0 {
		return nil, err
	}
	if len(triggers) > pacing.MaxTriggers {
		triggers = triggers[:pacing.MaxTriggers]
	}

	defer settlePage(ctx, page, pacing)

	var tree []catmap.NavigationNode
	for _, trigger := range triggers {
		if ctx.Err() != nil {
			return tree, ctx.Err()
		}

		name, err := trigger.Text(ctx)
		if err != nil || strings.TrimSpace(name) == "" {
			continue
		}
		name = strings.TrimSpace(name)

		if err := trigger.Hover(ctx); err != nil {
			if err := trigger.Focus(ctx); err != nil {
				continue
			}
		}
		if err := sleep(ctx, pacing.SettleDelay); err != nil {
			return tree, err
		}

		children := s.harvestDropdown(ctx, page, pageURL, entry.Dropdown)
		node := catmap.NavigationNode{
			Name:           name,
			URL:            resolveHref(pageURL, triggerURL(ctx, trigger)),
			Children:       children,
			SourceStrategy: s.Name(),
			Confidence:     0.9,
		}
		if node.Validate() != nil {
			continue
		}
		tree = append(tree, node)
	}

	return tree, nil
}

// harvestDropdown reads the now-visible dropdown regions and extracts
// their links.
func (s *PatternMatchStrategy) harvestDropdown(ctx context.Context, page catmap.Page, pageURL, dropdown string) []catmap.NavigationNode {
	regions, err := page.Find(ctx, dropdown)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var children []catmap.NavigationNode
	for _, region := range regions {
		visible, err := region.Visible(ctx)
		if err != nil || !visible {
			continue
		}
		html, err := region.HTML(ctx)
		if err != nil {
			continue
		}
		nodes, err := gq.HarvestLinks(html, pageURL)
		if err != nil {
			continue
		}
		for _, n := range nodes {
			if seen[n.URL] {
				continue
			}
			seen[n.URL] = true
			n.SourceStrategy = s.Name()
			n.Confidence = 0.9
			children = append(children, n)
		}
	}
	return children
}

// loadLearned fetches the domain's learned pattern from the store.
func (s *PatternMatchStrategy) loadLearned(ctx context.Context, domain string) *PatternEntry {
	if s.Store == nil || domain == "" {
		return nil
	}
	pattern, err := s.Store.Load(ctx, domain)
	if err != nil {
		if catmap.ErrorCode(err) != catmap.ENOTFOUND && s.Logger != nil {
			s.Logger.Warn("selector store read failed", "domain", domain, "err", err)
		}
		return nil
	}
	return &PatternEntry{
		Name:      pattern.Name,
		Container: pattern.Container,
		Trigger:   pattern.Trigger,
		Dropdown:  pattern.Dropdown,
	}
}

// saveLearned persists the winning pattern for the domain.
func (s *PatternMatchStrategy) saveLearned(ctx context.Context, domain string, entry PatternEntry) {
	if s.Store == nil || domain == "" {
		return
	}
	err := s.Store.Save(ctx, domain, catmap.SelectorPattern{
		Name:      entry.Name,
		Container: entry.Container,
		Trigger:   entry.Trigger,
		Dropdown:  entry.Dropdown,
	})
	if err != nil && s.Logger != nil {
		s.Logger.Warn("selector store write failed", "domain", domain, "err", err)
	}
}

// resolveHref resolves a trigger's href against the page URL.
func resolveHref(pageURL, href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
