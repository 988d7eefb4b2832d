package crawl

import (
	"net/url"
	"strings"
)

// CategoryKind labels what a navigation entry points at. Storefront
// menus mix the product taxonomy with brand indexes and promotional
// landing pages, and downstream consumers treat the three differently.
type CategoryKind string

// Category kinds.
const (
	KindCategory  CategoryKind = "category"
	KindBrand     CategoryKind = "brand"
	KindPromotion CategoryKind = "promotion"
)

// ClassifyRule matches a navigation entry by URL path segments or label
// keywords and assigns a kind plus a frontier weight.
type ClassifyRule struct {
	Kind   CategoryKind
	Weight int

	// PathMarkers match against lowercased URL path segments.
	PathMarkers []string

	// LabelMarkers match as substrings of the lowercased label.
	LabelMarkers []string
}

// Classifier resolves overlapping classifications by rule order: the
// first matching rule wins, so the slice encodes the tie-break priority
// outright. The weights and ordering are configuration, not fixed
// logic; the defaults keep the more specific kind ahead of the generic
// one.
type Classifier struct {
	Rules []ClassifyRule

	// DefaultWeight applies when no rule matches. Unmatched entries
	// classify as KindCategory.
	DefaultWeight int
}

// DefaultClassifier returns the standard rule ordering: promotional
// entries first (most specific markers), then brand indexes, with the
// plain product taxonomy as the default. The taxonomy gets the highest
// frontier weight so real categories are explored before sale pages.
func DefaultClassifier() *Classifier {
	return &Classifier{
		Rules: []ClassifyRule{
			{
				Kind:         KindPromotion,
				Weight:       10,
				PathMarkers:  []string{"sale", "clearance", "outlet", "deals", "offers", "promo"},
				LabelMarkers: []string{"sale", "clearance", "% off", "outlet", "deal"},
			},
			{
				Kind:         KindBrand,
				Weight:       20,
				PathMarkers:  []string{"brand", "brands", "designers", "designer"},
				LabelMarkers: []string{"shop by brand", "all brands", "designers"},
			},
		},
		DefaultWeight: 30,
	}
}

// Classify returns the kind and frontier weight for a navigation entry.
func (c *Classifier) Classify(label, rawURL string) (CategoryKind, int) {
	lowLabel := strings.ToLower(label)
	segments := pathSegments(rawURL)

	for _, rule := range c.Rules {
		for _, marker := range rule.PathMarkers {
			for _, seg := range segments {
				if seg == marker {
					return rule.Kind, rule.Weight
				}
			}
		}
		for _, marker := range rule.LabelMarkers {
			if strings.Contains(lowLabel, marker) {
				return rule.Kind, rule.Weight
			}
		}
	}

	return KindCategory, c.DefaultWeight
}

// pathSegments returns the lowercased path segments of a URL.
func pathSegments(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	parts := strings.Split(strings.ToLower(u.Path), "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
