// Package catmap provides adaptive discovery of e-commerce catalog
// structure: the site's navigation taxonomy and the filter/facet controls
// that narrow a product listing, without requiring site-specific
// hardcoding. It races several navigation-extraction strategies against a
// loaded page, picks the best result, then systematically applies each
// discovered filter control and deduplicates the products surfaced along
// the way.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/,
// goquery/, sqlite/) or their function (nav/, filter/, dedup/, crawl/).
package catmap
