package dedup

import (
	"sort"

	"github.com/fwojciec/catmap"
)

// Capture is one filter path's worth of raw product references.
// The baseline (unfiltered) capture uses an empty FilterLabel.
type Capture struct {
	FilterLabel string
	Products    []catmap.RawProductRef
}

// Deduplicator merges raw captures from overlapping filter paths into a
// unique product set keyed by canonical URL, annotating each product
// with the set of filter labels that surfaced it.
type Deduplicator struct {
	// Canonicalizer produces the dedup key. Required.
	Canonicalizer *Canonicalizer

	// Disabled switches off merging: every raw capture passes through
	// unchanged, keyed by its raw URL. This is the documented baseline
	// mode for comparing against deduplicated output, not a degraded
	// path.
	Disabled bool
}

// NewDeduplicator returns a Deduplicator with a default Canonicalizer.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{Canonicalizer: &Canonicalizer{}}
}

// Deduplicate merges captures into a unique product set with per-filter
// coverage counts. The result is sorted by canonical URL and each
// product's filter labels are sorted, so the output is identical for any
// input ordering and for repeated runs over the same multiset.
//
// Raw URLs that fail to canonicalize are skipped; a malformed product
// link never aborts the merge.
func (d *Deduplicator) Deduplicate(captures []Capture) ([]catmap.ProductRef, catmap.FilterCoverage) {
	if d.Disabled {
		return d.passthrough(captures)
	}

	type entry struct {
		title  string
		labels map[string]bool
	}
	merged := make(map[string]*entry)

	for _, capture := range captures {
		for _, p := range capture.Products {
			key, err := d.Canonicalizer.Canonicalize(p.RawURL)
			if err != nil {
				continue
			}
			e, ok := merged[key]
			if !ok {
				e = &entry{labels: make(map[string]bool)}
				merged[key] = e
			}
			if e.title == "" {
				e.title = p.Title
			}
			if capture.FilterLabel != "" {
				e.labels[capture.FilterLabel] = true
			}
		}
	}

	products := make([]catmap.ProductRef, 0, len(merged))
	coverage := make(catmap.FilterCoverage)
	for key, e := range merged {
		labels := make([]string, 0, len(e.labels))
		for label := range e.labels {
			labels = append(labels, label)
			coverage[label]++
		}
		sort.Strings(labels)
		products = append(products, catmap.ProductRef{
			CanonicalURL:   key,
			Title:          e.title,
			FiltersApplied: labels,
		})
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CanonicalURL < products[j].CanonicalURL
	})

	return products, coverage
}

// passthrough returns captures unmerged, preserving duplicates.
func (d *Deduplicator) passthrough(captures []Capture) ([]catmap.ProductRef, catmap.FilterCoverage) {
	var products []catmap.ProductRef
	coverage := make(catmap.FilterCoverage)

	for _, capture := range captures {
		for _, p := range capture.Products {
			ref := catmap.ProductRef{CanonicalURL: p.RawURL, Title: p.Title}
			if capture.FilterLabel != "" {
				ref.FiltersApplied = []string{capture.FilterLabel}
				coverage[capture.FilterLabel]++
			}
			products = append(products, ref)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].CanonicalURL != products[j].CanonicalURL {
			return products[i].CanonicalURL < products[j].CanonicalURL
		}
		return len(products[i].FiltersApplied) > 0 && len(products[j].FiltersApplied) > 0 &&
			products[i].FiltersApplied[0] < products[j].FiltersApplied[0]
	})

	return products, coverage
}
