// Package bloom provides probabilistic seen-tracking for crawl
// frontiers.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet records canonical category URLs already admitted to a
// frontier. Lookups can report a never-recorded key as seen at the
// configured false positive rate, which drops a category from the
// walk; a recorded key is always reported seen, so a duplicate is
// never explored twice.
type SeenSet struct {
	f *bloom.BloomFilter
}

// NewSeenSet creates a SeenSet sized for n expected keys with the
// given false positive rate.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	return &SeenSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Record marks a key as seen.
func (s *SeenSet) Record(key string) {
	s.f.AddString(key)
}

// Seen returns true if the key was recorded, or falsely at the
// configured rate.
func (s *SeenSet) Seen(key string) bool {
	return s.f.TestString(key)
}

// EstimatedCount returns the approximate number of recorded keys.
func (s *SeenSet) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
