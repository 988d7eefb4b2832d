package crawl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwojciec/catmap/crawl"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	c := crawl.DefaultClassifier()

	tests := []struct {
		name   string
		label  string
		url    string
		kind   crawl.CategoryKind
		weight int
	}{
		{
			name:   "plain category",
			label:  "Shoes",
			url:    "https://shop.example.com/c/shoes",
			kind:   crawl.KindCategory,
			weight: 30,
		},
		{
			name:   "sale path segment",
			label:  "End of Season",
			url:    "https://shop.example.com/sale/shoes",
			kind:   crawl.KindPromotion,
			weight: 10,
		},
		{
			name:   "clearance label",
			label:  "Clearance Event",
			url:    "https://shop.example.com/c/special",
			kind:   crawl.KindPromotion,
			weight: 10,
		},
		{
			name:   "brands path",
			label:  "Nike",
			url:    "https://shop.example.com/brands/nike",
			kind:   crawl.KindBrand,
			weight: 20,
		},
		{
			name:   "brand label",
			label:  "Shop by Brand",
			url:    "https://shop.example.com/b",
			kind:   crawl.KindBrand,
			weight: 20,
		},
		{
			name:   "promotion wins over brand when both match",
			label:  "Designer Outlet",
			url:    "https://shop.example.com/outlet/designers",
			kind:   crawl.KindPromotion,
			weight: 10,
		},
		{
			name:   "marker must match a whole path segment",
			label:  "Resort Wear",
			url:    "https://shop.example.com/c/salerno",
			kind:   crawl.KindCategory,
			weight: 30,
		},
		{
			name:   "malformed url falls back to label",
			label:  "Big Sale",
			url:    "://bad",
			kind:   crawl.KindPromotion,
			weight: 10,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kind, weight := c.Classify(tt.label, tt.url)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.weight, weight)
		})
	}
}

func TestClassifier_CustomRules(t *testing.T) {
	t.Parallel()

	c := &crawl.Classifier{
		Rules: []crawl.ClassifyRule{
			{Kind: crawl.KindBrand, Weight: 40, PathMarkers: []string{"marques"}},
		},
		DefaultWeight: 5,
	}

	kind, weight := c.Classify("Marques", "https://shop.example.fr/marques/acme")
	assert.Equal(t, crawl.KindBrand, kind)
	assert.Equal(t, 40, weight)

	kind, weight = c.Classify("Chaussures", "https://shop.example.fr/c/chaussures")
	assert.Equal(t, crawl.KindCategory, kind)
	assert.Equal(t, 5, weight)
}
