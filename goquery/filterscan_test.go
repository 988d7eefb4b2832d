package goquery_test

import (
	"testing"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `
<html><body>
<aside class="filter-sidebar">
  <fieldset>
    <legend>Size</legend>
    <label><input type="checkbox" name="size" value="s"> S (14)</label>
    <label><input type="checkbox" name="size" value="m" checked> M (22)</label>
  </fieldset>
  <div class="filter-group">
    <h4>Color</h4>
    <input type="radio" id="color-red" name="color" value="red">
    <label for="color-red">Red (8)</label>
  </div>
  <a href="/women/dresses?brand=acme">Acme (31)</a>
  <button data-filter="instock">In Stock Only</button>
</aside>
<main>
  <a href="/women/dresses?page=2">2</a>
  <a href="/women/dresses?page=3">Next</a>
  <a href="/about">About Us</a>
</main>
</body></html>`

func TestScanFilterControls(t *testing.T) {
	t.Parallel()

	signals, scanned, err := goquery.ScanFilterControls(listingHTML, "https://shop.example.com/women/dresses")
	require.NoError(t, err)
	assert.Positive(t, scanned)

	byLabel := make(map[string]goquery.ControlSignal)
	for _, s := range signals {
		byLabel[s.Label] = s
	}

	sizeS, ok := byLabel["S (14)"]
	require.True(t, ok, "checkbox with wrapping label should be found")
	assert.Equal(t, catmap.ElementCheckbox, sizeS.Type)
	assert.True(t, sizeS.InFilterRegion)
	assert.True(t, sizeS.HasCountSuffix)
	assert.Equal(t, "Size", sizeS.ContainerHint)
	assert.False(t, sizeS.Checked)

	sizeM, ok := byLabel["M (22)"]
	require.True(t, ok)
	assert.True(t, sizeM.Checked)

	red, ok := byLabel["Red (8)"]
	require.True(t, ok, "radio with label[for] should be found")
	assert.Equal(t, catmap.ElementRadio, red.Type)
	assert.Equal(t, "Color", red.ContainerHint)

	brand, ok := byLabel["Acme (31)"]
	require.True(t, ok, "anchor with filter query param should be found")
	assert.Equal(t, catmap.ElementLink, brand.Type)
	assert.True(t, brand.HasFilterParams)

	stock, ok := byLabel["In Stock Only"]
	require.True(t, ok, "button with data-filter should be found")
	assert.Equal(t, catmap.ElementButton, stock.Type)
	assert.True(t, stock.HasSemanticAttr)
	assert.False(t, stock.HasCountSuffix)

	// Pagination anchors carry no filter params or semantics, so they are
	// never recorded in the first place.
	_, ok = byLabel["2"]
	assert.False(t, ok)
	_, ok = byLabel["About Us"]
	assert.False(t, ok)
}

func TestScanFilterControls_LocatorsUniqueAndStable(t *testing.T) {
	t.Parallel()

	first, _, err := goquery.ScanFilterControls(listingHTML, "https://shop.example.com/women/dresses")
	require.NoError(t, err)

	locators := make(map[string]bool)
	for _, s := range first {
		assert.False(t, locators[s.Locator], "duplicate locator %q", s.Locator)
		locators[s.Locator] = true
	}

	// Repeated scans of an unchanged page return the same signal set.
	second, _, err := goquery.ScanFilterControls(listingHTML, "https://shop.example.com/women/dresses")
	require.NoError(t, err)
	assert.ElementsMatch(t, first, second)
}

func TestScanFilterControls_PaginationDetectedUnderCountSuffix(t *testing.T) {
	t.Parallel()

	// The count suffix is removed before the pagination check, so a
	// "Next (12)" link still reads as pagination.
	html := `<html><body>
		<a id="next-page" href="/c/shoes?page=2&amp;size=24">Next (12)</a>
	</body></html>`

	signals, _, err := goquery.ScanFilterControls(html, "https://shop.example.com/c/shoes")
	require.NoError(t, err)
	require.Len(t, signals, 1)

	assert.True(t, signals[0].HasCountSuffix)
	assert.True(t, signals[0].LooksLikePagination)
}
