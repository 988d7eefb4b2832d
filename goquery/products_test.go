package goquery_test

import (
	"testing"

	"github.com/fwojciec/catmap/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gridHTML = `
<html><body>
<main>
  <ul class="grid">
    <li class="product-card">
      <a href="/p/123?utm_source=grid" title="Blue Shirt"><img alt="Blue Shirt"></a>
    </li>
    <li class="product-card">
      <a href="/p/456">Red Dress</a>
    </li>
  </ul>
  <a href="/products/789">Green Hat</a>
  <a href="/about">About Us</a>
  <a href="https://cdn.example.net/p/999">External</a>
</main>
</body></html>`

func TestExtractProductLinks(t *testing.T) {
	t.Parallel()

	products, err := goquery.ExtractProductLinks(gridHTML, "https://shop.example.com/women")
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "https://shop.example.com/p/123?utm_source=grid", products[0].RawURL)
	assert.Equal(t, "Blue Shirt", products[0].Title)
	assert.Equal(t, "Red Dress", products[1].Title)
	assert.Equal(t, "https://shop.example.com/products/789", products[2].RawURL)
}

func TestExtractProductLinks_Deduplicates(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<div class="product-card"><a href="/p/1">One</a></div>
	<a href="/p/1">One again</a>
	</body></html>`

	products, err := goquery.ExtractProductLinks(html, "https://shop.example.com/")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "One", products[0].Title)
}

func TestExtractProductLinks_EmptyListing(t *testing.T) {
	t.Parallel()

	products, err := goquery.ExtractProductLinks("<html><body><p>No results</p></body></html>", "https://shop.example.com/")
	require.NoError(t, err)
	assert.Empty(t, products)
}
