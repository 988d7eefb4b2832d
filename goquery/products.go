package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catmap"
)

// productPathRE matches URL paths that conventionally address a single
// product rather than a listing.
var productPathRE = regexp.MustCompile(`(?i)/(product|products|p|item|items|dp|prod|sku)/[^/]`)

// productCardSelectors identify the repeating result-card containers a
// listing grid is built from.
var productCardSelectors = []string{
	`[class*="product-card"] a[href]`,
	`[class*="product-tile"] a[href]`,
	`[class*="product-item"] a[href]`,
	`[data-product-id] a[href]`,
	`li[class*="product"] a[href]`,
	`article[class*="product"] a[href]`,
}

// ExtractProductLinks captures raw product references from a rendered
// listing page. It harvests anchors inside product-card containers
// first, then any anchor whose path looks like a product detail page.
// Results are deduplicated by raw URL in document order.
func ExtractProductLinks(html, baseURL string) ([]catmap.RawProductRef, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, catmap.Errorf(catmap.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, catmap.Errorf(catmap.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var products []catmap.RawProductRef

	capture := func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) || seen[resolved] {
			return
		}
		seen[resolved] = true
		products = append(products, catmap.RawProductRef{
			RawURL: resolved,
			Title:  productTitle(sel),
		})
	}

	for _, selector := range productCardSelectors {
		doc.Find(selector).Each(capture)
	}

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !productPathRE.MatchString(resolved) {
			return
		}
		capture(i, sel)
	})

	return products, nil
}

// productTitle pulls a display title from the anchor or its card.
func productTitle(sel *goquery.Selection) string {
	if title := strings.TrimSpace(sel.AttrOr("title", "")); title != "" {
		return collapseSpace(title)
	}
	if text := strings.TrimSpace(sel.Text()); text != "" {
		return collapseSpace(text)
	}
	if img := sel.Find("img[alt]").First(); img.Length() > 0 {
		return collapseSpace(strings.TrimSpace(img.AttrOr("alt", "")))
	}
	return ""
}
