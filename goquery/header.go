package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catmap"
)

// headerRegionSelectors bound the "header region" of a page: the places
// top-level navigation links live on virtually every storefront.
var headerRegionSelectors = []string{
	"header a[href]",
	"nav a[href]",
	"[role=navigation] a[href]",
	"[role=banner] a[href]",
	".header a[href]",
	".navbar a[href]",
	".main-nav a[href]",
	".site-nav a[href]",
}

// nonNavPathRE matches path segments that look navigational but never
// lead to catalog categories.
var nonNavPathRE = regexp.MustCompile(`(?i)/(account|login|register|signin|sign-in|cart|basket|checkout|wishlist|search|help|contact|customer-service|stores|track|returns?)(/|$)`)

// HarvestHeaderLinks extracts every same-host link from the page's
// header region, excluding known non-navigational paths (account, cart,
// search and similar). The result is a flat, single-level set of nodes;
// this is the safety net used when pattern matching finds nothing.
func HarvestHeaderLinks(html, baseURL string) ([]catmap.NavigationNode, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, catmap.Errorf(catmap.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, catmap.Errorf(catmap.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var nodes []catmap.NavigationNode

	for _, selector := range headerRegionSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			node, ok := linkNode(base, sel)
			if !ok || seen[node.URL] {
				return
			}
			if nonNavPathRE.MatchString(node.URL) {
				return
			}
			seen[node.URL] = true
			nodes = append(nodes, node)
		})
	}

	return nodes, nil
}
