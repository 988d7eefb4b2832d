// Package goquery provides HTML-level scanning used by the navigation
// strategies and filter discovery: link harvesting from page regions,
// filter-control detection, and product-link extraction. Everything here
// operates on rendered HTML strings, independent of any live browser.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catmap"
)

// HarvestRegionLinks extracts navigation nodes from the part of the
// document matched by regionSelector. Links are deduplicated by resolved
// URL in document order; external links and non-HTTP schemes are
// filtered out.
func HarvestRegionLinks(html, baseURL, regionSelector string) ([]catmap.NavigationNode, error) {
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

	doc.Find(regionSelector).Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		node, ok := linkNode(base, sel)
		if !ok || seen[node.URL] {
			return
		}
		seen[node.URL] = true
		nodes = append(nodes, node)
	})

	return nodes, nil
}

// HarvestLinks extracts navigation nodes from every anchor in an HTML
// fragment, such as one dropdown region's outer HTML.
func HarvestLinks(fragment, baseURL string) ([]catmap.NavigationNode, error) {
	return HarvestRegionLinks(fragment, baseURL, "body")
}

// linkNode converts an anchor selection into a navigation node.
func linkNode(base *url.URL, sel *goquery.Selection) (catmap.NavigationNode, bool) {
	href, exists := sel.Attr("href")
	if !exists || href == "" || isNonHTTPLink(href) {
		return catmap.NavigationNode{}, false
	}

	resolved := resolveURL(base, href)
	if resolved == "" || !isSameHost(base, resolved) {
		return catmap.NavigationNode{}, false
	}

	name := strings.TrimSpace(sel.Text())
	if name == "" {
		name, _ = sel.Attr("aria-label")
		name = strings.TrimSpace(name)
	}
	if name == "" {
		return catmap.NavigationNode{}, false
	}

	return catmap.NavigationNode{Name: collapseSpace(name), URL: resolved}, true
}

// resolveURL resolves a relative URL against a base URL. Returns empty
// string if the href cannot be parsed or resolves to the base page
// itself. Fragments are stripped for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	stripped := *base
	stripped.Fragment = ""
	if resolved.String() == stripped.String() {
		return ""
	}
	return resolved.String()
}

// isSameHost checks if the resolved URL has the same host as the base URL.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink reports schemes that never lead to catalog pages.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "#"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

var spaceRE = regexp.MustCompile(`\s+`)

// collapseSpace normalizes runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return spaceRE.ReplaceAllString(s, " ")
}
