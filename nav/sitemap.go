package nav

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/catmap"
)

var _ catmap.NavigationStrategy = (*SitemapStrategy)(nil)

// Sitemap processing bounds to prevent runaway fetches on huge catalogs.
const (
	maxSitemaps    = 10
	maxSitemapURLs = 2000
)

// sitemapProductRE excludes product-detail URLs from the category tree.
var sitemapProductRE = regexp.MustCompile(`(?i)/(product|products|p|item|items|dp|prod|sku)/[^/]`)

// SitemapStrategy derives a category tree from the site's sitemap
// instead of the rendered page. It checks robots.txt for Sitemap
// directives, falls back to /sitemap.xml, resolves sitemap indexes
// recursively, and groups listing URLs by their leading path segments
// into a two-level tree. It never touches the page, so it has no UI
// state to clean up.
type SitemapStrategy struct {
	// Client for sitemap fetches. Defaults to http.DefaultClient.
	Client *http.Client
}

// Name returns the strategy identifier.
func (s *SitemapStrategy) Name() string { return "sitemap" }

// Priority orders the strategy in tie-breaks.
func (s *SitemapStrategy) Priority() int { return 5 }

// Execute builds a navigation tree from sitemap URL structure.
func (s *SitemapStrategy) Execute(ctx context.Context, _ catmap.Page, pageURL string) (*catmap.StrategyResult, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, catmap.Errorf(catmap.EINVALID, "invalid URL %q: %v", pageURL, err)
	}
	root := *base
	root.Path = ""
	root.RawQuery = ""
	root.Fragment = ""

	sitemapURLs := s.findSitemapURLs(ctx, &root)
	if len(sitemapURLs) == 0 {
		return &catmap.StrategyResult{Confidence: 0}, nil
	}

	seen := make(map[string]bool)
	var urls []string
	for _, sitemapURL := range sitemapURLs {
		found, err := s.collectURLs(ctx, sitemapURL, seen, 0)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
		if len(urls) >= maxSitemapURLs {
			urls = urls[:maxSitemapURLs]
			break
		}
	}

	tree := s.buildTree(base, urls)
	return &catmap.StrategyResult{
		Tree:       tree,
		Confidence: 0.4,
	}, nil
}

// findSitemapURLs checks robots.txt Sitemap directives, then falls back
// to /sitemap.xml.
func (s *SitemapStrategy) findSitemapURLs(ctx context.Context, root *url.URL) []string {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	if body, err := s.fetch(ctx, robotsURL.String()); err == nil {
		defer body.Close()
		var sitemaps []string
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
				if sm := strings.TrimSpace(line[len("sitemap:"):]); sm != "" {
					sitemaps = append(sitemaps, sm)
				}
			}
		}
		if len(sitemaps) > 0 {
			return sitemaps
		}
	}
	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}
}

// collectURLs parses one sitemap, following index entries recursively.
func (s *SitemapStrategy) collectURLs(ctx context.Context, sitemapURL string, seen map[string]bool, depth int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] || len(seen) >= maxSitemaps || depth > 2 {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetch(ctx, sitemapURL)
	if err != nil {
		// A missing sitemap is "found nothing", not failure.
		return nil, nil
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, nil
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, entry := range root.SelectElements("sitemap") {
			loc := entry.SelectElement("loc")
			if loc == nil {
				continue
			}
			found, err := s.collectURLs(ctx, strings.TrimSpace(loc.Text()), seen, depth+1)
			if err != nil {
				return nil, err
			}
			urls = append(urls, found...)
		}
		return urls, nil
	}

	var urls []string
	for _, entry := range root.SelectElements("url") {
		loc := entry.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// buildTree groups listing URLs by leading path segments: first segment
// becomes a top-level node, second segment its child. Product-detail
// URLs and off-host URLs are skipped.
func (s *SitemapStrategy) buildTree(base *url.URL, urls []string) []catmap.NavigationNode {
	type group struct {
		url      string
		children map[string]string // name -> url
		order    []string
	}
	groups := make(map[string]*group)
	var order []string

	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Host != base.Host || sitemapProductRE.MatchString(u.Path) {
			continue
		}
		segments := splitPath(u.Path)
		if len(segments) == 0 || len(segments) > 2 {
			continue
		}

		top := segments[0]
		g, ok := groups[top]
		if !ok {
			g = &group{children: make(map[string]string)}
			groups[top] = g
			order = append(order, top)
		}

		if len(segments) == 1 {
			g.url = raw
		} else {
			child := segments[1]
			if _, ok := g.children[child]; !ok {
				g.children[child] = raw
				g.order = append(g.order, child)
			}
		}
	}

	var tree []catmap.NavigationNode
	for _, top := range order {
		g := groups[top]
		node := catmap.NavigationNode{
			Name:           titleFromSlug(top),
			URL:            g.url,
			SourceStrategy: s.Name(),
			Confidence:     0.4,
		}
		sort.Strings(g.order)
		for _, child := range g.order {
			node.Children = append(node.Children, catmap.NavigationNode{
				Name:           titleFromSlug(child),
				URL:            g.children[child],
				SourceStrategy: s.Name(),
				Confidence:     0.4,
			})
		}
		if node.Validate() != nil {
			continue
		}
		tree = append(tree, node)
	}
	return tree
}

// fetch gets a URL, returning the body only on HTTP 200.
func (s *SitemapStrategy) fetch(ctx context.Context, target string) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, catmap.Errorf(catmap.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

// splitPath returns non-empty path segments.
func splitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// titleFromSlug turns "womens-shoes" into "Womens Shoes".
func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
