package crawl

import (
	"fmt"
	"strings"
	"time"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// Summary renders the report as human-readable lines for CLI output.
func (r *CatalogReport) Summary() string {
	var b strings.Builder

	strategy := ""
	if r.Navigation != nil {
		strategy = r.Navigation.StrategyUsed
	}
	fmt.Fprintf(&b, "%s (strategy: %s)\n", r.SiteURL, strategy)
	fmt.Fprintf(&b, "categories: %d explored, %d failed of %d planned\n",
		r.Stats.CategoriesExplored, r.Stats.CategoriesFailed, r.Stats.CategoriesPlanned)
	fmt.Fprintf(&b, "unique products: %d in %s\n", r.Stats.UniqueProducts, r.Stats.Duration.Round(time.Millisecond))

	for _, cat := range r.Categories {
		if cat.Err != nil {
			fmt.Fprintf(&b, "  ✗ [%s] %s: %v\n", cat.Kind, cat.Label, cat.Err)
			continue
		}
		fmt.Fprintf(&b, "  ✓ [%s] %s: %d products, %d filters active (%s)\n",
			cat.Kind, cat.Label,
			len(cat.Result.UniqueProducts),
			cat.Result.Stats.FiltersActive,
			TruncateURL(cat.URL, 60),
		)
	}

	return b.String()
}
