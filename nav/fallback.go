package nav

import (
	"context"

	"github.com/fwojciec/catmap"
	gq "github.com/fwojciec/catmap/goquery"
)

var _ catmap.NavigationStrategy = (*FallbackLinkStrategy)(nil)

// FallbackLinkStrategy harvests every link within the page's header
// region and returns a flat, single-level tree. It never interacts with
// the page, so it acts as the safety net when interactive pattern
// matching finds zero items.
type FallbackLinkStrategy struct{}

// Name returns the strategy identifier.
func (s *FallbackLinkStrategy) Name() string { return "fallback" }

// Priority orders the strategy in tie-breaks. The fallback ranks last.
func (s *FallbackLinkStrategy) Priority() int { return 9 }

// Execute reads the rendered HTML and harvests header-region links,
// excluding known non-navigational paths (account, cart, search).
func (s *FallbackLinkStrategy) Execute(ctx context.Context, page catmap.Page, pageURL string) (*catmap.StrategyResult, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	nodes, err := gq.HarvestHeaderLinks(html, pageURL)
	if err != nil {
		return nil, err
	}

	for i := range nodes {
		nodes[i].SourceStrategy = s.Name()
		nodes[i].Confidence = 0.3
	}

	return &catmap.StrategyResult{
		Tree:       nodes,
		Confidence: 0.3,
	}, nil
}
