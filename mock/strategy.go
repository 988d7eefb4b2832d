package mock

import (
	"context"

	"github.com/fwojciec/catmap"
)

var _ catmap.NavigationStrategy = (*NavigationStrategy)(nil)

// NavigationStrategy is a mock implementation of
// catmap.NavigationStrategy.
type NavigationStrategy struct {
	ExecuteFn  func(ctx context.Context, page catmap.Page, url string) (*catmap.StrategyResult, error)
	NameFn     func() string
	PriorityFn func() int
}

func (s *NavigationStrategy) Execute(ctx context.Context, page catmap.Page, url string) (*catmap.StrategyResult, error) {
	return s.ExecuteFn(ctx, page, url)
}

func (s *NavigationStrategy) Name() string {
	return s.NameFn()
}

func (s *NavigationStrategy) Priority() int {
	if s.PriorityFn == nil {
		return 0
	}
	return s.PriorityFn()
}
