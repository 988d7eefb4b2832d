package nav_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/mock"
	"github.com/fwojciec/catmap/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverer_CacheHitSkipsOrchestration(t *testing.T) {
	t.Parallel()

	cached := catmap.NavigationResult{
		Tree:         flatTree(5),
		StrategyUsed: "pattern",
		ItemCount:    5,
	}
	value, err := json.Marshal(cached)
	require.NoError(t, err)

	executed := false
	d := &nav.Discoverer{
		Orchestrator: nav.NewOrchestrator(&mock.NavigationStrategy{
			NameFn: func() string { return "pattern" },
			ExecuteFn: func(context.Context, catmap.Page, string) (*catmap.StrategyResult, error) {
				executed = true
				return &catmap.StrategyResult{Tree: flatTree(5), Confidence: 0.9}, nil
			},
		}),
		Cache: &mock.Cache{
			GetFn: func(_ context.Context, domain, resource string) ([]byte, bool, error) {
				assert.Equal(t, "example.com", domain)
				assert.Equal(t, catmap.ResourceNavigation, resource)
				return value, true, nil
			},
		},
	}

	result, err := d.Discover(context.Background(), &mock.Page{}, "https://www.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "pattern", result.StrategyUsed)
	assert.False(t, executed, "cache hit must not orchestrate")
}

func TestDiscoverer_ExpiredEntryOrchestratesFresh(t *testing.T) {
	t.Parallel()

	// The cache reports an expired entry as absent.
	var wrote []byte
	d := &nav.Discoverer{
		Orchestrator: nav.NewOrchestrator(fixedStrategy("pattern", flatTree(10), 0.9, 0)),
		Cache: &mock.Cache{
			GetFn: func(context.Context, string, string) ([]byte, bool, error) {
				return nil, false, nil
			},
			SetFn: func(_ context.Context, _, _ string, value []byte, ttl time.Duration) error {
				wrote = value
				assert.Equal(t, nav.DefaultCacheTTL, ttl)
				return nil
			},
		},
	}

	result, err := d.Discover(context.Background(), &mock.Page{}, "https://www.example.com/")
	require.NoError(t, err)
	assert.Equal(t, 10, result.ItemCount)
	require.NotNil(t, wrote, "fresh result should be cached")
}

func TestDiscoverer_BypassNeverConsultsCache(t *testing.T) {
	t.Parallel()

	d := &nav.Discoverer{
		Orchestrator: nav.NewOrchestrator(fixedStrategy("pattern", flatTree(10), 0.9, 0)),
		BypassCache:  true,
		Cache: &mock.Cache{
			GetFn: func(context.Context, string, string) ([]byte, bool, error) {
				t.Fatal("bypass read must never consult the cache")
				return nil, false, nil
			},
			SetFn: func(context.Context, string, string, []byte, time.Duration) error {
				return nil
			},
		},
	}

	_, err := d.Discover(context.Background(), &mock.Page{}, "https://www.example.com/")
	require.NoError(t, err)
}

func TestDiscoverer_DegenerateResultNotCached(t *testing.T) {
	t.Parallel()

	d := &nav.Discoverer{
		Orchestrator: nav.NewOrchestrator(fixedStrategy("pattern", flatTree(2), 0.9, 0)),
		Cache: &mock.Cache{
			GetFn: func(context.Context, string, string) ([]byte, bool, error) {
				return nil, false, nil
			},
			SetFn: func(context.Context, string, string, []byte, time.Duration) error {
				t.Fatal("results below the item threshold must not be cached")
				return nil
			},
		},
		MinItemsToCache: 3,
	}

	result, err := d.Discover(context.Background(), &mock.Page{}, "https://www.example.com/")
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemCount)
}

func TestDiscoverer_CorruptCacheEntryIgnored(t *testing.T) {
	t.Parallel()

	d := &nav.Discoverer{
		Orchestrator: nav.NewOrchestrator(fixedStrategy("pattern", flatTree(10), 0.9, 0)),
		Cache: &mock.Cache{
			GetFn: func(context.Context, string, string) ([]byte, bool, error) {
				return []byte("{not json"), true, nil
			},
			SetFn: func(context.Context, string, string, []byte, time.Duration) error {
				return nil
			},
		},
	}

	result, err := d.Discover(context.Background(), &mock.Page{}, "https://www.example.com/")
	require.NoError(t, err)
	assert.Equal(t, 10, result.ItemCount)
}
