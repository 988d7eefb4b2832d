package filter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/filter"
	"github.com/fwojciec/catmap/mock"
)

const discoveryHTML = `<html><body>
<aside class="sidebar-filters">
	<fieldset>
		<legend>Size</legend>
		<input type="checkbox" id="size-s"><label for="size-s">Small (14)</label>
		<input type="checkbox" id="size-m" checked><label for="size-m">Medium (9)</label>
	</fieldset>
	<a id="brand-acme" href="/c/shoes?brand=acme">Acme (22)</a>
</aside>
<main>
	<a href="/products/runner-one">Runner One</a>
	<a href="/products/runner-two">Runner Two</a>
</main>
<nav class="pagination">
	<a href="/c/shoes?page=2&amp;size=24">2</a>
	<a href="/c/shoes?page=3&amp;size=24">Next</a>
</nav>
</body></html>`

func TestDiscoveryEngine_Discover(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		HTMLFn: func(context.Context) (string, error) { return discoveryHTML, nil },
	}

	engine := filter.NewDiscoveryEngine()
	result, err := engine.Discover(context.Background(), page, "https://shop.example.com/c/shoes")
	require.NoError(t, err)

	labels := make([]string, len(result.Candidates))
	for i, cand := range result.Candidates {
		labels[i] = cand.Label
	}
	assert.ElementsMatch(t, []string{"Small (14)", "Medium (9)", "Acme (22)"}, labels)

	for _, cand := range result.Candidates {
		assert.NoError(t, cand.Validate())
		assert.GreaterOrEqual(t, cand.Score, filter.DefaultScoreWeights().Threshold)
		switch cand.Label {
		case "Medium (9)":
			assert.Equal(t, catmap.FilterActive, cand.State, "checked input should surface as already active")
			assert.Equal(t, catmap.ElementCheckbox, cand.Type)
		case "Small (14)":
			assert.Equal(t, catmap.FilterDiscovered, cand.State)
			assert.Equal(t, "Size", cand.ContainerHint)
		case "Acme (22)":
			assert.Equal(t, catmap.ElementLink, cand.Type)
		}
	}

	assert.Equal(t, 3, result.Stats.CandidatesFound)
	assert.Greater(t, result.Stats.ElementsScanned, 3, "pagination links are scanned even though they are rejected")
	assert.Greater(t, result.Stats.CandidatesRejected, 0)
}

func TestDiscoveryEngine_Discover_Deterministic(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		HTMLFn: func(context.Context) (string, error) { return discoveryHTML, nil },
	}

	engine := filter.NewDiscoveryEngine()
	first, err := engine.Discover(context.Background(), page, "https://shop.example.com/c/shoes")
	require.NoError(t, err)
	second, err := engine.Discover(context.Background(), page, "https://shop.example.com/c/shoes")
	require.NoError(t, err)

	assert.Equal(t, first.Candidates, second.Candidates)
}

func TestDiscoveryEngine_Discover_OrderedByScore(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		HTMLFn: func(context.Context) (string, error) { return discoveryHTML, nil },
	}

	engine := filter.NewDiscoveryEngine()
	result, err := engine.Discover(context.Background(), page, "https://shop.example.com/c/shoes")
	require.NoError(t, err)
	require.NotEmpty(t, result.Candidates)

	for i := 1; i < len(result.Candidates); i++ {
		prev, cur := result.Candidates[i-1], result.Candidates[i]
		ordered := prev.Score > cur.Score ||
			(prev.Score == cur.Score && prev.Locator < cur.Locator)
		assert.True(t, ordered, "candidate %d out of order", i)
	}
}

func TestDiscoveryEngine_Discover_NoControls(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		HTMLFn: func(context.Context) (string, error) {
			return `<html><body><main><a href="/products/one">One</a></main></body></html>`, nil
		},
	}

	engine := filter.NewDiscoveryEngine()
	result, err := engine.Discover(context.Background(), page, "https://shop.example.com/c/shoes")
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 0, result.Stats.CandidatesFound)
}

func TestDiscoveryEngine_Discover_HTMLError(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		HTMLFn: func(context.Context) (string, error) {
			return "", catmap.Errorf(catmap.ETIMEOUT, "render timed out")
		},
	}

	engine := filter.NewDiscoveryEngine()
	_, err := engine.Discover(context.Background(), page, "https://shop.example.com/c/shoes")
	require.Error(t, err)
	assert.Equal(t, catmap.ETIMEOUT, catmap.ErrorCode(err))
}
