package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/catmap"
	main "github.com/fwojciec/catmap/cmd/catmap"
	"github.com/fwojciec/catmap/mock"
	"github.com/fwojciec/catmap/nav"
)

func testDeps(t *testing.T, strategy catmap.NavigationStrategy) (*main.Dependencies, *bytes.Buffer) {
	t.Helper()

	stdout := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: &bytes.Buffer{},
		Sessions: &mock.SessionSource{
			AcquireFn: func(ctx context.Context, url string) (catmap.Page, error) {
				return &mock.Page{}, nil
			},
		},
		Discoverer: &nav.Discoverer{Orchestrator: nav.NewOrchestrator(strategy)},
	}, stdout
}

func navStrategy(tree []catmap.NavigationNode) *mock.NavigationStrategy {
	return &mock.NavigationStrategy{
		NameFn:     func() string { return "megamenu" },
		PriorityFn: func() int { return 2 },
		ExecuteFn: func(ctx context.Context, page catmap.Page, url string) (*catmap.StrategyResult, error) {
			return &catmap.StrategyResult{
				StrategyName: "megamenu",
				Tree:         tree,
				ItemCount:    len(tree) + 1,
				Confidence:   0.8,
			}, nil
		},
	}
}

func TestDiscoverCmd_Run(t *testing.T) {
	t.Parallel()

	tree := []catmap.NavigationNode{
		{
			Name:       "Shoes",
			URL:        "https://shop.example.com/c/shoes",
			Confidence: 0.8,
			Children: []catmap.NavigationNode{
				{Name: "Running", URL: "https://shop.example.com/c/shoes/running", Confidence: 0.8},
			},
		},
	}

	deps, stdout := testDeps(t, navStrategy(tree))

	cmd := &main.DiscoverCmd{URL: "https://shop.example.com"}
	require.NoError(t, cmd.Run(deps))

	output := stdout.String()
	assert.Contains(t, output, `https://shop.example.com: 2 items via "megamenu"`)
	assert.Contains(t, output, "Shoes  https://shop.example.com/c/shoes\n")
	assert.Contains(t, output, "  Running  https://shop.example.com/c/shoes/running\n")
}

func TestDiscoverCmd_Run_JSON(t *testing.T) {
	t.Parallel()

	tree := []catmap.NavigationNode{
		{Name: "Shoes", URL: "https://shop.example.com/c/shoes", Confidence: 0.8},
	}

	deps, stdout := testDeps(t, navStrategy(tree))

	cmd := &main.DiscoverCmd{URL: "https://shop.example.com", JSON: true}
	require.NoError(t, cmd.Run(deps))

	var result catmap.NavigationResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, "megamenu", result.StrategyUsed)
	require.Len(t, result.Tree, 1)
	assert.Equal(t, "Shoes", result.Tree[0].Name)
}

func TestDiscoverCmd_Run_NoNavigation(t *testing.T) {
	t.Parallel()

	strategy := &mock.NavigationStrategy{
		NameFn:     func() string { return "megamenu" },
		PriorityFn: func() int { return 2 },
		ExecuteFn: func(ctx context.Context, page catmap.Page, url string) (*catmap.StrategyResult, error) {
			return &catmap.StrategyResult{StrategyName: "megamenu"}, nil
		},
	}

	deps, _ := testDeps(t, strategy)

	cmd := &main.DiscoverCmd{URL: "https://shop.example.com"}
	err := cmd.Run(deps)
	require.Error(t, err)
	assert.Equal(t, catmap.ENONAV, catmap.ErrorCode(err))
}
