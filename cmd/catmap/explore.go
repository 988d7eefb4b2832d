package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/catmap"
)

// Run executes the explore command.
func (c *ExploreCmd) Run(deps *Dependencies) error {
	deps.Explorer.MaxFilters = c.MaxFilters
	deps.Explorer.Combinations = c.Combinations

	page, err := deps.Sessions.Acquire(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
		return err
	}
	defer page.Close()

	label := c.Label
	if label == "" {
		label = c.URL
	}

	result, err := deps.Explorer.Explore(deps.Ctx, page, c.URL, label)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(deps.Stdout, "%s: %d candidates, %d activated, %d unique products\n",
		label,
		result.Stats.CandidatesDiscovered,
		result.Stats.FiltersActive,
		result.Stats.UniqueProducts,
	)
	if result.PartiallyUnreliable {
		fmt.Fprintln(deps.Stdout, "warning: a filter stuck active; later captures may overlap")
	}
	for _, outcome := range result.FilterOutcomes {
		mark := "✓"
		if outcome.FinalState.Terminal() && outcome.FinalState != catmap.FilterReverted {
			mark = "✗"
		}
		fmt.Fprintf(deps.Stdout, "  %s %s [%s] %s: %d products\n",
			mark, outcome.Candidate.Label, outcome.Candidate.Type,
			outcome.FinalState, len(outcome.ProductsCaptured))
		if outcome.Err != nil {
			fmt.Fprintf(deps.Stdout, "      %s\n", catmap.ErrorMessage(outcome.Err))
		}
	}
	return nil
}
