package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/catmap"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	page, err := deps.Sessions.Acquire(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
		return err
	}
	defer page.Close()

	result, err := deps.Discoverer.Discover(deps.Ctx, page, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(deps.Stdout, "%s: %d items via %q\n",
		c.URL, result.ItemCount, result.StrategyUsed)
	printTree(deps.Stdout, result.Tree, 0)
	return nil
}

// printTree renders the navigation tree with two-space indentation.
func printTree(w io.Writer, nodes []catmap.NavigationNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		if node.URL != "" {
			fmt.Fprintf(w, "%s%s  %s\n", indent, node.Name, node.URL)
		} else {
			fmt.Fprintf(w, "%s%s\n", indent, node.Name)
		}
		printTree(w, node.Children, depth+1)
	}
}
