package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/catmap"
)

// Run executes the "cache show" command.
func (c *CacheShowCmd) Run(deps *Dependencies) error {
	value, ok, err := deps.Cache.Get(deps.Ctx, c.Domain, c.Resource)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
		return err
	}
	if !ok {
		return fmt.Errorf("no cached %s entry for %q", c.Resource, c.Domain)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, value, "", "  "); err != nil {
		// Not JSON; print as-is.
		fmt.Fprintln(deps.Stdout, string(value))
		return nil
	}
	fmt.Fprintln(deps.Stdout, pretty.String())
	return nil
}

// Run executes the "cache clear" command.
func (c *CacheClearCmd) Run(deps *Dependencies) error {
	resources := []string{catmap.ResourceNavigation, catmap.ResourceFilters}
	if c.Resource != "" {
		resources = []string{c.Resource}
	}

	for _, resource := range resources {
		if err := deps.Cache.Delete(deps.Ctx, c.Domain, resource); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
			return err
		}
	}
	fmt.Fprintf(deps.Stdout, "Cleared cached entries for %q\n", c.Domain)
	return nil
}
