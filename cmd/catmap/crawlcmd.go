package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	report, err := deps.Crawler.CrawlSite(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
		return err
	}

	if c.Out != "" {
		path, err := fs.NewReportStore(c.Out).Save(report)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", catmap.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Report written to %s\n", path)
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprint(deps.Stdout, report.Summary())
	return nil
}
