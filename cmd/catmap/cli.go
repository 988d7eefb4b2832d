package main

import (
	"context"
	"io"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/crawl"
	"github.com/fwojciec/catmap/filter"
	"github.com/fwojciec/catmap/nav"
	"github.com/fwojciec/catmap/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	DB        *sqlite.DB
	Cache     catmap.Cache
	Selectors catmap.SelectorStore

	Sessions   catmap.SessionSource
	Discoverer *nav.Discoverer
	Explorer   *filter.ExplorationEngine
	Crawler    *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"C" type:"path" help:"Path to a YAML config file with weights and pacing"`

	Discover DiscoverCmd `cmd:"" help:"Extract a site's category navigation"`
	Explore  ExploreCmd  `cmd:"" help:"Discover and exercise filters on a category page"`
	Crawl    CrawlCmd    `cmd:"" help:"Walk the full catalog: navigation plus filters per category"`
	Cache    CacheCmd    `cmd:"" help:"Inspect or clear cached discovery results"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL     string `arg:"" help:"Storefront URL"`
	NoCache bool   `help:"Skip the navigation cache and orchestrate fresh"`
	JSON    bool   `help:"Emit the navigation tree as JSON"`
	Headful bool   `help:"Run the browser with a visible window"`
}

// ExploreCmd is the "explore" subcommand.
type ExploreCmd struct {
	URL          string `arg:"" help:"Category page URL"`
	Label        string `short:"l" help:"Category label for the report"`
	MaxFilters   int    `default:"20" help:"Cap on filters exercised per category"`
	Combinations bool   `help:"Also explore pairs of cleanly reverted filters"`
	JSON         bool   `help:"Emit the exploration result as JSON"`
	Headful      bool   `help:"Run the browser with a visible window"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL           string  `arg:"" help:"Storefront URL"`
	MaxCategories int     `default:"50" help:"Cap on categories explored"`
	Concurrency   int     `short:"c" default:"3" help:"Concurrent category limit"`
	RPS           float64 `default:"1.0" help:"Per-domain requests per second"`
	Out           string  `short:"o" type:"path" help:"Directory to write the report JSON to"`
	JSON          bool    `help:"Emit the catalog report as JSON"`
	Headful       bool    `help:"Run the browser with a visible window"`
}

// CacheCmd groups the cache maintenance subcommands.
type CacheCmd struct {
	Show  CacheShowCmd  `cmd:"" help:"Show a cached entry for a domain"`
	Clear CacheClearCmd `cmd:"" help:"Remove cached entries for a domain"`
}

// CacheShowCmd is the "cache show" subcommand.
type CacheShowCmd struct {
	Domain   string `arg:"" help:"Registrable domain, e.g. example.com"`
	Resource string `default:"navigation" enum:"navigation,filters" help:"Entry type"`
}

// CacheClearCmd is the "cache clear" subcommand.
type CacheClearCmd struct {
	Domain   string `arg:"" help:"Registrable domain, e.g. example.com"`
	Resource string `default:"" help:"Entry type to remove; empty removes both"`
}
