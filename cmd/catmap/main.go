package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/fwojciec/catmap/crawl"
	"github.com/fwojciec/catmap/filter"
	"github.com/fwojciec/catmap/nav"
	"github.com/fwojciec/catmap/rod"
	catslog "github.com/fwojciec/catmap/slog"
	"github.com/fwojciec/catmap/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the cache and selector store.
	DB *sqlite.DB

	// Logger for all services. Defaults to a text handler on stderr.
	Logger *slog.Logger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("catmap"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'catmap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	config, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}

	logger := m.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CATMAP_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Cache = catslog.NewLoggingCache(sqlite.NewCacheService(m.DB), logger)
	deps.Selectors = catslog.NewLoggingSelectorStore(sqlite.NewSelectorStoreService(m.DB), logger)

	// Cache maintenance never needs a browser.
	if cmd == "cache" {
		return kongCtx.Run(deps)
	}

	headful := cli.Discover.Headful || cli.Explore.Headful || cli.Crawl.Headful
	var opts []rod.ManagerOption
	if headful {
		opts = append(opts, rod.WithHeadful())
	}
	manager, err := rod.NewBrowserManager(opts...)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	sessions := rod.NewSessionSource(manager)
	defer sessions.Close()

	deps.Sessions = rod.NewLoggingSessionSource(sessions, logger)
	deps.Discoverer = &nav.Discoverer{
		Orchestrator: buildOrchestrator(deps, config, logger),
		Cache:        deps.Cache,
		BypassCache:  cli.Discover.NoCache,
		Logger:       logger,
	}
	deps.Explorer = buildExplorer(config, logger)

	if cmd == "crawl" {
		rps := cli.Crawl.RPS
		if config.RateLimitRPS > 0 {
			rps = config.RateLimitRPS
		}
		deps.Crawler = &crawl.Crawler{
			Sessions:      deps.Sessions,
			Discoverer:    deps.Discoverer,
			Explorer:      deps.Explorer,
			Cache:         deps.Cache,
			RateLimiter:   crawl.NewDomainLimiter(rps),
			Concurrency:   cli.Crawl.Concurrency,
			MaxCategories: cli.Crawl.MaxCategories,
			Logger:        logger,
		}
	}

	return kongCtx.Run(deps)
}

// buildOrchestrator wires the full strategy set: learned patterns
// first, then live menu interaction, sitemap parsing and the header
// link fallback.
func buildOrchestrator(deps *Dependencies, config *Config, logger *slog.Logger) *nav.Orchestrator {
	orchestrator := nav.NewOrchestrator(
		&nav.PatternMatchStrategy{Store: deps.Selectors, Logger: logger},
		&nav.MegaMenuStrategy{},
		&nav.SitemapStrategy{},
		&nav.FallbackLinkStrategy{},
	)
	orchestrator.Logger = logger
	config.applyScoring(&orchestrator.Scoring)
	return orchestrator
}

// buildExplorer wires the filter engines with config overrides.
func buildExplorer(config *Config, logger *slog.Logger) *filter.ExplorationEngine {
	engine := filter.NewExplorationEngine()
	engine.Logger = logger
	engine.Discovery.Logger = logger
	config.applyWeights(&engine.Discovery.Weights)
	config.applyPacing(&engine.Pacing)
	return engine
}

func defaultDBPath() string {
	if path := os.Getenv("CATMAP_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "catmap.db"
	}
	dir := filepath.Join(home, ".catmap")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "catmap.db")
}
