package catmap

import "context"

// SelectorPattern is a learned navigation pattern for a site: the
// locator triple the pattern-matching strategy found to work there.
type SelectorPattern struct {
	Name      string `json:"name"`
	Container string `json:"container"`
	Trigger   string `json:"trigger"`
	Dropdown  string `json:"dropdown"`
}

// SelectorStore persists learned selector patterns per domain so the
// pattern-matching strategy can try a site's known-good pattern first on
// later visits. Injected into the strategy so discovery logic stays
// testable without global state.
type SelectorStore interface {
	// Load returns the learned pattern for a domain.
	// Returns ENOTFOUND when no pattern has been saved.
	Load(ctx context.Context, domain string) (*SelectorPattern, error)

	// Save stores the pattern for a domain, replacing any previous one.
	Save(ctx context.Context, domain string, pattern SelectorPattern) error
}
