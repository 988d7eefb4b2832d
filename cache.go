package catmap

import (
	"context"
	"time"
)

// Cache resource types.
const (
	ResourceNavigation = "navigation"
	ResourceFilters    = "filters"
)

// Cache is a domain-keyed key-value store with per-entry TTL, used to
// persist winning navigation results and discovered filter maps.
//
// Reads honor TTL: an expired entry is reported as absent. Callers that
// want to skip the cache entirely (bypass) simply do not consult it;
// bypass is a caller-level flag, not a cache mode.
type Cache interface {
	// Get returns the value stored for (domain, resource).
	// The bool result is false when the entry is absent or expired.
	Get(ctx context.Context, domain, resource string) ([]byte, bool, error)

	// Set stores the value for (domain, resource) with the given TTL.
	Set(ctx context.Context, domain, resource string, value []byte, ttl time.Duration) error

	// Delete removes the entry for (domain, resource).
	Delete(ctx context.Context, domain, resource string) error
}
