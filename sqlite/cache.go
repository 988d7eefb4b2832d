package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/catmap"
)

// Compile-time interface verification.
var _ catmap.Cache = (*CacheService)(nil)

// CacheService implements catmap.Cache using SQLite.
type CacheService struct {
	db *DB
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *DB) *CacheService {
	return &CacheService{db: db}
}

// Get retrieves the value stored for (domain, resource). An expired
// entry is reported as absent and removed.
func (s *CacheService) Get(ctx context.Context, domain, resource string) ([]byte, bool, error) {
	var value []byte
	var expiresAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT value, expires_at
		FROM cache_entries
		WHERE domain = ? AND resource = ?
	`, domain, resource).Scan(&value, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expiry, err := parseRFC3339(expiresAt, "expires_at")
	if err != nil {
		return nil, false, err
	}
	if !time.Now().UTC().Before(expiry) {
		// Lazy expiry: the stale row is cleared on read rather than by
		// a background sweeper.
		_, _ = s.db.ExecContext(ctx, `
			DELETE FROM cache_entries WHERE domain = ? AND resource = ?
		`, domain, resource)
		return nil, false, nil
	}

	return value, true, nil
}

// Set stores the value for (domain, resource) with the given TTL,
// replacing any previous entry.
func (s *CacheService) Set(ctx context.Context, domain, resource string, value []byte, ttl time.Duration) error {
	if domain == "" {
		return catmap.Errorf(catmap.EINVALID, "cache domain required")
	}
	if resource == "" {
		return catmap.Errorf(catmap.EINVALID, "cache resource required")
	}
	if ttl <= 0 {
		return catmap.Errorf(catmap.EINVALID, "cache ttl must be positive")
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (domain, resource, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(domain, resource) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, domain, resource, value,
		now.Add(ttl).Format(time.RFC3339Nano), now.Format(time.RFC3339))

	return err
}

// Delete removes the entry for (domain, resource).
func (s *CacheService) Delete(ctx context.Context, domain, resource string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE domain = ? AND resource = ?
	`, domain, resource)
	return err
}
