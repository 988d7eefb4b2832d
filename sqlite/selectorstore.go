package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/catmap"
)

// Compile-time interface verification.
var _ catmap.SelectorStore = (*SelectorStoreService)(nil)

// SelectorStoreService implements catmap.SelectorStore using SQLite.
type SelectorStoreService struct {
	db *DB
}

// NewSelectorStoreService creates a new SelectorStoreService.
func NewSelectorStoreService(db *DB) *SelectorStoreService {
	return &SelectorStoreService{db: db}
}

// Load retrieves the learned selector pattern for a domain.
func (s *SelectorStoreService) Load(ctx context.Context, domain string) (*catmap.SelectorPattern, error) {
	var pattern catmap.SelectorPattern

	err := s.db.QueryRowContext(ctx, `
		SELECT name, container, trigger_selector, dropdown
		FROM selector_patterns
		WHERE domain = ?
	`, domain).Scan(&pattern.Name, &pattern.Container, &pattern.Trigger, &pattern.Dropdown)

	if err == sql.ErrNoRows {
		return nil, catmap.Errorf(catmap.ENOTFOUND, "no selector pattern for domain %q", domain)
	}
	if err != nil {
		return nil, err
	}

	return &pattern, nil
}

// Save stores the pattern for a domain, replacing any previous one.
func (s *SelectorStoreService) Save(ctx context.Context, domain string, pattern catmap.SelectorPattern) error {
	if domain == "" {
		return catmap.Errorf(catmap.EINVALID, "selector pattern domain required")
	}
	if pattern.Name == "" {
		return catmap.Errorf(catmap.EINVALID, "selector pattern name required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO selector_patterns (domain, name, container, trigger_selector, dropdown, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			name = excluded.name,
			container = excluded.container,
			trigger_selector = excluded.trigger_selector,
			dropdown = excluded.dropdown,
			updated_at = excluded.updated_at
	`, domain, pattern.Name, pattern.Container, pattern.Trigger, pattern.Dropdown,
		time.Now().UTC().Format(time.RFC3339))

	return err
}
