package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/catmap"
)

// Ensure LoggingSelectorStore implements catmap.SelectorStore.
var _ catmap.SelectorStore = (*LoggingSelectorStore)(nil)

// LoggingSelectorStore wraps a SelectorStore with debug logging for
// learned pattern reads and writes.
type LoggingSelectorStore struct {
	next   catmap.SelectorStore
	logger *slog.Logger
}

// NewLoggingSelectorStore creates a new LoggingSelectorStore.
func NewLoggingSelectorStore(next catmap.SelectorStore, logger *slog.Logger) *LoggingSelectorStore {
	return &LoggingSelectorStore{next: next, logger: logger}
}

// Load delegates to the wrapped store. A missing pattern logs as a miss
// rather than an error; ENOTFOUND is the expected first-visit outcome.
func (s *LoggingSelectorStore) Load(ctx context.Context, domain string) (*catmap.SelectorPattern, error) {
	pattern, err := s.next.Load(ctx, domain)
	switch {
	case err == nil:
		s.logger.Debug("selector pattern hit", "domain", domain, "pattern", pattern.Name)
	case catmap.ErrorCode(err) == catmap.ENOTFOUND:
		s.logger.Debug("selector pattern miss", "domain", domain)
	default:
		s.logger.Warn("selector pattern load failed", "domain", domain, "error", err)
	}
	return pattern, err
}

// Save delegates to the wrapped store and logs the write.
func (s *LoggingSelectorStore) Save(ctx context.Context, domain string, pattern catmap.SelectorPattern) error {
	err := s.next.Save(ctx, domain, pattern)
	if err != nil {
		s.logger.Warn("selector pattern save failed", "domain", domain, "error", err)
		return err
	}
	s.logger.Debug("selector pattern saved", "domain", domain, "pattern", pattern.Name)
	return nil
}
