// Package slog provides logging decorators for catmap services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/catmap"
)

// Ensure LoggingCache implements catmap.Cache.
var _ catmap.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging for hits, misses and
// writes.
type LoggingCache struct {
	next   catmap.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next catmap.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache and logs the outcome.
func (c *LoggingCache) Get(ctx context.Context, domain, resource string) ([]byte, bool, error) {
	begin := time.Now()
	value, ok, err := c.next.Get(ctx, domain, resource)
	c.logger.Debug("cache get",
		"domain", domain,
		"resource", resource,
		"hit", ok,
		"bytes", len(value),
		"duration", time.Since(begin),
		"error", err,
	)
	return value, ok, err
}

// Set delegates to the wrapped cache and logs the write.
func (c *LoggingCache) Set(ctx context.Context, domain, resource string, value []byte, ttl time.Duration) error {
	begin := time.Now()
	err := c.next.Set(ctx, domain, resource, value, ttl)
	c.logger.Debug("cache set",
		"domain", domain,
		"resource", resource,
		"bytes", len(value),
		"ttl", ttl,
		"duration", time.Since(begin),
		"error", err,
	)
	return err
}

// Delete delegates to the wrapped cache and logs the removal.
func (c *LoggingCache) Delete(ctx context.Context, domain, resource string) error {
	err := c.next.Delete(ctx, domain, resource)
	c.logger.Debug("cache delete",
		"domain", domain,
		"resource", resource,
		"error", err,
	)
	return err
}
