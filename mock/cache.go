package mock

import (
	"context"
	"time"

	"github.com/fwojciec/catmap"
)

var _ catmap.Cache = (*Cache)(nil)

// Cache is a mock implementation of catmap.Cache.
type Cache struct {
	GetFn    func(ctx context.Context, domain, resource string) ([]byte, bool, error)
	SetFn    func(ctx context.Context, domain, resource string, value []byte, ttl time.Duration) error
	DeleteFn func(ctx context.Context, domain, resource string) error
}

func (c *Cache) Get(ctx context.Context, domain, resource string) ([]byte, bool, error) {
	return c.GetFn(ctx, domain, resource)
}

func (c *Cache) Set(ctx context.Context, domain, resource string, value []byte, ttl time.Duration) error {
	return c.SetFn(ctx, domain, resource, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, domain, resource string) error {
	if c.DeleteFn == nil {
		return nil
	}
	return c.DeleteFn(ctx, domain, resource)
}

var _ catmap.SelectorStore = (*SelectorStore)(nil)

// SelectorStore is a mock implementation of catmap.SelectorStore.
type SelectorStore struct {
	LoadFn func(ctx context.Context, domain string) (*catmap.SelectorPattern, error)
	SaveFn func(ctx context.Context, domain string, pattern catmap.SelectorPattern) error
}

func (s *SelectorStore) Load(ctx context.Context, domain string) (*catmap.SelectorPattern, error) {
	return s.LoadFn(ctx, domain)
}

func (s *SelectorStore) Save(ctx context.Context, domain string, pattern catmap.SelectorPattern) error {
	return s.SaveFn(ctx, domain, pattern)
}
