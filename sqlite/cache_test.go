package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/sqlite"
)

func TestCacheService_SetGet(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	cache := sqlite.NewCacheService(db)
	ctx := context.Background()

	err := cache.Set(ctx, "shop.example.com", catmap.ResourceNavigation, []byte(`{"tree":true}`), time.Hour)
	require.NoError(t, err)

	value, ok, err := cache.Get(ctx, "shop.example.com", catmap.ResourceNavigation)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"tree":true}`), value)
}

func TestCacheService_Get_Missing(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	cache := sqlite.NewCacheService(db)

	_, ok, err := cache.Get(context.Background(), "shop.example.com", catmap.ResourceNavigation)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheService_Get_Expired(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	cache := sqlite.NewCacheService(db)
	ctx := context.Background()

	err := cache.Set(ctx, "shop.example.com", catmap.ResourceNavigation, []byte("stale"), 20*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "shop.example.com", catmap.ResourceNavigation)
	require.NoError(t, err)
	assert.False(t, ok, "expired entries read as absent")
}

func TestCacheService_Set_Replaces(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	cache := sqlite.NewCacheService(db)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "shop.example.com", catmap.ResourceFilters, []byte("first"), time.Hour))
	require.NoError(t, cache.Set(ctx, "shop.example.com", catmap.ResourceFilters, []byte("second"), time.Hour))

	value, ok, err := cache.Get(ctx, "shop.example.com", catmap.ResourceFilters)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("second"), value)
}

func TestCacheService_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	cache := sqlite.NewCacheService(db)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "shop.example.com", catmap.ResourceNavigation, []byte("nav"), time.Hour))
	require.NoError(t, cache.Set(ctx, "shop.example.com", catmap.ResourceFilters, []byte("filters"), time.Hour))
	require.NoError(t, cache.Set(ctx, "other.example.com", catmap.ResourceNavigation, []byte("other"), time.Hour))

	value, ok, err := cache.Get(ctx, "shop.example.com", catmap.ResourceNavigation)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("nav"), value)

	value, ok, err = cache.Get(ctx, "other.example.com", catmap.ResourceNavigation)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("other"), value)
}

func TestCacheService_Delete(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	cache := sqlite.NewCacheService(db)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "shop.example.com", catmap.ResourceNavigation, []byte("nav"), time.Hour))
	require.NoError(t, cache.Delete(ctx, "shop.example.com", catmap.ResourceNavigation))

	_, ok, err := cache.Get(ctx, "shop.example.com", catmap.ResourceNavigation)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent entry is not an error.
	require.NoError(t, cache.Delete(ctx, "shop.example.com", catmap.ResourceNavigation))
}

func TestCacheService_Set_Validation(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	cache := sqlite.NewCacheService(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		domain   string
		resource string
		ttl      time.Duration
	}{
		{name: "missing domain", domain: "", resource: catmap.ResourceNavigation, ttl: time.Hour},
		{name: "missing resource", domain: "shop.example.com", resource: "", ttl: time.Hour},
		{name: "zero ttl", domain: "shop.example.com", resource: catmap.ResourceNavigation, ttl: 0},
		{name: "negative ttl", domain: "shop.example.com", resource: catmap.ResourceNavigation, ttl: -time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cache.Set(ctx, tt.domain, tt.resource, []byte("x"), tt.ttl)
			require.Error(t, err)
			assert.Equal(t, catmap.EINVALID, catmap.ErrorCode(err))
		})
	}
}
