package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/mock"
	catslog "github.com/fwojciec/catmap/slog"
)

func TestLoggingSelectorStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("logs hit with pattern name", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SelectorStore{
			LoadFn: func(ctx context.Context, domain string) (*catmap.SelectorPattern, error) {
				return &catmap.SelectorPattern{Name: "shopify-dawn"}, nil
			},
		}

		store := catslog.NewLoggingSelectorStore(inner, newDebugLogger(&buf))
		pattern, err := store.Load(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, "shopify-dawn", pattern.Name)
		output := buf.String()
		assert.Contains(t, output, "selector pattern hit")
		assert.Contains(t, output, "pattern=shopify-dawn")
	})

	t.Run("logs first visit as miss", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SelectorStore{
			LoadFn: func(ctx context.Context, domain string) (*catmap.SelectorPattern, error) {
				return nil, catmap.Errorf(catmap.ENOTFOUND, "no pattern for example.com")
			},
		}

		store := catslog.NewLoggingSelectorStore(inner, newDebugLogger(&buf))
		_, err := store.Load(context.Background(), "example.com")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "selector pattern miss")
		assert.NotContains(t, output, "WARN")
	})

	t.Run("logs unexpected failures as warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SelectorStore{
			LoadFn: func(ctx context.Context, domain string) (*catmap.SelectorPattern, error) {
				return nil, catmap.Errorf(catmap.EINTERNAL, "database locked")
			},
		}

		store := catslog.NewLoggingSelectorStore(inner, newDebugLogger(&buf))
		_, err := store.Load(context.Background(), "example.com")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "WARN")
		assert.Contains(t, output, "selector pattern load failed")
	})
}

func TestLoggingSelectorStore_Save(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.SelectorStore{
		SaveFn: func(ctx context.Context, domain string, pattern catmap.SelectorPattern) error {
			return nil
		},
	}

	store := catslog.NewLoggingSelectorStore(inner, newDebugLogger(&buf))
	err := store.Save(context.Background(), "example.com", catmap.SelectorPattern{Name: "woocommerce"})

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "selector pattern saved")
	assert.Contains(t, output, "pattern=woocommerce")
}
