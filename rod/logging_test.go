package rod_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/mock"
	"github.com/fwojciec/catmap/rod"
)

func TestLoggingSessionSource_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("logs url and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SessionSource{
			AcquireFn: func(ctx context.Context, url string) (catmap.Page, error) {
				return &mock.Page{}, nil
			},
		}

		source := rod.NewLoggingSessionSource(inner, logger)
		page, err := source.Acquire(context.Background(), "https://shop.example.com")

		require.NoError(t, err)
		require.NotNil(t, page)
		output := buf.String()
		assert.Contains(t, output, "acquire")
		assert.Contains(t, output, "url=https://shop.example.com")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs the error and passes it through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SessionSource{
			AcquireFn: func(ctx context.Context, url string) (catmap.Page, error) {
				return nil, catmap.Errorf(catmap.EBLOCKED, "challenge page detected")
			},
		}

		source := rod.NewLoggingSessionSource(inner, logger)
		_, err := source.Acquire(context.Background(), "https://shop.example.com")

		require.Error(t, err)
		assert.Equal(t, catmap.EBLOCKED, catmap.ErrorCode(err))
		assert.Contains(t, buf.String(), "blocked")
	})
}

func TestLoggingSessionSource_Close(t *testing.T) {
	t.Parallel()

	closed := false
	inner := &mock.SessionSource{
		CloseFn: func() error {
			closed = true
			return nil
		},
	}

	source := rod.NewLoggingSessionSource(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, source.Close())
	assert.True(t, closed)
}
