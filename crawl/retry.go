package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/catmap"
)

// DefaultRetryDelays returns the backoff delays for blocked session
// retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// AcquireWithRetry acquires a page, retrying with backoff when the
// target challenges the session. Only EBLOCKED is retried; any other
// acquisition failure returns immediately. A challenge that persists
// through every delay returns the last EBLOCKED error.
func AcquireWithRetry(ctx context.Context, source catmap.SessionSource, url string, delays []time.Duration, logger *slog.Logger) (catmap.Page, error) {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := source.Acquire(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if catmap.ErrorCode(err) != catmap.EBLOCKED {
			return nil, err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Warn("session blocked, retrying",
				"url", url,
				"attempt", attempt+2,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
