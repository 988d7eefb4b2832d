package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/catmap"
)

// Ensure LoggingSessionSource implements catmap.SessionSource.
var _ catmap.SessionSource = (*LoggingSessionSource)(nil)

// LoggingSessionSource wraps a SessionSource with debug logging.
type LoggingSessionSource struct {
	next   catmap.SessionSource
	logger *slog.Logger
}

// NewLoggingSessionSource creates a new LoggingSessionSource.
func NewLoggingSessionSource(next catmap.SessionSource, logger *slog.Logger) *LoggingSessionSource {
	return &LoggingSessionSource{next: next, logger: logger}
}

// Acquire logs the URL being acquired and delegates to the wrapped source.
func (s *LoggingSessionSource) Acquire(ctx context.Context, url string) (page catmap.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Info("acquire",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Acquire(ctx, url)
}

// Close delegates to the wrapped source.
func (s *LoggingSessionSource) Close() error {
	return s.next.Close()
}
