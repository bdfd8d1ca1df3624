package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/imgswap"
)

// Ensure LoggingLocator implements imgswap.Locator.
var _ imgswap.Locator = (*LoggingLocator)(nil)

// LoggingLocator wraps a Locator with debug logging.
type LoggingLocator struct {
	next   imgswap.Locator
	logger *slog.Logger
}

// NewLoggingLocator creates a new LoggingLocator.
func NewLoggingLocator(next imgswap.Locator, logger *slog.Logger) *LoggingLocator {
	return &LoggingLocator{next: next, logger: logger}
}

// Locate delegates to the wrapped locator and logs the match count.
func (l *LoggingLocator) Locate(doc *imgswap.Document, query string) (nodes []*imgswap.Node, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("locate",
			"query", query,
			"count", len(nodes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Locate(doc, query)
}
