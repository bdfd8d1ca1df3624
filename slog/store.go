package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/imgswap"
)

// Ensure LoggingDocumentStore implements imgswap.DocumentStore.
var _ imgswap.DocumentStore = (*LoggingDocumentStore)(nil)

// LoggingDocumentStore wraps a DocumentStore with logging.
type LoggingDocumentStore struct {
	next   imgswap.DocumentStore
	logger *slog.Logger
}

// NewLoggingDocumentStore creates a new LoggingDocumentStore.
func NewLoggingDocumentStore(next imgswap.DocumentStore, logger *slog.Logger) *LoggingDocumentStore {
	return &LoggingDocumentStore{next: next, logger: logger}
}

// ReadDocument delegates to the wrapped store and logs the operation.
func (s *LoggingDocumentStore) ReadDocument(ctx context.Context, path string) (content string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("read document",
			"path", path,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReadDocument(ctx, path)
}

// WriteDocument delegates to the wrapped store and logs the operation.
func (s *LoggingDocumentStore) WriteDocument(ctx context.Context, path string, content string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("write document",
			"path", path,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteDocument(ctx, path, content)
}
