package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/imgswap"
)

// Ensure LoggingRevisionService implements imgswap.RevisionService.
var _ imgswap.RevisionService = (*LoggingRevisionService)(nil)

// LoggingRevisionService wraps a RevisionService with logging.
type LoggingRevisionService struct {
	next   imgswap.RevisionService
	logger *slog.Logger
}

// NewLoggingRevisionService creates a new LoggingRevisionService.
func NewLoggingRevisionService(next imgswap.RevisionService, logger *slog.Logger) *LoggingRevisionService {
	return &LoggingRevisionService{next: next, logger: logger}
}

// CreateRevision delegates to the wrapped service and logs the operation.
func (s *LoggingRevisionService) CreateRevision(ctx context.Context, rev *imgswap.Revision) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create revision",
			"name", rev.Name,
			"id", rev.ID,
			"images", rev.ImageCount,
			"edited", rev.EditedCount,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRevision(ctx, rev)
}

// FindRevisionByID delegates to the wrapped service and logs the operation.
func (s *LoggingRevisionService) FindRevisionByID(ctx context.Context, id string) (rev *imgswap.Revision, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find revision",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRevisionByID(ctx, id)
}

// FindRevisions delegates to the wrapped service and logs the operation.
func (s *LoggingRevisionService) FindRevisions(ctx context.Context, filter imgswap.RevisionFilter) (revs []*imgswap.Revision, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find revisions",
			"count", len(revs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRevisions(ctx, filter)
}
