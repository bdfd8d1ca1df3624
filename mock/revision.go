package mock

import (
	"context"

	"github.com/fwojciec/imgswap"
)

var _ imgswap.RevisionService = (*RevisionService)(nil)

// RevisionService is a mock implementation of imgswap.RevisionService.
type RevisionService struct {
	CreateRevisionFn   func(ctx context.Context, rev *imgswap.Revision) error
	FindRevisionByIDFn func(ctx context.Context, id string) (*imgswap.Revision, error)
	FindRevisionsFn    func(ctx context.Context, filter imgswap.RevisionFilter) ([]*imgswap.Revision, error)
}

func (s *RevisionService) CreateRevision(ctx context.Context, rev *imgswap.Revision) error {
	return s.CreateRevisionFn(ctx, rev)
}

func (s *RevisionService) FindRevisionByID(ctx context.Context, id string) (*imgswap.Revision, error) {
	return s.FindRevisionByIDFn(ctx, id)
}

func (s *RevisionService) FindRevisions(ctx context.Context, filter imgswap.RevisionFilter) ([]*imgswap.Revision, error) {
	return s.FindRevisionsFn(ctx, filter)
}
