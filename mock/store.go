package mock

import (
	"context"

	"github.com/fwojciec/imgswap"
)

var _ imgswap.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of imgswap.DocumentStore.
type DocumentStore struct {
	ReadDocumentFn  func(ctx context.Context, path string) (string, error)
	WriteDocumentFn func(ctx context.Context, path string, content string) error
}

func (s *DocumentStore) ReadDocument(ctx context.Context, path string) (string, error) {
	return s.ReadDocumentFn(ctx, path)
}

func (s *DocumentStore) WriteDocument(ctx context.Context, path string, content string) error {
	return s.WriteDocumentFn(ctx, path, content)
}
