package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/imgswap"
	"github.com/fwojciec/imgswap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ imgswap.DocumentStore = &mock.DocumentStore{}
}

func TestDocumentStore_WriteDocument(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteDocumentFn", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotContent string
		s := &mock.DocumentStore{
			WriteDocumentFn: func(_ context.Context, path string, content string) error {
				gotPath, gotContent = path, content
				return nil
			},
		}

		err := s.WriteDocument(context.Background(), "out/page.html", "<p>x</p>")

		require.NoError(t, err)
		assert.Equal(t, "out/page.html", gotPath)
		assert.Equal(t, "<p>x</p>", gotContent)
	})
}
