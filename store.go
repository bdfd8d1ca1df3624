package imgswap

import "context"

// DocumentStore reads and writes HTML documents on behalf of a host.
type DocumentStore interface {
	// ReadDocument returns the document at path decoded to UTF-8.
	ReadDocument(ctx context.Context, path string) (string, error)

	// WriteDocument replaces the document at path with content.
	WriteDocument(ctx context.Context, path string, content string) error
}
