package mock

import "github.com/fwojciec/imgswap"

var _ imgswap.Locator = (*Locator)(nil)

// Locator is a mock implementation of imgswap.Locator.
type Locator struct {
	LocateFn func(doc *imgswap.Document, query string) ([]*imgswap.Node, error)
}

func (l *Locator) Locate(doc *imgswap.Document, query string) ([]*imgswap.Node, error) {
	return l.LocateFn(doc, query)
}
