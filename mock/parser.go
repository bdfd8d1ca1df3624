package mock

import (
	"io"

	"github.com/fwojciec/imgswap"
)

var _ imgswap.Parser = (*Parser)(nil)

// Parser is a mock implementation of imgswap.Parser.
type Parser struct {
	ParseFn func(text string) (*imgswap.Document, error)
}

func (p *Parser) Parse(text string) (*imgswap.Document, error) {
	return p.ParseFn(text)
}

var _ imgswap.Serializer = (*Serializer)(nil)

// Serializer is a mock implementation of imgswap.Serializer.
type Serializer struct {
	SerializeFn func(doc *imgswap.Document) string
	RenderFn    func(w io.Writer, doc *imgswap.Document) error
}

func (s *Serializer) Serialize(doc *imgswap.Document) string {
	return s.SerializeFn(doc)
}

func (s *Serializer) Render(w io.Writer, doc *imgswap.Document) error {
	return s.RenderFn(w, doc)
}
