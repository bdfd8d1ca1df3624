package imgswap

import "io"

// Parser converts HTML text into a Document.
type Parser interface {
	// Parse builds a Document from text. Malformed markup is tolerated;
	// only EPARSE and EDEPTH are reported.
	Parse(text string) (*Document, error)
}

// Serializer renders a Document back to HTML text.
type Serializer interface {
	// Serialize returns the rendering of doc. The same tree always
	// renders to the same bytes.
	Serialize(doc *Document) string

	// Render writes the rendering of doc to w.
	Render(w io.Writer, doc *Document) error
}
