package html

import (
	"bufio"
	"io"
	"strings"

	"github.com/fwojciec/imgswap"
)

// DefaultIndent is the indentation added per nesting level.
const DefaultIndent = "  "

// Ensure Serializer implements imgswap.Serializer at compile time.
var _ imgswap.Serializer = (*Serializer)(nil)

// Serializer renders imgswap Documents as HTML text.
//
// In the default pretty mode every element, comment, doctype and text run
// starts on its own line, indented by depth. Text is trimmed of
// surrounding ASCII whitespace and whitespace-only text is dropped, so a
// second parse and render reproduces the first rendering byte for byte.
// Raw text and preformatted elements are written inline and untouched.
//
// Compact mode adds no whitespace and keeps every text node, which is the
// closest rendering to the source.
type Serializer struct {
	indent  string
	compact bool
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithIndent sets the per-level indentation for pretty output.
func WithIndent(indent string) SerializerOption {
	return func(s *Serializer) {
		s.indent = indent
	}
}

// WithCompact switches the Serializer to compact output.
func WithCompact() SerializerOption {
	return func(s *Serializer) {
		s.compact = true
	}
}

// NewSerializer creates a new Serializer.
func NewSerializer(opts ...SerializerOption) *Serializer {
	s := &Serializer{indent: DefaultIndent}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize returns the rendering of doc.
func (s *Serializer) Serialize(doc *imgswap.Document) string {
	var b strings.Builder
	_ = s.Render(&b, doc)
	return b.String()
}

// Render writes the rendering of doc to w.
func (s *Serializer) Render(w io.Writer, doc *imgswap.Document) error {
	r := &renderer{w: bufio.NewWriter(w), indent: s.indent}
	if doc != nil {
		for n := doc.Root().FirstChild; n != nil; n = n.NextSibling {
			if s.compact {
				r.compact(n)
			} else {
				r.pretty(n, 0)
			}
		}
	}
	return r.w.Flush()
}

// renderer writes one document. bufio.Writer keeps the first write error
// and reports it from Flush.
type renderer struct {
	w      *bufio.Writer
	indent string

	// stopped is set once <plaintext> is written. Anything after it would
	// read back as its text, so nothing more is written.
	stopped bool
}

func (r *renderer) pretty(n *imgswap.Node, depth int) {
	if r.stopped {
		return
	}
	switch n.Type {
	case imgswap.TextNode:
		text := trimSpace(n.Data)
		if text == "" {
			return
		}
		r.pad(depth)
		r.w.WriteString(escapeText(text))
		r.w.WriteByte('\n')
	case imgswap.CommentNode, imgswap.DoctypeNode:
		r.pad(depth)
		r.compact(n)
		r.w.WriteByte('\n')
	case imgswap.ElementNode:
		r.pad(depth)
		if n.IsVoid() || rawTextElements[n.Data] || preformattedElements[n.Data] {
			r.compact(n)
			if !r.stopped {
				r.w.WriteByte('\n')
			}
			return
		}
		if !hasContent(n) {
			r.openTag(n)
			r.closeTag(n)
			r.w.WriteByte('\n')
			return
		}
		r.openTag(n)
		r.w.WriteByte('\n')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.pretty(c, depth+1)
		}
		if r.stopped {
			return
		}
		r.pad(depth)
		r.closeTag(n)
		r.w.WriteByte('\n')
	}
}

func (r *renderer) compact(n *imgswap.Node) {
	if r.stopped {
		return
	}
	switch n.Type {
	case imgswap.TextNode:
		if p := n.Parent; p != nil && p.Type == imgswap.ElementNode && rawTextElements[p.Data] {
			r.w.WriteString(n.Data)
			return
		}
		r.w.WriteString(escapeText(n.Data))
	case imgswap.CommentNode:
		r.w.WriteString("<!--")
		r.w.WriteString(n.Data)
		r.w.WriteString("-->")
	case imgswap.DoctypeNode:
		r.w.WriteString("<!DOCTYPE")
		if n.Data != "" {
			r.w.WriteByte(' ')
			r.w.WriteString(n.Data)
		}
		r.w.WriteByte('>')
	case imgswap.ElementNode:
		r.openTag(n)
		if n.IsVoid() {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.compact(c)
		}
		if n.Data == "plaintext" {
			r.stopped = true
			return
		}
		if !r.stopped {
			r.closeTag(n)
		}
	}
}

func (r *renderer) openTag(n *imgswap.Node) {
	r.w.WriteByte('<')
	r.w.WriteString(n.Data)
	for _, a := range n.Attrs() {
		r.w.WriteByte(' ')
		r.w.WriteString(a.Key)
		r.w.WriteString(`="`)
		r.w.WriteString(escapeAttr(a.Val))
		r.w.WriteByte('"')
	}
	r.w.WriteByte('>')
}

func (r *renderer) closeTag(n *imgswap.Node) {
	r.w.WriteString("</")
	r.w.WriteString(n.Data)
	r.w.WriteByte('>')
}

func (r *renderer) pad(depth int) {
	for i := 0; i < depth; i++ {
		r.w.WriteString(r.indent)
	}
}

// hasContent reports whether pretty output of n's children is non-empty.
func hasContent(n *imgswap.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != imgswap.TextNode || trimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}
