// Package html implements imgswap.Parser and imgswap.Serializer on top of
// the golang.org/x/net/html tokenizer.
//
// The parser does not run the HTML5 tree construction algorithm. It builds
// a tree that stays as close to the source as possible: no implied html,
// head or body elements, inter-tag whitespace kept as text, and only a
// small table of implied end tags for common malformed markup.
package html

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/imgswap"
	"golang.org/x/net/html"
)

// DefaultMaxDepth is the default limit on element nesting.
const DefaultMaxDepth = 512

// Ensure Parser implements imgswap.Parser at compile time.
var _ imgswap.Parser = (*Parser)(nil)

// Parser builds imgswap Documents from HTML text.
type Parser struct {
	maxDepth int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithMaxDepth sets the maximum element nesting depth.
// Values below 1 keep DefaultMaxDepth.
func WithMaxDepth(n int) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds a Document from text in a single pass over its tokens.
//
// Duplicate attributes keep their first occurrence. Stray end tags are
// dropped, an end tag closes every element opened after its match, and
// elements left open at the end of input are closed implicitly.
func (p *Parser) Parse(text string) (*imgswap.Document, error) {
	if !utf8.ValidString(text) {
		return nil, imgswap.Errorf(imgswap.EPARSE, "input is not valid UTF-8")
	}

	b := &builder{
		z:        html.NewTokenizer(strings.NewReader(text)),
		doc:      imgswap.NewDocument(),
		maxDepth: p.maxDepth,
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.doc, nil
}

// builder holds the state of one Parse call.
type builder struct {
	z   *html.Tokenizer
	doc *imgswap.Document

	// oe is the stack of open elements.
	oe       []*imgswap.Node
	maxDepth int
}

func (b *builder) build() error {
	for {
		tt := b.z.Next()
		if tt == html.ErrorToken {
			if err := b.z.Err(); err != io.EOF {
				return imgswap.Errorf(imgswap.EPARSE, "tokenize: %v", err)
			}
			return nil
		}

		tok := b.z.Token()
		switch tt {
		case html.TextToken:
			b.addText(tok.Data)
		case html.StartTagToken:
			if err := b.addElement(tok, false); err != nil {
				return err
			}
		case html.SelfClosingTagToken:
			if err := b.addElement(tok, true); err != nil {
				return err
			}
		case html.EndTagToken:
			b.closeElement(tok.Data)
		case html.CommentToken:
			b.top().AppendChild(imgswap.NewComment(tok.Data))
		case html.DoctypeToken:
			b.top().AppendChild(imgswap.NewDoctype(strings.TrimSpace(tok.Data)))
		}
	}
}

func (b *builder) top() *imgswap.Node {
	if len(b.oe) == 0 {
		return b.doc.Root()
	}
	return b.oe[len(b.oe)-1]
}

// addText appends to the preceding text node when there is one, so the
// tokenizer's chunking never shows up in the tree.
func (b *builder) addText(text string) {
	if text == "" {
		return
	}
	t := b.top()
	if last := t.LastChild; last != nil && last.Type == imgswap.TextNode {
		last.Data += text
		return
	}
	t.AppendChild(imgswap.NewText(text))
}

// addElement appends an element for the current start tag and pushes it
// onto the open-element stack unless it cannot have children.
func (b *builder) addElement(tok html.Token, selfClosing bool) error {
	b.implyEndTags(tok.Data)

	if len(b.oe)+1 > b.maxDepth {
		return imgswap.Errorf(imgswap.EDEPTH, "element <%s> nested deeper than %d", tok.Data, b.maxDepth)
	}

	attrs := make([]imgswap.Attribute, 0, len(tok.Attr))
	for _, a := range tok.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		attrs = append(attrs, imgswap.Attribute{Key: key, Val: a.Val})
	}
	n := imgswap.NewElement(tok.Data, attrs...)
	b.top().AppendChild(n)

	switch {
	case n.IsVoid():
		return nil
	case selfClosing && !rawTextElements[n.Data] && !escapableRawTextElements[n.Data]:
		// <div/> is an empty element. Raw text tags stay open because the
		// tokenizer reads their content as text regardless of the slash.
		return nil
	}
	b.oe = append(b.oe, n)
	return nil
}

// closeElement pops the stack up to and including the nearest open element
// named tag. End tags with no open match are ignored.
func (b *builder) closeElement(tag string) {
	for i := len(b.oe) - 1; i >= 0; i-- {
		if b.oe[i].Data == tag {
			b.oe = b.oe[:i]
			return
		}
	}
}

// popIfTop pops the current element when its tag is one of tags.
func (b *builder) popIfTop(tags ...string) {
	if len(b.oe) == 0 {
		return
	}
	cur := b.oe[len(b.oe)-1].Data
	for _, tag := range tags {
		if cur == tag {
			b.oe = b.oe[:len(b.oe)-1]
			return
		}
	}
}

// implyEndTags closes elements whose end tag is optional when the next
// start tag makes their end obvious.
func (b *builder) implyEndTags(tag string) {
	switch {
	case closesParagraph[tag]:
		b.popIfTop("p")
	case tag == "li":
		b.popIfTop("li")
	case tag == "dt", tag == "dd":
		b.popIfTop("dt", "dd")
	case tag == "option":
		b.popIfTop("option")
	case tag == "td", tag == "th":
		b.popIfTop("td", "th")
	case tag == "tr":
		b.popIfTop("td", "th")
		b.popIfTop("tr")
	}
}

// closesParagraph lists the start tags that end an open <p>.
var closesParagraph = map[string]bool{
	"address":    true,
	"article":    true,
	"aside":      true,
	"blockquote": true,
	"details":    true,
	"dialog":     true,
	"div":        true,
	"dl":         true,
	"fieldset":   true,
	"figcaption": true,
	"figure":     true,
	"footer":     true,
	"form":       true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"header":     true,
	"hgroup":     true,
	"hr":         true,
	"main":       true,
	"menu":       true,
	"nav":        true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"section":    true,
	"summary":    true,
	"table":      true,
	"ul":         true,
}

// rawTextElements hold text the tokenizer does not unescape; it is
// written back verbatim.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// escapableRawTextElements hold text that is read up to the end tag but
// still unescaped.
var escapableRawTextElements = map[string]bool{
	"textarea": true,
	"title":    true,
}

// preformattedElements keep their whitespace, so the serializer never
// indents inside them.
var preformattedElements = map[string]bool{
	"listing":  true,
	"pre":      true,
	"textarea": true,
}
