// Package goquery implements imgswap.Locator with CSS selectors, using
// github.com/PuerkitoBio/goquery and github.com/andybalholm/cascadia.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/imgswap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultSelector selects every image element.
const DefaultSelector = imgswap.ImageTag

var _ imgswap.Locator = (*SelectorLocator)(nil)

// SelectorLocator finds elements matching a CSS selector.
type SelectorLocator struct{}

// NewSelectorLocator creates a new SelectorLocator.
func NewSelectorLocator() *SelectorLocator {
	return &SelectorLocator{}
}

// Locate returns the elements of doc matching the CSS selector query, in
// document order. An empty query uses DefaultSelector. The returned nodes
// belong to doc, so edits to them show up in its serialization.
func (l *SelectorLocator) Locate(doc *imgswap.Document, query string) ([]*imgswap.Node, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = DefaultSelector
	}

	sel, err := cascadia.Compile(query)
	if err != nil {
		return nil, imgswap.Errorf(imgswap.EINVALID, "invalid selector %q: %v", query, err)
	}
	if doc == nil {
		return nil, nil
	}

	root, index := mirror(doc)
	matches := goquery.NewDocumentFromNode(root).FindMatcher(sel)

	nodes := make([]*imgswap.Node, 0, matches.Length())
	for _, n := range matches.Nodes {
		if orig, ok := index[n]; ok {
			nodes = append(nodes, orig)
		}
	}
	return nodes, nil
}

// mirror builds an x/net/html copy of doc for selector matching and
// returns it with a map from each copied element back to its original.
func mirror(doc *imgswap.Document) (*html.Node, map[*html.Node]*imgswap.Node) {
	index := make(map[*html.Node]*imgswap.Node)
	root := &html.Node{Type: html.DocumentNode}
	copyChildren(root, doc.Root(), index)
	return root, index
}

// copyChildren copies the children of src below dst. Nesting depth is
// bounded by the parser's depth limit, so recursion is fine here.
func copyChildren(dst *html.Node, src *imgswap.Node, index map[*html.Node]*imgswap.Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		n := convert(c)
		if n == nil {
			continue
		}
		dst.AppendChild(n)
		if c.Type == imgswap.ElementNode {
			index[n] = c
			copyChildren(n, c, index)
		}
	}
}

func convert(n *imgswap.Node) *html.Node {
	switch n.Type {
	case imgswap.ElementNode:
		attrs := n.Attrs()
		out := &html.Node{
			Type:     html.ElementNode,
			Data:     n.Data,
			DataAtom: atom.Lookup([]byte(n.Data)),
			Attr:     make([]html.Attribute, 0, len(attrs)),
		}
		for _, a := range attrs {
			out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
		return out
	case imgswap.TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case imgswap.CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Data}
	default:
		return nil
	}
}
