package imgswap

import "strings"

// ImageTag is the tag name of image elements.
const ImageTag = "img"

// Locator finds elements in a Document.
type Locator interface {
	// Locate returns the elements matching query in document order.
	// The returned nodes alias the live tree. No match is not an error.
	Locate(doc *Document, query string) ([]*Node, error)
}

var _ Locator = TagLocator{}

// TagLocator locates elements by tag name.
type TagLocator struct{}

// Locate returns the elements whose tag name equals query, ignoring case.
func (TagLocator) Locate(doc *Document, query string) ([]*Node, error) {
	return doc.FindAll(query), nil
}

// FindAll returns every element named tag in depth-first document order.
// Matching is case-insensitive. The result is empty when nothing matches.
func (d *Document) FindAll(tag string) []*Node {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	var found []*Node
	d.Walk(func(n *Node) {
		if n.Type == ElementNode && n.Data == tag {
			found = append(found, n)
		}
	})
	return found
}

// Images returns the image elements of the document in document order.
func (d *Document) Images() []*Node {
	return d.FindAll(ImageTag)
}

// Walk calls fn for every node below the document root in depth-first
// pre-order. The traversal follows sibling links instead of recursing, so
// deep trees do not grow the stack.
func (d *Document) Walk(fn func(n *Node)) {
	if d == nil || d.root == nil {
		return
	}
	root := d.root
	n := root.FirstChild
	for n != nil {
		fn(n)
		if n.FirstChild != nil {
			n = n.FirstChild
			continue
		}
		for n != root && n.NextSibling == nil {
			n = n.Parent
		}
		if n == root {
			return
		}
		n = n.NextSibling
	}
}
