package imgswap

import "strings"

// NodeType identifies the variant of a Node.
type NodeType uint8

// Node variants. DocumentNode is only used for the hidden root that owns a
// Document's top-level nodes.
const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// String returns a lowercase name for the node type.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DoctypeNode:
		return "doctype"
	default:
		return "unknown"
	}
}

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Key string
	Val string
}

// Node is a node in a Document tree.
//
// For elements Data holds the lowercase tag name; for text, comment and
// doctype nodes it holds their content. Attributes are kept in insertion
// order and their names are unique within one element.
type Node struct {
	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	Type NodeType
	Data string

	attrs []Attribute
}

// NewElement returns a detached element. Attribute names are folded to
// lowercase; when a name occurs more than once the first occurrence wins.
func NewElement(tag string, attrs ...Attribute) *Node {
	n := &Node{
		Type:  ElementNode,
		Data:  strings.ToLower(tag),
		attrs: make([]Attribute, 0, len(attrs)),
	}
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if n.indexAttr(key) >= 0 {
			continue
		}
		n.attrs = append(n.attrs, Attribute{Key: key, Val: a.Val})
	}
	return n
}

// NewText returns a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment returns a detached comment node.
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// NewDoctype returns a detached doctype node.
func NewDoctype(data string) *Node {
	return &Node{Type: DoctypeNode, Data: data}
}

// TagName returns the lowercase tag name, or "" for non-element nodes.
func (n *Node) TagName() string {
	if n.Type != ElementNode {
		return ""
	}
	return n.Data
}

// IsVoid reports whether n is a void element.
func (n *Node) IsVoid() bool {
	return n.Type == ElementNode && IsVoidElement(n.Data)
}

// AppendChild adds c as the last child of n.
// It panics if c already has a parent or siblings.
func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("imgswap: AppendChild called for an attached child Node")
	}
	last := n.LastChild
	if last != nil {
		last.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
	c.Parent = n
	c.PrevSibling = last
}

// Children returns the direct children of n in order.
func (n *Node) Children() []*Node {
	var children []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return children
}

// Attr returns the value of the named attribute and whether it is present.
// The lookup is case-insensitive.
func (n *Node) Attr(name string) (string, bool) {
	i := n.indexAttr(strings.ToLower(name))
	if i < 0 {
		return "", false
	}
	return n.attrs[i].Val, true
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Attrs returns a copy of the attributes in stored order.
func (n *Node) Attrs() []Attribute {
	if len(n.attrs) == 0 {
		return nil
	}
	attrs := make([]Attribute, len(n.attrs))
	copy(attrs, n.attrs)
	return attrs
}

// SetAttr sets the named attribute. An existing attribute keeps its
// position; a new one is appended.
func (n *Node) SetAttr(name, val string) {
	key := strings.ToLower(name)
	if i := n.indexAttr(key); i >= 0 {
		n.attrs[i].Val = val
		return
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute and reports whether it was present.
func (n *Node) RemoveAttr(name string) bool {
	i := n.indexAttr(strings.ToLower(name))
	if i < 0 {
		return false
	}
	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
	return true
}

func (n *Node) indexAttr(key string) int {
	for i, a := range n.attrs {
		if a.Key == key {
			return i
		}
	}
	return -1
}

// Document is one parsed HTML text. It owns an ordered forest of nodes
// hanging off a hidden root.
type Document struct {
	root *Node
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{root: &Node{Type: DocumentNode}}
}

// Root returns the hidden document node whose children are the top-level nodes.
func (d *Document) Root() *Node {
	return d.root
}

// AppendChild adds n as the last top-level node.
func (d *Document) AppendChild(n *Node) {
	d.root.AppendChild(n)
}

// Children returns the top-level nodes in order.
func (d *Document) Children() []*Node {
	return d.root.Children()
}

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"keygen": true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether tag names an element that never has
// children or a closing tag.
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}
