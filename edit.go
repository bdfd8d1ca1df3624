package imgswap

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// EditKind is the kind of change an EditOp proposes.
type EditKind uint8

// Edit kinds. The zero value leaves the attribute untouched.
const (
	OpNoChange EditKind = iota
	OpSet
	OpRemove
)

// EditOp is a proposed change to one attribute.
type EditOp struct {
	Kind  EditKind
	Value string
}

// SetValue proposes setting an attribute to v.
func SetValue(v string) EditOp {
	return EditOp{Kind: OpSet, Value: v}
}

// Remove proposes deleting an attribute.
func Remove() EditOp {
	return EditOp{Kind: OpRemove}
}

// NoChange proposes leaving an attribute alone.
func NoChange() EditOp {
	return EditOp{}
}

// EditRequest maps attribute names to proposed changes for one element.
type EditRequest map[string]EditOp

// EditPolicy decides what an empty SetValue means.
//
// For attributes listed in Removable an empty value removes the attribute:
// a cleared width or height field drops the attribute instead of writing
// width="". For every other attribute an empty value changes nothing.
// Protected attributes are never removed by an empty value, even when they
// are also listed in Removable, so a source URL is never blanked.
type EditPolicy struct {
	Removable []string
	Protected []string
}

// DefaultEditPolicy removes cleared sizing attributes and protects the
// image source attribute.
var DefaultEditPolicy = EditPolicy{
	Removable: []string{AttrWidth, AttrHeight},
	Protected: []string{AttrSrc},
}

// ApplyEdit applies req to n under DefaultEditPolicy.
func ApplyEdit(n *Node, req EditRequest) error {
	return DefaultEditPolicy.Apply(n, req)
}

// Apply applies req to the element n in place.
//
// Every attribute name is validated before anything changes, so a failed
// request leaves n untouched. Operations run in sorted name order, which
// keeps the position of newly added attributes deterministic.
func (p EditPolicy) Apply(n *Node, req EditRequest) error {
	if n == nil || n.Type != ElementNode {
		return Errorf(EINVALID, "edit target is not an element")
	}

	keys := make([]string, 0, len(req))
	ops := make(map[string]EditOp, len(req))
	for name, op := range req {
		if !ValidAttributeName(name) {
			return Errorf(EATTRNAME, "invalid attribute name %q", name)
		}
		if op.Kind > OpRemove {
			return Errorf(EINVALID, "unknown edit kind %d for attribute %q", op.Kind, name)
		}
		key := strings.ToLower(name)
		if _, dup := ops[key]; dup {
			return Errorf(EINVALID, "attribute %q named more than once", key)
		}
		ops[key] = op
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		p.apply(n, key, ops[key])
	}
	return nil
}

func (p EditPolicy) apply(n *Node, key string, op EditOp) {
	switch op.Kind {
	case OpRemove:
		n.RemoveAttr(key)
	case OpSet:
		if op.Value == "" {
			if contains(p.Removable, key) && !contains(p.Protected, key) {
				n.RemoveAttr(key)
			}
			return
		}
		if cur, ok := n.Attr(key); ok && cur == op.Value {
			return
		}
		n.SetAttr(key, op.Value)
	}
}

func contains(names []string, key string) bool {
	for _, name := range names {
		if strings.EqualFold(name, key) {
			return true
		}
	}
	return false
}

// ValidAttributeName reports whether name is a legal HTML attribute name:
// non-empty, valid UTF-8, and free of controls, spaces, quotes, '>', '/',
// '=' and Unicode noncharacters.
func ValidAttributeName(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		switch {
		case r <= 0x1f, r >= 0x7f && r <= 0x9f:
			return false
		case r == ' ', r == '"', r == '\'', r == '>', r == '/', r == '=':
			return false
		case r >= 0xfdd0 && r <= 0xfdef, r&0xfffe == 0xfffe:
			return false
		}
	}
	return true
}
