package imgswap

import "strings"

// Rule describes an edit to apply to every image whose current source
// equals Match. An empty Match selects every image.
type Rule struct {
	Match  string            `json:"match" yaml:"match"`
	Set    map[string]string `json:"set" yaml:"set"`
	Remove []string          `json:"remove" yaml:"remove"`
}

// Validate returns an error if the rule names illegal attributes, names
// an attribute twice, or changes nothing.
func (r *Rule) Validate() error {
	if len(r.Set) == 0 && len(r.Remove) == 0 {
		return Errorf(EINVALID, "rule for %q has nothing to set or remove", r.Match)
	}
	seen := make(map[string]bool, len(r.Set)+len(r.Remove))
	check := func(name string) error {
		if !ValidAttributeName(name) {
			return Errorf(EATTRNAME, "invalid attribute name %q", name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return Errorf(EINVALID, "attribute %q named more than once", key)
		}
		seen[key] = true
		return nil
	}
	for name := range r.Set {
		if err := check(name); err != nil {
			return err
		}
	}
	for _, name := range r.Remove {
		if err := check(name); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether the rule selects n.
func (r *Rule) Matches(n *Node) bool {
	if r.Match == "" {
		return true
	}
	src, ok := n.Attr(AttrSrc)
	return ok && src == r.Match
}

// EditRequest converts the rule into an edit request.
func (r *Rule) EditRequest() EditRequest {
	req := make(EditRequest, len(r.Set)+len(r.Remove))
	for name, val := range r.Set {
		req[name] = SetValue(val)
	}
	for _, name := range r.Remove {
		req[name] = Remove()
	}
	return req
}
