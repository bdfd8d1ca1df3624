package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/imgswap"
	"github.com/fwojciec/imgswap/fs"
	"github.com/fwojciec/imgswap/html"
	"github.com/fwojciec/imgswap/rewrite"
)

// readInput returns the document named by file, reading stdin for "-".
func readInput(deps *Dependencies, file string) (string, error) {
	if file != "-" {
		return deps.Store.ReadDocument(deps.Ctx, file)
	}
	data, err := io.ReadAll(deps.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return fs.DecodeDocument(data)
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(deps *Dependencies, path, content string) error {
	if path == "" {
		_, err := io.WriteString(deps.Stdout, content)
		return err
	}
	return deps.Store.WriteDocument(deps.Ctx, path, content)
}

func newSerializer(compact bool, indent int) *html.Serializer {
	if compact {
		return html.NewSerializer(html.WithCompact())
	}
	return html.NewSerializer(html.WithIndent(strings.Repeat(" ", max(indent, 0))))
}

func newRewriter(deps *Dependencies, s imgswap.Serializer, selector string) *rewrite.Rewriter {
	return &rewrite.Rewriter{
		Parser:     deps.Parser,
		Serializer: s,
		Locator:    deps.Locator,
		Query:      selector,
	}
}

// editSet collects per-image requests keyed by 1-based index.
type editSet map[int]imgswap.EditRequest

func (s editSet) add(index int, name string, op imgswap.EditOp) error {
	req, ok := s[index]
	if !ok {
		req = make(imgswap.EditRequest)
		s[index] = req
	}
	key := strings.ToLower(name)
	if _, dup := req[key]; dup {
		return imgswap.Errorf(imgswap.EINVALID, "attribute %q of image %d given more than once", key, index)
	}
	req[key] = op
	return nil
}

// edits returns the collected requests in index order.
func (s editSet) edits() []rewrite.Edit {
	indexes := make([]int, 0, len(s))
	for i := range s {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	edits := make([]rewrite.Edit, 0, len(indexes))
	for _, i := range indexes {
		edits = append(edits, rewrite.Edit{Index: i, Request: s[i]})
	}
	return edits
}

// parseIndexed splits "N=VALUE" into the image index and the value.
func parseIndexed(flag, arg string) (int, string, error) {
	n, value, ok := strings.Cut(arg, "=")
	if !ok {
		return 0, "", imgswap.Errorf(imgswap.EINVALID, "--%s %q: expected N=VALUE", flag, arg)
	}
	index, err := strconv.Atoi(strings.TrimSpace(n))
	if err != nil || index < 1 {
		return 0, "", imgswap.Errorf(imgswap.EINVALID, "--%s %q: image number must be a positive integer", flag, arg)
	}
	return index, value, nil
}

// parseEdits turns the replace flags into per-image edits.
func (c *ReplaceCmd) parseEdits() ([]rewrite.Edit, error) {
	set := make(editSet)

	setters := []struct {
		flag  string
		attr  string
		args []string
	}{
		{"src", imgswap.AttrSrc, c.Src},
		{"width", imgswap.AttrWidth, c.Width},
		{"height", imgswap.AttrHeight, c.Height},
	}
	for _, s := range setters {
		for _, arg := range s.args {
			index, value, err := parseIndexed(s.flag, arg)
			if err != nil {
				return nil, err
			}
			if err := set.add(index, s.attr, imgswap.SetValue(value)); err != nil {
				return nil, err
			}
		}
	}

	for _, arg := range c.Set {
		n, rest, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, imgswap.Errorf(imgswap.EINVALID, "--set %q: expected N:ATTR=VALUE", arg)
		}
		index, _, err := parseIndexed("set", n+"=")
		if err != nil {
			return nil, err
		}
		attr, value, ok := strings.Cut(rest, "=")
		if !ok {
			return nil, imgswap.Errorf(imgswap.EINVALID, "--set %q: expected N:ATTR=VALUE", arg)
		}
		if err := set.add(index, attr, imgswap.SetValue(value)); err != nil {
			return nil, err
		}
	}

	for _, arg := range c.Remove {
		index, attr, err := parseIndexed("remove", arg)
		if err != nil {
			return nil, err
		}
		if err := set.add(index, attr, imgswap.Remove()); err != nil {
			return nil, err
		}
	}

	return set.edits(), nil
}
