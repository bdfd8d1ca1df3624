// Package rewrite runs whole-document image rewrites: parse, locate,
// edit and serialize, one document per call or many in a batch.
package rewrite

import (
	"context"
	"slices"
	"sort"

	"github.com/fwojciec/imgswap"
)

// Rewriter applies image edits to HTML documents.
type Rewriter struct {
	Parser     imgswap.Parser
	Serializer imgswap.Serializer

	// Locator finds the elements to edit. Defaults to imgswap.TagLocator.
	Locator imgswap.Locator

	// Policy decides what empty values mean. Defaults to
	// imgswap.DefaultEditPolicy.
	Policy *imgswap.EditPolicy

	// Query is passed to Locator. Defaults to imgswap.ImageTag.
	Query string
}

// Edit targets one located image by its 1-based Index.
type Edit struct {
	Index   int
	Request imgswap.EditRequest
}

// Result holds the outcome of one rewrite.
type Result struct {
	// HTML is the serialized document after all edits.
	HTML string

	// Images is the inventory after all edits.
	Images []imgswap.Image

	// Edited counts the images whose attributes changed.
	Edited int

	// BaselineHash and OutputHash hash the serialization before and
	// after the edits.
	BaselineHash string
	OutputHash   string
}

// Changed reports whether the edits changed the serialized document.
func (r *Result) Changed() bool {
	return r.BaselineHash != r.OutputHash
}

// document is a parsed text with its located images.
type document struct {
	doc      *imgswap.Document
	images   []*imgswap.Node
	baseline string
}

func (rw *Rewriter) load(text string) (*document, error) {
	doc, err := rw.Parser.Parse(text)
	if err != nil {
		return nil, err
	}
	images, err := rw.locator().Locate(doc, rw.query())
	if err != nil {
		return nil, err
	}
	return &document{
		doc:      doc,
		images:   images,
		baseline: rw.Serializer.Serialize(doc),
	}, nil
}

// Format parses text and returns its serialization with no edits.
func (rw *Rewriter) Format(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := rw.Parser.Parse(text)
	if err != nil {
		return "", err
	}
	return rw.Serializer.Serialize(doc), nil
}

// Inventory returns a snapshot of the located images in text.
func (rw *Rewriter) Inventory(ctx context.Context, text string) ([]imgswap.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := rw.load(text)
	if err != nil {
		return nil, err
	}
	return imgswap.Inventory(d.images), nil
}

// Rewrite applies edits to the images of text in ascending index order.
// An index outside the located images is EINVALID and nothing is returned.
func (rw *Rewriter) Rewrite(ctx context.Context, text string, edits []Edit) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := rw.load(text)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	for _, e := range sorted {
		if e.Index < 1 || e.Index > len(d.images) {
			return nil, imgswap.Errorf(imgswap.EINVALID, "image %d out of range: document has %d images", e.Index, len(d.images))
		}
	}

	edited := make(map[*imgswap.Node]bool)
	for _, e := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := d.images[e.Index-1]
		if err := rw.apply(n, e.Request, edited); err != nil {
			return nil, err
		}
	}
	return rw.result(d, len(edited)), nil
}

// ApplyRules applies rules in order to every matching image of text.
// A later rule sees the attributes left by earlier ones.
func (rw *Rewriter) ApplyRules(ctx context.Context, text string, rules []imgswap.Rule) (*Result, error) {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := rw.load(text)
	if err != nil {
		return nil, err
	}

	edited := make(map[*imgswap.Node]bool)
	for i := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req := rules[i].EditRequest()
		for _, n := range d.images {
			if !rules[i].Matches(n) {
				continue
			}
			if err := rw.apply(n, req, edited); err != nil {
				return nil, err
			}
		}
	}
	return rw.result(d, len(edited)), nil
}

func (rw *Rewriter) apply(n *imgswap.Node, req imgswap.EditRequest, edited map[*imgswap.Node]bool) error {
	before := n.Attrs()
	if err := rw.policy().Apply(n, req); err != nil {
		return err
	}
	if !slices.Equal(before, n.Attrs()) {
		edited[n] = true
	}
	return nil
}

func (rw *Rewriter) result(d *document, edited int) *Result {
	out := rw.Serializer.Serialize(d.doc)
	return &Result{
		HTML:         out,
		Images:       imgswap.Inventory(d.images),
		Edited:       edited,
		BaselineHash: ComputeHash(d.baseline),
		OutputHash:   ComputeHash(out),
	}
}

func (rw *Rewriter) locator() imgswap.Locator {
	if rw.Locator == nil {
		return imgswap.TagLocator{}
	}
	return rw.Locator
}

func (rw *Rewriter) policy() imgswap.EditPolicy {
	if rw.Policy == nil {
		return imgswap.DefaultEditPolicy
	}
	return *rw.Policy
}

func (rw *Rewriter) query() string {
	if rw.Query == "" {
		return imgswap.ImageTag
	}
	return rw.Query
}
