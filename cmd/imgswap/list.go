package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/imgswap"
	"github.com/fwojciec/imgswap/etree"
	"github.com/fwojciec/imgswap/html"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	text, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	images, err := newRewriter(deps, html.NewSerializer(), c.Selector).Inventory(deps.Ctx, text)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	switch c.Format {
	case "json":
		if images == nil {
			images = []imgswap.Image{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(images)
	case "xml":
		return etree.WriteManifest(deps.Stdout, c.File, images)
	}

	if len(images) == 0 {
		fmt.Fprintln(deps.Stdout, "No images found.")
		return nil
	}
	for _, img := range images {
		fmt.Fprintf(deps.Stdout, "%d  %s\n", img.Index, describe(img))
	}
	return nil
}

// describe renders one image as a single line of attributes.
func describe(img imgswap.Image) string {
	s := "No source URL found"
	if img.HasSrc {
		s = fmt.Sprintf("src=%q", img.Src)
	}
	if img.Width != "" {
		s += fmt.Sprintf(" width=%q", img.Width)
	}
	if img.Height != "" {
		s += fmt.Sprintf(" height=%q", img.Height)
	}
	if img.Alt != "" {
		s += fmt.Sprintf(" alt=%q", img.Alt)
	}
	return s
}
