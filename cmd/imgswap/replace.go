package main

import (
	"fmt"

	"github.com/fwojciec/imgswap"
	"github.com/fwojciec/imgswap/rewrite"
	"github.com/fwojciec/imgswap/yaml"
)

// Run executes the replace command.
func (c *ReplaceCmd) Run(deps *Dependencies) error {
	edits, err := c.parseEdits()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}
	if c.Rules != "" && len(edits) > 0 {
		err := imgswap.Errorf(imgswap.EINVALID, "use either --rules or per-image flags, not both")
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	text, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	rw := newRewriter(deps, newSerializer(c.Compact, c.Indent), c.Selector)

	var result *rewrite.Result
	if c.Rules != "" {
		rules, err := yaml.LoadRulesFile(c.Rules)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
			return err
		}
		result, err = rw.ApplyRules(deps.Ctx, text, rules)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
			return err
		}
	} else {
		result, err = rw.Rewrite(deps.Ctx, text, edits)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
			return err
		}
	}

	if err := writeOutput(deps, c.Output, result.HTML); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	if c.Record != "" {
		rev := &imgswap.Revision{
			Name:        c.Record,
			InputHash:   rewrite.ComputeHash(text),
			OutputHash:  result.OutputHash,
			ImageCount:  len(result.Images),
			EditedCount: result.Edited,
			Content:     result.HTML,
		}
		if err := deps.Revisions.CreateRevision(deps.Ctx, rev); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Recorded revision %s\n", rev.ID)
	}

	fmt.Fprintf(deps.Stderr, "Edited %d of %d images\n", result.Edited, len(result.Images))
	return nil
}
