package main

import (
	"fmt"

	"github.com/fwojciec/imgswap"
)

// Run executes the fmt command.
func (c *FmtCmd) Run(deps *Dependencies) error {
	text, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	out, err := newRewriter(deps, newSerializer(c.Compact, c.Indent), "").Format(deps.Ctx, text)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	if err := writeOutput(deps, c.Output, out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}
	return nil
}
