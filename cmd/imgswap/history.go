package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/imgswap"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := imgswap.RevisionFilter{Limit: c.Limit}
	if c.Name != "" {
		filter.Name = &c.Name
	}

	revs, err := deps.Revisions.FindRevisions(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	if len(revs) == 0 {
		fmt.Fprintln(deps.Stdout, "No revisions found. Use 'imgswap replace --record NAME' to record one.")
		return nil
	}

	for _, r := range revs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d/%d edited\n",
			r.ID, r.CreatedAt.Format(time.DateTime), r.Name, r.EditedCount, r.ImageCount)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rev, err := deps.Revisions.FindRevisionByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "Revision %s (%s) recorded %s: %d of %d images edited\n",
		rev.ID, rev.Name, rev.CreatedAt.Format(time.DateTime), rev.EditedCount, rev.ImageCount)
	_, err = io.WriteString(deps.Stdout, rev.Content)
	return err
}
