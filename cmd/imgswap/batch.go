package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/imgswap"
	"github.com/fwojciec/imgswap/fs"
	"github.com/fwojciec/imgswap/rewrite"
	imgslog "github.com/fwojciec/imgswap/slog"
	"github.com/fwojciec/imgswap/yaml"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	outDir := filepath.Clean(c.OutDir)
	staged := fs.NewStagedStore(filepath.Dir(outDir), filepath.Base(outDir))
	for _, dir := range []string{outDir, staged.StagingDir()} {
		if err := fs.CheckDisjoint(c.Dir, dir); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
			return err
		}
	}
	if err := staged.CheckTarget(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	rules, err := yaml.LoadRulesFile(c.Rules)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	files, err := fs.FindHTMLFiles(c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	jobs := make([]rewrite.BatchJob, 0, len(files))
	for _, path := range files {
		rel, err := fs.OutputPath(c.Dir, "", path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
			return err
		}
		jobs = append(jobs, rewrite.BatchJob{Input: path, Output: rel})
	}

	var store imgswap.DocumentStore = staged
	if deps.Logger != nil {
		store = imgslog.NewLoggingDocumentStore(staged, deps.Logger)
	}

	batch := &rewrite.Batch{
		Rewriter:    newRewriter(deps, newSerializer(c.Compact, 2), c.Selector),
		Store:       store,
		Concurrency: c.Concurrency,
		DryRun:      c.DryRun,
	}

	progress := func(event rewrite.ProgressEvent) {
		switch event.Type {
		case rewrite.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d files\n", event.Total)
		case rewrite.ProgressCompleted:
			if event.Result.Changed() {
				fmt.Fprintf(deps.Stdout, "  edit %s (%d of %d images)\n",
					rewrite.TruncatePath(event.Path, 60), event.Result.Edited, len(event.Result.Images))
			}
		case rewrite.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.Path, imgswap.ErrorMessage(event.Error))
		}
	}

	result, err := batch.Run(deps.Ctx, jobs, rules, progress)
	if err != nil {
		_ = staged.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
		return err
	}

	if !c.DryRun {
		if err := staged.Commit(); err != nil {
			_ = staged.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", imgswap.ErrorMessage(err))
			return err
		}
	}

	verb := "Changed"
	if c.DryRun {
		verb = "Would change"
	}
	fmt.Fprintf(deps.Stdout, "  %s %d of %d files, %d images edited (%s)\n",
		verb, result.Changed, result.Processed, result.Edited, rewrite.FormatBytes(result.Bytes))
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  %d files failed\n", result.Failed)
	}
	return nil
}
