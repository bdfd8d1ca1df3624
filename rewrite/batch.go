package rewrite

import (
	"context"
	"fmt"

	"github.com/fwojciec/imgswap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents a Batch processes at once
// when Concurrency is not set.
const DefaultConcurrency = 4

// Batch applies rules to many documents concurrently.
type Batch struct {
	Rewriter    *Rewriter
	Store       imgswap.DocumentStore
	Concurrency int

	// DryRun computes every result but writes nothing.
	DryRun bool
}

// BatchJob names one document to read and where to write its result.
type BatchJob struct {
	Input  string
	Output string
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Processed int
	Changed   int
	Failed    int
	Images    int
	Edited    int
	Bytes     int
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Result    *Result
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// jobResult holds the outcome of processing a single job.
type jobResult struct {
	job    BatchJob
	result *Result
	err    error
}

// Run processes jobs with bounded concurrency. Each document is read,
// rewritten and written by a single task. A failing document is reported
// through progress and counted, and the run continues. Progress events
// are delivered sequentially on the calling goroutine.
func (b *Batch) Run(ctx context.Context, jobs []BatchJob, rules []imgswap.Rule, progress ProgressFunc) (*BatchResult, error) {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, err
		}
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(jobs)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan jobResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, job := range jobs {
			job := job
			g.Go(func() error {
				resultCh <- b.process(gctx, job, rules)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	completed := 0
	res := &BatchResult{}
	for r := range resultCh {
		completed++
		if r.err != nil {
			res.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: completed,
					Total:     total,
					Path:      r.job.Input,
					Error:     r.err,
				})
			}
			continue
		}

		res.Processed++
		res.Images += len(r.result.Images)
		res.Edited += r.result.Edited
		res.Bytes += len(r.result.HTML)
		if r.result.Changed() {
			res.Changed++
		}
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: completed,
				Total:     total,
				Path:      r.job.Input,
				Result:    r.result,
			})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// process handles a single job.
func (b *Batch) process(ctx context.Context, job BatchJob, rules []imgswap.Rule) jobResult {
	r := jobResult{job: job}

	text, err := b.Store.ReadDocument(ctx, job.Input)
	if err != nil {
		r.err = err
		return r
	}

	result, err := b.Rewriter.ApplyRules(ctx, text, rules)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", job.Input, err)
		return r
	}

	if !b.DryRun {
		if err := b.Store.WriteDocument(ctx, job.Output, result.HTML); err != nil {
			r.err = err
			return r
		}
	}

	r.result = result
	return r
}
