package rewrite_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/imgswap"
	"github.com/fwojciec/imgswap/mock"
	"github.com/fwojciec/imgswap/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore returns a DocumentStore mock backed by files and the map that
// receives writes.
func memStore(files map[string]string) (*mock.DocumentStore, map[string]string, *sync.Mutex) {
	var mu sync.Mutex
	written := make(map[string]string)
	return &mock.DocumentStore{
		ReadDocumentFn: func(_ context.Context, path string) (string, error) {
			text, ok := files[path]
			if !ok {
				return "", imgswap.Errorf(imgswap.ENOTFOUND, "no such file %q", path)
			}
			return text, nil
		},
		WriteDocumentFn: func(_ context.Context, path string, content string) error {
			mu.Lock()
			defer mu.Unlock()
			written[path] = content
			return nil
		},
	}, written, &mu
}

var cdnRule = []imgswap.Rule{{Match: "a.png", Set: map[string]string{"src": "cdn/a.png"}}}

func TestBatch_Run(t *testing.T) {
	t.Parallel()

	t.Run("rewrites every document", func(t *testing.T) {
		t.Parallel()

		store, written, _ := memStore(map[string]string{
			"in/one.html": `<img src="a.png">`,
			"in/two.html": `<p>no images</p>`,
		})
		b := &rewrite.Batch{Rewriter: newRewriter(), Store: store, Concurrency: 2}

		res, err := b.Run(context.Background(), []rewrite.BatchJob{
			{Input: "in/one.html", Output: "out/one.html"},
			{Input: "in/two.html", Output: "out/two.html"},
		}, cdnRule, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, res.Processed)
		assert.Equal(t, 1, res.Changed)
		assert.Equal(t, 1, res.Images)
		assert.Equal(t, 1, res.Edited)
		assert.Zero(t, res.Failed)
		assert.Equal(t, "<img src=\"cdn/a.png\">\n", written["out/one.html"])
		assert.Equal(t, "<p>\n  no images\n</p>\n", written["out/two.html"])
	})

	t.Run("counts failures and continues", func(t *testing.T) {
		t.Parallel()

		store, written, _ := memStore(map[string]string{
			"ok.html":  `<img src="a.png">`,
			"bad.html": "\xff",
		})
		b := &rewrite.Batch{Rewriter: newRewriter(), Store: store}

		var failed []string
		res, err := b.Run(context.Background(), []rewrite.BatchJob{
			{Input: "ok.html", Output: "ok.out"},
			{Input: "bad.html", Output: "bad.out"},
			{Input: "missing.html", Output: "missing.out"},
		}, cdnRule, func(e rewrite.ProgressEvent) {
			if e.Type == rewrite.ProgressFailed {
				failed = append(failed, e.Path)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Processed)
		assert.Equal(t, 2, res.Failed)
		assert.ElementsMatch(t, []string{"bad.html", "missing.html"}, failed)
		assert.Len(t, written, 1)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		t.Parallel()

		store, written, _ := memStore(map[string]string{"one.html": `<img src="a.png">`})
		b := &rewrite.Batch{Rewriter: newRewriter(), Store: store, DryRun: true}

		res, err := b.Run(context.Background(), []rewrite.BatchJob{{Input: "one.html", Output: "one.out"}}, cdnRule, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Changed)
		assert.Empty(t, written)
	})

	t.Run("reports write errors", func(t *testing.T) {
		t.Parallel()

		store, _, _ := memStore(map[string]string{"one.html": `<img src="a.png">`})
		store.WriteDocumentFn = func(context.Context, string, string) error {
			return errors.New("disk full")
		}
		b := &rewrite.Batch{Rewriter: newRewriter(), Store: store}

		res, err := b.Run(context.Background(), []rewrite.BatchJob{{Input: "one.html", Output: "one.out"}}, cdnRule, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
	})

	t.Run("emits started and finished events around results", func(t *testing.T) {
		t.Parallel()

		store, _, _ := memStore(map[string]string{"a.html": `<img src="a.png">`, "b.html": `<img src="b.png">`})
		b := &rewrite.Batch{Rewriter: newRewriter(), Store: store}

		var events []rewrite.ProgressEvent
		_, err := b.Run(context.Background(), []rewrite.BatchJob{
			{Input: "a.html", Output: "a.out"},
			{Input: "b.html", Output: "b.out"},
		}, cdnRule, func(e rewrite.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, rewrite.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, rewrite.ProgressCompleted, events[1].Type)
		assert.Equal(t, 1, events[1].Completed)
		assert.Equal(t, rewrite.ProgressCompleted, events[2].Type)
		assert.Equal(t, 2, events[2].Completed)
		assert.Equal(t, rewrite.ProgressFinished, events[3].Type)
	})

	t.Run("rejects invalid rules before reading", func(t *testing.T) {
		t.Parallel()

		store := &mock.DocumentStore{
			ReadDocumentFn: func(context.Context, string) (string, error) {
				t.Fatal("unexpected read")
				return "", nil
			},
		}
		b := &rewrite.Batch{Rewriter: newRewriter(), Store: store}

		_, err := b.Run(context.Background(), []rewrite.BatchJob{{Input: "a.html"}}, []imgswap.Rule{{}}, nil)

		assert.Equal(t, imgswap.EINVALID, imgswap.ErrorCode(err))
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		store, _, _ := memStore(map[string]string{"a.html": `<img src="a.png">`})
		b := &rewrite.Batch{Rewriter: newRewriter(), Store: store}

		res, err := b.Run(ctx, []rewrite.BatchJob{{Input: "a.html", Output: "a.out"}}, cdnRule, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, res.Failed)
	})
}
