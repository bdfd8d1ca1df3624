package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/imgswap"
	main "github.com/fwojciec/imgswap/cmd/imgswap"
	"github.com/fwojciec/imgswap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body><img src="a.png" width="10"><p><img src="b.png" alt="B"></p></body></html>`

// run executes the CLI against a Main with no real database.
func run(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()
	if m == nil {
		m = main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "history.db")
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"list", "replace", "fmt", "batch", "history", "show"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Usage:")
		assert.Contains(t, stdout, "replace")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})
}

func TestListCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists images as text", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "list", writePage(t, page))

		require.NoError(t, err)
		assert.Equal(t, "1  src=\"a.png\" width=\"10\"\n2  src=\"b.png\" alt=\"B\"\n", stdout)
	})

	t.Run("reports missing source", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "list", writePage(t, `<img alt="x">`))

		require.NoError(t, err)
		assert.Contains(t, stdout, "No source URL found")
	})

	t.Run("reports documents without images", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "list", writePage(t, `<p>text</p>`))

		require.NoError(t, err)
		assert.Equal(t, "No images found.\n", stdout)
	})

	t.Run("lists images as JSON", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "list", "--format", "json", writePage(t, page))

		require.NoError(t, err)
		assert.Contains(t, stdout, `"src": "a.png"`)
		assert.Contains(t, stdout, `"index": 2`)
	})

	t.Run("lists images as XML", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "list", "-f", "xml", writePage(t, page))

		require.NoError(t, err)
		assert.Contains(t, stdout, `<images source=`)
		assert.Contains(t, stdout, `<image index="2" src="b.png" alt="B"/>`)
	})

	t.Run("narrows with a selector", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "list", "--selector", "p img", writePage(t, page))

		require.NoError(t, err)
		assert.Equal(t, "1  src=\"b.png\" alt=\"B\"\n", stdout)
	})

	t.Run("reads stdin", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Stdin = strings.NewReader(page)

		stdout, _, err := run(t, m, "list", "-")

		require.NoError(t, err)
		assert.Contains(t, stdout, "a.png")
	})

	t.Run("reports missing file", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, nil, "list", filepath.Join(t.TempDir(), "missing.html"))

		assert.Equal(t, imgswap.ENOTFOUND, imgswap.ErrorCode(err))
		assert.Contains(t, stderr, "error: file not found")
	})
}

func TestReplaceCmd(t *testing.T) {
	t.Parallel()

	t.Run("replaces a source and prints the document", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := run(t, nil, "replace", "--src", "2=https://cdn.example.com/b.png?w=1,2", writePage(t, page))

		require.NoError(t, err)
		assert.Equal(t, `<html>
  <body>
    <img src="a.png" width="10">
    <p>
      <img src="https://cdn.example.com/b.png?w=1,2" alt="B">
    </p>
  </body>
</html>
`, stdout)
		assert.Contains(t, stderr, "Edited 1 of 2 images")
	})

	t.Run("empty width removes the attribute", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "replace", "--compact", "--width", "1=", writePage(t, page))

		require.NoError(t, err)
		assert.Equal(t, `<html><body><img src="a.png"><p><img src="b.png" alt="B"></p></body></html>`, stdout)
	})

	t.Run("sets and removes arbitrary attributes", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "replace", "--compact",
			"--set", "1:loading=lazy", "--remove", "2=alt", writePage(t, page))

		require.NoError(t, err)
		assert.Contains(t, stdout, `<img src="a.png" width="10" loading="lazy">`)
		assert.Contains(t, stdout, `<img src="b.png">`)
	})

	t.Run("empty value leaves other attributes alone", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := run(t, nil, "replace", "--compact", "--set", "2:alt=", writePage(t, page))

		require.NoError(t, err)
		assert.Contains(t, stdout, `<img src="b.png" alt="B">`)
		assert.Contains(t, stderr, "Edited 0 of 2 images")
	})

	t.Run("writes to output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "out.html")

		stdout, _, err := run(t, nil, "replace", "--compact", "--src", "1=c.png", "-o", out, writePage(t, page))

		require.NoError(t, err)
		assert.Empty(t, stdout)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `<img src="c.png" width="10">`)
	})

	t.Run("rejects out of range image", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, nil, "replace", "--src", "3=c.png", writePage(t, page))

		assert.Equal(t, imgswap.EINVALID, imgswap.ErrorCode(err))
		assert.Contains(t, stderr, "out of range")
	})

	t.Run("rejects malformed flag", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, nil, "replace", "--src", "first=c.png", writePage(t, page))

		assert.Equal(t, imgswap.EINVALID, imgswap.ErrorCode(err))
	})

	t.Run("rejects illegal attribute names", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, nil, "replace", "--set", "1:bad name=x", writePage(t, page))

		assert.Equal(t, imgswap.EATTRNAME, imgswap.ErrorCode(err))
	})

	t.Run("applies a rules file", func(t *testing.T) {
		t.Parallel()

		rules := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(rules, []byte("rules:\n  - match: a.png\n    set: {src: z.png}\n"), 0644))

		stdout, _, err := run(t, nil, "replace", "--compact", "--rules", rules, writePage(t, page))

		require.NoError(t, err)
		assert.Contains(t, stdout, `<img src="z.png" width="10">`)
	})

	t.Run("rejects rules combined with flags", func(t *testing.T) {
		t.Parallel()

		rules := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(rules, []byte("rules: []\n"), 0644))

		_, _, err := run(t, nil, "replace", "--rules", rules, "--src", "1=x.png", writePage(t, page))

		assert.Equal(t, imgswap.EINVALID, imgswap.ErrorCode(err))
	})

	t.Run("records a revision", func(t *testing.T) {
		t.Parallel()

		var recorded *imgswap.Revision
		m := main.NewMain()
		m.RevisionService = &mock.RevisionService{
			CreateRevisionFn: func(_ context.Context, rev *imgswap.Revision) error {
				rev.ID = "rev-1"
				recorded = rev
				return nil
			},
		}

		stdout, stderr, err := run(t, m, "replace", "--src", "1=c.png", "--record", "home", writePage(t, page))

		require.NoError(t, err)
		require.NotNil(t, recorded)
		assert.Equal(t, "home", recorded.Name)
		assert.Equal(t, stdout, recorded.Content)
		assert.Equal(t, 2, recorded.ImageCount)
		assert.Equal(t, 1, recorded.EditedCount)
		assert.NotEqual(t, recorded.InputHash, recorded.OutputHash)
		assert.Contains(t, stderr, "Recorded revision rev-1")
	})
}

func TestFmtCmd(t *testing.T) {
	t.Parallel()

	t.Run("pretty prints with configured indent", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "fmt", "--indent", "4", writePage(t, `<div><p>x</p></div>`))

		require.NoError(t, err)
		assert.Equal(t, "<div>\n    <p>\n        x\n    </p>\n</div>\n", stdout)
	})

	t.Run("compact output keeps markup", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, nil, "fmt", "--compact", writePage(t, "<p class=a>x <b>y</b></p>\n"))

		require.NoError(t, err)
		assert.Equal(t, "<p class=\"a\">x <b>y</b></p>\n", stdout)
	})

	t.Run("reports unparseable input", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Stdin = strings.NewReader("<div><div><div>")

		_, _, err := run(t, m, "--max-depth", "2", "fmt", "-")

		assert.Equal(t, imgswap.EDEPTH, imgswap.ErrorCode(err))
	})
}

func TestBatchCmd(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (string, string, string) {
		t.Helper()
		base := t.TempDir()
		in := filepath.Join(base, "site")
		files := map[string]string{
			"index.html":     `<img src="a.png">`,
			"blog/post.html": `<p><img src="b.png"></p>`,
			"notes.txt":      `<img src="a.png">`,
		}
		for name, content := range files {
			path := filepath.Join(in, name)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		}
		rules := filepath.Join(base, "rules.yaml")
		require.NoError(t, os.WriteFile(rules, []byte("rules:\n  - match: a.png\n    set: {src: cdn/a.png}\n"), 0644))
		return in, filepath.Join(base, "out"), rules
	}

	t.Run("writes the rewritten tree", func(t *testing.T) {
		t.Parallel()

		in, out, rules := setup(t)

		stdout, _, err := run(t, nil, "batch", in, "--out-dir", out, "--rules", rules, "--compact")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Found 2 files")
		assert.Contains(t, stdout, "Changed 1 of 2 files")

		index, err := os.ReadFile(filepath.Join(out, "index.html"))
		require.NoError(t, err)
		assert.Equal(t, `<img src="cdn/a.png">`, string(index))

		post, err := os.ReadFile(filepath.Join(out, "blog", "post.html"))
		require.NoError(t, err)
		assert.Equal(t, `<p><img src="b.png"></p>`, string(post))

		_, err = os.Stat(filepath.Join(out, "notes.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects rewriting the input directory in place", func(t *testing.T) {
		t.Parallel()

		in, _, rules := setup(t)
		asset := filepath.Join(in, "a.png")
		require.NoError(t, os.WriteFile(asset, []byte("png"), 0644))

		_, stderr, err := run(t, nil, "batch", in, "--out-dir", in, "--rules", rules)

		assert.Equal(t, imgswap.EINVALID, imgswap.ErrorCode(err))
		assert.Contains(t, stderr, "overlaps input directory")
		data, err := os.ReadFile(asset)
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))
		_, err = os.Stat(filepath.Join(in, "notes.txt"))
		assert.NoError(t, err)
	})

	t.Run("rejects output directories nested with the input", func(t *testing.T) {
		t.Parallel()

		in, _, rules := setup(t)

		for _, out := range []string{filepath.Join(in, "out"), filepath.Dir(in)} {
			_, _, err := run(t, nil, "batch", in, "--out-dir", out, "--rules", rules)

			assert.Equal(t, imgswap.EINVALID, imgswap.ErrorCode(err), out)
		}
		_, err := os.Stat(filepath.Join(in, "index.html"))
		assert.NoError(t, err)
	})

	t.Run("refuses to replace a foreign output directory", func(t *testing.T) {
		t.Parallel()

		in, out, rules := setup(t)
		keep := filepath.Join(out, "keep.txt")
		require.NoError(t, os.MkdirAll(out, 0755))
		require.NoError(t, os.WriteFile(keep, []byte("mine"), 0644))

		_, stderr, err := run(t, nil, "batch", in, "--out-dir", out, "--rules", rules)

		assert.Equal(t, imgswap.EINVALID, imgswap.ErrorCode(err))
		assert.Contains(t, stderr, "not created by imgswap")
		data, err := os.ReadFile(keep)
		require.NoError(t, err)
		assert.Equal(t, "mine", string(data))
	})

	t.Run("replaces its own earlier output", func(t *testing.T) {
		t.Parallel()

		in, out, rules := setup(t)

		_, _, err := run(t, nil, "batch", in, "--out-dir", out, "--rules", rules)
		require.NoError(t, err)
		_, _, err = run(t, nil, "batch", in, "--out-dir", out, "--rules", rules)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(out, "index.html"))
		assert.NoError(t, err)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		t.Parallel()

		in, out, rules := setup(t)

		stdout, _, err := run(t, nil, "batch", in, "--out-dir", out, "--rules", rules, "--dry-run")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Would change 1 of 2 files")
		_, err = os.Stat(out)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists revisions", func(t *testing.T) {
		t.Parallel()

		var gotFilter imgswap.RevisionFilter
		m := main.NewMain()
		m.RevisionService = &mock.RevisionService{
			FindRevisionsFn: func(_ context.Context, filter imgswap.RevisionFilter) ([]*imgswap.Revision, error) {
				gotFilter = filter
				return []*imgswap.Revision{{
					ID:          "rev-1",
					Name:        "home",
					ImageCount:  3,
					EditedCount: 2,
					CreatedAt:   time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
				}}, nil
			},
		}

		stdout, _, err := run(t, m, "history", "--name", "home", "--limit", "5")

		require.NoError(t, err)
		assert.Equal(t, "rev-1  2025-01-15 10:00:00  home  2/3 edited\n", stdout)
		require.NotNil(t, gotFilter.Name)
		assert.Equal(t, "home", *gotFilter.Name)
		assert.Equal(t, 5, gotFilter.Limit)
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.RevisionService = &mock.RevisionService{
			FindRevisionsFn: func(context.Context, imgswap.RevisionFilter) ([]*imgswap.Revision, error) {
				return nil, nil
			},
		}

		stdout, _, err := run(t, m, "history")

		require.NoError(t, err)
		assert.Contains(t, stdout, "No revisions found")
	})

	t.Run("records and shows revisions with sqlite", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "history.db")
		file := writePage(t, page)

		_, stderr, err := run(t, nil, "--db", dbPath, "replace", "--compact", "--src", "1=c.png", "--record", "home", file)
		require.NoError(t, err)
		require.Contains(t, stderr, "Recorded revision ")
		id := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(stderr, "Recorded revision "), "\n", 2)[0])

		stdout, _, err := run(t, nil, "--db", dbPath, "history")
		require.NoError(t, err)
		assert.Contains(t, stdout, id)
		assert.Contains(t, stdout, "home  1/2 edited")

		stdout, _, err = run(t, nil, "--db", dbPath, "show", id)
		require.NoError(t, err)
		assert.Contains(t, stdout, `<img src="c.png" width="10">`)
	})
}

func TestShowCmd(t *testing.T) {
	t.Parallel()

	t.Run("returns not found", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.RevisionService = &mock.RevisionService{
			FindRevisionByIDFn: func(context.Context, string) (*imgswap.Revision, error) {
				return nil, imgswap.Errorf(imgswap.ENOTFOUND, "revision not found")
			},
		}

		_, stderr, err := run(t, m, "show", "missing")

		assert.Equal(t, imgswap.ENOTFOUND, imgswap.ErrorCode(err))
		assert.Contains(t, stderr, "error: revision not found")
	})
}
