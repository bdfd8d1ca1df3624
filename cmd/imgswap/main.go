package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/imgswap"
	"github.com/fwojciec/imgswap/fs"
	"github.com/fwojciec/imgswap/goquery"
	"github.com/fwojciec/imgswap/html"
	imgslog "github.com/fwojciec/imgswap/slog"
	"github.com/fwojciec/imgswap/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overridden by --db or IMGSWAP_DB.
	DBPath string

	// Stdin is read when a command is given "-" as its file.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RevisionService imgswap.RevisionService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("imgswap"),
		kong.Description("Inspect and rewrite image attributes in HTML documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'imgswap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	deps.Parser = html.NewParser(html.WithMaxDepth(cli.MaxDepth))
	deps.Locator = goquery.NewSelectorLocator()
	deps.Store = fs.NewStore()
	deps.Logger = logger
	if logger != nil {
		deps.Parser = imgslog.NewLoggingParser(deps.Parser, logger)
		deps.Locator = imgslog.NewLoggingLocator(deps.Locator, logger)
		deps.Store = imgslog.NewLoggingDocumentStore(deps.Store, logger)
	}

	// Only history commands touch the database.
	if needsHistory(kongCtx.Command(), cli) {
		if m.RevisionService == nil {
			if cli.DB != "" {
				m.DBPath = cli.DB
			}
			if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			m.DB = sqlite.NewDB(m.DBPath)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set IMGSWAP_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
			}
			defer m.Close()
			m.RevisionService = sqlite.NewRevisionService(m.DB)
		}
		deps.Revisions = m.RevisionService
		if logger != nil {
			deps.Revisions = imgslog.NewLoggingRevisionService(deps.Revisions, logger)
		}
	}

	return kongCtx.Run(deps)
}

func needsHistory(command string, cli *CLI) bool {
	switch command {
	case "history", "show <id>":
		return true
	case "replace <file>":
		return cli.Replace.Record != ""
	}
	return false
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "imgswap.db"
	}
	return filepath.Join(home, ".imgswap", "history.db")
}
