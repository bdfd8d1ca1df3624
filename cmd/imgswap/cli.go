package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/imgswap"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Parser    imgswap.Parser
	Locator   imgswap.Locator
	Store     imgswap.DocumentStore
	Revisions imgswap.RevisionService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB       string `name:"db" env:"IMGSWAP_DB" help:"History database path (default: ~/.imgswap/history.db)"`
	Verbose  bool   `short:"v" help:"Log each step to stderr"`
	MaxDepth int    `name:"max-depth" default:"512" help:"Maximum element nesting depth, counting unclosed tags"`

	List    ListCmd    `cmd:"" help:"List the images in a document"`
	Replace ReplaceCmd `cmd:"" help:"Rewrite image attributes in a document"`
	Fmt     FmtCmd     `cmd:"" help:"Re-serialize a document without edits"`
	Batch   BatchCmd   `cmd:"" help:"Apply a rules file to every HTML file in a directory"`
	History HistoryCmd `cmd:"" help:"List recorded revisions"`
	Show    ShowCmd    `cmd:"" help:"Print a recorded revision"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	File     string `arg:"" help:"HTML file, or - for stdin"`
	Selector string `short:"s" help:"CSS selector for the images to list (default: img)"`
	Format   string `short:"f" enum:"text,json,xml" default:"text" help:"Output format (text, json, xml)"`
}

// ReplaceCmd is the "replace" subcommand.
type ReplaceCmd struct {
	File     string   `arg:"" help:"HTML file, or - for stdin"`
	Src      []string `name:"src" sep:"none" placeholder:"N=URL" help:"Set the source of image N (repeatable)"`
	Width    []string `name:"width" sep:"none" placeholder:"N=VALUE" help:"Set the width of image N; empty removes it (repeatable)"`
	Height   []string `name:"height" sep:"none" placeholder:"N=VALUE" help:"Set the height of image N; empty removes it (repeatable)"`
	Set      []string `name:"set" sep:"none" placeholder:"N:ATTR=VALUE" help:"Set any attribute of image N (repeatable)"`
	Remove   []string `name:"remove" sep:"none" placeholder:"N=ATTR" help:"Remove an attribute from image N (repeatable)"`
	Rules    string   `short:"r" type:"existingfile" help:"YAML rules file to apply instead of per-image flags"`
	Selector string   `short:"s" help:"CSS selector for the images to edit (default: img)"`
	Output   string   `short:"o" help:"Write the result to this file instead of stdout"`
	Record   string   `help:"Record the result in the history under this name"`
	Compact  bool     `help:"Write markup without added whitespace"`
	Indent   int      `default:"2" help:"Spaces per nesting level"`
}

// FmtCmd is the "fmt" subcommand.
type FmtCmd struct {
	File    string `arg:"" help:"HTML file, or - for stdin"`
	Output  string `short:"o" help:"Write the result to this file instead of stdout"`
	Compact bool   `help:"Write markup without added whitespace"`
	Indent  int    `default:"2" help:"Spaces per nesting level"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Dir         string `arg:"" type:"existingdir" help:"Directory of HTML files"`
	OutDir      string `name:"out-dir" required:"" help:"Directory to write the rewritten tree to"`
	Rules       string `short:"r" required:"" type:"existingfile" help:"YAML rules file"`
	Selector    string `short:"s" help:"CSS selector for the images to edit (default: img)"`
	Concurrency int    `short:"c" default:"4" help:"Documents processed at once"`
	DryRun      bool   `name:"dry-run" help:"Report what would change without writing"`
	Compact     bool   `help:"Write markup without added whitespace"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Name  string `short:"n" help:"Only show revisions recorded under this name"`
	Limit int    `short:"l" default:"20" help:"Maximum revisions to show"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Revision ID"`
}
