package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"hermannm.dev/devlog"

	"github.com/synadia-labs/cbor-stream/cbordump/core"
)

var level slog.LevelVar

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.Options{
		Level: &level,
	})))
}

// CLI defines the cbordump command-line interface.
//
// Inputs are CBOR sequences: every file (or stdin) may hold any number
// of concatenated items, each printed on its own line.
type CLI struct {
	Files           []string `arg:"" optional:"" type:"existingfile" help:"CBOR files to decode (default: stdin)"`
	Format          string   `short:"f" enum:"diag,json,go" default:"diag" help:"Output format: diag, json or go"`
	Hex             bool     `short:"x" help:"Inputs are hex text instead of binary"`
	Output          string   `short:"o" help:"Output file (default: stdout)"`
	Package         string   `default:"fixtures" help:"Package name for --format=go"`
	BufferSize      int      `default:"65536" help:"Read buffer size; 0 reads each item exactly"`
	MaxDepth        int      `default:"256" help:"Maximum nesting of arrays, maps and tags"`
	MaxContainerLen uint32   `help:"Maximum container and string length (0 disables)"`
	Strict          bool     `help:"Reject arguments, lengths and floats not in shortest form"`
	Deterministic   bool     `help:"Reject indefinite-length items"`
	EachChunk       bool     `help:"Require every text chunk to be valid UTF-8 on its own"`
	Verbose         bool     `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("cbordump"),
		kong.Description("Decode CBOR sequences into diagnostic notation, JSON or Go fixtures."),
	)
	if cli.Verbose {
		level.Set(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, &cli); err != nil {
		kctx.FatalIfErrorf(err)
	}
}

func run(ctx context.Context, cli *CLI) error {
	out := os.Stdout
	if cli.Output != "" {
		f, err := os.Create(cli.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return core.Run(ctx, core.Options{
		Inputs:          cli.Files,
		Stdin:           os.Stdin,
		Out:             out,
		OutputPath:      cli.Output,
		Format:          core.Format(cli.Format),
		Hex:             cli.Hex,
		Package:         cli.Package,
		BufferSize:      cli.BufferSize,
		MaxDepth:        cli.MaxDepth,
		MaxContainerLen: cli.MaxContainerLen,
		Strict:          cli.Strict,
		Deterministic:   cli.Deterministic,
		EachChunk:       cli.EachChunk,
		Logger:          slog.Default(),
	})
}
