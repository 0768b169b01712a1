package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"go/format"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	tmplfs "github.com/synadia-labs/cbor-stream/cbordump/templates"
	cbor "github.com/synadia-labs/cbor-stream/runtime"
)

// Format selects how decoded items are printed.
type Format string

const (
	FormatDiag Format = "diag"
	FormatJSON Format = "json"
	FormatGo   Format = "go"
)

// Options configures how a run decodes and prints its inputs.
type Options struct {
	// Inputs are file paths; when empty, Stdin is decoded instead.
	Inputs []string
	Stdin  io.Reader
	Out    io.Writer
	// OutputPath names the output file for goimports; it may be empty.
	OutputPath string

	Format  Format
	Hex     bool
	Package string

	// BufferSize > 0 reads through a buffer of that size; 0 reads each
	// item exactly.
	BufferSize      int
	MaxDepth        int
	MaxContainerLen uint32
	Strict          bool
	Deterministic   bool
	EachChunk       bool

	Logger *slog.Logger
}

// Item is one decoded item of an input.
type Item struct {
	Index  int
	Offset int64
	Hex    string
	Text   string
}

// Document is the decoded content of one input.
type Document struct {
	Name  string
	Items []Item
}

// Run decodes every input and writes the rendered items to opts.Out.
// Files are decoded concurrently; output keeps the order of opts.Inputs.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Format == "" {
		opts.Format = FormatDiag
	}

	var docs []Document
	if len(opts.Inputs) == 0 {
		doc, err := Decode(ctx, "stdin", opts.Stdin, opts)
		if err != nil {
			return err
		}
		docs = []Document{doc}
	} else {
		docs = make([]Document, len(opts.Inputs))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, name := range opts.Inputs {
			g.Go(func() error {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				docs[i], err = Decode(gctx, name, f, opts)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	if opts.Format == FormatGo {
		return writeGo(opts, docs)
	}
	return writeText(opts.Out, docs)
}

// Decode renders every item of the CBOR sequence read from r.
func Decode(ctx context.Context, name string, r io.Reader, opts Options) (Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	doc := Document{Name: name}

	// Raw bytes are only kept when the output needs them.
	var raw bytes.Buffer
	if opts.Format == FormatGo && !opts.Hex {
		r = io.TeeReader(r, &raw)
	}

	var d *cbor.Decoder
	switch {
	case opts.Hex:
		bb := cbor.GetByteBuffer()
		defer cbor.PutByteBuffer(bb)
		if _, err := bb.ReadFrom(r); err != nil {
			return doc, fmt.Errorf("read %s: %w", name, err)
		}
		data, err := hex.DecodeString(strings.Join(strings.Fields(string(bb.Bytes())), ""))
		if err != nil {
			return doc, fmt.Errorf("%s: %w", name, err)
		}
		raw.Write(data)
		d = cbor.NewDecoderBytes(data)
	case opts.BufferSize > 0:
		d = cbor.NewBufferedDecoder(r, opts.BufferSize)
	default:
		d = cbor.NewDecoder(r)
	}
	configure(d, opts)

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return doc, err
		}
		start := d.InputOffset()
		text, err := render(d, opts.Format)
		if err == io.EOF {
			logger.Debug("input done", "input", name, "items", i)
			return doc, nil
		}
		if err != nil {
			var de *cbor.DecodeError
			if errors.As(err, &de) {
				logger.Error("decode failed", "input", name, "item", i, "offset", de.Offset, "err", de.Err)
			}
			return doc, fmt.Errorf("%s: item %d: %w", name, i, err)
		}
		end := d.InputOffset()
		item := Item{Index: i, Offset: start, Text: text}
		if opts.Format == FormatGo {
			item.Hex = hex.EncodeToString(raw.Bytes()[start:end])
		}
		logger.Debug("decoded item", "input", name, "item", i, "offset", start, "size", end-start)
		doc.Items = append(doc.Items, item)
	}
}

func configure(d *cbor.Decoder, opts Options) {
	if opts.MaxDepth > 0 {
		d.SetMaxDepth(opts.MaxDepth)
	}
	d.SetMaxContainerLen(opts.MaxContainerLen)
	d.SetStrictDecode(opts.Strict)
	d.SetDeterministicDecode(opts.Deterministic)
	if opts.EachChunk {
		d.SetTextValidation(cbor.ValidateEachChunk)
	}
}

func render(d *cbor.Decoder, f Format) (string, error) {
	if f == FormatJSON {
		js, err := d.JSON()
		return string(js), err
	}
	return d.Diag()
}

// writeText prints one item per line, with a header per input when
// there is more than one.
func writeText(w io.Writer, docs []Document) error {
	bw := bufio.NewWriter(w)
	for _, doc := range docs {
		if len(docs) > 1 {
			fmt.Fprintf(bw, "==> %s <==\n", doc.Name)
		}
		for _, it := range doc.Items {
			bw.WriteString(it.Text)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

var fixturesTemplate = template.Must(template.New("fixtures.go.tpl").Funcs(template.FuncMap{
	"itemName": itemName,
}).ParseFS(tmplfs.FS, "fixtures.go.tpl"))

func itemName(doc string, index int) string {
	return filepath.Base(doc) + "#" + strconv.Itoa(index)
}

// writeGo renders the documents as a Go source file declaring a
// Fixtures table.
func writeGo(opts Options, docs []Document) error {
	pkg := opts.Package
	if pkg == "" {
		pkg = "fixtures"
	}
	data := struct {
		Package string
		Var     string
		Docs    []Document
	}{
		Package: pkg,
		Var:     "Fixtures",
		Docs:    docs,
	}

	var buf bytes.Buffer
	if err := fixturesTemplate.ExecuteTemplate(&buf, "fixtures.go.tpl", data); err != nil {
		return err
	}

	filename := opts.OutputPath
	if filename == "" {
		filename = "fixtures.go"
	}
	src, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		// Fall back to go/format if goimports fails.
		if formatted, ferr := format.Source(buf.Bytes()); ferr == nil {
			src = formatted
		} else {
			src = buf.Bytes()
		}
	}
	_, err = opts.Out.Write(src)
	return err
}
