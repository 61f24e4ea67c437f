// Package textkit provides the line-oriented text actions shipped with the
// default binary.
package textkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/gactlab/gaction/internal/ctxlog"
	"github.com/gactlab/gaction/internal/pathutil"
	"github.com/gactlab/gaction/internal/registry"
	"github.com/gactlab/gaction/internal/textio"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the text actions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("text_grep", &registry.RegisteredAction{
		Doc:       grepDoc,
		NewInput:  func() any { return new(GrepInput) },
		InputType: reflect.TypeOf(GrepInput{}),
		Fn:        Grep,
	})
	r.RegisterAction("text_head", &registry.RegisteredAction{
		Doc:       headDoc,
		NewInput:  func() any { return new(HeadInput) },
		InputType: reflect.TypeOf(HeadInput{}),
		Fn:        Head,
	})
	r.RegisterAction("text_concat", &registry.RegisteredAction{
		Doc:       concatDoc,
		NewInput:  func() any { return new(ConcatInput) },
		InputType: reflect.TypeOf(ConcatInput{}),
		Fn:        Concat,
	})
}

const grepDoc = `Filter the lines of a text stream by a fixed pattern.

Writes every input line containing the pattern to the output, in input
order.

Args:
    infile (text): Input text file.
    outfile (text): Output text file.
    pattern (text): Substring to match against each line.
    invert (bool): Write non-matching lines instead. [default: false]
`

// GrepInput defines the arguments for the text grep action.
type GrepInput struct {
	InFile  string `gact:"infile"`
	OutFile string `gact:"outfile"`
	Pattern string `gact:"pattern"`
	Invert  bool   `gact:"invert,default=false"`
}

// Grep is the handler for the 'text grep' command.
func Grep(ctx context.Context, input *GrepInput) error {
	logger := ctxlog.FromContext(ctx)

	r, w, err := openPair(input.InFile, input.OutFile)
	if err != nil {
		return err
	}
	defer r.Close()

	kept, total := 0, 0
	scanner := r.Lines()
	for scanner.Scan() {
		total++
		if strings.Contains(scanner.Text(), input.Pattern) != input.Invert {
			kept++
			if err := w.WriteLine(scanner.Text()); err != nil {
				w.Close()
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		w.Close()
		return err
	}
	logger.Debug("Grep finished.", "total", total, "kept", kept)
	return w.Close()
}

const headDoc = `Take the leading lines of a text stream.

Args:
    infile (text): Input text file.
    outfile (text): Output text file.
    count (integer): Number of lines to keep. [default: 10]
`

// HeadInput defines the arguments for the text head action.
type HeadInput struct {
	InFile  string `gact:"infile"`
	OutFile string `gact:"outfile"`
	Count   int64  `gact:"count,default=10"`
}

// Head is the handler for the 'text head' command.
func Head(ctx context.Context, input *HeadInput) error {
	if input.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", input.Count)
	}

	r, w, err := openPair(input.InFile, input.OutFile)
	if err != nil {
		return err
	}
	defer r.Close()

	var written int64
	scanner := r.Lines()
	for written < input.Count && scanner.Scan() {
		if err := w.WriteLine(scanner.Text()); err != nil {
			w.Close()
			return err
		}
		written++
	}
	if err := scanner.Err(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

const concatDoc = `Concatenate every regular file in a directory.

Files are concatenated in lexical name order. Compressed members are
decompressed transparently.

Args:
    indir (text): Directory holding the input files.
    outfile (text): Output text file.
`

// ConcatInput defines the arguments for the text concat action.
type ConcatInput struct {
	InDir   string `gact:"indir"`
	OutFile string `gact:"outfile"`
}

// Concat is the handler for the 'text concat' command.
func Concat(ctx context.Context, input *ConcatInput) error {
	logger := ctxlog.FromContext(ctx)

	dir, err := pathutil.Resolve(input.InDir)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out, err := pathutil.Resolve(input.OutFile)
	if err != nil {
		return err
	}
	w, err := textio.NewWriter(out)
	if err != nil {
		return err
	}

	for _, name := range names {
		r, err := textio.NewReader(filepath.Join(dir, name))
		if err != nil {
			w.Close()
			return err
		}
		scanner := r.Lines()
		for scanner.Scan() {
			if err := w.WriteLine(scanner.Text()); err != nil {
				r.Close()
				w.Close()
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			r.Close()
			w.Close()
			return err
		}
		r.Close()
	}
	logger.Debug("Concat finished.", "files", len(names))
	return w.Close()
}

// openPair resolves and opens an input/output path pair.
func openPair(in, out string) (*textio.Reader, *textio.Writer, error) {
	inPath, err := pathutil.Resolve(in)
	if err != nil {
		return nil, nil, err
	}
	outPath, err := pathutil.Resolve(out)
	if err != nil {
		return nil, nil, err
	}
	r, err := textio.NewReader(inPath)
	if err != nil {
		return nil, nil, err
	}
	w, err := textio.NewWriter(outPath)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, w, nil
}
