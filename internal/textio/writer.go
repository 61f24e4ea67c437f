package textio

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// Writer writes text to a file or standard output, optionally
// gzip-compressing it.
type Writer struct {
	name     string
	dst      io.Writer
	file     *os.File
	gz       *gzip.Writer
	closable bool
}

// Option configures a Writer.
type Option func(*options)

type options struct {
	compress bool
}

// WithCompression forces gzip compression regardless of the path extension.
func WithCompression() Option {
	return func(o *options) { o.compress = true }
}

// NewWriter opens the given path for writing. If path is "-" the writer
// writes to standard output and Close leaves it open. Output is
// gzip-compressed when requested or when the path ends in ".gz".
func NewWriter(path string, opts ...Option) (*Writer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	w := &Writer{name: path}
	if path == "-" {
		w.dst = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		w.file = f
		w.dst = f
		w.closable = true
		if strings.HasSuffix(path, ".gz") {
			o.compress = true
		}
	}
	if o.compress {
		w.gz = gzip.NewWriter(w.dst)
	}
	return w, nil
}

// Name returns the path the writer was opened with.
func (w *Writer) Name() string { return w.name }

// Write implements io.Writer over the (possibly compressed) text stream.
func (w *Writer) Write(p []byte) (int, error) {
	if w.gz != nil {
		return w.gz.Write(p)
	}
	return w.dst.Write(p)
}

// WriteLine writes s followed by a "\n" line ending.
func (w *Writer) WriteLine(s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}

// Close flushes any compression stream and releases the underlying file.
// Standard output is left open. Close must run on every exit path so that
// partially written compressed output is still well formed.
func (w *Writer) Close() error {
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			if w.closable {
				w.file.Close()
			}
			return err
		}
	}
	if w.closable {
		return w.file.Close()
	}
	return nil
}
