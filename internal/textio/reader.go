// Package textio provides the text-stream collaborators used by the
// command-line framework: readers with transparent gzip decompression and
// writers with optional gzip compression. The path "-" denotes standard
// input or standard output. Writers always use "\n" line endings.
package textio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// gzipMagic is the two-byte magic number that opens every gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// Reader reads text from a file or standard input, transparently
// decompressing gzip content.
type Reader struct {
	name     string
	src      io.ReadCloser
	buffered *bufio.Reader
	gz       *gzip.Reader
	closable bool
}

// NewReader opens the given path for reading. If path is "-" the reader
// reads from standard input and Close leaves it open.
func NewReader(path string) (*Reader, error) {
	r := &Reader{name: path}
	if path == "-" {
		r.src = os.Stdin
	} else {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("not a file: %s", path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		r.src = f
		r.closable = true
	}

	r.buffered = bufio.NewReader(r.src)

	// Sniff the first two bytes for the gzip magic number. Peek does not
	// consume, so plain text passes through untouched.
	head, err := r.buffered.Peek(2)
	if err == nil && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(r.buffered)
		if err != nil {
			if r.closable {
				r.src.Close()
			}
			return nil, err
		}
		r.gz = gz
	}
	return r, nil
}

// Name returns the path the reader was opened with.
func (r *Reader) Name() string { return r.name }

// Read implements io.Reader over the (possibly decompressed) text stream.
func (r *Reader) Read(p []byte) (int, error) {
	if r.gz != nil {
		return r.gz.Read(p)
	}
	return r.buffered.Read(p)
}

// ReadAll consumes the remainder of the text stream.
func (r *Reader) ReadAll() ([]byte, error) {
	return io.ReadAll(r)
}

// Lines returns a line scanner over the text stream.
func (r *Reader) Lines() *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return scanner
}

// Close releases the underlying file. Standard input is left open.
func (r *Reader) Close() error {
	var gzErr error
	if r.gz != nil {
		gzErr = r.gz.Close()
	}
	if r.closable {
		if err := r.src.Close(); err != nil {
			return err
		}
	}
	return gzErr
}
