package textio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadPlainFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plain.txt")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("alpha"))
	require.NoError(t, w.WriteLine("beta"))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\n", string(raw))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	data, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\n", string(data))
}

func TestGzipRoundTripBySuffix(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lines.txt.gz")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("compressed line"))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, gzipMagic, raw[:2])

	// The reader sniffs the magic number; the suffix is irrelevant to it.
	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	data, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "compressed line\n", string(data))
}

func TestGzipBySniffNotSuffix(t *testing.T) {
	t.Parallel()

	// Compressed content under a plain name still reads transparently.
	path := filepath.Join(t.TempDir(), "disguised.txt")
	w, err := NewWriter(path, WithCompression())
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("hidden"))
	require.NoError(t, w.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	data, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "hidden\n", string(data))
}

func TestLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o600))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	var lines []string
	scanner := r.Lines()
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestReaderErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := NewReader(filepath.Join(dir, "absent.txt"))
	assert.Error(t, err)

	_, err = NewReader(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a file")
}

func TestStdStreamNames(t *testing.T) {
	t.Parallel()

	w, err := NewWriter("-")
	require.NoError(t, err)
	assert.Equal(t, "-", w.Name())
	require.NoError(t, w.Close(), "closing the stdout writer leaves the stream open")
}
