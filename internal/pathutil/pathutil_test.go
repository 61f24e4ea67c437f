package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	got, err := Resolve("-")
	require.NoError(t, err)
	assert.Equal(t, "-", got, "the stream path passes through")

	got, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = Resolve("a/../b/c.txt")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "c.txt", filepath.Base(got))
	assert.NotContains(t, got, "..")
}

func TestResolveHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := Resolve("~/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes.txt"), got)

	got, err = Resolve("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	got, err := ResolveAll([]string{"-", "x.txt"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "-", got[0])
	assert.True(t, filepath.IsAbs(got[1]))
}
