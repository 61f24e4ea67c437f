package tablekit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gactlab/gaction/internal/docspec"
	"github.com/gactlab/gaction/internal/registry"
)

const sampleTable = "name\tscore\trank\nalice\t0.9\t1\nbob\t0.7\t2\ncarol\t0.4\t3\n"

func writeTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.tsv")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o600))
	return path
}

func TestHead(t *testing.T) {
	t.Parallel()

	table, err := Head(context.Background(), &HeadInput{InFile: writeTable(t), Count: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score", "rank"}, table.Headings)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "alice", table.Rows[0][0])

	_, err = Head(context.Background(), &HeadInput{InFile: writeTable(t), Count: -1})
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	table, err := Select(context.Background(), &SelectInput{
		InFile:  writeTable(t),
		Columns: []string{"rank", "name"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"rank", "name"}, table.Headings)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []any{int64(1), "alice"}, table.Rows[0],
		"cells keep their resolved scalar types")
}

func TestSelectUnknownColumn(t *testing.T) {
	t.Parallel()

	_, err := Select(context.Background(), &SelectInput{
		InFile:  writeTable(t),
		Columns: []string{"missing"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no column "missing"`)
}

func TestModuleSpecsBuild(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	(&Module{}).Register(reg)

	for _, name := range reg.Names() {
		_, err := docspec.Build(name, reg.Action(name), docspec.Defaults{Threads: 1})
		assert.NoError(t, err, name)
	}
}
