package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gactlab/gaction/internal/cmdtree"
	"github.com/gactlab/gaction/internal/gtype"
	"github.com/gactlab/gaction/internal/model"
)

func sampleTree(t *testing.T) *cmdtree.Tree {
	t.Helper()

	tree := cmdtree.New()
	specs := []*model.FunctionSpec{
		{
			Path:    []string{"text", "grep"},
			Action:  "text_grep",
			Summary: "Filter lines by a pattern.",
			Params: []*model.ParamSpec{
				{Name: "infile", Type: gtype.TagText, Group: model.GroupIO,
					Flag: "-i", Metavar: "FILE", HasDefault: true, Default: "-"},
				{Name: "pattern", Type: gtype.TagText, Group: model.GroupOptional,
					Flag: "--pattern", Metavar: "TEXT", Required: true},
			},
		},
		{
			Path:    []string{"text", "head"},
			Action:  "text_head",
			Summary: "Keep the first lines of a stream.",
		},
	}
	for _, s := range specs {
		require.NoError(t, tree.Insert(s))
	}
	return tree
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	tree := sampleTree(t)
	path := filepath.Join(t.TempDir(), "commands.yaml")
	require.NoError(t, Save(path, "prog", "0.3.0", tree))

	doc, loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prog", doc.Program)
	assert.Equal(t, "0.3.0", doc.Version)
	require.Len(t, doc.Commands, 2)

	want := &File{Program: "prog", Version: "0.3.0"}
	require.NoError(t, tree.Walk(func(_ []string, s *model.FunctionSpec) error {
		want.Commands = append(want.Commands, s)
		return nil
	}))
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("artifact round trip mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, tree.Commands(), loaded.Commands(), "rebuilt tree matches the original")
}

func TestSaveCompressedArtifact(t *testing.T) {
	t.Parallel()

	tree := sampleTree(t)
	path := filepath.Join(t.TempDir(), "commands.yaml.gz")
	require.NoError(t, Save(path, "prog", "0.3.0", tree))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "a .gz path produces gzip output")

	doc, _, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Commands, 2)
}

func TestLoadCorruptArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	malformed := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("{unterminated\n"), 0o600))
	_, _, err := Load(malformed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing artifact")

	// Structurally valid YAML whose commands violate the tree invariants.
	duplicated := filepath.Join(dir, "dup.yaml")
	doc := `program: prog
version: 0.3.0
commands:
  - path: [text, grep]
    action: text_grep
  - path: [text, grep]
    action: text_grep
`
	require.NoError(t, os.WriteFile(duplicated, []byte(doc), 0o600))
	_, _, err = Load(duplicated)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt artifact")
}

func TestDiff(t *testing.T) {
	t.Parallel()

	a := &File{Commands: []*model.FunctionSpec{
		{Action: "text_grep"}, {Action: "text_head"},
	}}
	b := &File{Commands: []*model.FunctionSpec{
		{Action: "text_head"}, {Action: "table_head"},
	}}

	onlyA, onlyB := Diff(a, b)
	assert.Equal(t, []string{"text_grep"}, onlyA)
	assert.Equal(t, []string{"table_head"}, onlyB)
}
