package cmdtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gactlab/gaction/internal/model"
)

func spec(path ...string) *model.FunctionSpec {
	return &model.FunctionSpec{Path: path, Action: strings.Join(path, "_")}
}

func TestInsertAndLookup(t *testing.T) {
	t.Parallel()

	tree := New()
	require.NoError(t, tree.Insert(spec("text", "grep")))
	require.NoError(t, tree.Insert(spec("text", "head")))
	require.NoError(t, tree.Insert(spec("table", "head")))

	node, consumed := tree.Lookup([]string{"text", "grep", "-i", "x"})
	assert.Equal(t, 2, consumed)
	require.NotNil(t, node.Spec)
	assert.Equal(t, "text_grep", node.Spec.Action)

	node, consumed = tree.Lookup([]string{"text", "nope"})
	assert.Equal(t, 1, consumed)
	assert.Nil(t, node.Spec)
	assert.Equal(t, []string{"grep", "head"}, node.SubcommandNames())
}

func TestInsertConflicts(t *testing.T) {
	t.Parallel()

	tree := New()
	require.NoError(t, tree.Insert(spec("text", "grep")))

	assert.Error(t, tree.Insert(spec("text", "grep")), "duplicate command")
	assert.Error(t, tree.Insert(spec("text", "grep", "fast")), "terminal node reused as internal")
	assert.Error(t, tree.Insert(spec("text")), "internal node reused as terminal")
}

func TestWalkOrder(t *testing.T) {
	t.Parallel()

	tree := New()
	for _, s := range []*model.FunctionSpec{
		spec("zeta", "one"),
		spec("alpha", "two"),
		spec("alpha", "one"),
		spec("mid", "x", "y"),
	} {
		require.NoError(t, tree.Insert(s))
	}

	var visited []string
	require.NoError(t, tree.Walk(func(path []string, s *model.FunctionSpec) error {
		visited = append(visited, strings.Join(path, " "))
		return nil
	}))
	assert.Equal(t, []string{"alpha one", "alpha two", "mid x y", "zeta one"}, visited,
		"depth-first, alphabetical at every level")

	assert.Equal(t, visited, tree.Commands())
}

func TestNodeCommands(t *testing.T) {
	t.Parallel()

	tree := New()
	require.NoError(t, tree.Insert(spec("text", "grep")))
	require.NoError(t, tree.Insert(spec("text", "head")))
	require.NoError(t, tree.Insert(spec("table", "head")))

	node, consumed := tree.Lookup([]string{"text"})
	require.Equal(t, 1, consumed)
	assert.Equal(t, []string{"grep", "head"}, node.Commands(),
		"paths are relative to the node")
}

func TestWalkToleratesSharedNodes(t *testing.T) {
	t.Parallel()

	tree := New()
	require.NoError(t, tree.Insert(spec("alpha", "one")))
	require.NoError(t, tree.Insert(spec("beta", "two")))

	// Alias one subtree under a second parent; each node must still be
	// visited exactly once.
	tree.Root.Children["gamma"] = tree.Root.Children["alpha"]

	var visited []string
	require.NoError(t, tree.Walk(func(path []string, _ *model.FunctionSpec) error {
		visited = append(visited, strings.Join(path, " "))
		return nil
	}))
	assert.Equal(t, []string{"alpha one", "beta two"}, visited)
}
