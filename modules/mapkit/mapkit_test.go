package mapkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gactlab/gaction/internal/docspec"
	"github.com/gactlab/gaction/internal/registry"
)

func TestInvert(t *testing.T) {
	t.Parallel()

	out, err := Invert(context.Background(), &InvertInput{Data: map[string]any{
		"a": int64(1),
		"b": "two",
		"c": true,
	}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"1":    "a",
		"two":  "b",
		"true": "c",
	}, out)
}

func TestInvertRejectsCompoundValues(t *testing.T) {
	t.Parallel()

	_, err := Invert(context.Background(), &InvertInput{Data: map[string]any{
		"a": []any{1, 2},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a scalar")
}

func TestInvertRejectsDuplicateValues(t *testing.T) {
	t.Parallel()

	_, err := Invert(context.Background(), &InvertInput{Data: map[string]any{
		"a": "same",
		"b": "same",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate value "same"`)
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
