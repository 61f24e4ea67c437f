package parser

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gactlab/gaction/internal/cmdtree"
	"github.com/gactlab/gaction/internal/docspec"
	"github.com/gactlab/gaction/internal/registry"
)

type barInput struct {
	InFile    string         `gact:"infile"`
	OutFile   string         `gact:"outfile"`
	Threshold float64        `gact:"threshold"`
	Invert    bool           `gact:"invert,default=false"`
	Data      map[string]any `gact:"data,default={}"`
}

const barDoc = `Apply a score threshold to a stream.

Args:
    infile (text): Input file.
    outfile (text): Output file.
    threshold (float): Score threshold.
    invert (bool): Keep scores below the threshold. [default: false]
    data (mapping): Extra settings.
`

func testTree(t *testing.T) *cmdtree.Tree {
	t.Helper()
	action := &registry.RegisteredAction{
		Doc:       barDoc,
		NewInput:  func() any { return new(barInput) },
		InputType: reflect.TypeOf(barInput{}),
		Fn:        func(ctx context.Context, in *barInput) error { return nil },
	}
	spec, err := docspec.Build("foo_bar", action, docspec.Defaults{})
	require.NoError(t, err)

	tree := cmdtree.New()
	require.NoError(t, tree.Insert(spec))
	return tree
}

func testParser(t *testing.T) *Parser {
	t.Helper()
	return New("prog", "1.2.3", testTree(t))
}

func TestParseFullInvocation(t *testing.T) {
	t.Parallel()

	p := testParser(t)
	var out bytes.Buffer
	inv, err := p.Parse([]string{"foo", "bar", "-i", "a.txt", "-o", "b.txt", "--threshold", "0.9"}, &out)
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.Equal(t, "a.txt", inv.Values["infile"])
	assert.Equal(t, "b.txt", inv.Values["outfile"])
	assert.Equal(t, 0.9, inv.Values["threshold"])
	assert.Equal(t, false, inv.Values["invert"], "absent switch is false")
	assert.Equal(t, map[string]any{}, inv.Values["data"], "compound default applies")
}

func TestParseDefaultsAndInlineValues(t *testing.T) {
	t.Parallel()

	p := testParser(t)
	var out bytes.Buffer
	inv, err := p.Parse([]string{"foo", "bar", "--threshold=0.5", "--invert"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "-", inv.Values["infile"], "single IO shape defaults to the stream")
	assert.Equal(t, "-", inv.Values["outfile"])
	assert.Equal(t, 0.5, inv.Values["threshold"])
	assert.Equal(t, true, inv.Values["invert"])
}

func TestParseUsageErrors(t *testing.T) {
	t.Parallel()

	p := testParser(t)
	var out bytes.Buffer

	_, err := p.Parse([]string{"foo", "bar"}, &out)
	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, "missing required option --threshold")

	_, err = p.Parse([]string{"foo", "bar", "--threshold", "abc"}, &out)
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, `invalid value "abc"`)

	_, err = p.Parse([]string{"foo", "bar", "--threshold"}, &out)
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, "requires a value")

	_, err = p.Parse([]string{"foo", "bar", "--thresold", "0.9"}, &out)
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, "unknown option --thresold")
	assert.Contains(t, usageErr.Message, "--threshold", "close flags are suggested")
}

func TestParseUnknownCommand(t *testing.T) {
	t.Parallel()

	p := testParser(t)
	var out bytes.Buffer
	_, err := p.Parse([]string{"foo", "baz"}, &out)

	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, `unknown command "baz"`)
	assert.Contains(t, usageErr.Message, `"bar"`, "near-miss suggestion")
	assert.Contains(t, usageErr.Usage, "prog foo", "usage names the reached prefix")
	assert.Contains(t, usageErr.Usage, "bar", "usage lists the valid subcommand")
}

func TestParseMissingCommand(t *testing.T) {
	t.Parallel()

	p := testParser(t)
	var out bytes.Buffer
	_, err := p.Parse(nil, &out)

	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Equal(t, "missing command", usageErr.Message)
	assert.Contains(t, usageErr.Usage, "foo")
}

func TestParseCompoundMutualExclusion(t *testing.T) {
	t.Parallel()

	p := testParser(t)
	var out bytes.Buffer

	inv, err := p.Parse([]string{"foo", "bar", "--threshold", "1", "--data", "a: 1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, inv.Values["data"])

	inv, err = p.Parse([]string{"foo", "bar", "--threshold", "1", "--data-file", "d.yaml"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "d.yaml", inv.FileValues["data"])
	_, inline := inv.Values["data"]
	assert.False(t, inline, "file-provided compound is loaded by the dispatcher")

	_, err = p.Parse([]string{"foo", "bar", "--threshold", "1", "--data", "a: 1", "--data-file", "d.yaml"}, &out)
	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, "mutually exclusive")
}

func TestParseInformationalRequests(t *testing.T) {
	t.Parallel()

	p := testParser(t)

	var out bytes.Buffer
	inv, err := p.Parse([]string{"-v"}, &out)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Equal(t, "prog 1.2.3\n", out.String())

	out.Reset()
	inv, err = p.Parse([]string{"commands"}, &out)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Equal(t, "foo bar\n", out.String())

	out.Reset()
	inv, err = p.Parse([]string{"help", "foo", "bar"}, &out)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Contains(t, out.String(), "usage: prog foo bar")
	assert.Contains(t, out.String(), "--threshold")

	out.Reset()
	inv, err = p.Parse([]string{"foo", "bar", "-h"}, &out)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Contains(t, out.String(), "Apply a score threshold to a stream.")
}

// Command listing works below the root too: the flag lists every terminal
// command reachable from the path prefix already consumed.
func TestParseCommandsAtPrefix(t *testing.T) {
	t.Parallel()

	p := testParser(t)

	var out bytes.Buffer
	inv, err := p.Parse([]string{"foo", "-c"}, &out)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Equal(t, "foo bar\n", out.String())

	out.Reset()
	inv, err = p.Parse([]string{"foo", "--commands"}, &out)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Equal(t, "foo bar\n", out.String())
}

func TestParseNegativeNumberValues(t *testing.T) {
	t.Parallel()

	p := testParser(t)
	var out bytes.Buffer
	inv, err := p.Parse([]string{"foo", "bar", "--threshold", "-0.5"}, &out)
	require.NoError(t, err)
	assert.Equal(t, -0.5, inv.Values["threshold"])
}
