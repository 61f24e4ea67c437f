package gtype

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarLineRoundTrips(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tag  Tag
		line string
		want any
	}{
		{TagNone, "null", nil},
		{TagBool, "true", true},
		{TagBool, "false", false},
		{TagText, "hello world", "hello world"},
		{TagFloat, "0.9", 0.9},
		{TagFloat, "-2.5", -2.5},
		{TagFloat, "1.0", 1.0},
		{TagFloat, "-3.0", -3.0},
		{TagInteger, "42", int64(42)},
		{TagInteger, "-7", int64(-7)},
		{TagLong, "123456789012345678901234567890", nil},
		{TagDateTime, "2024-06-01T13:45:09", time.Date(2024, 6, 1, 13, 45, 9, 0, time.UTC)},
		{TagDate, "2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.tag)+"/"+tc.line, func(t *testing.T) {
			t.Parallel()
			v, err := FromLine(tc.tag, tc.line)
			require.NoError(t, err)
			if tc.want != nil || tc.tag == TagNone {
				assert.Equal(t, tc.want, v)
			}

			line, err := ToLine(tc.tag, v)
			require.NoError(t, err)
			assert.Equal(t, tc.line, line)
		})
	}
}

func TestScalarConversionErrors(t *testing.T) {
	t.Parallel()

	_, err := FromLine(TagBool, "maybe")
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, TagBool, convErr.Tag)

	_, err = FromLine(TagInteger, "3.5")
	assert.Error(t, err)

	_, err = FromLine(TagDate, "01/02/2024")
	assert.Error(t, err)

	_, err = FromLine(Tag("bogus"), "x")
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
}

func TestLongUsesBigIntegers(t *testing.T) {
	t.Parallel()

	v, err := FromLine(TagLong, "123456789012345678901234567890")
	require.NoError(t, err)
	n, ok := v.(*big.Int)
	require.True(t, ok)

	line, err := ToLine(TagLong, n)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", line)
}

func TestMappingLineRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := FromLine(TagMapping, "a: 1, b: two")
	require.NoError(t, err)
	m := v.(map[string]any)
	assert.Equal(t, int64(1), m["a"])
	assert.Equal(t, "two", m["b"])

	line, err := ToLine(TagMapping, m)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1, "b": "two"}`, line)

	again, err := FromLine(TagMapping, line)
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestListLineRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := FromLine(TagList, "[1, 2.5, three, true]")
	require.NoError(t, err)
	l := v.([]any)
	require.Len(t, l, 4)
	assert.Equal(t, int64(1), l[0])

	line, err := ToLine(TagList, l)
	require.NoError(t, err)
	assert.Equal(t, `[1, 2.5, "three", true]`, line)

	again, err := FromLine(TagList, line)
	require.NoError(t, err)
	assert.Equal(t, l, again)
}

// Whole-valued floats must stay floats through the line form; a bare "1"
// would resolve back to an integer.
func TestWholeFloatsKeepTheirType(t *testing.T) {
	t.Parallel()

	line, err := ToLine(TagList, []any{1.0})
	require.NoError(t, err)
	assert.Equal(t, "[1.0]", line)

	again, err := FromLine(TagList, line)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0}, again)

	line, err = ToLine(TagMapping, map[string]any{"ratio": 2.0})
	require.NoError(t, err)
	assert.Equal(t, `{"ratio": 2.0}`, line)

	again, err = FromLine(TagMapping, line)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ratio": 2.0}, again)
}

func TestListFileForm(t *testing.T) {
	t.Parallel()

	in := "1\ntwo\n2024-06-01\n\n\n"
	v, err := Read(TagList, strings.NewReader(in))
	require.NoError(t, err)
	l := v.([]any)
	require.Len(t, l, 3, "trailing blank lines are ignored")
	assert.Equal(t, int64(1), l[0])
	assert.Equal(t, "two", l[1])

	var buf bytes.Buffer
	require.NoError(t, Write(TagList, []any{int64(1), "two"}, &buf))
	assert.Equal(t, "1\ntwo\n", buf.String())

	err = Write(TagList, []any{[]any{"nested"}}, &buf)
	assert.Error(t, err, "list file elements must be scalars")
}

func TestTableHasNoLineForm(t *testing.T) {
	t.Parallel()

	_, err := FromLine(TagTable, "x")
	var notDuctile *NotDuctileError
	require.ErrorAs(t, err, &notDuctile)

	_, err = ToLine(TagTable, &Table{Headings: []string{"a"}, Rows: [][]any{{int64(1)}}})
	assert.ErrorAs(t, err, &notDuctile)
}

func TestTableFileRoundTrip(t *testing.T) {
	t.Parallel()

	in := "name\tcount\nalpha\t3\nbeta\t4\n"
	v, err := Read(TagTable, strings.NewReader(in))
	require.NoError(t, err)
	table := v.(*Table)
	assert.Equal(t, []string{"name", "count"}, table.Headings)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "alpha", table.Rows[0][0])
	assert.Equal(t, int64(3), table.Rows[0][1])

	var buf bytes.Buffer
	require.NoError(t, Write(TagTable, table, &buf))
	assert.Equal(t, in, buf.String())
}

func TestTableWriteRejectsRaggedRows(t *testing.T) {
	t.Parallel()

	table := &Table{Headings: []string{"a", "b"}, Rows: [][]any{{int64(1)}}}
	err := Write(TagTable, table, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestValidateDuctile(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateDuctile(map[string]any{"a": []any{int64(1), "x"}}))
	assert.Error(t, ValidateDuctile("two\nlines"))
	assert.Error(t, ValidateDuctile(map[string]any{"k\n": "v"}))

	oneRow := &Table{Headings: []string{"a"}, Rows: [][]any{{int64(1)}}}
	assert.NoError(t, ValidateDuctile(map[string]any{"t": oneRow}),
		"single-row tables may nest inside ductile compounds")

	twoRows := &Table{Headings: []string{"a"}, Rows: [][]any{{int64(1)}, {int64(2)}}}
	assert.Error(t, ValidateDuctile(map[string]any{"t": twoRows}))
}

func TestValidateDuctileDetectsCycles(t *testing.T) {
	t.Parallel()

	m := map[string]any{}
	m["self"] = m
	var notDuctile *NotDuctileError
	require.ErrorAs(t, ValidateDuctile(m), &notDuctile)
	assert.Contains(t, notDuctile.Reason, "cycle")

	// Shared acyclic substructure is fine.
	shared := []any{int64(1)}
	assert.NoError(t, ValidateDuctile(map[string]any{"a": shared, "b": shared}))
}

func TestResolveScalarOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		tag  Tag
	}{
		{"null", TagNone},
		{"true", TagBool},
		{"5", TagInteger},
		{"99999999999999999999999999", TagLong},
		{"0.5", TagFloat},
		{"2024-06-01T10:00:00", TagDateTime},
		{"anything else", TagText},
	}
	for _, tc := range cases {
		tag, _ := ResolveScalar(tc.line)
		assert.Equal(t, tc.tag, tag, "line %q", tc.line)
	}
}

func TestChaperoneChecksRuntimeType(t *testing.T) {
	t.Parallel()

	c, err := Chaperone(TagInteger, int64(5))
	require.NoError(t, err)
	line, err := c.Line()
	require.NoError(t, err)
	assert.Equal(t, "5", line)

	_, err = Chaperone(TagInteger, "5")
	assert.Error(t, err)
}
