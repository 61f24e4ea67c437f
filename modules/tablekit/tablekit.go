// Package tablekit provides the tabular actions shipped with the default
// binary.
package tablekit

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gactlab/gaction/internal/gtype"
	"github.com/gactlab/gaction/internal/pathutil"
	"github.com/gactlab/gaction/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the table actions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("table_head", &registry.RegisteredAction{
		Doc:       headDoc,
		NewInput:  func() any { return new(HeadInput) },
		InputType: reflect.TypeOf(HeadInput{}),
		Fn:        Head,
	})
	r.RegisterAction("table_select", &registry.RegisteredAction{
		Doc:       selectDoc,
		NewInput:  func() any { return new(SelectInput) },
		InputType: reflect.TypeOf(SelectInput{}),
		Fn:        Select,
	})
}

const headDoc = `Take the leading rows of a table.

Args:
    infile (text): Input table file.
    count (integer): Number of rows to keep. [default: 10]

Returns:
    table: The input table truncated to its first rows.
`

// HeadInput defines the arguments for the table head action.
type HeadInput struct {
	InFile string `gact:"infile"`
	Count  int64  `gact:"count,default=10"`
}

// Head is the handler for the 'table head' command.
func Head(ctx context.Context, input *HeadInput) (*gtype.Table, error) {
	if input.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", input.Count)
	}
	table, err := loadTable(input.InFile)
	if err != nil {
		return nil, err
	}
	if int64(len(table.Rows)) > input.Count {
		table.Rows = table.Rows[:input.Count]
	}
	return table, nil
}

const selectDoc = `Project a table onto a subset of its columns.

Args:
    infile (text): Input table file.
    columns (list): Headings of the columns to keep, in output order.

Returns:
    table: The projected table.
`

// SelectInput defines the arguments for the table select action.
type SelectInput struct {
	InFile  string   `gact:"infile"`
	Columns []string `gact:"columns"`
}

// Select is the handler for the 'table select' command.
func Select(ctx context.Context, input *SelectInput) (*gtype.Table, error) {
	table, err := loadTable(input.InFile)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	for i, h := range table.Headings {
		index[h] = i
	}
	cols := make([]int, len(input.Columns))
	for i, name := range input.Columns {
		at, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("no column %q in table", name)
		}
		cols[i] = at
	}

	out := &gtype.Table{Headings: append([]string{}, input.Columns...)}
	for _, row := range table.Rows {
		projected := make([]any, len(cols))
		for i, at := range cols {
			projected[i] = row[at]
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}

func loadTable(path string) (*gtype.Table, error) {
	resolved, err := pathutil.Resolve(path)
	if err != nil {
		return nil, err
	}
	v, err := gtype.FromFile(gtype.TagTable, resolved)
	if err != nil {
		return nil, err
	}
	return v.(*gtype.Table), nil
}
