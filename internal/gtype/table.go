package gtype

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is the tabular compound type: an ordered heading row plus zero or
// more data rows of scalar cells.
type Table struct {
	Headings []string
	Rows     [][]any
}

func init() {
	register(&Descriptor{
		Tag:      TagTable,
		Compound: true,
		// Tables have no type-level single-line form: whether a particular
		// table can be flattened depends on its row count, which is only
		// known at run time.
		Ductile:  false,
		Fileable: true,
		fromLine: func(s string) (any, error) {
			return nil, &NotDuctileError{Reason: "type table has no single-line form"}
		},
		toLine: func(any) (string, error) {
			return "", &NotDuctileError{Reason: "type table has no single-line form"}
		},
		read:  tableRead,
		write: tableWrite,
	})
}

// tableRead parses the tab-separated file form of a table. The first record
// is the heading row; every cell is resolved through the scalar grammar.
func tableRead(r io.Reader) (any, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, conversionErr(TagTable, "", err)
	}
	if len(records) == 0 {
		return nil, conversionErr(TagTable, "", errors.New("table has no heading row"))
	}
	t := &Table{Headings: records[0]}
	for _, record := range records[1:] {
		row := make([]any, len(record))
		for i, cell := range record {
			_, row[i] = ResolveScalar(cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// tableWrite renders the tab-separated file form of a table.
func tableWrite(v any, w io.Writer) error {
	t, ok := v.(*Table)
	if !ok {
		return conversionErr(TagTable, fmt.Sprintf("%v", v), errors.New("value is not a table"))
	}
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(t.Headings); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if len(row) != len(t.Headings) {
			return conversionErr(TagTable, "", fmt.Errorf("row has %d cells, table has %d headings", len(row), len(t.Headings)))
		}
		record := make([]string, len(row))
		for i, cell := range row {
			line, err := cellLine(cell)
			if err != nil {
				return err
			}
			record[i] = line
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// cellLine renders one table cell as its canonical scalar line form.
func cellLine(cell any) (string, error) {
	d, err := ResolveValue(cell)
	if err != nil {
		return "", err
	}
	if d.Compound {
		return "", conversionErr(TagTable, fmt.Sprintf("%v", cell), errors.New("table cells must be scalars"))
	}
	return d.toLine(cell)
}

// tableToLine renders a single-row table as a YAML flow mapping of heading to
// cell, preserving column order. It backs the recursive flow rendering of
// compound values; the caller must already have validated ductility.
func tableToLine(t *Table) (string, error) {
	if len(t.Rows) != 1 {
		return "", &NotDuctileError{Reason: fmt.Sprintf("table has %d rows, single-line form requires exactly 1", len(t.Rows))}
	}
	row := t.Rows[0]
	if len(row) != len(t.Headings) {
		return "", conversionErr(TagTable, "", fmt.Errorf("row has %d cells, table has %d headings", len(row), len(t.Headings)))
	}
	parts := make([]string, len(t.Headings))
	for i, h := range t.Headings {
		elem, err := flowLine(row[i])
		if err != nil {
			return "", err
		}
		parts[i] = strconv.Quote(h) + ": " + elem
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}
