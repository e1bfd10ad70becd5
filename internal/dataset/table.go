// Package dataset assembles sampled order lines into the flat output table
// and drives a full generation run.
package dataset

import (
	"github.com/samber/lo"

	"github.com/Rana718/retailsim/internal/types"
)

// Record is one flattened row, aligned with Columns. nil is a null cell.
type Record []any

func Flatten(l types.OrderLine) Record {
	rec := make(Record, len(Columns))
	for i, c := range Columns {
		rec[i] = c.Value(l)
	}
	return rec
}

// Strings renders the record the way the CSV writer does.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = Columns[i].Format(v)
	}
	return out
}

// Map keys the record by column name with JSON friendly values.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for i, v := range r {
		m[Columns[i].Name] = Columns[i].Plain(v)
	}
	return m
}

// Table is the materialized output of a run. Lines keep the typed view,
// Records the flat one; both are in generation order.
type Table struct {
	Lines   []types.OrderLine
	Records []Record
}

func NewTable(lines []types.OrderLine) *Table {
	return &Table{
		Lines:   lines,
		Records: lo.Map(lines, func(l types.OrderLine, _ int) Record { return Flatten(l) }),
	}
}

func (t *Table) Len() int {
	return len(t.Records)
}

func (t *Table) Columns() []Column {
	return Columns
}

// Head returns up to n leading records.
func (t *Table) Head(n int) []Record {
	if n > len(t.Records) {
		n = len(t.Records)
	}
	if n < 0 {
		n = 0
	}
	return t.Records[:n]
}

// Page returns the records in [offset, offset+limit), clamped to the table.
func (t *Table) Page(offset, limit int) []Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(t.Records) || limit <= 0 {
		return []Record{}
	}
	end := offset + limit
	if end > len(t.Records) {
		end = len(t.Records)
	}
	return t.Records[offset:end]
}
