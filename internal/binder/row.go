// Package binder walks one captured record subtree at a time, resolving
// every element and attribute against the compiled path mappings, managing
// the open → populate → close lifecycle of nested table rows, and handing
// each closed row to the emitter.
package binder

import "xmlsql/internal/emitter"

// Row is one in-progress logical table record. It owns an ordered set of
// identifier columns (always emitted first) and an ordered set of data
// columns, keeps a non-owning reference to the row it was opened under, and
// hands out per-counter sequence values to the rows opened beneath it.
type Row struct {
	table  string
	parent *Row

	identNames []string
	identVals  map[string]string // name -> pre-rendered SQL literal

	colNames []string
	colVals  map[string]string

	counters map[string]int
	closed   bool
}

func newRow(table string, parent *Row) *Row {
	return &Row{
		table:     table,
		parent:    parent,
		identVals: map[string]string{},
		colVals:   map[string]string{},
		counters:  map[string]int{},
	}
}

// Table returns the name of the table this row belongs to.
func (r *Row) Table() string { return r.table }

// SetIdentifier records an identifier column. literal must already be a
// complete SQL literal; it is emitted verbatim. A repeated name overwrites
// the earlier value in place, keeping its original position.
func (r *Row) SetIdentifier(name, literal string) {
	if _, ok := r.identVals[name]; !ok {
		r.identNames = append(r.identNames, name)
	}
	r.identVals[name] = literal
}

// SetColumn records a data column value. A repeated name overwrites the
// earlier value in place, keeping its original position.
func (r *Row) SetColumn(name, value string) {
	if _, ok := r.colVals[name]; !ok {
		r.colNames = append(r.colNames, name)
	}
	r.colVals[name] = value
}

// NextCounter returns the next value of the named counter scoped to this
// row. The sequence starts at 1 on first request and dies with the row, so
// counters never leak across sibling rows.
func (r *Row) NextCounter(id string) int {
	r.counters[id]++
	return r.counters[id]
}

// Identifiers returns the identifier columns in assignment order.
func (r *Row) Identifiers() (names, literals []string) {
	names = append([]string(nil), r.identNames...)
	literals = make([]string, len(names))
	for i, n := range names {
		literals[i] = r.identVals[n]
	}
	return names, literals
}

// Data snapshots the row for rendering.
func (r *Row) Data() emitter.RowData {
	idNames, idVals := r.Identifiers()
	cols := append([]string(nil), r.colNames...)
	vals := make([]*string, len(cols))
	for i, c := range cols {
		v := r.colVals[c]
		vals[i] = &v
	}
	return emitter.RowData{
		Table:            r.table,
		IdentifierNames:  idNames,
		IdentifierValues: idVals,
		ColumnNames:      cols,
		ColumnValues:     vals,
	}
}
