package binder

import (
	"fmt"
	"strconv"

	"xmlsql/internal/emitter"
	"xmlsql/internal/mapping"
)

// EmitFunc receives each row as it closes.
type EmitFunc func(emitter.RowData) error

// Registry tracks the open rows of one processing unit, at most one per
// table name. The depth-first walk never has two sibling rows of the same
// table open concurrently; a second open for the same table is therefore a
// detectable error rather than silent corruption.
type Registry struct {
	pm   *mapping.PathMapping
	emit EmitFunc
	open map[string]*Row
}

// NewRegistry creates an empty registry. Each processing unit gets a fresh
// one; registries are never shared across units.
func NewRegistry(pm *mapping.PathMapping, emit EmitFunc) *Registry {
	return &Registry{pm: pm, emit: emit, open: map[string]*Row{}}
}

// Open creates the row for table at path. When parent is non-nil the new
// row copies the parent's identifiers by value and, if the path declares a
// counter, allocates the next value from the parent and appends it as the
// row's own identifier.
func (g *Registry) Open(table string, parent *Row, path string) (*Row, error) {
	if _, ok := g.open[table]; ok {
		return nil, fmt.Errorf("binder: table %q already has an open row", table)
	}
	row := newRow(table, parent)
	if parent != nil {
		names, literals := parent.Identifiers()
		for i, n := range names {
			row.SetIdentifier(n, literals[i])
		}
		if cr, ok := g.pm.CounterOf[path]; ok {
			row.SetIdentifier(cr.ID, strconv.Itoa(parent.NextCounter(cr.ID)))
		}
	}
	g.open[table] = row
	return row, nil
}

// Get returns the open row for table, or nil.
func (g *Registry) Get(table string) *Row { return g.open[table] }

// SetColumn writes a column on the open row of table. The mapping matched,
// so a missing or closed row here is a configuration or engine defect and
// is reported rather than dropped.
func (g *Registry) SetColumn(table, column, value string) error {
	row, ok := g.open[table]
	if !ok {
		return fmt.Errorf("binder: column %q maps to table %q which has no open row", column, table)
	}
	row.SetColumn(column, value)
	return nil
}

// Close flushes the open row of table through the emit callback and
// discards it.
func (g *Registry) Close(table string) error {
	row, ok := g.open[table]
	if !ok {
		return fmt.Errorf("binder: close of table %q with no open row", table)
	}
	row.closed = true
	delete(g.open, table)
	return g.emit(row.Data())
}

// Abort discards all open rows without emitting them. Used when a record
// fails partway so the registry is clean for the next record.
func (g *Registry) Abort() {
	g.open = map[string]*Row{}
}
