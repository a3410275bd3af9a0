// Package mapping compiles the XML mapping configuration into the flat,
// path-keyed lookup tables that drive record binding.
//
// The configuration document is a small XML tree that mirrors the shape of
// the data to be parsed. Its node text and attributes declare where each
// element or attribute value lands in the relational output:
//
//	<article table="article">
//	  <title>article:title</title>
//	  <author table="author" ctr_id="author:seq" affiliation="author:affiliation:none"/>
//	</article>
//
// Node text of the form "table:column" maps the node's text value onto a
// column. The reserved attributes "table", "ctr_id", and "file_number" open
// tables, declare per-parent counters, and bind the run's file number; any
// other attribute declares an attribute-to-column mapping, optionally with a
// default value as a third colon-delimited component.
//
// All lookups are keyed by the slash-delimited element path from the
// configuration root. A configured namespace is prepended to the first path
// segment only, matching the way data paths are built during traversal.
package mapping

// ColumnRef identifies one target column.
type ColumnRef struct {
	Table  string
	Column string
}

// CounterRef identifies a per-parent-row counter and the table whose rows it
// numbers.
type CounterRef struct {
	Table string
	ID    string
}

// AttrDefault is an attribute-to-column mapping that also carries a literal
// default, applied only when the attribute is absent on a matching element.
type AttrDefault struct {
	Ref   ColumnRef
	Value string
}

// PathMapping is the compiled form of a mapping configuration. It is built
// once by Compile and never mutated afterwards; the traversal stage only
// reads from it.
type PathMapping struct {
	// TableOf maps an element path to the table it opens.
	TableOf map[string]string

	// ValueOf maps an element path to the column receiving its text value.
	ValueOf map[string]ColumnRef

	// ColumnOf maps an attribute path (element path + "/" + attribute name)
	// to the column receiving the attribute value.
	ColumnOf map[string]ColumnRef

	// AttrDefaults maps an element path to the defaults declared for its
	// attributes, by attribute name.
	AttrDefaults map[string]map[string]AttrDefault

	// CounterOf maps an element path to the counter allocated when that
	// path opens a new row.
	CounterOf map[string]CounterRef

	// FileNumberOf maps an element path to the column receiving the run's
	// file number.
	FileNumberOf map[string]ColumnRef

	// Columns lists, per table, the column names in declaration order.
	// Identifier columns are not included; the emitter always writes those
	// first.
	Columns map[string][]string
}

// registerColumn appends a column to a table's declared order, once.
func (pm *PathMapping) registerColumn(table, column string) {
	for _, c := range pm.Columns[table] {
		if c == column {
			return
		}
	}
	pm.Columns[table] = append(pm.Columns[table], column)
}

// Tables returns the set of table names referenced anywhere in the mapping.
func (pm *PathMapping) Tables() map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range pm.TableOf {
		out[t] = struct{}{}
	}
	for t := range pm.Columns {
		out[t] = struct{}{}
	}
	for _, r := range pm.CounterOf {
		out[r.Table] = struct{}{}
	}
	return out
}
