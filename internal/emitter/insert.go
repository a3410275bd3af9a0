package emitter

import "strings"

// RowData is one closed row ready for rendering: the identifier columns in
// assignment order, then the data columns in first-write order.
//
// Identifier values are pre-rendered SQL literals assigned by the binder
// (quoted record identifiers, bare counter integers) and are emitted
// verbatim. Column values are raw text and are escaped at render time; a
// nil value renders as the unquoted literal NULL.
type RowData struct {
	Table            string
	IdentifierNames  []string
	IdentifierValues []string
	ColumnNames      []string
	ColumnValues     []*string
}

// DBString escapes a value for embedding in a single-quoted SQL literal:
// single quotes and backslashes are doubled, embedded newlines stripped.
func DBString(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + DBString(s) + "'"
}

// RenderInsert renders one row as a complete INSERT statement, without a
// trailing newline.
func RenderInsert(d Dialect, row RowData) string {
	n := len(row.IdentifierNames) + len(row.ColumnNames)
	cols := make([]string, 0, n)
	vals := make([]string, 0, n)

	for i, name := range row.IdentifierNames {
		cols = append(cols, d.QuoteIdent(name))
		vals = append(vals, row.IdentifierValues[i])
	}
	for i, name := range row.ColumnNames {
		cols = append(cols, d.QuoteIdent(name))
		v := row.ColumnValues[i]
		if v == nil {
			vals = append(vals, "NULL")
		} else {
			vals = append(vals, QuoteLiteral(*v))
		}
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteIdent(row.Table))
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ","))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(vals, ","))
	b.WriteString(");")
	return b.String()
}
