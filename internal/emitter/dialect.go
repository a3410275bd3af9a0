// Package emitter renders bound rows into INSERT statements and writes them
// to per-table output streams.
//
// Each processing unit (one source document) gets its own SinkSet: one
// lazily opened .sql file per referenced table, wrapped in the dialect's
// transaction prologue and trailer. Row order across tables carries no
// referential meaning (the identifier columns do), so a consumer executes
// all files of a unit inside one transaction with constraints deferred, or
// parent tables' files first.
package emitter

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Dialect controls identifier quoting and the transaction framing written
// around each table file.
type Dialect interface {
	Name() string
	QuoteIdent(name string) string
	// Prologue lines are written once when a table file is opened.
	Prologue() []string
	// Trailer lines are written once when a table file is finalized.
	Trailer() []string
}

// ByName resolves a dialect name; the empty string selects postgres.
func ByName(name string) (Dialect, error) {
	switch name {
	case "", "postgres":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("emitter: unknown dialect %q", name)
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

// QuoteIdent delegates to pgx's identifier sanitizer, which double-quotes
// and escapes embedded quotes.
func (postgresDialect) QuoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func (postgresDialect) Prologue() []string { return []string{"BEGIN;"} }
func (postgresDialect) Trailer() []string  { return []string{"COMMIT;"} }

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// MySQL loads are dominated by index maintenance; unique checks are
// suspended for the duration of the file and restored afterwards.
func (mysqlDialect) Prologue() []string {
	return []string{"SET unique_checks=0;", "SET autocommit=0;", "BEGIN;"}
}

func (mysqlDialect) Trailer() []string {
	return []string{"COMMIT;", "SET unique_checks=1;", "SET autocommit=1;"}
}
