// Package config defines the run configuration for the XML-to-SQL converter
// and a lightweight validator over it.
//
// A Run is assembled from CLI flags (or tests) and passed through the
// program as a value; nothing in this package touches the filesystem. The
// mapping configuration document itself is compiled separately by
// internal/mapping.
package config

import "strings"

// Dialect names accepted by the emitter.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

// Run describes one invocation of the converter.
type Run struct {
	// Source is the input XML file or directory.
	Source string

	// ConfigFile is the path of the XML mapping configuration.
	ConfigFile string

	// OutputDir receives the per-table .sql files (and the run manifest).
	OutputDir string

	// Namespace is an optional namespace qualifier prepended to the first
	// segment of record, identifier, and scope paths, e.g.
	// "{http://www.tei-c.org/ns/1.0}".
	Namespace string

	// Scope optionally names the outer tag path bounding the region scanned
	// for records ("a/b"). Empty means the whole document is active.
	Scope string

	// RecordTag names the element that delimits one record.
	RecordTag string

	// IdentifierTag names the tag (or slash path beneath the record) whose
	// text is the record's primary identifier. When equal to RecordTag the
	// record's own text is used.
	IdentifierTag string

	// FileNumberSheet is an optional CSV mapping source file names to
	// numeric file identifiers.
	FileNumberSheet string

	// Dialect selects the SQL flavor of the emitted statements. Empty
	// defaults to postgres.
	Dialect string

	// Recurse extends directory discovery into subdirectories.
	Recurse bool

	// Workers bounds how many source files are processed concurrently.
	// Zero or one means strictly sequential.
	Workers int
}

// RecordPath returns the namespace-qualified path of the record tag.
func (r Run) RecordPath() string { return r.Namespace + r.RecordTag }

// IdentifierPath returns the namespace-qualified identifier path.
func (r Run) IdentifierPath() string { return r.Namespace + r.IdentifierTag }

// ScopePath returns the scope as namespace-qualified segments, or nil when
// no scope is configured. Each segment is qualified, matching how the
// traverser builds its tag stack.
func (r Run) ScopePath() []string {
	if strings.TrimSpace(r.Scope) == "" {
		return nil
	}
	parts := strings.Split(r.Scope, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, r.Namespace+p)
	}
	return out
}
