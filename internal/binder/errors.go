package binder

import "fmt"

// MissingIdentifierError reports a record that lacks its configured
// identifier. The record is skipped rather than emitted malformed.
type MissingIdentifierError struct {
	RecordPath     string
	IdentifierPath string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("binder: record %q has no identifier at %q", e.RecordPath, e.IdentifierPath)
}
