// Package config provides the run configuration model and helpers.
//
// This file adds a lightweight linter/validator for Run values. It performs
// static checks over an assembled Run and returns a list of issues (errors
// and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Run.
//
// Path is the flag or mapping path the finding refers to (e.g. "record",
// "article/author"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasError reports whether any issue in the slice is of error severity.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of a Run.
//
// It does not mutate the Run. Callers may decide whether to treat warnings
// as fatal or not.
func Validate(r Run) []Issue {
	var issues []Issue

	require := func(val, path, what string) {
		if strings.TrimSpace(val) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  what + " must not be empty",
			})
		}
	}

	require(r.Source, "source", "input XML file or directory")
	require(r.ConfigFile, "config", "mapping configuration path")
	require(r.OutputDir, "output", "output directory")
	require(r.RecordTag, "record", "record tag")
	require(r.IdentifierTag, "identifier", "identifier tag")

	switch r.Dialect {
	case "", DialectPostgres, DialectMySQL:
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dialect",
			Message:  fmt.Sprintf("unknown dialect %q (want %s or %s)", r.Dialect, DialectPostgres, DialectMySQL),
		})
	}

	if r.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "workers",
			Message:  "workers must not be negative",
		})
	}

	if strings.Contains(r.RecordTag, "/") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "record",
			Message:  "record must be a single tag name, not a path",
		})
	}

	if r.Namespace != "" && !strings.HasPrefix(r.Namespace, "{") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "namespace",
			Message:  `namespace is usually of the form "{uri}"; a bare prefix will not match namespaced elements`,
		})
	}

	return issues
}
