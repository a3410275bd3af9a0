// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the conversion pipeline.
//
// The package exposes a narrow interface (Backend) focused on counters and
// timing data, with a global pluggable backend that defaults to a no-op
// implementation. Metrics calls are therefore always safe even when no real
// backend is configured, and concrete metric systems (Prometheus, Datadog)
// stay isolated in subpackages.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordFile records one processed input file: its wall-clock duration plus
// a success/failure counter.
func RecordFile(job, file string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"file":   file,
		"status": status,
	}

	backend.IncCounter("xmlsql_files_total", 1, lbls)
	backend.ObserveHistogram("xmlsql_file_duration_seconds", d.Seconds(), lbls)
}

// RecordRecords increments a record-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields, e.g.:
//   - "bound"
//   - "skipped"
//   - "parse_errors"
func RecordRecords(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("xmlsql_records_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordStatements increments the emitted-statement counter for a table.
func RecordStatements(job, table string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("xmlsql_statements_total", float64(delta), Labels{
		"job":   job,
		"table": table,
	})
}
