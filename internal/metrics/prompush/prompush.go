// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A batch converter has no long-lived HTTP endpoint to scrape, so collected
// metrics are pushed to a Pushgateway instance at the end of the run. All
// Prometheus-specific dependencies live here; the rest of the project only
// sees metrics.Backend.
package prompush

import (
	"fmt"

	"xmlsql/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	fileCounter  *prometheus.CounterVec // "xmlsql_files_total"
	fileDuration *prometheus.SummaryVec // "xmlsql_file_duration_seconds"

	recordCounter    *prometheus.CounterVec // "xmlsql_records_total"
	statementCounter *prometheus.CounterVec // "xmlsql_statements_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name. gatewayURL: base URL of the server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "xmlsql"
	}

	reg := prometheus.NewRegistry()

	// The job label doubles as the Pushgateway grouping key, so the vectors
	// here only carry the remaining dynamic labels.
	fileCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xmlsql_files_total",
			Help: "Input files processed, partitioned by file and status.",
		},
		[]string{"file", "status"},
	)
	fileDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "xmlsql_file_duration_seconds",
			Help:       "Per-file conversion duration in seconds, partitioned by file and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"file", "status"},
	)

	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xmlsql_records_total",
			Help: "Record-level counts per kind (bound, skipped, parse_errors).",
		},
		[]string{"kind"},
	)
	statementCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xmlsql_statements_total",
			Help: "INSERT statements written per destination table.",
		},
		[]string{"table"},
	)

	if err := reg.Register(fileCounter); err != nil {
		return nil, fmt.Errorf("prompush: register file counter: %w", err)
	}
	if err := reg.Register(fileDuration); err != nil {
		return nil, fmt.Errorf("prompush: register file summary: %w", err)
	}
	if err := reg.Register(recordCounter); err != nil {
		return nil, fmt.Errorf("prompush: register record counter: %w", err)
	}
	if err := reg.Register(statementCounter); err != nil {
		return nil, fmt.Errorf("prompush: register statement counter: %w", err)
	}

	return &Backend{
		gatewayURL:       gatewayURL,
		jobName:          jobName,
		reg:              reg,
		fileCounter:      fileCounter,
		fileDuration:     fileDuration,
		recordCounter:    recordCounter,
		statementCounter: statementCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "xmlsql_files_total":
		if b.fileCounter == nil {
			return
		}
		b.fileCounter.WithLabelValues(labels["file"], labels["status"]).Add(delta)

	case "xmlsql_records_total":
		if b.recordCounter == nil {
			return
		}
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)

	case "xmlsql_statements_total":
		if b.statementCounter == nil {
			return
		}
		b.statementCounter.WithLabelValues(labels["table"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "xmlsql_file_duration_seconds" || b.fileDuration == nil {
		return
	}
	b.fileDuration.WithLabelValues(labels["file"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
