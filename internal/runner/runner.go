// Package runner drives whole conversions: it discovers input files, fans
// them out over a bounded worker pool, and aggregates per-file results into
// a run summary and an on-disk manifest.
//
// Each input file is one processing unit with its own binder and sink set,
// so units never share mutable state and can run concurrently.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"xmlsql/internal/binder"
	"xmlsql/internal/config"
	"xmlsql/internal/datasource/file"
	"xmlsql/internal/emitter"
	"xmlsql/internal/filenum"
	"xmlsql/internal/mapping"
	"xmlsql/internal/metrics"
	xmlparser "xmlsql/internal/parser/xml"
)

// TableResult describes one finalized table file of a unit.
type TableResult struct {
	File       string `json:"file"`
	Statements int    `json:"statements"`
	Checksum   string `json:"checksum"`
}

// UnitResult is the outcome of one input file.
type UnitResult struct {
	Source  string                 `json:"source"`
	Records int                    `json:"records"`
	Skipped int                    `json:"skipped"`
	Failed  bool                   `json:"failed,omitempty"`
	Tables  map[string]TableResult `json:"tables"`
}

// Summary aggregates a whole run.
type Summary struct {
	Units      []UnitResult
	Records    int
	Skipped    int
	Statements int
	Failed     int
	Duration   time.Duration
}

// sinkError marks failures writing output, which abort the run instead of
// being skipped like record-level binding failures.
type sinkError struct{ err error }

func (e *sinkError) Error() string { return e.err.Error() }
func (e *sinkError) Unwrap() error { return e.err }

// Run executes one conversion. pm is the compiled mapping and lookup the
// (possibly empty) file-number sheet. Malformed input files are reported in
// the summary and do not stop the remaining units; output errors and
// context cancellation do.
func Run(ctx context.Context, cfg config.Run, pm *mapping.PathMapping, lookup filenum.Lookup) (*Summary, error) {
	start := time.Now()

	if err := raiseFileLimit(); err != nil {
		log.Printf("runner: could not raise open file limit: %v", err)
	}

	files, err := file.ListXML(cfg.Source, cfg.Recurse)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("runner: no XML files under %s", cfg.Source)
	}

	dialect, err := emitter.ByName(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	outDirs := unitOutputDirs(cfg.OutputDir, files)
	job := filepath.Base(cfg.Source)

	units := make([]UnitResult, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			res, err := processUnit(gctx, cfg, pm, dialect, lookup, job, path, outDirs[i])
			if err != nil {
				return err
			}
			mu.Lock()
			units[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{Units: units, Duration: time.Since(start)}
	for _, u := range units {
		sum.Records += u.Records
		sum.Skipped += u.Skipped
		if u.Failed {
			sum.Failed++
		}
		for _, t := range u.Tables {
			sum.Statements += t.Statements
		}
	}

	if err := writeManifest(cfg, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// processUnit converts one input file. Returned errors abort the whole run;
// per-record failures and malformed input are folded into the UnitResult.
func processUnit(ctx context.Context, cfg config.Run, pm *mapping.PathMapping, dialect emitter.Dialect, lookup filenum.Lookup, job, path, outDir string) (UnitResult, error) {
	began := time.Now()
	res := UnitResult{Source: path, Tables: map[string]TableResult{}}

	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return res, err
	}
	defer rc.Close()

	sinks, err := emitter.NewSinkSet(outDir, dialect)
	if err != nil {
		return res, err
	}

	emit := func(row emitter.RowData) error {
		if err := sinks.Write(row); err != nil {
			return &sinkError{err}
		}
		return nil
	}
	bind := binder.New(pm, emit, cfg.RecordPath(), cfg.IdentifierPath(), lookup.Get(filepath.Base(path)))

	opts := xmlparser.Options{RecordTag: cfg.RecordPath(), Scope: cfg.ScopePath()}
	streamErr := xmlparser.StreamRecords(ctx, rc, opts, func(rec *xmlparser.Element) error {
		if err := bind.BindRecord(rec); err != nil {
			var se *sinkError
			if errors.As(err, &se) {
				return se.err
			}
			res.Skipped++
			log.Printf("runner: %s: skipping record: %v", path, err)
			return nil
		}
		res.Records++
		return nil
	})

	switch {
	case streamErr == nil:
	case errors.Is(streamErr, xmlparser.ErrMalformed):
		// Keep the rows emitted before the damage; mark the unit failed.
		res.Failed = true
		log.Printf("runner: %s: abandoned: %v", path, streamErr)
	default:
		sinks.Close()
		return res, streamErr
	}

	stats, err := sinks.Close()
	if err != nil {
		return res, err
	}
	for table, st := range stats {
		res.Tables[table] = TableResult{
			File:       st.Path,
			Statements: st.Statements,
			Checksum:   fmt.Sprintf("%016x", st.Checksum),
		}
		metrics.RecordStatements(job, table, int64(st.Statements))
	}

	var unitErr error
	if res.Failed {
		unitErr = xmlparser.ErrMalformed
	}
	metrics.RecordFile(job, filepath.Base(path), unitErr, time.Since(began))
	metrics.RecordRecords(job, "bound", int64(res.Records))
	metrics.RecordRecords(job, "skipped", int64(res.Skipped))
	if res.Failed {
		metrics.RecordRecords(job, "parse_errors", 1)
	}
	return res, nil
}

// unitOutputDirs assigns each input its output directory. A single input
// writes directly into the output dir; multiple inputs each get a
// subdirectory named after the file stem so their per-table files cannot
// collide. Duplicate stems are disambiguated by position.
func unitOutputDirs(outDir string, files []string) []string {
	if len(files) == 1 {
		return []string{outDir}
	}
	out := make([]string, len(files))
	seen := map[string]int{}
	for i, f := range files {
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if n := seen[stem]; n > 0 {
			out[i] = filepath.Join(outDir, fmt.Sprintf("%s_%d", stem, n))
		} else {
			out[i] = filepath.Join(outDir, stem)
		}
		seen[stem]++
	}
	return out
}
