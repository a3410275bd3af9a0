package emitter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"
)

// TableStats summarizes one finalized table file.
type TableStats struct {
	Path       string // file path relative to nothing; as opened
	Statements int    // INSERT statements written
	Checksum   uint64 // xxh3 of the complete file contents
}

// SinkSet manages the per-table output streams of one processing unit.
// Files are opened lazily on the first row for their table, prefixed with
// the dialect prologue, and closed with the trailer by Close.
//
// A SinkSet has exactly one writer (the unit's binder); it is not safe for
// concurrent use.
type SinkSet struct {
	dir     string
	dialect Dialect
	open    map[string]*tableSink
	order   []string
}

type tableSink struct {
	f     *os.File
	buf   *bufio.Writer
	hash  *xxh3.Hasher
	w     io.Writer // buf + hash
	path  string
	stmts int
}

// NewSinkSet creates a SinkSet writing <table>.sql files under dir. The
// directory is created if needed.
func NewSinkSet(dir string, d Dialect) (*SinkSet, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("emitter: output dir: %w", err)
	}
	return &SinkSet{dir: dir, dialect: d, open: map[string]*tableSink{}}, nil
}

// Write renders row and appends it to the row's table file, opening the
// file on first use.
func (s *SinkSet) Write(row RowData) error {
	sink, err := s.sinkFor(row.Table)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(sink.w, RenderInsert(s.dialect, row)+"\n"); err != nil {
		return fmt.Errorf("emitter: write %s: %w", sink.path, err)
	}
	sink.stmts++
	return nil
}

func (s *SinkSet) sinkFor(table string) (*tableSink, error) {
	if sink, ok := s.open[table]; ok {
		return sink, nil
	}
	path := filepath.Join(s.dir, table+".sql")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("emitter: open %s: %w", path, err)
	}
	sink := &tableSink{
		f:    f,
		buf:  bufio.NewWriter(f),
		hash: xxh3.New(),
		path: path,
	}
	sink.w = io.MultiWriter(sink.buf, sink.hash)
	for _, line := range s.dialect.Prologue() {
		if _, err := io.WriteString(sink.w, line+"\n"); err != nil {
			f.Close()
			return nil, fmt.Errorf("emitter: write %s: %w", path, err)
		}
	}
	s.open[table] = sink
	s.order = append(s.order, table)
	return sink, nil
}

// Close writes each open file's trailer, flushes, and closes it, returning
// per-table stats keyed by table name. Close is safe to call once; the
// SinkSet must not be used afterwards.
func (s *SinkSet) Close() (map[string]TableStats, error) {
	stats := make(map[string]TableStats, len(s.open))
	var firstErr error
	for _, table := range s.order {
		sink := s.open[table]
		for _, line := range s.dialect.Trailer() {
			if _, err := io.WriteString(sink.w, line+"\n"); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("emitter: finalize %s: %w", sink.path, err)
			}
		}
		if err := sink.buf.Flush(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("emitter: flush %s: %w", sink.path, err)
		}
		if err := sink.f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("emitter: close %s: %w", sink.path, err)
		}
		stats[table] = TableStats{
			Path:       sink.path,
			Statements: sink.stmts,
			Checksum:   sink.hash.Sum64(),
		}
	}
	s.open = map[string]*tableSink{}
	s.order = nil
	return stats, firstErr
}

// Tables returns the tables that have received rows so far, sorted.
func (s *SinkSet) Tables() []string {
	out := append([]string(nil), s.order...)
	sort.Strings(out)
	return out
}
