// Package filenum loads the optional filename-to-file-number lookup sheet.
//
// The sheet is a two-column CSV of source file name and numeric identifier,
// loaded once per run; lookups for unknown names return a -1 sentinel so
// that downstream columns are still populated deterministically.
package filenum

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Absent is returned for files with no entry in the sheet.
const Absent = -1

// Lookup maps source file names to their external numeric identifiers.
// The zero value is a valid empty lookup.
type Lookup map[string]int

// Get returns the file number for name, or Absent when unknown.
func (l Lookup) Get(name string) int {
	if n, ok := l[name]; ok {
		return n
	}
	return Absent
}

// Load reads the lookup sheet at path. An empty path yields an empty
// (always-Absent) lookup.
func Load(path string) (Lookup, error) {
	if strings.TrimSpace(path) == "" {
		return Lookup{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filenum: open sheet: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a lookup sheet from r.
func Read(r io.Reader) (Lookup, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	out := Lookup{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("filenum: line %d: %w", line, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("filenum: line %d: file number %q is not an integer", line, rec[1])
		}
		out[strings.TrimSpace(rec[0])] = n
	}
}
