// Package inspect inventories the shape of an XML input to help write
// mapping configurations. It aggregates, per element path under the record
// tag, occurrence counts, example texts, and attribute value frequencies,
// and can synthesize a starter mapping document from the result.
//
// Discovery rides on the same streaming traversal as conversion, so it is
// tolerant of truncated inputs: only fully closed records are counted.
package inspect

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	xmlparser "xmlsql/internal/parser/xml"
)

// PathAgg aggregates statistics for one element path under the record tag.
type PathAgg struct {
	TotalCount   int                       `json:"total_count"`
	RecordsWith  int                       `json:"records_with"`
	MaxPerRecord int                       `json:"max_per_record"`
	ExampleTexts []string                  `json:"example_texts,omitempty"`
	AttrValues   map[string]map[string]int `json:"attr_values,omitempty"` // attr -> value -> count
}

// DiscoverReport is the full inventory of one input.
type DiscoverReport struct {
	RecordTag    string             `json:"record_tag"`
	TotalRecords int                `json:"total_records"`
	Paths        map[string]PathAgg `json:"paths"`
}

const maxExamples = 3

// Discover scans r and inventories all element paths under recordTag, which
// may carry a namespace qualifier just like a conversion's record tag.
func Discover(ctx context.Context, r io.Reader, recordTag string) (DiscoverReport, error) {
	if strings.TrimSpace(recordTag) == "" {
		return DiscoverReport{}, fmt.Errorf("inspect: record tag is required")
	}
	rep := DiscoverReport{RecordTag: recordTag, Paths: map[string]PathAgg{}}

	opts := xmlparser.Options{RecordTag: recordTag}
	err := xmlparser.StreamRecords(ctx, r, opts, func(rec *xmlparser.Element) error {
		rep.TotalRecords++
		perRec := map[string]*PathAgg{}
		for _, c := range rec.Children {
			walk(c, c.Name.Local, perRec)
		}
		for path, ra := range perRec {
			ga := rep.Paths[path]
			ga.TotalCount += ra.TotalCount
			ga.RecordsWith++
			if ra.TotalCount > ga.MaxPerRecord {
				ga.MaxPerRecord = ra.TotalCount
			}
			for _, ex := range ra.ExampleTexts {
				ga.ExampleTexts = addExample(ga.ExampleTexts, ex)
			}
			if len(ra.AttrValues) > 0 {
				if ga.AttrValues == nil {
					ga.AttrValues = map[string]map[string]int{}
				}
				for attr, vm := range ra.AttrValues {
					dst := ga.AttrValues[attr]
					if dst == nil {
						dst = map[string]int{}
						ga.AttrValues[attr] = dst
					}
					for val, n := range vm {
						dst[val] += n
					}
				}
			}
			rep.Paths[path] = ga
		}
		return nil
	})
	return rep, err
}

func walk(e *xmlparser.Element, path string, perRec map[string]*PathAgg) {
	ra := perRec[path]
	if ra == nil {
		ra = &PathAgg{}
		perRec[path] = ra
	}
	ra.TotalCount++
	if txt := e.Text(); txt != "" {
		ra.ExampleTexts = addExample(ra.ExampleTexts, txt)
	}
	for _, a := range e.Attr {
		if ra.AttrValues == nil {
			ra.AttrValues = map[string]map[string]int{}
		}
		vm := ra.AttrValues[a.Name.Local]
		if vm == nil {
			vm = map[string]int{}
			ra.AttrValues[a.Name.Local] = vm
		}
		vm[a.Value]++
	}
	for _, c := range e.Children {
		walk(c, path+"/"+c.Name.Local, perRec)
	}
}

func addExample(arr []string, val string) []string {
	if val == "" || len(arr) >= maxExamples {
		return arr
	}
	for _, x := range arr {
		if x == val {
			return arr
		}
	}
	return append(arr, val)
}

// GuessRecordTag picks the most frequent element directly under the document
// root, which is the record tag for the common feed shape. It reads the
// whole of r; callers usually pass a bounded prefix of large files.
func GuessRecordTag(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		depth    int
		rootSeen bool
		counts   = map[string]int{}
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF || isTruncErr(err) {
				break
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if !rootSeen {
				rootSeen = true
				continue
			}
			if depth == 2 {
				counts[t.Name.Local]++
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
			}
		}
	}
	best, bestN := "", 0
	for k, v := range counts {
		if v > bestN || (v == bestN && k < best) {
			best, bestN = k, v
		}
	}
	return best, nil
}

// isTruncErr mirrors the traversal's truncation tolerance for the raw
// decoder used by GuessRecordTag.
func isTruncErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "unexpected EOF") || strings.Contains(s, "XML syntax error")
}

// SortedPaths returns the report's paths in deterministic order.
func SortedPaths(rep DiscoverReport) []string {
	paths := make([]string, 0, len(rep.Paths))
	for p := range rep.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
