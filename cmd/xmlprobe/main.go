// Command xmlprobe inspects an XML input and reports the element paths,
// example texts, and attribute values found under the record tag. It helps
// write mapping configurations for xmlsql and can emit a starter mapping
// document to prune by hand.
//
// Example usage:
//
//	# Inventory all paths under the record tag.
//	xmlprobe -i sample.xml -r PubmedArticle -pretty
//
//	# Guess the record tag, then print a starter mapping document.
//	xmlprobe -i sample.xml -generate-config > mapping.xml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"xmlsql/internal/inspect"
)

func main() {
	var (
		inputPath   = flag.String("i", "", "input XML file path")
		recordTag   = flag.String("r", "", "record tag (qualified if namespaced); guessed from the input when empty")
		generateCfg = flag.Bool("generate-config", false, "emit a starter mapping document instead of the JSON report")
		pretty      = flag.Bool("pretty", false, "pretty-print the JSON report")
	)
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing -i")
	}
	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer f.Close()

	rt := *recordTag
	if rt == "" {
		// Guess from a bounded prefix so huge files stay cheap.
		g, err := inspect.GuessRecordTag(io.LimitReader(f, 1<<20))
		if err != nil || g == "" {
			log.Fatalf("could not guess the record tag; pass -r")
		}
		rt = g
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			log.Fatalf("seek: %v", err)
		}
		log.Printf("record tag: %s (guessed)", rt)
	}

	rep, err := inspect.Discover(context.Background(), f, rt)
	if err != nil {
		log.Fatalf("discover: %v", err)
	}

	if *generateCfg {
		fmt.Print(inspect.StarterMapping(rep))
		return
	}
	printReport(rep, *pretty)
}

// printReport emits the inventory as JSON with paths in stable order.
func printReport(rep inspect.DiscoverReport, pretty bool) {
	type entry struct {
		Path string          `json:"path"`
		Data inspect.PathAgg `json:"data"`
	}
	out := struct {
		RecordTag    string  `json:"record_tag"`
		TotalRecords int     `json:"total_records"`
		Paths        []entry `json:"paths"`
	}{
		RecordTag:    rep.RecordTag,
		TotalRecords: rep.TotalRecords,
	}
	for _, p := range inspect.SortedPaths(rep) {
		out.Paths = append(out.Paths, entry{Path: p, Data: rep.Paths[p]})
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}
