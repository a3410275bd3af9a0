package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xmlsql/internal/config"
	"xmlsql/internal/filenum"
	"xmlsql/internal/mapping"
	"xmlsql/internal/metrics"
	"xmlsql/internal/metrics/datadog"
	"xmlsql/internal/metrics/prompush"
	"xmlsql/internal/runner"
)

// main is the entry point for the xmlsql binary. It assembles the run
// configuration from flags, compiles and lints the mapping document,
// optionally initializes a metrics backend, and executes the conversion.
func main() {
	var (
		cfg               config.Run
		validate          bool
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
	)

	flag.StringVar(&cfg.Source, "x", "", "input XML file or directory")
	flag.StringVar(&cfg.ConfigFile, "c", "", "XML mapping configuration path")
	flag.StringVar(&cfg.OutputDir, "o", "sql", "output directory for the per-table .sql files")
	flag.StringVar(&cfg.RecordTag, "r", "", "record tag name")
	flag.StringVar(&cfg.IdentifierTag, "i", "", "identifier tag (or path beneath the record)")
	flag.StringVar(&cfg.Namespace, "n", "", `namespace qualifier, e.g. "{http://www.tei-c.org/ns/1.0}"`)
	flag.StringVar(&cfg.Scope, "p", "", "outer tag path bounding the scan for records (optional)")
	flag.StringVar(&cfg.Dialect, "m", "", "SQL dialect: postgres (default) or mysql")
	flag.StringVar(&cfg.FileNumberSheet, "l", "", "CSV mapping file names to file numbers (optional)")
	flag.BoolVar(&cfg.Recurse, "z", false, "descend into subdirectories when the input is a directory")
	flag.IntVar(&cfg.Workers, "workers", 1, "number of input files processed concurrently")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD address, e.g. 127.0.0.1:8125")
	verbose := flag.Bool("v", false, "enable verbose logs")
	quiet := flag.Bool("q", false, "suppress progress logs")

	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		log.Printf("configuration is invalid")
		os.Exit(1)
	}

	f, err := os.Open(cfg.ConfigFile)
	if err != nil {
		fatalf("open config: %v", err)
	}
	pm, err := mapping.Compile(f, cfg.Namespace)
	f.Close()
	if err != nil {
		fatalf("compile config: %v", err)
	}

	lint := mapping.Lint(pm, cfg.RecordPath())
	for _, iss := range lint {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(lint) {
		log.Printf("mapping configuration is invalid: %v", cfg.ConfigFile)
		os.Exit(1)
	}

	if validate {
		log.Printf("configuration is valid: %v", cfg.ConfigFile)
		os.Exit(0)
	}

	initMetrics(metricsBackendFlg, pushGatewayURLFlg, dogstatsdAddrFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	lookup, err := filenum.Load(cfg.FileNumberSheet)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := runner.Run(ctx, cfg, pm, lookup)
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("done: files=%d records=%d skipped=%d statements=%d failed=%d in %s",
		len(sum.Units), sum.Records, sum.Skipped, sum.Statements, sum.Failed,
		time.Since(start).Truncate(time.Millisecond))
	if sum.Failed > 0 {
		os.Exit(1)
	}
}

// initMetrics installs the selected metrics backend: flag → env → none.
func initMetrics(backendName, gwURL, ddAddr string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("xmlsql", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s url=%s", backendName, gwURL)
		metrics.SetBackend(b)

	case "datadog":
		if ddAddr == "" {
			ddAddr = os.Getenv("DOGSTATSD_ADDR")
		}
		if ddAddr == "" {
			ddAddr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: ddAddr, Namespace: "xmlsql."})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s addr=%s", backendName, ddAddr)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
