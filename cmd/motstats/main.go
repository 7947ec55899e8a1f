package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"motstats/internal/config"
	"motstats/internal/metrics"
	"motstats/internal/metrics/prompush"
	"motstats/internal/pipeline"
	"motstats/internal/report"
	"motstats/internal/summary"
)

// main is the entry point for the MOT analysis binary. It loads the run
// config, optionally initializes a metrics backend, executes the batch run
// and renders the summary to stdout.
func main() {
	cfg := config.Load()
	verbose := cfg.Verbose

	// Decide metrics backend: flag → env → default.
	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err := prompush.NewBackend("motstats", cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v, backend=%v", cfg.PushgatewayURL, cfg.MetricsBackend)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", cfg.MetricsBackend)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.MetricsBackend)
	}

	start := time.Now()

	if verbose {
		log.Printf("run: results=%s test_type=%s test_class=%s max_rows=%d",
			cfg.ResultsCSV, cfg.TestType, cfg.TestClass, cfg.MaxRows)
	}

	out, err := pipeline.Run(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	rs := report.Summary{
		SampleRows:      out.Counts.RawRows,
		ParserSkipped:   out.Counts.ParserSkipped,
		BindSkipped:     out.Counts.BindSkipped,
		FilteredRows:    out.Counts.Filtered,
		PassRateAll:     out.PassRateAll,
		Removed:         out.Counts.Removed,
		Canonical:       out.Canonical,
		Quality:         out.Quality,
		DiscardedGroups: out.DiscardedGroups,
		OutcomeCodes:    out.OutcomeCodes,
	}
	if err := report.WriteText(os.Stdout, rs); err != nil {
		fatalf("write report: %v", err)
	}

	if cfg.PlotsDir != "" {
		ages := summary.AgeSamples(out.CanonicalTable)
		if err := report.SavePlots(cfg.PlotsDir, out.Canonical, ages); err != nil {
			log.Printf("plots: %v", err)
		}
		if err := report.SaveHTML(cfg.PlotsDir, out.Canonical); err != nil {
			log.Printf("plots: %v", err)
		}
	}

	if verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
