// Package config centralizes process configuration. All tunables are sourced
// from command-line flags with environment-variable fallbacks, so `-help`
// shows every knob and its default.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-max_rows=100"})
package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds all process configuration derived from flags and environment
// variables. All fields are plain values so the struct can be freely copied
// after construction.
type Config struct {
	// Inputs.
	ResultsCSV     string // Path to the pipe-separated test_result extract.
	TestTypeCSV    string // Path to the mdr_test_type lookup.
	TestOutcomeCSV string // Path to the mdr_test_outcome lookup.

	// Sampling and filtering.
	MaxRows   int    // Row cap on the primary extract; 0 reads everything.
	TestType  string // Test-type code to keep (normal tests).
	TestClass string // Test-class code to keep (cars).

	// Outputs.
	SkippedDir string // Directory for the skipped-rows CSV log.
	PlotsDir   string // Directory for chart artifacts; empty disables them.

	// Metrics.
	MetricsBackend string // "pushgateway" or "none".
	PushgatewayURL string // Pushgateway base URL.

	Verbose bool // Extra progress logging.
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag to
// an environment-variable fallback via getenv, and then parsing args.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	envOr := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOr := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}

	fs.StringVar(&cfg.ResultsCSV, "results_csv", envOr("RESULTS_CSV", "data/test_result.csv"), "Path to the pipe-separated test result extract")
	fs.StringVar(&cfg.TestTypeCSV, "test_type_csv", envOr("TEST_TYPE_CSV", "data/mdr_test_type.csv"), "Path to the test type lookup")
	fs.StringVar(&cfg.TestOutcomeCSV, "test_outcome_csv", envOr("TEST_OUTCOME_CSV", "data/mdr_test_outcome.csv"), "Path to the test outcome lookup")

	fs.IntVar(&cfg.MaxRows, "max_rows", intEnvOr("MAX_ROWS", 1_000_000), "Max rows to sample from the extract (0 = all)")
	fs.StringVar(&cfg.TestType, "test_type", envOr("TEST_TYPE", "NT"), "Test type code to keep")
	fs.StringVar(&cfg.TestClass, "test_class", envOr("TEST_CLASS", "4"), "Test class code to keep")

	fs.StringVar(&cfg.SkippedDir, "skipped_dir", envOr("SKIPPED_DIR", "./skipped"), "Directory for the skipped-rows CSV log")
	fs.StringVar(&cfg.PlotsDir, "plots_dir", envOr("PLOTS_DIR", ""), "Directory for chart artifacts (empty = no charts)")

	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOr("METRICS_BACKEND", "none"), "Metrics backend: pushgateway or none")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", envOr("PUSHGATEWAY_URL", "http://localhost:9091"), "Pushgateway base URL")

	fs.BoolVar(&cfg.Verbose, "v", false, "enable verbose logs")

	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	return cfg
}

// Load is the production entry point: process flags, real environment.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}
